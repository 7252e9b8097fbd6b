package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobPriority selects which queue a job waits in. Workers always drain
// higher-priority queues first.
type JobPriority int

const (
	PriorityHigh JobPriority = iota
	PriorityNormal
	PriorityLow

	priorityCount
)

// String returns the priority name for logging
func (p JobPriority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

// JobKind represents the type of background work to run
type JobKind string

const (
	// JobKindCollectProducts pulls the product feed of one wholesaler account
	JobKindCollectProducts JobKind = "COLLECT_PRODUCTS"
	// JobKindSyncListings pushes stale listings to one marketplace channel
	JobKindSyncListings JobKind = "SYNC_LISTINGS"
	// JobKindPullOrders ingests new orders from one marketplace channel
	JobKindPullOrders JobKind = "PULL_ORDERS"
	// JobKindForwardOrders places confirmed orders with their wholesalers
	JobKindForwardOrders JobKind = "FORWARD_ORDERS"
	// JobKindRefreshTracking polls wholesaler order status for in-transit orders
	JobKindRefreshTracking JobKind = "REFRESH_TRACKING"
	// JobKindRebuildDashboard recomputes and caches the dashboard snapshot
	JobKindRebuildDashboard JobKind = "REBUILD_DASHBOARD"
	// JobKindPruneNotifications deletes read notifications past retention
	JobKindPruneNotifications JobKind = "PRUNE_NOTIFICATIONS"
)

// Job represents one unit of scheduled background work
type Job struct {
	ID   uuid.UUID
	Kind JobKind
	// Source is set for wholesaler-scoped jobs (collection)
	Source integration.SourceCode
	// Channel is set for marketplace-scoped jobs (listing sync, order pull)
	Channel integration.ChannelCode
	// WindowStart and WindowEnd bound order pull jobs
	WindowStart time.Time
	WindowEnd   time.Time

	Priority JobPriority

	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a new job instance
func NewJob(kind JobKind, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Kind:       kind,
		Priority:   PriorityNormal,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// WithPriority sets the queue the job waits in
func (j *Job) WithPriority(priority JobPriority) *Job {
	j.Priority = priority
	return j
}

// ForSource scopes the job to a wholesaler platform
func (j *Job) ForSource(source integration.SourceCode) *Job {
	j.Source = source
	return j
}

// ForChannel scopes the job to a marketplace channel
func (j *Job) ForChannel(channel integration.ChannelCode) *Job {
	j.Channel = channel
	return j
}

// WithWindow bounds the job to a time window
func (j *Job) WithWindow(start, end time.Time) *Job {
	j.WindowStart = start
	j.WindowEnd = end
	return j
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry after the delay
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}
