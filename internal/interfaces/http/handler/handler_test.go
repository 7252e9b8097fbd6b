package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appnotification "github.com/sunwoo0067/yooni-03-sub011/internal/application/notification"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/notification"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/dto"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping() error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewSystemHandler(&fakePinger{}, "1.2.3").RegisterRoutes(engine)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1.2.3")
}

func TestSystemHandler_ReadyFailsWhenDatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewSystemHandler(&fakePinger{err: errors.New("connection refused")}, "dev").RegisterRoutes(engine)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database unreachable")
}

type fakeNotificationStore struct {
	rows map[uuid.UUID]*notification.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{rows: make(map[uuid.UUID]*notification.Notification)}
}

func (s *fakeNotificationStore) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("notification not found")
	}
	copied := *row
	return &copied, nil
}

func (s *fakeNotificationStore) FindAll(_ context.Context, _ shared.Filter) ([]notification.Notification, int64, error) {
	out := make([]notification.Notification, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (s *fakeNotificationStore) FindUnread(_ context.Context, _ int) ([]notification.Notification, error) {
	return nil, nil
}

func (s *fakeNotificationStore) CountUnread(_ context.Context) (int64, error) {
	var count int64
	for _, row := range s.rows {
		if row.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) Save(_ context.Context, n *notification.Notification) error {
	copied := *n
	s.rows[n.ID] = &copied
	return nil
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context) error { return nil }

func (s *fakeNotificationStore) DeleteOlderThan(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func newNotificationEngine(store *fakeNotificationStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	service := appnotification.NewService(store, zap.NewNop())
	api := engine.Group("/api/v1")
	NewNotificationHandler(service).RegisterRoutes(api)
	return engine
}

func TestNotificationHandler_ListEnvelope(t *testing.T) {
	store := newFakeNotificationStore()
	row, err := notification.New(notification.KindSoldOut, shared.SeverityMedium, "재고 소진: 무선 마우스", "")
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), row))

	engine := newNotificationEngine(store)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notifications?page=1&page_size=20", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(1), body.Meta.Total)
}

func TestNotificationHandler_MarkReadUnknownID(t *testing.T) {
	engine := newNotificationEngine(newFakeNotificationStore())

	w := httptest.NewRecorder()
	target := "/api/v1/notifications/" + uuid.NewString() + "/read"
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, target, nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestNotificationHandler_MalformedID(t *testing.T) {
	engine := newNotificationEngine(newFakeNotificationStore())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/not-a-uuid/read", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}
