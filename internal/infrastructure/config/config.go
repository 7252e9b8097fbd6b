package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Scheduler  SchedulerConfig
	Collection CollectionConfig
	Sync       SyncConfig
	Dashboard  DashboardConfig
	Storage    StorageConfig
	Telemetry  TelemetryConfig
	OwnerClan  WholesalerConfig
	Domeggook  WholesalerConfig
	Coupang    ChannelConfig
	SmartStore ChannelConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// SchedulerConfig holds the background task runner configuration
type SchedulerConfig struct {
	Enabled        bool
	WorkerCount    int
	QueueSize      int
	JobTimeout     time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// CollectionConfig holds product collection settings
type CollectionConfig struct {
	Enabled      bool
	CronSchedule string        // when to run the full collection sweep
	Interval     time.Duration // incremental collection period between sweeps
	PageSize     int
	// ImageMirrorEnabled controls copying wholesaler images to object storage
	ImageMirrorEnabled bool
}

// SyncConfig holds marketplace synchronization settings
type SyncConfig struct {
	Enabled           bool
	ListingInterval   time.Duration // how often stale listings are re-pushed
	OrderPullInterval time.Duration // how often channel orders are pulled
	StaleAfter        time.Duration // listing age that counts as stale
	BatchSize         int
}

// DashboardConfig holds analytics dashboard settings
type DashboardConfig struct {
	RefreshInterval time.Duration // snapshot rebuild period
	CacheTTL        time.Duration // Redis TTL for the cached snapshot
}

// StorageConfig holds object storage settings for mirrored product images
type StorageConfig struct {
	Enabled         bool
	Endpoint        string // custom endpoint for S3-compatible storage
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string // base URL for serving mirrored images
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	ProfilerEnabled   bool
	ProfilerAddress   string
}

// WholesalerConfig holds the connection settings for one wholesale platform
type WholesalerConfig struct {
	Enabled   bool
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// ChannelConfig holds the connection settings for one marketplace
type ChannelConfig struct {
	Enabled   bool
	BaseURL   string
	VendorID  string // seller identifier on the marketplace
	AccessKey string
	SecretKey string
	Timeout   time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with YOONI_ prefix (e.g., YOONI_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("YOONI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Scheduler: SchedulerConfig{
			Enabled:        v.GetBool("scheduler.enabled"),
			WorkerCount:    v.GetInt("scheduler.worker_count"),
			QueueSize:      v.GetInt("scheduler.queue_size"),
			JobTimeout:     v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:  v.GetInt("scheduler.retry_attempts"),
			RetryBaseDelay: v.GetDuration("scheduler.retry_base_delay"),
		},
		Collection: CollectionConfig{
			Enabled:            v.GetBool("collection.enabled"),
			CronSchedule:       v.GetString("collection.cron_schedule"),
			Interval:           v.GetDuration("collection.interval"),
			PageSize:           v.GetInt("collection.page_size"),
			ImageMirrorEnabled: v.GetBool("collection.image_mirror_enabled"),
		},
		Sync: SyncConfig{
			Enabled:           v.GetBool("sync.enabled"),
			ListingInterval:   v.GetDuration("sync.listing_interval"),
			OrderPullInterval: v.GetDuration("sync.order_pull_interval"),
			StaleAfter:        v.GetDuration("sync.stale_after"),
			BatchSize:         v.GetInt("sync.batch_size"),
		},
		Dashboard: DashboardConfig{
			RefreshInterval: v.GetDuration("dashboard.refresh_interval"),
			CacheTTL:        v.GetDuration("dashboard.cache_ttl"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("storage.enabled"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PublicBaseURL:   v.GetString("storage.public_base_url"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			ProfilerEnabled:   v.GetBool("telemetry.profiler_enabled"),
			ProfilerAddress:   v.GetString("telemetry.profiler_address"),
		},
		OwnerClan: WholesalerConfig{
			Enabled:   v.GetBool("ownerclan.enabled"),
			BaseURL:   v.GetString("ownerclan.base_url"),
			APIKey:    v.GetString("ownerclan.api_key"),
			APISecret: v.GetString("ownerclan.api_secret"),
			Timeout:   v.GetDuration("ownerclan.timeout"),
		},
		Domeggook: WholesalerConfig{
			Enabled: v.GetBool("domeggook.enabled"),
			BaseURL: v.GetString("domeggook.base_url"),
			APIKey:  v.GetString("domeggook.api_key"),
			Timeout: v.GetDuration("domeggook.timeout"),
		},
		Coupang: ChannelConfig{
			Enabled:   v.GetBool("coupang.enabled"),
			BaseURL:   v.GetString("coupang.base_url"),
			VendorID:  v.GetString("coupang.vendor_id"),
			AccessKey: v.GetString("coupang.access_key"),
			SecretKey: v.GetString("coupang.secret_key"),
			Timeout:   v.GetDuration("coupang.timeout"),
		},
		SmartStore: ChannelConfig{
			Enabled:   v.GetBool("smartstore.enabled"),
			BaseURL:   v.GetString("smartstore.base_url"),
			VendorID:  v.GetString("smartstore.vendor_id"),
			AccessKey: v.GetString("smartstore.client_id"),
			SecretKey: v.GetString("smartstore.client_secret"),
			Timeout:   v.GetDuration("smartstore.timeout"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "yooni-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "yooni"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "yooni-backend"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly
	// configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Scheduler.WorkerCount == 0 {
		cfg.Scheduler.WorkerCount = 4
	}
	if cfg.Scheduler.QueueSize == 0 {
		cfg.Scheduler.QueueSize = 100
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryBaseDelay == 0 {
		cfg.Scheduler.RetryBaseDelay = 30 * time.Second
	}
	if cfg.Collection.CronSchedule == "" {
		cfg.Collection.CronSchedule = "0 3 * * *"
	}
	if cfg.Collection.Interval == 0 {
		cfg.Collection.Interval = 6 * time.Hour
	}
	if cfg.Collection.PageSize == 0 {
		cfg.Collection.PageSize = 100
	}
	if cfg.Sync.ListingInterval == 0 {
		cfg.Sync.ListingInterval = 10 * time.Minute
	}
	if cfg.Sync.OrderPullInterval == 0 {
		cfg.Sync.OrderPullInterval = 5 * time.Minute
	}
	if cfg.Sync.StaleAfter == 0 {
		cfg.Sync.StaleAfter = time.Hour
	}
	if cfg.Sync.BatchSize == 0 {
		cfg.Sync.BatchSize = 50
	}
	if cfg.Dashboard.RefreshInterval == 0 {
		cfg.Dashboard.RefreshInterval = 30 * time.Second
	}
	if cfg.Dashboard.CacheTTL == 0 {
		cfg.Dashboard.CacheTTL = 5 * time.Minute
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-northeast-2"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "yooni-backend"
	}
	if cfg.OwnerClan.BaseURL == "" {
		cfg.OwnerClan.BaseURL = "https://api.ownerclan.com/v1"
	}
	if cfg.OwnerClan.Timeout == 0 {
		cfg.OwnerClan.Timeout = 30 * time.Second
	}
	if cfg.Domeggook.BaseURL == "" {
		cfg.Domeggook.BaseURL = "https://openapi.domeggook.com"
	}
	if cfg.Domeggook.Timeout == 0 {
		cfg.Domeggook.Timeout = 30 * time.Second
	}
	if cfg.Coupang.BaseURL == "" {
		cfg.Coupang.BaseURL = "https://api-gateway.coupang.com"
	}
	if cfg.Coupang.Timeout == 0 {
		cfg.Coupang.Timeout = 30 * time.Second
	}
	if cfg.SmartStore.BaseURL == "" {
		cfg.SmartStore.BaseURL = "https://api.commerce.naver.com"
	}
	if cfg.SmartStore.Timeout == 0 {
		cfg.SmartStore.Timeout = 30 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Storage.Enabled && c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage is enabled in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
