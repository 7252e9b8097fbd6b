package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
)

// RegisterDBTracing installs the otelgorm plugin on the gorm instance so
// every query becomes a child span of the request or job that issued it.
// Query variables are left out of span attributes since order rows carry
// buyer names and addresses.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		logger.Info("Database tracing disabled")
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(cfg.ServiceName),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to register otelgorm plugin: %w", err)
	}

	logger.Info("Database tracing enabled", zap.String("service_name", cfg.ServiceName))
	return nil
}
