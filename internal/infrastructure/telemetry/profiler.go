package telemetry

import (
	"fmt"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
)

// Profiler manages the Pyroscope continuous profiling session
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	config   config.TelemetryConfig
}

// NewProfiler starts continuous profiling when the profiler is enabled.
// Returns a no-op Profiler otherwise.
func NewProfiler(cfg config.TelemetryConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{
		logger: logger,
		config: cfg,
	}

	if !cfg.Enabled || !cfg.ProfilerEnabled {
		logger.Info("Profiler disabled")
		return p, nil
	}
	if cfg.ProfilerAddress == "" {
		return nil, fmt.Errorf("profiler address is required when profiling is enabled")
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.ProfilerAddress,
		Logger:          &pyroscopeZapAdapter{logger: logger.Sugar()},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	p.profiler = profiler

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ProfilerAddress),
		zap.String("application_name", cfg.ServiceName),
	)
	return p, nil
}

// IsEnabled returns whether profiling is running
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

// Stop flushes remaining profiles and stops the session
func (p *Profiler) Stop() error {
	if p.profiler == nil {
		return nil
	}
	if err := p.profiler.Stop(); err != nil {
		p.logger.Error("Error stopping profiler", zap.Error(err))
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	return nil
}

// pyroscopeZapAdapter routes Pyroscope's internal log lines through zap
type pyroscopeZapAdapter struct {
	logger *zap.SugaredLogger
}

func (a *pyroscopeZapAdapter) Infof(format string, args ...interface{}) {
	a.logger.Infof(format, args...)
}

func (a *pyroscopeZapAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debugf(format, args...)
}

func (a *pyroscopeZapAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Errorf(format, args...)
}
