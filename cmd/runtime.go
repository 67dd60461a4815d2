package cmd

import (
	"fmt"

	"s3bridge/core/bridge"
	"s3bridge/core/clientcache"
	"s3bridge/core/config"
	"s3bridge/core/credentials"
	"s3bridge/core/logger"
	"s3bridge/core/metrics"
	"s3bridge/feature/objects"

	"go.uber.org/zap"
)

// runtime is the process-wide wiring shared by every command.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	bridge  *bridge.Bridge
	service *objects.Service
}

func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	m, err := metrics.New(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	br := bridge.New(cfg.Bridge, logg, m)
	svc := objects.NewService(
		cfg.Storage,
		credentials.NewResolver(credentials.NewEnvSource()),
		clientcache.New(logg, m),
		br,
		m,
		logg,
	)

	return &runtime{cfg: cfg, logger: logg, metrics: m, bridge: br, service: svc}, nil
}

func (r *runtime) close() {
	r.bridge.Close()
	_ = r.logger.Sync()
}
