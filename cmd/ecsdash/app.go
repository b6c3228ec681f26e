// File: cmd/ecsdash/app.go
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"ecsdash/internal/config"
	"ecsdash/internal/logger"
	"ecsdash/internal/provider/factory"
	"ecsdash/internal/service"
	"ecsdash/pkg/formatter"
)

// appContainer holds the shared dependencies of every subcommand
type appContainer struct {
	Config          *config.Config
	ConfigManager   *config.ConfigManager
	ProviderFactory *factory.Factory
	BucketService   *service.BucketService
	BucketFormatter *formatter.BucketFormatter
	Logger          *slog.Logger
}

type appContextKey struct{}

var errAppNotInitialized = errors.New("application not initialized")

// Loads the configuration and wires the services. An empty configPath selects the default location
func newApp(configPath string, debug bool, logOutput io.Writer) (*appContainer, error) {
	var (
		cfgManager *config.ConfigManager
		err        error
	)
	if configPath != "" {
		cfgManager, err = config.NewConfigManagerWithPath(configPath)
	} else {
		cfgManager, err = config.NewConfigManager()
	}
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log := logger.NewLogger(level, cfg.Log.Format, logOutput)

	providerFactory := factory.NewFactory(cfg, log)

	return &appContainer{
		Config:          cfg,
		ConfigManager:   cfgManager,
		ProviderFactory: providerFactory,
		BucketService:   service.NewBucketService(providerFactory, log),
		BucketFormatter: formatter.NewBucketFormatter(),
		Logger:          log,
	}, nil
}

func withApp(ctx context.Context, app *appContainer) context.Context {
	return context.WithValue(ctx, appContextKey{}, app)
}

func appFromContext(ctx context.Context) (*appContainer, error) {
	app, ok := ctx.Value(appContextKey{}).(*appContainer)
	if !ok || app == nil {
		return nil, errAppNotInitialized
	}
	return app, nil
}
