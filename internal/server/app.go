// Package server wires the dashboard server: it picks the dataset source,
// builds the pipeline and runs the gRPC and HTTP transports until a signal
// arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/nuudash/internal/authapi"
	"github.com/dmitrijs2005/nuudash/internal/logging"
	"github.com/dmitrijs2005/nuudash/internal/server/config"
	"github.com/dmitrijs2005/nuudash/internal/server/dataset"
	"github.com/dmitrijs2005/nuudash/internal/server/httpapi"
	"github.com/dmitrijs2005/nuudash/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/nuudash/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	loader     *dataset.Loader
	dashboards *services.DashboardService
	closers    []io.Closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	src, err := app.newSource(ctx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("dataset source init error: %w", err)
	}

	app.loader = dataset.NewLoader(src, logger)
	idp := authapi.New(c.AuthAPIBaseURL, c.AuthTimeout)
	app.dashboards = services.NewDashboardService(idp, app.loader, c.Caps(), []byte(c.TokenSecret), logger)

	return app, nil
}

func (app *App) newSource(ctx context.Context) (dataset.Source, error) {
	c := app.config

	switch c.DatasetSource {
	case config.SourceDir:
		return dataset.NewDirSource(c.DatasetDir), nil

	case config.SourceS3:
		return dataset.NewS3Source(ctx, dataset.S3Config{
			Region:       c.S3Region,
			Endpoint:     c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			UsePathStyle: c.S3PathStyle,
		})

	case config.SourceSQL:
		s, err := dataset.OpenSQLSource(c.DatabaseDriver, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, s)
		if c.MigrateOnStart {
			if err := s.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown dataset source %q", c.DatasetSource)
	}
}

// Close releases the dataset source.
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error(context.Background(), "close error", "error", err)
		}
	}
	app.closers = nil
}

// warmUp loads the dataset before the first request. A failure is only
// logged: the next request tries again.
func (app *App) warmUp(ctx context.Context) {
	if _, err := app.loader.Snapshot(ctx); err != nil {
		app.logger.Warn(ctx, "dataset not loaded at startup", "error", err)
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// transport fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")
	app.warmUp(ctx)

	g, ctx := errgroup.WithContext(ctx)

	if app.config.GRPCAddr != "" {
		s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.dashboards)
		g.Go(func() error { return s.Run(ctx) })
	}

	if app.config.HTTPAddr != "" {
		s := httpapi.NewServer(app.config.HTTPAddr, httpapi.NewHandler(app.dashboards, app.logger), app.logger)
		g.Go(func() error { return s.Run(ctx) })
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
