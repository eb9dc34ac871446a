package app

import (
	"context"

	"github.com/doda25-team16/model-service/internal/config"
	"github.com/doda25-team16/model-service/internal/services/archive"
	"github.com/doda25-team16/model-service/internal/services/artifact"
	"github.com/doda25-team16/model-service/internal/services/classifier"
	"github.com/doda25-team16/model-service/internal/services/fetcher"
	"github.com/doda25-team16/model-service/pkg/logger"

	"go.uber.org/zap"
)

// App holds the process-wide state: the config, the logger and, once startup
// completes, the loaded classifier. The classifier is set exactly once
// before the HTTP server starts and never mutated afterwards, so request
// handlers share it without locking.
type App struct {
	config     *config.Config
	ctx        context.Context
	cancelFunc context.CancelFunc

	Logger     *zap.Logger
	Classifier *classifier.Classifier
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

// WithClassifier resolves the model artifact and loads it. This is the
// startup barrier: it blocks until a usable model is in memory or fails the
// whole process.
func WithClassifier() OptionFunc {
	return func(app *App) error {
		cfg := app.config

		cache, err := artifact.OpenCache(cfg.ModelDir)
		if err != nil {
			return err
		}

		resolver := artifact.NewResolver(
			cache,
			cfg.ModelURL,
			cfg.ModelFile,
			fetcher.New(app.Logger.Named("fetcher")),
			artifact.ExtractorFunc(archive.Extract),
			app.Logger.Named("artifact"),
		)

		modelPath, err := resolver.Resolve(app.ctx)
		if err != nil {
			return err
		}

		clf, err := classifier.Load(modelPath)
		if err != nil {
			return err
		}

		app.Logger.Info("loaded model", zap.String("path", modelPath))
		app.Classifier = clf
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	l, err := logger.NewLogger(cfg.Environment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		ctx:        ctx,
		config:     cfg,
		Logger:     l,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			cancel()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) Close() {
	app.cancelFunc()
	app.Logger.Sync()
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}
