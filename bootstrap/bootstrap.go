// Package bootstrap wires all dependencies and starts the preview
// server: compile service, manifest watcher, metrics and the web UI.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tigerabrodi/rudo/adapters/clock"
	"github.com/tigerabrodi/rudo/adapters/idgen"
	"github.com/tigerabrodi/rudo/adapters/metrics"
	"github.com/tigerabrodi/rudo/adapters/probe"
	"github.com/tigerabrodi/rudo/app"
	"github.com/tigerabrodi/rudo/config"
	"github.com/tigerabrodi/rudo/web"
)

// App represents the running preview server.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	Metrics    *metrics.Collector // nil when disabled
	Service    *app.CompileService
	State      *web.State
	Watcher    *app.Watcher
	HTTPServer *http.Server

	manifestPath string
	ids          *idgen.Sequential
}

// Options configure application initialization.
type Options struct {
	// ManifestPath is the scene manifest to compile and watch.
	ManifestPath string

	// Config is the loaded configuration. Nil loads from environment
	// variables and defaults.
	Config *config.Config

	// Addr overrides the configured listen address when non-empty.
	Addr string
}

// New creates and wires the application. Nothing runs yet; Run or the
// individual components start work.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.FromEnv()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	logger := NewLogger(cfg.Logging)

	a := &App{
		Logger:       logger,
		Config:       cfg,
		State:        web.NewState(),
		manifestPath: opts.ManifestPath,
		ids:          idgen.NewSequential(cfg.Compile.IDPrefix),
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	a.Service = app.NewCompileService(
		a.ids,
		probe.Static{Timeline: !cfg.Compile.Static},
		clock.Real{},
		logger,
		app.CompileServiceConfig{StrictTriggers: cfg.Compile.StrictTriggers},
	)

	watcher, err := app.NewWatcher(opts.ManifestPath, a.onManifestChange, logger, app.WatcherConfig{
		Debounce: cfg.Compile.Debounce,
	})
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	a.Watcher = watcher

	deps := web.Deps{
		State:        a.State,
		ManifestPath: opts.ManifestPath,
		Logger:       logger,
	}
	if a.Metrics != nil {
		deps.MetricsHandler = a.Metrics.Handler()
		deps.MetricsPath = cfg.Metrics.Path
		deps.OnClientChange = func(delta int) {
			a.Metrics.PreviewClients.Add(float64(delta))
		}
	}
	handler := web.NewHandler(deps)

	addr := opts.Addr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	a.HTTPServer = &http.Server{
		Addr:        addr,
		Handler:     handler.Router(),
		ReadTimeout: cfg.Server.ReadTimeout,
		// Zero keeps event streams open indefinitely.
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

// Start compiles the manifest once and begins watching it. A failing
// initial compile does not abort: the preview page surfaces the error
// and the next manifest change retries.
func (a *App) Start() error {
	a.compileAndPublish()
	return a.Watcher.Start()
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if err := a.Start(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Str("manifest", a.manifestPath).
			Msg("starting preview server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application. Subscriber channels close
// before the server drains so event-stream handlers unblock.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Watcher != nil {
		a.Watcher.Stop()
	}

	if a.State != nil {
		a.State.Close()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

// onManifestChange handles one settled watcher notification.
func (a *App) onManifestChange() {
	if a.Metrics != nil {
		a.Metrics.WatcherReloads.Inc()
	}
	a.compileAndPublish()
}

// compileAndPublish recompiles the manifest and publishes the outcome.
// Generated ids restart from the configured prefix each run, so an
// unchanged manifest produces a byte-identical document.
func (a *App) compileAndPublish() {
	a.ids.Reset()

	res, err := a.Service.CompileFile(a.manifestPath)
	if err != nil {
		a.Logger.Error().Err(err).Str("manifest", a.manifestPath).Msg("compile failed")
		a.State.Fail(err)
		if a.Metrics != nil {
			a.Metrics.CompilesTotal.WithLabelValues("error").Inc()
			a.Metrics.WatcherErrors.Inc()
		}
		return
	}

	a.State.Update(res)
	a.Logger.Info().
		Int("elements", res.Elements).
		Int("directives", res.Directives).
		Dur("took", res.Duration).
		Msg("manifest compiled")

	if a.Metrics != nil {
		a.Metrics.CompilesTotal.WithLabelValues("success").Inc()
		a.Metrics.CompileDuration.Observe(res.Duration.Seconds())
		a.Metrics.LastCompile.Set(float64(res.CompiledAt.Unix()))
		a.Metrics.DirectivesEmitted.Add(float64(res.Directives))
	}
}

// NewLogger builds the application logger from logging configuration.
func NewLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}
