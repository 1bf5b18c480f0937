package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/instant-voices/internal/auth"
	"github.com/heartmarshall/instant-voices/internal/config"
	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/internal/observe"
	"github.com/heartmarshall/instant-voices/internal/service/session"
	"github.com/heartmarshall/instant-voices/internal/service/voice"
	"github.com/heartmarshall/instant-voices/internal/transport/middleware"
	"github.com/heartmarshall/instant-voices/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// store, services and HTTP server, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("database", cfg.Database.Driver),
		slog.String("storage", cfg.Storage.Backend),
		slog.String("scope", cfg.Voices.Scope),
	)

	handler, cleanup, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("stopped")
	return nil
}

// Build wires every component from cfg and returns the root HTTP handler.
// cleanup releases pools, exporters and background workers.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (http.Handler, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	health := make(map[string]rest.Pinger)

	// Telemetry.
	var provider *observe.Provider
	if !cfg.Metrics.Disabled {
		p, err := observe.InitProvider(ctx, observe.ProviderConfig{
			ServiceName:    Name,
			ServiceVersion: Version,
		})
		if err != nil {
			return fail(fmt.Errorf("init telemetry: %w", err))
		}
		provider = p
		closers = append(closers, func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := p.Shutdown(sctx); err != nil {
				logger.Warn("telemetry shutdown", slog.String("error", err.Error()))
			}
		})
	}

	// Persistence.
	st, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, st.close)
	if st.ping != nil {
		health["database"] = st.ping
	}

	audio, err := openAudioStore(ctx, cfg.Storage)
	if err != nil {
		return fail(err)
	}
	if audio.ping != nil {
		health["storage"] = audio.ping
	}

	// Services.
	scope, _ := domain.ParseOwnershipScope(cfg.Voices.Scope)
	opts := voice.Options{
		Scope:            scope,
		MaxUploadBytes:   cfg.Storage.MaxUploadBytes,
		AllowedMIMETypes: cfg.Storage.AllowedMIMETypes,
	}
	if provider != nil {
		opts.Recorder = provider.Metrics
	}
	voiceSvc := voice.NewService(logger, st.repo, st.tx, audio.store, opts)

	jwtManager := auth.NewJWTManager(cfg.Auth.SessionSecret, cfg.Auth.SessionIssuer, cfg.Auth.SessionTTL)
	sessionSvc := session.NewService(logger, jwtManager)

	// HTTP.
	limiter := middleware.NewRateLimiter(time.Minute)
	closers = append(closers, limiter.Stop)

	routes := rest.Routes{
		Voices:      rest.NewVoiceHandler(voiceSvc, logger),
		Guest:       rest.NewGuestHandler(sessionSvc, logger),
		Health:      rest.NewHealthHandler(BuildVersion(), health),
		UploadLimit: limiter.Limit(cfg.RateLimit.PerMinute()),
		Files:       audio.files,
		FilesPath:   audio.filesPath,
	}
	if provider != nil {
		routes.Metrics = provider.Handler()
		routes.MetricsPath = cfg.Metrics.Path
	}
	mux := rest.NewRouter(routes)

	var metrics middleware.Middleware
	if provider != nil {
		metrics = observe.Middleware(provider.Metrics)
	}

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
		middleware.Logger(logger),
		// Innermost, so the ServeMux pattern is visible after routing.
		metrics,
	)(mux), cleanup, nil
}
