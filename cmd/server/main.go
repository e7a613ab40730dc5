package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/chatkit/core/config"
	"github.com/dmitrymomot/chatkit/core/cookie"
	"github.com/dmitrymomot/chatkit/core/guard"
	"github.com/dmitrymomot/chatkit/core/logger"
	"github.com/dmitrymomot/chatkit/core/presence"
	"github.com/dmitrymomot/chatkit/core/token"
	"github.com/dmitrymomot/chatkit/integration/storage/s3"
	"github.com/dmitrymomot/chatkit/storage/mongo"
	"github.com/dmitrymomot/chatkit/storage/redis"
	"github.com/dmitrymomot/chatkit/transport/httpapi"
	"github.com/dmitrymomot/chatkit/transport/ws"
)

type appConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`

	// RevocationEnabled turns on the Redis-backed token denylist.
	RevocationEnabled bool `env:"REVOCATION_ENABLED" envDefault:"false"`

	// S3Enabled wires the profile picture uploader.
	S3Enabled bool `env:"S3_ENABLED" envDefault:"false"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	config.MustLoad(&cfg)

	logOpt := logger.WithDevelopment("chatkit")
	if cfg.Env == "production" {
		logOpt = logger.WithProduction("chatkit")
	}
	log := logger.New(logOpt)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	users := mongo.NewUserStore(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	var tokenCfg token.Config
	config.MustLoad(&tokenCfg)

	tokens, err := token.NewFromConfig(tokenCfg)
	if err != nil {
		return err
	}

	guardOpts := []guard.Option{}
	if cfg.RevocationEnabled {
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)

		redisClient, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()

		guardOpts = append(guardOpts, guard.WithRevoker(guard.NewRedisRevoker(redisClient)))
		log.Info("token denylist enabled", logger.Component("main"))
	}
	sessionGuard := guard.New(tokens, users, guardOpts...)

	cookies := cookie.New(
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithSecure(cfg.SecureCookies),
	)

	handlerOpts := []httpapi.HandlerOption{
		httpapi.WithSecureCookie(cfg.SecureCookies),
	}
	if cfg.S3Enabled {
		var s3Cfg s3.Config
		config.MustLoad(&s3Cfg)

		uploader, err := s3.NewUploader(ctx, s3Cfg)
		if err != nil {
			return err
		}
		handlerOpts = append(handlerOpts, httpapi.WithUploader(uploader))
		log.Info("profile picture uploads enabled", logger.Component("main"))
	}

	handler := httpapi.NewHandler(users, tokens, sessionGuard, cookies, log, handlerOpts...)

	registry := presence.NewRegistry()
	gateway := ws.NewGateway(sessionGuard, registry, log)

	root := chi.NewRouter()
	root.Mount("/", httpapi.Router(handler, sessionGuard, log))
	root.Handle("/ws", gateway)
	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := mongo.Healthcheck(db.Client())(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.Component("main"), "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.Component("main"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	gateway.CloseAll()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
