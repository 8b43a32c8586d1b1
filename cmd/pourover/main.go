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

	adapthttp "pourover/internal/adapter/http"
	"pourover/internal/adapter/memory"
	"pourover/internal/adapter/postgres"
	"pourover/internal/adapter/sqlite"
	recipefile "pourover/internal/adapter/yaml"
	"pourover/internal/app"
	"pourover/internal/config"
	"pourover/internal/domain"
	"pourover/internal/scheduler"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
)

type store struct {
	recipes  domain.RecipeRepository
	users    domain.UserRepository
	sessions domain.SessionRepository
	close    func() error
}

func openStore(cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &store{recipes: db, users: db, sessions: postgres.NewSessionRepo(db), close: db.Close}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{recipes: db, users: db, sessions: sqlite.NewSessionRepo(db), close: db.Close}, nil
	case config.DriverMemory:
		db := memory.New()
		return &store{recipes: db, users: db, sessions: db.NewSessionRepo(), close: db.Close}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	l := logrus.Default().WithLevel(cfg.LogLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if err := run(ctx, cfg); err != nil {
		logger.Errorf(ctx, "%v", err)
		belt.Flush(ctx)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() { _ = st.close() }()
	logger.Infof(ctx, "using %s store", cfg.StoreDriver)

	recipeSvc := app.NewRecipeService(st.recipes)
	brewSvc := app.NewBrewService(st.recipes)
	authSvc := app.NewAuthService(st.users, st.sessions)

	if cfg.SeedPresets {
		n, err := recipeSvc.SeedPresets(ctx, recipefile.Presets())
		if err != nil {
			return fmt.Errorf("seed presets: %w", err)
		}
		if n > 0 {
			logger.Infof(ctx, "seeded %d preset recipes", n)
		}
	}

	oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
	if err != nil {
		return err
	}

	sched := scheduler.New(authSvc, cfg.SessionCleanupInterval)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	srv := adapthttp.New(recipeSvc, brewSvc, authSvc, cfg.WebDir).
		WithOIDC(oidcCfg).
		WithLogger(logger.FromCtx(ctx))
	if cfg.AuthDisabled {
		logger.Warnf(ctx, "authentication is disabled; anyone can edit recipes")
		srv = srv.WithoutAuth()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	logger.Infof(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
