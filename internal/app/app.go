package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"campus/internal/config"
	"campus/internal/database"
	"campus/internal/handler"
	"campus/internal/metrics"
	"campus/internal/middleware"
	"campus/internal/repository"
	"campus/internal/router"
	"campus/internal/security"
	"campus/internal/service"
)

type App struct {
	cfg         *config.Config
	server      *http.Server
	db          *database.DB
	authService *service.AuthService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	codec, err := security.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	m := metrics.New()
	handlers, authService := Wire(db, cfg, codec, m)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.New(cfg, m, authMiddleware, handlers, db.Health),
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{cfg: cfg, server: server, db: db, authService: authService}, nil
}

// Wire builds repositories, services and handlers on top of an open database.
func Wire(db *database.DB, cfg *config.Config, codec *security.TokenCodec, m *metrics.Metrics) (router.Handlers, *service.AuthService) {
	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	peopleRepo := repository.NewPeopleRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	pointRepo := repository.NewPointRepository(pool)

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, tokenRepo, hasher, codec, service.AuthConfig{
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		AuthCodeTTL:   cfg.AuthCodeTTL,
	}, service.WithAuthObserver(m), service.WithResetNotifier(resetNotifier(cfg)))

	peopleService := service.NewPeopleService(peopleRepo, userRepo)
	catalogService := service.NewCatalogService(catalogRepo)

	return router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(service.NewUserService(userRepo, hasher)),
		Student:    handler.NewStudentHandler(peopleService),
		Teacher:    handler.NewTeacherHandler(peopleService),
		Department: handler.NewDepartmentHandler(catalogService),
		Major:      handler.NewMajorHandler(catalogService),
		Subject:    handler.NewSubjectHandler(catalogService),
		Class:      handler.NewClassHandler(catalogService),
		Point:      handler.NewPointHandler(service.NewPointService(pointRepo, peopleRepo)),
	}, authService
}

func resetNotifier(cfg *config.Config) service.ResetNotifier {
	if cfg.DevResetConsole {
		slog.Warn("DEV_RESET_CONSOLE is on: raw password reset tokens are printed to stderr")
		return service.ConsoleResetNotifier{Out: os.Stderr}
	}
	return service.LogResetNotifier{}
}

// Run serves until SIGINT/SIGTERM, then drains connections. The expired
// token sweeper runs alongside and stops with the server.
func (a *App) Run() error {
	defer a.db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.authService.RunCleanup(gctx, a.cfg.TokenCleanupInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
