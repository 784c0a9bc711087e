package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskhive/api/internal/app"
	"github.com/taskhive/api/internal/config"
	"github.com/taskhive/api/internal/infra/http/handler"
	"github.com/taskhive/api/internal/infra/http/routes"
	"github.com/taskhive/api/internal/infra/postgres"
	"github.com/taskhive/api/pkg/jwt"
	"github.com/taskhive/api/pkg/logger"
	"github.com/taskhive/api/pkg/validator"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	log.Info("starting server",
		"app", cfg.App.Name,
		"env", cfg.App.Env,
		"addr", cfg.Server.Addr(),
	)

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer db.Close()

	tokenGenerator, err := jwt.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenDuration)
	if err != nil {
		log.Error("failed to initialize token generator", "error", err)
		return 1
	}

	// Repositories
	tenantRepo := postgres.NewTenantRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	taskRepo := postgres.NewTaskRepository(db)

	// Services
	authzService := app.NewAuthzService(tenantRepo, log)
	tenantService := app.NewTenantService(tenantRepo, authzService, log)
	hierarchyService := app.NewHierarchyService(tenantRepo, projectRepo, taskRepo, authzService, log)

	// Handlers
	v := validator.New()
	handlers := routes.Handlers{
		Health:    handler.NewHealthHandler(db),
		Tenant:    handler.NewTenantHandler(tenantService, authzService, v, log),
		Hierarchy: handler.NewHierarchyHandler(hierarchyService, v, log),
	}

	router := routes.New(handlers, routes.Options{
		TokenValidator: tokenGenerator,
		Logger:         log,
		IsProduction:   cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			return 1
		}
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("forced shutdown", "error", err)
			return 1
		}
	}

	log.Info("server stopped")
	return 0
}
