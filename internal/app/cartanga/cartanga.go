// Package cartanga собирает приложение маркетплейса: хранилище, кеш,
// доменные сервисы и HTTP-сервер с маршрутами.
//
// Если строка подключения к базе не задана, приложение запускается
// в демо-режиме: хранилище в памяти с демо-данными и без Redis.
package cartanga

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/cartanga/cartanga/internal/cache"
	"github.com/cartanga/cartanga/internal/config"
	"github.com/cartanga/cartanga/internal/lib/jwt"
	"github.com/cartanga/cartanga/internal/migrations"
	authservice "github.com/cartanga/cartanga/internal/services/auth"
	campaignservice "github.com/cartanga/cartanga/internal/services/campaign"
	subservice "github.com/cartanga/cartanga/internal/services/subscription"
	vehicleservice "github.com/cartanga/cartanga/internal/services/vehicle"
	"github.com/cartanga/cartanga/internal/storage/memory"
	"github.com/cartanga/cartanga/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: подключает хранилище и кеш, создает доменные
// сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	var (
		db                  *repository.Storage
		authService         *authservice.AuthService
		vehicleService      *vehicleservice.VehicleService
		subscriptionService *subservice.SubscriptionService
		campaignService     *campaignservice.CampaignService
	)

	if cfg.DemoMode() {
		logger.Info("no storage connection string, starting in demo mode")
		mem := memory.New()
		if err := mem.Seed(ctx); err != nil {
			return nil, err
		}
		noop := cache.Noop{}
		authService = authservice.NewAuthService(mem, jwtMaker)
		vehicleService = vehicleservice.NewVehicleService(mem, noop, logger)
		subscriptionService = subservice.NewSubscriptionService(mem, mem, mem, noop, logger)
		campaignService = campaignservice.NewCampaignService(mem, mem, noop, logger)
	} else {
		var err error
		db, err = repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		if err = migrations.Run(db.DB, "./migrations"); err != nil {
			return nil, err
		}
		if err = repository.CheckDatabaseReady(db); err != nil {
			return nil, err
		}

		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}

		authService = authservice.NewAuthService(db, jwtMaker)
		vehicleService = vehicleservice.NewVehicleService(db, cacheRedis, logger)
		subscriptionService = subservice.NewSubscriptionService(db, db, db, cacheRedis, logger)
		campaignService = campaignservice.NewCampaignService(db, db, cacheRedis, logger)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, vehicleService, subscriptionService, campaignService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.db != nil {
			a.db.DB.Close()
		}
		return err
	}
}
