// Package cartanga предоставляет маршруты для основного приложения.
package cartanga

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	campaigncancel "github.com/cartanga/cartanga/internal/http/handlers/campaign/cancel"
	campaigncontribute "github.com/cartanga/cartanga/internal/http/handlers/campaign/contribute"
	campaigncreate "github.com/cartanga/cartanga/internal/http/handlers/campaign/create"
	campaignlist "github.com/cartanga/cartanga/internal/http/handlers/campaign/list"
	campaignread "github.com/cartanga/cartanga/internal/http/handlers/campaign/read"
	campaignupdate "github.com/cartanga/cartanga/internal/http/handlers/campaign/update"
	"github.com/cartanga/cartanga/internal/http/handlers/health"
	subcancel "github.com/cartanga/cartanga/internal/http/handlers/subscription/cancel"
	subcreate "github.com/cartanga/cartanga/internal/http/handlers/subscription/create"
	sublist "github.com/cartanga/cartanga/internal/http/handlers/subscription/list"
	sublistall "github.com/cartanga/cartanga/internal/http/handlers/subscription/listall"
	subpayment "github.com/cartanga/cartanga/internal/http/handlers/subscription/payment"
	subread "github.com/cartanga/cartanga/internal/http/handlers/subscription/read"
	"github.com/cartanga/cartanga/internal/http/handlers/user/login"
	"github.com/cartanga/cartanga/internal/http/handlers/user/me"
	"github.com/cartanga/cartanga/internal/http/handlers/user/register"
	vehiclecreate "github.com/cartanga/cartanga/internal/http/handlers/vehicle/create"
	vehiclelist "github.com/cartanga/cartanga/internal/http/handlers/vehicle/list"
	vehiclemaintenance "github.com/cartanga/cartanga/internal/http/handlers/vehicle/maintenance"
	vehicleread "github.com/cartanga/cartanga/internal/http/handlers/vehicle/read"
	vehicleremove "github.com/cartanga/cartanga/internal/http/handlers/vehicle/remove"
	vehicleupdate "github.com/cartanga/cartanga/internal/http/handlers/vehicle/update"
	"github.com/cartanga/cartanga/internal/http/middlewarectx"
	"github.com/cartanga/cartanga/internal/lib/jwt"
	authservice "github.com/cartanga/cartanga/internal/services/auth"
	campaignservice "github.com/cartanga/cartanga/internal/services/campaign"
	subservice "github.com/cartanga/cartanga/internal/services/subscription"
	vehicleservice "github.com/cartanga/cartanga/internal/services/vehicle"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	vehicleService *vehicleservice.VehicleService,
	subscriptionService *subservice.SubscriptionService,
	campaignService *campaignservice.CampaignService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	authMw := middlewarectx.JWTMiddleware(jwtMaker, logger)
	adminMw := middlewarectx.AdminMiddleware(logger)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/users", register.New(logger, authService).ServeHTTP)
		r.Post("/users/login", login.New(logger, authService).ServeHTTP)
		r.Get("/vehicles", vehiclelist.New(logger, vehicleService).ServeHTTP)
		r.Get("/vehicles/{id}", vehicleread.New(logger, vehicleService).ServeHTTP)
		r.Get("/campaigns", campaignlist.New(logger, campaignService).ServeHTTP)
		r.Get("/campaigns/{id}", campaignread.New(logger, campaignService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/me", me.New(logger, authService).ServeHTTP)
			r.Get("/subscriptions", sublist.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions", subcreate.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", subread.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}/payment", subpayment.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}/cancel", subcancel.New(logger, subscriptionService).ServeHTTP)
			r.Post("/campaigns/{id}/contribute", campaigncontribute.New(logger, campaignService).ServeHTTP)
		})

		// Административные конечные точки
		r.Group(func(r chi.Router) {
			r.Use(authMw, adminMw)
			r.Get("/subscriptions/all", sublistall.New(logger, subscriptionService).ServeHTTP)
			r.Post("/vehicles", vehiclecreate.New(logger, vehicleService).ServeHTTP)
			r.Put("/vehicles/{id}", vehicleupdate.New(logger, vehicleService).ServeHTTP)
			r.Delete("/vehicles/{id}", vehicleremove.New(logger, vehicleService).ServeHTTP)
			r.Post("/vehicles/{id}/maintenance", vehiclemaintenance.New(logger, vehicleService).ServeHTTP)
			r.Post("/campaigns", campaigncreate.New(logger, campaignService).ServeHTTP)
			r.Put("/campaigns/{id}", campaignupdate.New(logger, campaignService).ServeHTTP)
			r.Put("/campaigns/{id}/cancel", campaigncancel.New(logger, campaignService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
