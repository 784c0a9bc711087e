// Package routes registers all HTTP routes for the API.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskhive/api/internal/infra/http/handler"
	"github.com/taskhive/api/internal/infra/http/middleware"
	"github.com/taskhive/api/pkg/jwt"
	"github.com/taskhive/api/pkg/logger"
)

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Tenant    *handler.TenantHandler
	Hierarchy *handler.HierarchyHandler
}

// Options configures cross-cutting route behavior.
type Options struct {
	TokenValidator *jwt.Generator
	Logger         *logger.Logger
	IsProduction   bool
}

// New builds the router with all middleware and routes registered.
func New(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(opts.Logger, opts.IsProduction))
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Metrics())

	// Unauthenticated surface
	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(opts.TokenValidator))

		r.Route("/tenants", func(r chi.Router) {
			r.Post("/", h.Tenant.CreateTenant)

			r.Route("/{tenantID}", func(r chi.Router) {
				r.Get("/", h.Tenant.GetTenant)
				r.Get("/project-tree", h.Hierarchy.GetProjectTree)
				r.Get("/me/capabilities", h.Tenant.MyCapabilities)

				r.Route("/members", func(r chi.Router) {
					r.Get("/", h.Tenant.ListMembers)
					r.Post("/", h.Tenant.AddMember)
					r.Put("/{membershipID}/role", h.Tenant.UpdateMemberRole)
					r.Post("/{membershipID}/overrides", h.Tenant.GrantOverride)
					r.Delete("/{membershipID}", h.Tenant.RemoveMember)
				})
			})
		})

		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/member-tree", h.Hierarchy.GetMemberTree)
			r.Put("/reporting", h.Hierarchy.SetReportingRelation)
			r.Get("/members/{userID}/subordinates", h.Hierarchy.GetAllSubordinates)
		})
	})

	return r
}
