package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/yethikrishna/y0-waitlist-builder/internal/api"
	"github.com/yethikrishna/y0-waitlist-builder/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {

		// Public waitlist surface
		v1.Group(func(public chi.Router) {
			public.Use(middleware.RateLimitMiddleware)
			public.Post("/waitlist/signup", handlers.Signup())
		})
		v1.Get("/waitlist/count", handlers.Count())
		v1.Get("/waitlist/referral/{code}/qr", handlers.ReferralQR())

		// Verify never 401s; it resolves the credential itself
		v1.Get("/admin/verify", handlers.AdminVerify())

		// Admin-only group: identity first, then a fresh role lookup on
		// every request
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.AuthMiddleware(deps.Verifier))
			admin.Use(middleware.IsAdminMiddleware(deps.Roles))

			admin.Get("/admin/signups", handlers.AdminListSignups())
			admin.Get("/admin/signups/export", handlers.AdminExportCSV())
			admin.Get("/admin/stats", handlers.AdminStats())
		})
	})

	// Internal-only, shared-secret authenticated
	r.Post("/internal/notify", handlers.Notify())
}
