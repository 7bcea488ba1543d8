package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-backend/internal/handlers"
	"github.com/inkwell-app/inkwell-backend/internal/middleware"
	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// SetupRoutes declares the full API surface. Every route passes through the
// guard with an explicit RouteSpec; nothing is reachable without a declared
// access rule.
func SetupRoutes(r chi.Router, guard *middleware.Guard) {
	public := middleware.RouteSpec{Public: true}
	authed := middleware.RouteSpec{}
	adminOnly := middleware.RouteSpec{Roles: []models.Role{models.RoleAdmin, models.RoleSuperAdmin}}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(guard.Require(public)).Post("/register", handlers.Register)
		r.With(guard.Require(public)).Post("/login", handlers.Login)
		r.With(guard.Require(public)).Post("/refresh", handlers.Refresh)
		r.With(guard.Require(public)).Post("/logout", handlers.Logout)
		r.With(guard.Require(authed)).Get("/me", handlers.Me)
		r.With(guard.Require(authed)).Post("/change-password", handlers.ChangePassword)
	})

	// Journal CRUD is owner-scoped inside the handlers, so any authenticated
	// role passes the guard; nobody reads anyone else's entries regardless.
	r.Route("/api/journals", func(r chi.Router) {
		r.With(guard.Require(authed)).Post("/", handlers.CreateJournalEntry)
		r.With(guard.Require(authed)).Get("/", handlers.GetJournalEntries)
		r.With(guard.Require(authed)).Post("/summarize", handlers.SummarizeJournal)
		r.With(guard.Require(authed)).Get("/{id}", handlers.GetJournalEntry)
		r.With(guard.Require(authed)).Put("/{id}", handlers.UpdateJournalEntry)
		r.With(guard.Require(authed)).Delete("/{id}", handlers.DeleteJournalEntry)
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.With(guard.Require(authed)).Get("/heatmap", handlers.GetHeatmap)
		r.With(guard.Require(authed)).Get("/categories", handlers.GetCategoryDistribution)
		r.With(guard.Require(authed)).Get("/word-trends", handlers.GetWordTrends)
		r.With(guard.Require(authed)).Get("/length", handlers.GetEntryLengthStats)
		r.With(guard.Require(authed)).Get("/time-of-day", handlers.GetTimeOfDay)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.With(guard.Require(adminOnly)).Get("/users", handlers.GetAllUsers)
		r.With(guard.Require(adminOnly)).Get("/users/with-journals", handlers.GetUsersWithJournals)
		r.With(guard.Require(adminOnly)).Put("/users/{id}/role", handlers.UpdateUserRole)
		r.With(guard.Require(adminOnly)).Delete("/users/{id}", handlers.RemoveUser)
		r.With(guard.Require(adminOnly)).Get("/entries", handlers.GetAllJournalEntries)
		r.With(guard.Require(adminOnly)).Delete("/entries/{id}", handlers.AdminDeleteJournalEntry)
		r.With(guard.Require(adminOnly)).Get("/audit", handlers.GetAuditEvents)
	})
}
