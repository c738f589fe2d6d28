package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Grievances     *handlers.GrievancesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role checks beyond authentication live
// in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/petitioners/register", cfg.Auth.RegisterPetitioner)
	authGroup.Post("/petitioners/login", cfg.Auth.LoginPetitioner)
	authGroup.Post("/officials/register", cfg.Auth.RegisterOfficial)
	authGroup.Post("/officials/login", cfg.Auth.LoginOfficial)
	authGroup.Post("/admins/login", cfg.Auth.LoginAdmin)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}

	me := app.Group("/me", authenticated...)
	me.Get("/", cfg.Profile.Get)
	me.Put("/", cfg.Profile.Update)
	me.Put("/preferences", cfg.Profile.UpdatePreferences)
	me.Put("/password", cfg.Profile.ChangePassword)

	grievances := app.Group("/grievances", authenticated...)
	grievances.Post("/", cfg.Grievances.Create)
	grievances.Get("/", cfg.Grievances.List)
	grievances.Get("/summary", cfg.Grievances.Summary)
	grievances.Get("/escalated", cfg.Grievances.Escalated)
	grievances.Get("/:id", cfg.Grievances.Get)
	grievances.Get("/:id/history", cfg.Grievances.History)
	grievances.Post("/:id/assign", cfg.Grievances.Assign)
	grievances.Post("/:id/start", cfg.Grievances.Start)
	grievances.Post("/:id/resolve", cfg.Grievances.Resolve)
	grievances.Post("/:id/reject", cfg.Grievances.Reject)
	grievances.Post("/:id/escalate", cfg.Grievances.Escalate)
	grievances.Post("/:id/feedback", cfg.Grievances.Feedback)
	grievances.Post("/:id/escalation-response", cfg.Grievances.RespondToEscalation)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/officials", cfg.Admin.Officials)
	admin.Get("/quick-stats", cfg.Admin.QuickStats)
	admin.Get("/department-stats", cfg.Admin.DepartmentStats)
	admin.Get("/monthly-stats", cfg.Admin.MonthlyStats)
	admin.Get("/dashboard", cfg.Admin.Dashboard)
}
