package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/antifraude-api/internal/application/admin"
	"github.com/jhoicas/antifraude-api/internal/application/auth"
	"github.com/jhoicas/antifraude-api/internal/application/intake"
	"github.com/jhoicas/antifraude-api/internal/application/report"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	IntakeUC  *intake.IntakeUseCase
	AdminUC   *admin.AdminUseCase
	ReportUC  *report.ReportUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", requireAuth, authHandler.Session)

	// Recepción de textos (usuario autenticado)
	intakeHandler := NewIntakeHandler(deps.IntakeUC)
	api.Post("/analyze", requireAuth, intakeHandler.Analyze)

	// Denuncias (anónimas permitidas)
	reportHandler := NewReportHandler(deps.ReportUC)
	api.Post("/reports", OptionalAuth(deps.JWTSecret), reportHandler.Submit)

	// Administración
	adminGroup := api.Group("/admin", requireAuth, RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.AdminUC)
	adminGroup.Get("/records", adminHandler.ListRecords)
	adminGroup.Delete("/records/:id", adminHandler.DeleteRecord)
	adminGroup.Get("/stats", adminHandler.Stats)
	adminGroup.Get("/sequences", adminHandler.ListSequences)
	adminGroup.Post("/sequences/:code/reset", adminHandler.ResetCategory)
	adminGroup.Post("/reset", adminHandler.ResetAll)
	adminGroup.Get("/reports", reportHandler.List)
	adminGroup.Put("/reports/batch", reportHandler.BatchUpdateStatus)
	adminGroup.Put("/reports/:id/status", reportHandler.UpdateStatus)
}
