package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/config/middleware"
	_ "Sistem-Absensi-RFID/docs"
	"Sistem-Absensi-RFID/handlers"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Organization *handlers.OrganizationHandler
	Employee     *handlers.EmployeeHandler
	Attendance   *handlers.AttendanceHandler
	Report       *handlers.ReportHandler
	Query        *handlers.QueryHandler
	Health       *handlers.HealthHandler
}

// SetupRoutes registers every route. auth is the AuthMiddleware instance shared by protected routes.
func SetupRoutes(app *fiber.App, h Handlers, auth fiber.Handler, logger *zap.Logger) {
	// Health check, docs & metrics
	app.Get("/", h.Health.Root)
	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")
	api.Get("/time", h.Health.ServerTime)

	// Card readers authenticate by card, not by token
	api.Post("/rfid/scan", h.Attendance.Scan)

	orgOnly := []fiber.Handler{auth, middleware.RequireOrganization()}
	empOnly := []fiber.Handler{auth, middleware.RequireEmployee()}

	// Organization
	api.Post("/org/signup", h.Auth.OrganizationSignup)
	api.Post("/org/login", h.Auth.OrganizationLogin)
	api.Get("/org/dashboard", append(orgOnly, h.Organization.Dashboard)...)
	api.Delete("/org/account", append(orgOnly, h.Organization.DeleteAccount)...)
	api.Post("/auth/logout", auth, h.Auth.Logout)

	// Employees
	api.Post("/emp/login", h.Auth.EmployeeLogin)
	api.Get("/emp/dashboard", auth, h.Employee.Dashboard)
	api.Get("/emp/my-attendance", append(empOnly, h.Employee.MyAttendance)...)
	api.Post("/emp", append(orgOnly, h.Employee.AddEmployee)...)
	api.Get("/emp", append(orgOnly, h.Employee.ListEmployees)...)
	api.Delete("/emp/:id", append(orgOnly, h.Employee.RemoveEmployee)...)
	api.Get("/emp/:id/badge", append(orgOnly, h.Employee.Badge)...)

	// Attendance & reports
	attendance := api.Group("/attendance", orgOnly...)
	attendance.Post("/mark/:id/:status", h.Attendance.MarkAttendance)
	attendance.Get("/today", h.Attendance.Today)
	attendance.Get("/monthly/:year/:month", h.Report.Monthly)
	attendance.Get("/monthly/:year/:month/export", h.Report.ExportMonthly)
	attendance.Get("/table", h.Report.Table)

	// Support queries
	api.Post("/query/submit", append(orgOnly, h.Query.Submit)...)
	api.Get("/query/public", h.Query.Public)

	logger.Info("routes registered", zap.Int("count", len(app.GetRoutes(true))))
}
