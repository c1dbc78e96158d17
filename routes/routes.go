package routes

import (
	"github.com/gofiber/fiber/v2"

	"denku-backend/controllers"
	"denku-backend/middlewares"
	"denku-backend/models"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth + marketing endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)
	api.Post("/contact", controllers.CreateContactRequest)

	// Provider-facing endpoints (shared secrets, no JWT)
	tools := api.Group("/tools", middlewares.SharedSecret("X-Tool-Secret", "TOOL_SECRET"), middlewares.Idempotency())
	tools.Post("/appointments", controllers.ToolCreateAppointment)

	// Webhooks carry per-route middleware: a bare-prefix group would also
	// catch the dashboard routes below.
	webhookGate := middlewares.SharedSecret("X-Webhook-Secret", "WEBHOOK_SECRET")
	api.Post("/calls/webhook", webhookGate, middlewares.Idempotency(), controllers.CallWebhook)
	api.Post("/billing/webhook", webhookGate, middlewares.Idempotency(), controllers.BillingWebhook)

	// Admin reporting (Basic Auth)
	admin := api.Group("/admin", middlewares.BasicAdmin())
	admin.Get("/report", controllers.AdminReport)

	// Protected dashboard endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to the request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	editors := middlewares.RequireRole(models.RoleOwner, models.RoleAdmin)

	// Agents
	protected.Post("/agent", editors, controllers.CreateAgent)
	protected.Get("/agents", controllers.GetAgents)
	protected.Get("/agent/:id", controllers.GetAgent)
	protected.Patch("/agent/:id", editors, controllers.UpdateAgent)
	protected.Delete("/agent/:id", editors, controllers.DeleteAgent)

	// Phone lines
	protected.Post("/phone-line", editors, controllers.CreatePhoneLine)
	protected.Get("/phone-lines", controllers.GetPhoneLines)
	protected.Delete("/phone-line/:id", editors, controllers.DeletePhoneLine)

	// Calls
	protected.Get("/calls", controllers.GetCalls)
	protected.Get("/call/:id", controllers.GetCall)

	// Leads
	protected.Post("/lead", editors, controllers.CreateLead)
	protected.Get("/leads", controllers.GetLeads)
	protected.Patch("/lead/:id", editors, controllers.UpdateLead)

	// Tickets
	protected.Post("/ticket", editors, controllers.CreateTicket)
	protected.Get("/tickets", controllers.GetTickets)
	protected.Patch("/ticket/:id", editors, controllers.UpdateTicket)

	// Appointments
	protected.Get("/appointments", controllers.GetAppointments)
	protected.Patch("/appointment/:id", editors, controllers.UpdateAppointment)

	// Analytics
	protected.Get("/analytics/summary", controllers.GetAnalyticsSummary)

	// Billing + workspace
	protected.Get("/billing/limits", controllers.GetBillingLimits)
	protected.Get("/workspace", controllers.GetWorkspace)
	protected.Post("/workspace/pause", editors, controllers.PauseWorkspace)
	protected.Post("/workspace/resume", editors, controllers.ResumeWorkspace)

	// Voice bootstrap for the browser SDK
	protected.Get("/voice/session", controllers.VoiceSession)

	// Audit trail
	protected.Get("/audit-logs", editors, controllers.GetAuditLogs)
}
