package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/admin"
	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/banking"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/hr"
	"github.com/jhoicas/backoffice-api/internal/application/navigation"
	"github.com/jhoicas/backoffice-api/internal/application/reporting"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	MenuUC      *navigation.MenuUseCase
	Authz       CapabilityChecker
	DashboardUC *analytics.DashboardUseCase
	ClientUC    *billing.ClientUseCase
	InvoiceUC   *billing.InvoiceUseCase
	CompanyUC   *billing.CompanyUseCase
	ExportUC    *reporting.ExportUseCase
	BankingUC   *banking.BankingUseCase
	HRUC        *hr.HRUseCase
	UserUC      *admin.UserUseCase
	RoleUC      *admin.RoleUseCase
	SettingsUC  *admin.SettingsUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	can := func(c entity.Capability) fiber.Handler { return RequireCapability(deps.Authz, c) }

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.MenuUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)
	protected.Get("/me/menu", authHandler.Menu)
	protected.Get("/presence", authHandler.Presence)
	protected.Post("/presence/heartbeat", authHandler.Heartbeat)

	protected.Get("/dashboard", can(entity.CapDashboard), NewDashboardHandler(deps.DashboardUC).Summary)

	// Empresa: lectura para cualquier actor autenticado, edición con settings
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", can(entity.CapSettings), companyHandler.Update)

	clients := protected.Group("/clients", can(entity.CapClients))
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	invoices := protected.Group("/invoices", can(entity.CapInvoices))
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ExportUC)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/next-number", invoiceHandler.NextNumber)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/paid", invoiceHandler.MarkPaid)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Get("/:id/export", invoiceHandler.Export)

	// Exports: reports en el grupo; el caso de uso exige además la capacidad de los datos
	exports := protected.Group("/exports", can(entity.CapReports))
	exportHandler := NewExportHandler(deps.ExportUC)
	exports.Get("/invoices", exportHandler.Invoices)
	exports.Get("/accounts", exportHandler.Accounts)
	exports.Get("/users", exportHandler.Users)
	exports.Get("/leave-requests", exportHandler.LeaveRequests)

	// transacciones antes del grupo de cuentas: solo exigen transactions
	bankingHandler := NewBankingHandler(deps.BankingUC)
	protected.Get("/bank-accounts/:id/transactions", can(entity.CapTransactions), bankingHandler.Transactions)
	protected.Delete("/transactions/:id", can(entity.CapTransactions), bankingHandler.DeleteTransaction)
	accounts := protected.Group("/bank-accounts", can(entity.CapBankAccounts))
	accounts.Post("/", bankingHandler.CreateAccount)
	accounts.Get("/", bankingHandler.ListAccounts)
	accounts.Get("/:id", bankingHandler.GetAccount)
	accounts.Delete("/:id", bankingHandler.DeleteAccount)
	accounts.Post("/:id/credit", bankingHandler.Credit)

	payments := protected.Group("/payments", can(entity.CapPayments))
	payments.Post("/", bankingHandler.InitiatePayment)
	payments.Get("/", bankingHandler.ListPayments)
	payments.Get("/:id", bankingHandler.GetPayment)
	payments.Put("/:id", bankingHandler.UpdatePayment)
	payments.Delete("/:id", bankingHandler.DeletePayment)

	hrGroup := protected.Group("/hr", can(entity.CapHR))
	hrHandler := NewHRHandler(deps.HRUC)
	hrGroup.Post("/leave-requests", hrHandler.CreateLeave)
	hrGroup.Get("/leave-requests", hrHandler.ListLeaves)
	hrGroup.Get("/leave-requests/:id", hrHandler.GetLeave)
	hrGroup.Put("/leave-requests/:id", hrHandler.UpdateLeave)
	hrGroup.Post("/leave-requests/:id/review", hrHandler.ReviewLeave)
	hrGroup.Delete("/leave-requests/:id", hrHandler.DeleteLeave)
	hrGroup.Post("/announcements", hrHandler.CreateAnnouncement)
	hrGroup.Get("/announcements", hrHandler.ListAnnouncements)
	hrGroup.Get("/announcements/:id", hrHandler.GetAnnouncement)
	hrGroup.Put("/announcements/:id", hrHandler.UpdateAnnouncement)
	hrGroup.Delete("/announcements/:id", hrHandler.DeleteAnnouncement)

	adminHandler := NewAdminHandler(deps.UserUC, deps.RoleUC, deps.SettingsUC)
	users := protected.Group("/users", can(entity.CapUsers))
	users.Post("/", adminHandler.CreateUser)
	users.Get("/", adminHandler.ListUsers)
	users.Get("/:id", adminHandler.GetUser)
	users.Put("/:id", adminHandler.UpdateUser)
	users.Delete("/:id", adminHandler.DeleteUser)
	users.Post("/:id/unlock", adminHandler.UnlockUser)

	roles := protected.Group("/roles", can(entity.CapRoles))
	roles.Post("/", adminHandler.CreateRole)
	roles.Get("/", adminHandler.ListRoles)
	roles.Get("/:id", adminHandler.GetRole)
	roles.Put("/:id", adminHandler.UpdateRole)
	roles.Delete("/:id", adminHandler.DeleteRole)

	settings := protected.Group("/settings", can(entity.CapAdmin))
	settings.Get("/freeze", adminHandler.Freeze)
	settings.Put("/freeze", adminHandler.UpdateFreeze)

	alerts := protected.Group("/security-alerts", can(entity.CapAdmin))
	alerts.Get("/", adminHandler.Alerts)
	alerts.Post("/:id/ack", adminHandler.AcknowledgeAlert)
}
