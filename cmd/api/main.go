package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	_ "github.com/jhoicas/backoffice-api/docs"
	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/admin"
	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/banking"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/hr"
	"github.com/jhoicas/backoffice-api/internal/application/navigation"
	"github.com/jhoicas/backoffice-api/internal/application/reporting"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/export"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/mail"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/session"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// @title                       Backoffice API
// @version                     1.0
// @description                 Facturación, clientes, cuentas bancarias, pagos y administración de accesos.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos, closeStore, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir store")
	}
	defer closeStore()

	if _, err := admin.Seed(ctx, repos, cfg.Seed, log); err != nil {
		log.Fatal().Err(err).Msg("seed inicial")
	}

	authz := access.NewAuthorizer(repos.Roles, repos.Settings)
	authUC := auth.NewAuthUseCase(
		repos.Users, repos.Alerts, authz,
		session.NewMemoryStore(), session.NewMemoryPresence(cfg.Session.PresenceTTL),
		auth.Config{
			JWTSecret:     cfg.JWT.Secret,
			Issuer:        cfg.JWT.Issuer,
			SessionTTL:    cfg.Session.TTL,
			AdminTokenTTL: time.Duration(cfg.JWT.AdminExpiration) * time.Minute,
			MaxAttempts:   cfg.Session.MaxLoginAttempts,
		},
		log,
	)

	// Exportación: PDF (maroto), Word (XHTML canónico) y xlsx (excelize)
	exportUC := reporting.NewExportUseCase(repos, authz, reporting.Renderers{
		PDF:      export.NewPDFRenderer(),
		Word:     export.NewWordRenderer(),
		Workbook: export.NewWorkbookWriter(),
	}, log)
	invoiceUC := billing.NewInvoiceUseCase(repos.Invoices, repos.Clients, authz, mail.New(cfg.Mail, log), log).
		WithExporter(exportUC)
	bankingUC := banking.NewBankingUseCase(repos, authz, banking.DefaultCompletionDelay, log)

	// Procesos en segundo plano: barrido de sesiones vencidas y completado de pagos
	go authUC.RunSweeper(ctx, cfg.Session.SweepInterval)
	go bankingUC.Run(ctx)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Backoffice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		MenuUC:      navigation.NewMenuUseCase(authz),
		Authz:       authz,
		DashboardUC: analytics.NewDashboardUseCase(repos, authz),
		ClientUC:    billing.NewClientUseCase(repos.Clients, repos.Invoices, authz),
		InvoiceUC:   invoiceUC,
		CompanyUC:   billing.NewCompanyUseCase(repos.Settings, authz),
		ExportUC:    exportUC,
		BankingUC:   bankingUC,
		UserUC:      admin.NewUserUseCase(repos.Users, repos.Roles, authz, log),
		RoleUC:      admin.NewRoleUseCase(repos.Roles, repos.Users, authz),
		HRUC:        hr.NewHRUseCase(repos.Leaves, repos.Announcements, authz, log),
		SettingsUC:  admin.NewSettingsUseCase(repos.Settings, repos.Alerts, authz, log),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
