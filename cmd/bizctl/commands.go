package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/admin"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/reporting"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/export"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/mail"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/session"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Siembra roles, congelamiento, empresa y el admin inicial",
	Long: `Crea lo que falte de la siembra inicial. Es idempotente: si todo existe
no modifica nada. El admin se toma de SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repos, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		report, err := admin.Seed(ctx, repos, cfg.Seed, appLog)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "roles creados:   %d\n", report.RolesCreated)
		fmt.Fprintf(out, "admin creado:    %t\n", report.AdminCreated)
		fmt.Fprintf(out, "congelamiento:   %t\n", report.FreezeCreated)
		fmt.Fprintf(out, "empresa:         %t\n", report.CompanyCreated)
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:     "unlock [email]",
	Short:   "Desbloquea una cuenta y reinicia su contador de intentos",
	Example: `  bizctl unlock ana@acme.com`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repos, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		authz := access.NewAuthorizer(repos.Roles, repos.Settings)
		uc := auth.NewAuthUseCase(
			repos.Users, repos.Alerts, authz,
			session.NewMemoryStore(), session.NewMemoryPresence(cfg.Session.PresenceTTL),
			auth.Config{
				JWTSecret:   cfg.JWT.Secret,
				Issuer:      cfg.JWT.Issuer,
				SessionTTL:  cfg.Session.TTL,
				MaxAttempts: cfg.Session.MaxLoginAttempts,
			},
			appLog,
		)
		user, err := uc.Unlock(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s desbloqueado\n", user.Email)
		return nil
	},
}

var (
	exportFormat string
	exportOut    string
)

var exportInvoiceCmd = &cobra.Command{
	Use:   "export-invoice [invoice-id]",
	Short: "Exporta una factura a PDF, Word o xlsx",
	Example: `  bizctl export-invoice 6f0c... --format pdf
  bizctl export-invoice 6f0c... --format doc -o factura.doc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repos, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		authz := access.NewAuthorizer(repos.Roles, repos.Settings)
		uc := reporting.NewExportUseCase(repos, authz, reporting.Renderers{
			PDF:      export.NewPDFRenderer(),
			Word:     export.NewWordRenderer(),
			Workbook: export.NewWorkbookWriter(),
		}, appLog)

		file, err := uc.ExportInvoice(ctx, operator, args[0], nil, exportFormat)
		if err != nil {
			return err
		}
		path := exportOut
		if path == "" {
			path = file.Name
		}
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", path, err)
		}
		abs, _ := filepath.Abs(path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", abs, len(file.Data))
		return nil
	},
}

var nextNumberCmd = &cobra.Command{
	Use:   "next-number",
	Short: "Muestra el siguiente consecutivo de factura",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repos, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		authz := access.NewAuthorizer(repos.Roles, repos.Settings)
		uc := billing.NewInvoiceUseCase(repos.Invoices, repos.Clients, authz, mail.New(cfg.Mail, appLog), appLog)
		next, err := uc.NextNumber(ctx, operator)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), next)
		return nil
	},
}

func init() {
	exportInvoiceCmd.Flags().StringVarP(&exportFormat, "format", "f", reporting.FormatPDF, "Formato: pdf, doc o xlsx")
	exportInvoiceCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Archivo de salida (por defecto el nombre generado)")
}
