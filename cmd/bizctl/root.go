package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/store"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

var version = "1.0.0"

var (
	cfg    *config.Config
	appLog *logger.Logger
)

// operator actor con el que corren los comandos de mantenimiento.
var operator = &entity.User{ID: "bizctl", Email: "bizctl", Name: "bizctl", Role: entity.RoleAdmin}

var rootCmd = &cobra.Command{
	Use:   "bizctl",
	Short: "Tareas de mantenimiento del backoffice",
	Long: `bizctl opera directamente sobre el store configurado (STORE_DRIVER):
siembra inicial, desbloqueo de cuentas, exportación de facturas y consulta
del siguiente consecutivo.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute corre el comando pedido y termina el proceso con código 1 si falla.
func Execute(c *config.Config, l *logger.Logger) {
	cfg, appLog = c, l

	if err := rootCmd.Execute(); err != nil {
		appLog.Component("cmd").Error().Err(err).Msg("comando fallido")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openStore abre el store configurado; close libera la conexión.
func openStore(ctx context.Context) (repository.Repositories, func(), error) {
	repos, closeStore, err := store.Open(ctx, cfg, appLog)
	if err != nil {
		return repository.Repositories{}, nil, fmt.Errorf("abrir store %s: %w", cfg.Store.Driver, err)
	}
	return repos, closeStore, nil
}

func init() {
	rootCmd.AddCommand(seedCmd, unlockCmd, exportInvoiceCmd, nextNumberCmd)
}
