package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func main() {
	// Variables de entorno desde .env (opcional)
	if err := godotenv.Load(); err != nil {
		log.Printf("aviso: no se pudo cargar .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cargar configuración: %v", err)
	}

	// Los logs van a stderr; stdout queda para la salida de los comandos
	appLog := logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Output: os.Stderr,
	})

	Execute(cfg, appLog)
}
