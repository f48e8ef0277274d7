package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"statkit/internal/api"
	"statkit/internal/config"
	"statkit/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	server := api.NewServer(appContainer.Service, appConfig.Server.GinMode)
	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Printf("API server stopped: %v", err)
	}
}
