package main

import (
	"context"
	"log"

	"statkit/internal/config"
	"statkit/internal/container"
	"statkit/ui"

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
	if err := appContainer.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	app, err := ui.NewApp(appContainer.Service, ui.Config{Port: appConfig.Server.UIPort})
	if err != nil {
		log.Fatalf("Failed to create UI app: %v", err)
	}
	if err := app.Start(appConfig.Server.UIPort); err != nil {
		log.Printf("UI server stopped: %v", err)
	}
}
