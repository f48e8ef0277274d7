package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"statkit/internal/api"
	"statkit/internal/config"
	"statkit/internal/container"
	"statkit/ui"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// main serves the JSON API and the report UI from one process over a shared
// result store.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	reports, err := ui.NewApp(appContainer.Service, ui.Config{Port: appConfig.Server.UIPort})
	if err != nil {
		log.Fatalf("Failed to create UI app: %v", err)
	}

	apiServer := api.NewServer(appContainer.Service, appConfig.Server.GinMode)
	defer apiServer.Close()

	servers := []*http.Server{
		{Addr: ":" + appConfig.Server.Port, Handler: apiServer.Handler()},
		{Addr: ":" + appConfig.Server.UIPort, Handler: reports.Handler()},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Printf("Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		apiServer.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Shutdown of %s failed: %v", srv.Addr, err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("statkit stopped: %v", err)
	}
}
