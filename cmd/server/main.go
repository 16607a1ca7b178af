package main

import (
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/napatsiri/go-biolink/pkg/adapters/handler"
	"github.com/napatsiri/go-biolink/pkg/adapters/notify"
	"github.com/napatsiri/go-biolink/pkg/adapters/repository/sqlite"
	"github.com/napatsiri/go-biolink/pkg/config"
	"github.com/napatsiri/go-biolink/pkg/core/services"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.AppEnv == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Repository
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize change fan-out and services
	hub := notify.NewHub(logger)
	entryService := services.NewEntryService(repo, hub)
	profileService := services.NewProfileService(repo, repo, hub)
	marketService := services.NewMarketService(repo)
	accountService := services.NewAccountService(repo)

	// Initialize Router
	mux := handler.NewRouter(cfg, entryService, profileService, marketService, accountService, hub, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
