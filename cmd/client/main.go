package main

import (
	"context"
	"fmt"

	"github.com/declaro/taxsync/internal/adapter"
	"github.com/declaro/taxsync/internal/client"
	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/service"
	"github.com/declaro/taxsync/internal/store"

	"github.com/joho/godotenv"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// A missing .env file is fine; the environment itself wins anyway.
	_ = godotenv.Load()

	log := logger.NewAgentLogger("taxsync-agent")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	storages, err := store.NewClientStorages(cfg.Vault, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local vault")
	}

	services, err := service.NewClientServices(context.Background(), storages, serverAdapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client services")
	}

	app, err := client.NewApp(services, storages, serverAdapter, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init sync agent")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("sync agent run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
