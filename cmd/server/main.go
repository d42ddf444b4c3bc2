// Package main - Entry point for the pricing server
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"printshop-pricing/api"
	"printshop-pricing/db"
	"printshop-pricing/internal/config"
	"printshop-pricing/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	store, err := db.Open(cfg.Store.Path)
	if err != nil {
		logging.Logger.Fatal("open store", zap.String("path", cfg.Store.Path), zap.Error(err))
	}
	defer store.Close()

	if cfg.Store.Migrate {
		if err := store.Migrate(); err != nil {
			logging.Logger.Fatal("migrate store", zap.Error(err))
		}
	}

	server := api.NewServerWithStore(version, store)

	logging.Logger.Info("pricing server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("version", version),
		zap.String("db", cfg.Store.Path),
	)
	if err := http.ListenAndServe(cfg.Server.Addr, server); err != nil {
		logging.Logger.Fatal("server exited", zap.Error(err))
	}
}
