package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/GoSim-25-26J-441/soapgen/config"
	"github.com/GoSim-25-26J-441/soapgen/internal/bootstrap"
	"github.com/GoSim-25-26J-441/soapgen/internal/generation"
	"github.com/GoSim-25-26J-441/soapgen/internal/logging"
	"github.com/GoSim-25-26J-441/soapgen/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.SetLevel(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	gen := generation.NewClient(
		cfg.Generator.URL,
		generation.WithTimeout(cfg.Generator.Timeout),
		generation.WithRateLimit(cfg.Generator.Rate, cfg.Generator.Burst),
	)
	registry := session.NewRegistry(gen, cfg.Session.TTL)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "soapgen-api",
		Version:        cfg.App.Version,
		GeneratorURL:   gen.BaseURL(),
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		Registry:       registry,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = bootstrap.RunServer(ctx, bootstrap.ServerOptions{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
		Sweeper: session.NewSweeper(registry, cfg.Session.Sweep),
	})
	if err != nil {
		log.Fatalf("server: %v", err)
	}
}
