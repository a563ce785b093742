package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tambolist/tambola/internal/config"
	"github.com/tambolist/tambola/internal/relay"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config not loaded, using defaults: %v", err)
		cfg = config.Default()
	}

	srv := relay.New(cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("shutting down relay...")
		srv.Shutdown()
		os.Exit(0)
	}()

	log.Println("tambola relay starting...")
	if err := srv.Start(); err != nil {
		log.Fatalf("relay failed: %v", err)
	}
}
