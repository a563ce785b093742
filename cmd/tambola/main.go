package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tambolist/tambola/internal/bus"
	"github.com/tambolist/tambola/internal/config"
	"github.com/tambolist/tambola/internal/logger"
	"github.com/tambolist/tambola/internal/peer"
	"github.com/tambolist/tambola/internal/ui"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	room := flag.String("room", "", "override the configured room")
	busKind := flag.String("bus", "", "override the configured bus kind (websocket|redis)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("debug logging disabled: %v", err)
	}
	defer logger.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.LogInfo("config not loaded, using defaults: %v", err)
		cfg = config.Default()
	}
	if *room != "" {
		cfg.Room = *room
	}
	if *busKind != "" {
		cfg.Bus.Kind = *busKind
	}

	b, err := dialBus(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not reach the room: %v\n", err)
		os.Exit(1)
	}

	sink := ui.NewSink()
	p := peer.New(peer.Options{
		Bus:  b,
		View: sink,
		Game: cfg.Game,
	})

	prog := tea.NewProgram(ui.NewModel(p, cfg.Room), tea.WithAltScreen())
	sink.Bind(prog)

	if _, err := prog.Run(); err != nil {
		log.Fatalf("client error: %v", err)
	}
}

func dialBus(cfg *config.Config) (bus.Bus, error) {
	switch cfg.Bus.Kind {
	case "redis":
		return bus.DialRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Room)
	default:
		return bus.DialWebsocket(cfg.Bus.URL, cfg.Room)
	}
}
