// tilewalk walks a character across tile areas in the terminal.
//
// Usage:
//
//	tilewalk [-config tilewalk.toml] [-area meadow|generated]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"tilewalk/assets"
	"tilewalk/internal/config"
	"tilewalk/internal/content"
	"tilewalk/internal/game"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file; defaults apply when empty")
	area := flag.String("area", "", "start area, overriding the config")
	flag.Parse()

	if err := run(*configPath, *area); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, area string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if area != "" {
		cfg.Resources.StartArea = area
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	fsys, err := assets.Open(cfg.Resources.Prefix)
	if err != nil {
		return fmt.Errorf("open resources: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	g, err := game.New(screen, cfg, content.NewManager(fsys, "", log.Named("content")), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info("starting", zap.String("area", cfg.Resources.StartArea), zap.String("prefix", cfg.Resources.Prefix))
	return g.Run(ctx)
}
