// Command server is the betacraft entry point: flag parsing, slog setup,
// signal-based shutdown, and wiring config -> world gateways -> hook
// registry -> broadcast buses -> TCP accept loop. No RSA/online-mode
// setup here, unlike the teacher's main.go — Beta's protocol has no
// encrypted handshake, and online-mode verification is out of scope
// (spec.md Non-goals).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coldiron/betacraft/internal/config"
	"github.com/coldiron/betacraft/internal/server"
	"github.com/coldiron/betacraft/internal/session"
)

func main() {
	cfg := config.DefaultConfig()

	var bannedHosts string
	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for persistent data")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world generation seed, for worlds with no starter snapshot")
	flag.IntVar(&cfg.AutoSaveMinutes, "auto-save", cfg.AutoSaveMinutes, "auto-save interval in minutes (0 = disabled)")
	flag.StringVar(&cfg.WorldsFile, "worlds-file", cfg.WorldsFile, "path to the worlds.yaml configuration")
	flag.StringVar(&cfg.DefaultWorld, "default-world", cfg.DefaultWorld, "world section new connections join")
	flag.StringVar(&bannedHosts, "banned", "", "comma-separated list of banned host addresses")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	wf, err := config.LoadWorlds(cfg.WorldsFile)
	if err != nil {
		log.Error("load worlds file", "error", err)
		os.Exit(1)
	}

	bans := session.NewBanList(splitHosts(bannedHosts)...)

	srv, err := server.New(cfg, wf, bans, log)
	if err != nil {
		log.Error("build server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func splitHosts(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
