// Package server wires the process together: per-world gateways, the
// shared hook registry, each world's broadcast bus, and the TCP accept
// loop that hands every connection off to its own session.Session.
// Grounded on the teacher's Server/Start/autoSave (this file, prior to
// rework): one listener, one goroutine per connection, a ticking
// auto-save loop — generalized from a single fixed world to spec.md §6's
// "world <name>" sections, each with its own gateway, bus, and hook
// resolution.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/coldiron/betacraft/internal/broadcast"
	"github.com/coldiron/betacraft/internal/config"
	"github.com/coldiron/betacraft/internal/hooks"
	"github.com/coldiron/betacraft/internal/session"
	"github.com/coldiron/betacraft/internal/worldbootstrap"
	"github.com/coldiron/betacraft/internal/worldgateway"
)

// worldInstance bundles one configured world's live state: its gateway,
// its broadcast bus, and the config it was built from (re-read by every
// new session to resolve that world's hook names).
type worldInstance struct {
	name string
	cfg  config.WorldConfig
	gw   *worldgateway.MemoryGateway
	bus  *broadcast.Bus
}

// Server is the top-level process: every configured world plus the
// registry and listener shared across all of them.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	reg    *hooks.Registry
	bans   *session.BanList
	worlds map[string]*worldInstance
}

// New constructs a Server from process config and a loaded worlds file,
// opening one MemoryGateway+Bus per configured world and fetching each
// world's starter snapshot via worldbootstrap.Fetch, per its `url`
// setting (spec.md §6).
func New(cfg *config.Config, wf *config.WorldsFile, bans *session.BanList, log *slog.Logger) (*Server, error) {
	reg := hooks.NewRegistry()
	hooks.RegisterDefaults(reg, log)

	worlds := make(map[string]*worldInstance, len(wf.Worlds))
	for name, wc := range wf.Worlds {
		dir := fmt.Sprintf("%s/%s", cfg.DataDir, name)
		if err := worldbootstrap.Fetch(wc.URL, dir, log.With("world", name)); err != nil {
			return nil, fmt.Errorf("server: bootstrap world %s: %w", name, err)
		}

		gw, err := worldgateway.NewMemoryGateway(dir, cfg.Seed, log.With("world", name))
		if err != nil {
			return nil, fmt.Errorf("server: open world %s: %w", name, err)
		}

		worlds[name] = &worldInstance{
			name: name,
			cfg:  wc,
			gw:   gw,
			bus:  broadcast.New(gw, log.With("world", name)),
		}
	}

	if _, ok := worlds[cfg.DefaultWorld]; !ok {
		return nil, fmt.Errorf("server: default world %q not configured", cfg.DefaultWorld)
	}

	return &Server{cfg: cfg, log: log, reg: reg, bans: bans, worlds: worlds}, nil
}

// Start listens on cfg.Port and blocks until ctx is cancelled, handing
// every accepted connection to a new session.Session bound to the
// server's default world.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer listener.Close()

	s.log.Info("server started", "port", s.cfg.Port, "worlds", len(s.worlds), "default_world", s.cfg.DefaultWorld)

	if s.cfg.AutoSaveMinutes > 0 {
		go s.autoSave(ctx)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		c, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("server shutting down")
				s.saveAll(context.Background())
				return nil
			}
			s.log.Error("accept connection", "error", err)
			continue
		}

		if s.bans.IsBanned(c.RemoteAddr()) {
			s.log.Info("rejected banned address", "addr", c.RemoteAddr())
			c.Close()
			continue
		}

		w := s.worlds[s.cfg.DefaultWorld]
		sess := session.New(ctx, c, w.gw, w.bus, s.reg, w.cfg, w.name, s.log)
		go sess.Run()
	}
}

// autoSave periodically flushes every world's metadata and every
// connected session's player record.
func (s *Server) autoSave(ctx context.Context) {
	d := time.Duration(s.cfg.AutoSaveMinutes) * time.Minute
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.saveAll(ctx)
		}
	}
}

func (s *Server) saveAll(ctx context.Context) {
	for name, w := range s.worlds {
		w.bus.SaveAll(ctx)
		if err := w.gw.SaveMeta(); err != nil {
			s.log.Error("save world meta failed", "world", name, "error", err)
		}
	}
	s.log.Info("auto-save complete")
}
