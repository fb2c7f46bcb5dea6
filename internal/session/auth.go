package session

import (
	"fmt"
	"strings"

	"github.com/coldiron/betacraft/internal/broadcast"
	"github.com/coldiron/betacraft/internal/wire"
)

// handleHandshake is spec.md §4.2's handshake step. The default
// implementation's hook always accepts and replies "-" (offline mode);
// there is no online-mode verification in this core (spec.md Non-goals).
func (s *Session) handleHandshake(p *wire.HandshakeRequest) error {
	s.mu.Lock()
	if s.state != StateUnauthenticated {
		s.mu.Unlock()
		return fmt.Errorf("handshake out of order")
	}
	s.state = StateChallenged
	s.mu.Unlock()

	return s.WritePacket(&wire.HandshakeResponse{ConnectionHash: "-"})
}

// handleLogin is spec.md §4.2's login step: a protocol-version check,
// then the (always-succeeding, offline-mode) login hook, then
// authenticated() entry.
func (s *Session) handleLogin(p *wire.LoginRequest) error {
	if p.ProtocolVersion != wire.ProtocolVersion {
		s.Disconnect("This server doesn't support your ancient client.")
		return fmt.Errorf("protocol version mismatch: %d", p.ProtocolVersion)
	}

	username := strings.TrimSpace(p.Username)
	if username == "" {
		s.Disconnect("Invalid username.")
		return fmt.Errorf("empty username")
	}

	s.mu.Lock()
	s.username = username
	s.mu.Unlock()

	return s.authenticated()
}

// authenticated runs the strict procedure in spec.md §4.2: load player,
// broadcast the join, backfill existing players to this session, insert
// into the registry, send spawn/inventory, stream the initial chunks, then
// start the periodic loops.
func (s *Session) authenticated() error {
	username := s.Username()

	player, err := s.gw.LoadPlayer(s.ctx, username)
	if err != nil {
		s.Disconnect("Could not load player data.")
		return fmt.Errorf("load player %s: %w", username, err)
	}

	s.mu.Lock()
	s.player = player
	s.loc = player.Location
	s.mu.Unlock()

	if err := s.WritePacket(&wire.LoginResponse{EntityID: int32(s.eid), MapSeed: 0, Dimension: 0}); err != nil {
		return err
	}

	s.bus.Chat(fmt.Sprintf("%s is joining the game...", username))

	s.bus.Broadcast(&wire.NamedEntitySpawn{
		EntityID: int32(s.eid), Name: username,
		X: int32(s.loc.X * 32), Y: int32(s.loc.Y * 32), Z: int32(s.loc.Z * 32),
	})
	s.bus.Broadcast(&wire.CreateEntity{EntityID: int32(s.eid)})

	// Backfill every already-connected player to this session before it is
	// inserted into the registry, so this loop never sees itself
	// (spec.md §4.2 step 5's self-echo avoidance). Each backfilled player's
	// spawn is followed by its equipment and a create packet, mirroring the
	// join broadcast above.
	s.bus.Registry.ForEach(func(h broadcast.Handle) {
		loc := h.Location()
		_ = s.WritePacket(&wire.NamedEntitySpawn{
			EntityID: int32(h.EID()), Name: h.Username(),
			X: int32(loc.X * 32), Y: int32(loc.Y * 32), Z: int32(loc.Z * 32),
		})
		for _, eq := range h.Equipment() {
			_ = s.WritePacket(eq)
		}
		_ = s.WritePacket(&wire.CreateEntity{EntityID: int32(h.EID())})
	})

	s.bus.Registry.Insert(username, s)

	s.mu.Lock()
	s.state = StateAuthenticated
	s.mu.Unlock()

	sx, sz := s.gw.SpawnLocation()
	if err := s.WritePacket(&wire.SpawnPosition{X: sx, Y: 64, Z: sz}); err != nil {
		return err
	}
	s.sendOwnInventory()

	if err := s.sendInitialChunkAndLocation(); err != nil {
		s.Disconnect("World failed to load.")
		return err
	}

	s.startPeriodicTasks()
	return nil
}
