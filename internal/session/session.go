// Package session implements the Session State Machine (spec.md §4.2),
// Chunk Streamer (§4.4), Build/Dig Orchestrator (§4.5), Use Hook Dispatch
// (§4.6), Window Actions (§4.7), Signs (§4.8), and Periodic Tasks (§4.9):
// the per-connection protocol core. Grounded on the teacher's
// internal/server/conn.Connection (state field, read loop, write mutex,
// disconnect-once discipline), generalized from the 1.8 VarInt-framed
// handshake/status/login/play states to Beta's three-state
// UNAUTHENTICATED/CHALLENGED/AUTHENTICATED machine and its single
// always-play packet stream.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/coldiron/betacraft/internal/broadcast"
	"github.com/coldiron/betacraft/internal/config"
	"github.com/coldiron/betacraft/internal/hooks"
	"github.com/coldiron/betacraft/internal/inventory"
	"github.com/coldiron/betacraft/internal/location"
	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldgateway"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// State is the session's position in the UNAUTHENTICATED -> CHALLENGED ->
// AUTHENTICATED lifecycle (spec.md §4.2).
type State int

const (
	StateUnauthenticated State = iota
	StateChallenged
	StateAuthenticated
	StateDisconnected
)

// digState is the session's at-most-one pending dig (spec.md §3's LastDig).
type digState struct {
	coord    worldmodel.BlockCoord
	block    worldmodel.Block
	finishAt time.Time
	timer    *time.Timer
}

// Session owns one TCP connection through its entire lifecycle: packet
// dispatch, chunk cache, open windows, dig state, and the two periodic
// loops (spec.md §3's Session data model).
type Session struct {
	conn       net.Conn
	log        *slog.Logger
	gw         worldgateway.Gateway
	bus        *broadcast.Bus
	reg        *hooks.Registry
	namedHooks hooks.NamedHooks
	motd       string
	configName string

	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex

	mu           sync.Mutex
	state        State
	username     string
	eid          uint32
	loc          location.Location
	player       *worldgateway.Player
	chunks       map[worldmodel.ChunkCoord]*worldmodel.Chunk
	windows      map[uint16]*inventory.Window
	nextWID      uint16
	cursor       wire.Slot
	lastDig      *digState
	streamCancel context.CancelFunc

	disconnectOnce sync.Once
}

// New constructs a Session bound to conn, resolving wc's hook-name lists
// through reg (spec.md §6's per-world config, §9's "registry constructed
// once at startup... the session reads only the resolved hook lists").
func New(parent context.Context, conn net.Conn, gw worldgateway.Gateway, bus *broadcast.Bus, reg *hooks.Registry, wc config.WorldConfig, configName string, log *slog.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	named, unknown := reg.Resolve(wc.PreBuildHookNames(), wc.PostBuildHookNames(), wc.DigHookNames(), wc.SignHookNames(), wc.UseHookNames(), wc.AutomatonNames())
	l := log.With("addr", conn.RemoteAddr().String())
	if len(unknown) > 0 {
		l.Warn("unknown hook names in world config", "world", configName, "names", unknown)
	}
	return &Session{
		conn:       conn,
		log:        l,
		gw:         gw,
		bus:        bus,
		reg:        reg,
		namedHooks: named,
		motd:       wc.MOTD,
		configName: configName,
		ctx:        ctx,
		cancel:     cancel,
		eid:        worldmodel.NextEID(),
		chunks:     make(map[worldmodel.ChunkCoord]*worldmodel.Chunk),
		windows:    make(map[uint16]*inventory.Window),
		nextWID:    1,
		cursor:     wire.EmptySlot,
	}
}

// --- broadcast.Handle ---

func (s *Session) Username() string { s.mu.Lock(); defer s.mu.Unlock(); return s.username }
func (s *Session) EID() uint32      { return s.eid }

func (s *Session) Location() location.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

func (s *Session) HasChunk(c worldmodel.ChunkCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.chunks[c]
	return ok
}

// Equipment returns the held-item and armor equipment packets for this
// session's player, used to backfill a newly authenticated session with
// every already-connected player's gear (spec.md §4.2 step 5).
func (s *Session) Equipment() []wire.Packet {
	s.mu.Lock()
	player := s.player
	eid := s.eid
	s.mu.Unlock()
	if player == nil {
		return nil
	}

	pkts := make([]wire.Packet, 0, 5)
	add := func(slot int16, it wire.Slot) {
		itemID, damage := int16(-1), int16(0)
		if !it.IsEmpty() {
			itemID, damage = it.ID, it.Damage
		}
		pkts = append(pkts, &wire.EntityEquipment{EntityID: int32(eid), Slot: slot, ItemID: itemID, Damage: damage})
	}
	add(0, player.Inventory.HeldItem())
	_, armor := player.Inventory.SaveToPacket()
	for armorIdx := 0; armorIdx < 4; armorIdx++ {
		add(int16(4-armorIdx), armor[armorIdx])
	}
	return pkts
}

func (s *Session) WritePacket(p wire.Packet) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return wire.WritePacket(s.conn, p)
}

// TeleportTo moves the session's location and notifies the client
// (server->client PlayerPositionLook), used by the `/tp` command.
func (s *Session) TeleportTo(loc location.Location) {
	s.mu.Lock()
	s.loc = loc
	s.mu.Unlock()
	_ = s.WritePacket(&wire.PlayerPositionLook{
		X: loc.X, Y: loc.Y, Stance: loc.Stance, Z: loc.Z,
		Yaw: loc.Yaw, Pitch: loc.Pitch, OnGround: loc.Grounded,
	})
	s.scheduleVisibilityUpdate()
}

// Save persists the session's player record, if one is loaded.
func (s *Session) Save(ctx context.Context) {
	s.mu.Lock()
	p := s.player
	username := s.username
	loc := s.loc
	s.mu.Unlock()
	if p == nil {
		return
	}
	p.Location = loc
	if err := s.gw.SavePlayer(ctx, username, p); err != nil {
		s.log.Warn("save player failed", "player", username, "error", err)
	}
}

// Disconnect writes an error packet and tears down the connection; the
// registry/broadcast cleanup runs once in Run's deferred disconnect,
// regardless of whether it was triggered by Disconnect or a read error.
func (s *Session) Disconnect(reason string) {
	_ = s.WritePacket(wire.ErrorPacket(reason))
	s.cancel()
}

// Run drives the connection's read loop until it closes, then performs
// disconnect cleanup exactly once (spec.md §4.2's Disconnect sequence).
func (s *Session) Run() {
	defer s.disconnect()

	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		n, err := s.conn.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			return
		}

		var decoded []wire.Decoded
		decoded, buf = wire.Decode(buf, func(tag byte) {
			s.log.Warn("unhandled tag", "tag", tag)
		}, func(tag byte, err error) {
			s.log.Warn("malformed packet", "tag", tag, "error", err)
		})
		for _, d := range decoded {
			if err := s.dispatch(d.Tag, d.Packet); err != nil {
				s.log.Warn("dispatch error", "tag", d.Tag, "error", err)
				return
			}
		}
	}
}

func (s *Session) dispatch(tag byte, p wire.Packet) error {
	switch tag {
	case wire.TagKeepAlive:
		return nil
	case wire.TagLogin:
		return s.handleLogin(p.(*wire.LoginRequest))
	case wire.TagHandshake:
		return s.handleHandshake(p.(*wire.HandshakeRequest))
	case wire.TagChat:
		return s.handleChat(p.(*wire.Chat))
	case wire.TagUse:
		return s.handleUse(p.(*wire.UseEntity))
	case wire.TagGrounded:
		s.mu.Lock()
		s.loc.Grounded = p.(*wire.Grounded).OnGround
		s.mu.Unlock()
		return nil
	case wire.TagPosition:
		return s.handlePosition(p.(*wire.PlayerPosition))
	case wire.TagOrientation:
		pl := p.(*wire.PlayerLook)
		s.mu.Lock()
		s.loc.Yaw, s.loc.Pitch, s.loc.Grounded = pl.Yaw, pl.Pitch, pl.OnGround
		s.mu.Unlock()
		return nil
	case wire.TagLocation:
		return s.handlePositionLook(p.(*wire.PlayerPositionLook))
	case wire.TagDigging:
		return s.handleDigging(p.(*wire.PlayerDigging))
	case wire.TagBuild:
		return s.handleBuild(p.(*wire.PlayerBlockPlacement))
	case wire.TagEquip:
		return s.handleEquip(p.(*wire.HoldingChange))
	case wire.TagArmAnimate:
		a := p.(*wire.Animation)
		s.bus.BroadcastForOthers(&wire.Animation{EntityID: int32(s.eid), Animate: a.Animate}, s.Username())
		return nil
	case wire.TagAction:
		return nil
	case wire.TagPickup:
		return s.handlePickup(p.(*wire.PickupSpawn))
	case wire.TagWindowClose:
		return s.handleWindowClose(p.(*wire.WindowClose))
	case wire.TagWindowAction:
		return s.handleWindowAction(p.(*wire.WindowAction))
	case wire.TagWindowToken:
		return nil
	case wire.TagUpdateSign:
		return s.handleSign(p.(*wire.UpdateSign))
	case wire.TagDisconnect:
		s.log.Info("client quit", "reason", p.(*wire.Kick).Reason)
		return fmt.Errorf("quit")
	default:
		return nil
	}
}

func (s *Session) handlePosition(p *wire.PlayerPosition) error {
	s.mu.Lock()
	before := s.blockChunkLocked()
	s.loc.X, s.loc.Y, s.loc.Stance, s.loc.Z, s.loc.Grounded = p.X, p.Y, p.Stance, p.Z, p.OnGround
	after := s.blockChunkLocked()
	s.mu.Unlock()
	if before != after {
		s.positionChanged()
	}
	return nil
}

func (s *Session) handlePositionLook(p *wire.PlayerPositionLook) error {
	s.mu.Lock()
	before := s.blockChunkLocked()
	s.loc.X, s.loc.Y, s.loc.Stance, s.loc.Z = p.X, p.Y, p.Stance, p.Z
	s.loc.Yaw, s.loc.Pitch, s.loc.Grounded = p.Yaw, p.Pitch, p.OnGround
	after := s.blockChunkLocked()
	s.mu.Unlock()
	if before != after {
		s.positionChanged()
	}
	return nil
}

func (s *Session) handleEquip(p *wire.HoldingChange) error {
	s.mu.Lock()
	if s.player != nil {
		s.player.Inventory.SetHeldSlot(p.SlotID)
		s.player.Equipped = uint8(p.SlotID)
	}
	username := s.username
	held := p.SlotID
	s.mu.Unlock()
	s.bus.BroadcastForOthers(&wire.EntityEquipment{EntityID: int32(s.eid), Slot: held}, username)
	return nil
}

// blockChunkLocked returns the chunk coordinate under the current
// location; callers must hold s.mu.
func (s *Session) blockChunkLocked() worldmodel.ChunkCoord {
	return worldmodel.ChunkCoord{CX: location.ChunkX(s.loc.BlockX()), CZ: location.ChunkZ(s.loc.BlockZ())}
}

// positionChanged reruns the chunk streamer's schedule and checks for a
// nearby dropped item to pick up — both triggered from every
// coordinate-changing position packet (spec.md §4.2 tag 11; SPEC_FULL.md
// §5's "pickup on tick" supplement keeps bravo's same trigger point).
func (s *Session) positionChanged() {
	s.scheduleVisibilityUpdate()
	s.checkPickup()
}

// checkPickup scans this session's cached chunks for dropped-item entities
// within pickupRadius and, on a hit, adds the item to the inventory,
// destroys the entity, and resends inventory (SPEC_FULL.md §5).
func (s *Session) checkPickup() {
	s.mu.Lock()
	loc := s.loc
	player := s.player
	var chunks []*worldmodel.Chunk
	for _, c := range s.chunks {
		chunks = append(chunks, c)
	}
	s.mu.Unlock()
	if player == nil {
		return
	}

	for _, c := range chunks {
		for _, e := range c.Entities() {
			item, ok := e.Payload.(worldmodel.ItemPayload)
			if !ok {
				continue
			}
			if loc.Distance(e.Location) > pickupRadius {
				continue
			}
			if !player.Inventory.Add(item.ItemID, item.Count, item.Damage) {
				continue
			}
			c.RemoveEntity(e.EID)
			s.bus.DestroyEntity(e.EID)
			s.bus.Broadcast(&wire.CollectItem{CollectedEID: int32(e.EID), CollectorEID: int32(s.eid)})
			s.sendOwnInventory()
			return
		}
	}
}

// handlePickup is tag 21: a factory-give at the supplied world coordinates
// (spec.md §4.2's handler table).
func (s *Session) handlePickup(p *wire.PickupSpawn) error {
	coord := worldmodel.BlockCoord{X: p.X, Y: uint8(p.Y), Z: p.Z}
	s.bus.Give(s.ctx, coord, p.ItemID, 0, p.Count)
	return nil
}

// disconnect is the deferred cleanup run exactly once when Run's read loop
// exits, for any reason (spec.md §4.2's Disconnect sequence).
func (s *Session) disconnect() {
	s.disconnectOnce.Do(func() {
		s.cancel()

		s.mu.Lock()
		wasAuthenticated := s.state == StateAuthenticated
		username := s.username
		player := s.player
		loc := s.loc
		s.mu.Unlock()

		if wasAuthenticated {
			if player != nil {
				player.Location = loc
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := s.gw.SavePlayer(ctx, username, player); err != nil {
					s.log.Warn("save on disconnect failed", "player", username, "error", err)
				}
				cancel()
			}
			s.bus.Broadcast(&wire.DestroyEntity{EntityID: int32(s.eid)})
			s.bus.Registry.Remove(username)
			s.bus.Chat(fmt.Sprintf("%s has left the game.", username))
		}

		_ = s.conn.Close()
		s.log.Info("session closed")
	})
}

// randTagline picks one of the configured MOTD taglines (spec.md §9 Open
// Question (c)).
func randTagline() string {
	return hooks.DefaultTaglines[rand.Intn(len(hooks.DefaultTaglines))]
}
