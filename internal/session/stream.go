package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/coldiron/betacraft/internal/location"
	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// sendInitialChunkAndLocation is spec.md §4.4's strict pipeline: enable
// the 6x6 spawn square, compute the spawn y, write the spawn-location
// packet, emit position-changed side effects, send the MOTD, then hand off
// to the cooperative radius-10 scheduler. Steps must not interleave —
// doing so freezes the client on spawn.
func (s *Session) sendInitialChunkAndLocation() error {
	s.mu.Lock()
	center := s.blockChunkLocked()
	s.mu.Unlock()

	for _, c := range initialSquare(center) {
		if err := s.enableChunk(s.ctx, c); err != nil {
			return fmt.Errorf("initial chunk %v: %w", c, err)
		}
	}

	s.mu.Lock()
	bx, bz := s.loc.BlockX(), s.loc.BlockZ()
	chunk := s.chunks[center]
	s.mu.Unlock()
	if chunk == nil {
		return fmt.Errorf("spawn chunk %v missing after enable", center)
	}
	lx, lz := location.LocalX(bx), location.LocalZ(bz)
	y := float64(chunk.HeightAt(lx, lz)) + 2

	s.mu.Lock()
	s.loc.Y = y
	s.loc.Stance = y + 1.62
	loc := s.loc
	s.mu.Unlock()

	if err := s.WritePacket(&wire.PlayerPositionLook{
		X: loc.X, Y: loc.Y, Stance: loc.Stance, Z: loc.Z,
		Yaw: loc.Yaw, Pitch: loc.Pitch, OnGround: loc.Grounded,
	}); err != nil {
		return err
	}

	s.bus.BroadcastForOthers(&wire.EntityTeleport{
		EntityID: int32(s.eid),
		X:        location.FixedPoint(loc.X), Y: location.FixedPoint(loc.Y), Z: location.FixedPoint(loc.Z),
		Yaw: location.DegreesToAngleByte(loc.Yaw), Pitch: location.DegreesToAngleByte(loc.Pitch),
	}, s.Username())
	s.checkPickup()

	if s.motd != "" {
		motd := replaceTagline(s.motd, randTagline())
		if err := s.WritePacket(&wire.Chat{Message: motd}); err != nil {
			return err
		}
	}

	s.scheduleVisibilityUpdate()
	return nil
}

// replaceTagline substitutes the literal `<tagline>` token (spec.md
// §9 Open Question (c)).
func replaceTagline(motd, tagline string) string {
	return strings.ReplaceAll(motd, "<tagline>", tagline)
}

// scheduleVisibilityUpdate cancels any outstanding streaming tasks and
// recomputes + re-dispatches the enable/disable schedule from the
// player's current chunk (spec.md §4.4's cooperative scheduler and
// cancel-and-reschedule discipline).
func (s *Session) scheduleVisibilityUpdate() {
	s.mu.Lock()
	if s.streamCancel != nil {
		s.streamCancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.streamCancel = cancel
	center := s.blockChunkLocked()
	have := make(map[worldmodel.ChunkCoord]*worldmodel.Chunk, len(s.chunks))
	for k, v := range s.chunks {
		have[k] = v
	}
	s.mu.Unlock()

	want := visibleSet(center)
	toEnable, toDisable := diffChunks(have, want)
	sort.Slice(toEnable, func(i, j int) bool {
		return toEnable[i].SquaredDistance(center) < toEnable[j].SquaredDistance(center)
	})

	go s.runStreamTasks(ctx, toEnable, toDisable)
}

// runStreamTasks is the cooperative scheduler body: it yields (checks for
// cancellation) after each unit of work so a single session's streaming
// never starves others sharing the process (spec.md §4.4/§5).
func (s *Session) runStreamTasks(ctx context.Context, toEnable, toDisable []worldmodel.ChunkCoord) {
	for _, c := range toDisable {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.disableChunk(c)
	}
	for _, c := range toEnable {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := s.enableChunk(ctx, c); err != nil {
			s.log.Warn("chunk enable failed", "cx", c.CX, "cz", c.CZ, "error", err)
		}
	}
}

// enableChunk requests a chunk from the world gateway and streams its
// prechunk/map/entities/tiles to the client (spec.md §4.4's Enable step).
func (s *Session) enableChunk(ctx context.Context, c worldmodel.ChunkCoord) error {
	chunk, err := s.gw.RequestChunk(ctx, c)
	if err != nil {
		return err
	}

	if err := s.WritePacket(&wire.PreChunk{X: c.CX, Z: c.CZ, Enabled: true}); err != nil {
		return err
	}
	if err := s.WritePacket(&wire.MapChunk{
		X: c.CX * 16, Y: 0, Z: c.CZ * 16,
		SizeX: 15, SizeY: 127, SizeZ: 15,
		Data: chunk.SerializeBlocks(),
	}); err != nil {
		return err
	}
	for _, e := range chunk.Entities() {
		item, ok := e.Payload.(worldmodel.ItemPayload)
		if !ok {
			continue
		}
		if err := s.WritePacket(&wire.PickupSpawn{
			X: location.FixedPoint(e.Location.X), Y: location.FixedPoint(e.Location.Y), Z: location.FixedPoint(e.Location.Z),
			ItemID: item.ItemID, Count: item.Count,
		}); err != nil {
			return err
		}
	}
	for coord, tile := range chunk.Tiles() {
		if err := s.WritePacket(&wire.UpdateSign{
			X: coord.X, Y: int16(coord.Y), Z: coord.Z,
			Line1: tile.Lines[0], Line2: tile.Lines[1], Line3: tile.Lines[2], Line4: tile.Lines[3],
		}); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.chunks[c] = chunk
	s.mu.Unlock()
	return nil
}

// disableChunk destroys a chunk's entities on the client and unloads it
// (spec.md §4.4's Disable step). A chunk not currently cached is a no-op,
// matching the idempotence property spec.md §8 requires.
func (s *Session) disableChunk(c worldmodel.ChunkCoord) {
	s.mu.Lock()
	chunk, ok := s.chunks[c]
	if ok {
		delete(s.chunks, c)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	for _, e := range chunk.Entities() {
		_ = s.WritePacket(&wire.DestroyEntity{EntityID: int32(e.EID)})
	}
	_ = s.WritePacket(&wire.PreChunk{X: c.CX, Z: c.CZ, Enabled: false})
}
