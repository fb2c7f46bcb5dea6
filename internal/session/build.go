package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coldiron/betacraft/internal/hooks"
	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// BuildError aborts a build commit silently: no broadcast, no state
// mutation beyond whatever pre-build hooks already did (spec.md §4.5
// step 8, §7).
type BuildError struct{ Reason string }

func (e *BuildError) Error() string { return fmt.Sprintf("build: %s", e.Reason) }

var digPolicy = worldmodel.DigPolicy{}

// sentinelCoord is the digging/build "no target" marker (-1,255,-1)
// (spec.md §4.5).
func isSentinel(x int32, y uint8, z int32) bool {
	return x == -1 && y == 255 && z == -1
}

// handleDigging is spec.md §4.5's dig-phase handler: item-drop sentinel,
// one-shot immediate break, or timed break scheduling.
func (s *Session) handleDigging(p *wire.PlayerDigging) error {
	if isSentinel(p.X, p.Y, p.Z) {
		return nil
	}

	if p.Status == wire.DigDropped && p.Face == wire.DigFaceNegY && p.X == 0 && p.Y == 0 && p.Z == 0 {
		return s.dropHeldItem()
	}

	coord := worldmodel.BlockCoord{X: p.X, Y: p.Y, Z: p.Z}
	chunkCoord := coord.Chunk()
	s.mu.Lock()
	chunk, ok := s.chunks[chunkCoord]
	s.mu.Unlock()
	if !ok {
		s.Disconnect("chunk not loaded")
		return fmt.Errorf("digging: chunk %v not in session cache", chunkCoord)
	}

	lx, y, lz := coord.Local()
	blockID := chunk.GetBlock(lx, y, lz)
	block, known := worldmodel.ByID(blockID)
	if !known {
		return nil
	}

	tool := s.heldToolName()

	switch p.Status {
	case wire.DigStarted:
		if digPolicy.IsOneShot(block, tool) {
			return s.runDigPipeline(context.Background(), chunk, coord, block)
		}
		s.mu.Lock()
		s.lastDig = &digState{coord: coord, block: block, finishAt: time.Now().Add(digPolicy.DigTime(block, tool))}
		s.mu.Unlock()
		return nil

	case wire.DigStopped:
		s.mu.Lock()
		ld := s.lastDig
		if ld == nil || ld.coord != coord || ld.block.ID != block.ID {
			s.lastDig = nil
			s.mu.Unlock()
			return nil
		}
		s.lastDig = nil
		remaining := time.Until(ld.finishAt)
		s.mu.Unlock()

		if remaining <= 0 {
			return s.runDigPipeline(context.Background(), chunk, coord, block)
		}
		time.AfterFunc(remaining, func() {
			_ = s.runDigPipeline(context.Background(), chunk, coord, block)
		})
		return nil
	}
	return nil
}

// runDigPipeline destroys the block, runs every dig hook concurrently,
// then flushes the chunk (spec.md §4.5's Dig pipeline; §5's "await
// concurrently" discipline for independent hook invocations).
func (s *Session) runDigPipeline(ctx context.Context, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, block worldmodel.Block) error {
	if !block.Diggable {
		return nil
	}

	if err := s.gw.Destroy(ctx, coord); err != nil {
		s.log.Warn("destroy failed", "error", err)
		return nil
	}

	var wg sync.WaitGroup
	for _, h := range s.namedHooks.Dig {
		wg.Add(1)
		go func(h hooks.DigHook) {
			defer wg.Done()
			if err := h.Dig(ctx, s.bus, chunk, coord, block); err != nil {
				s.log.Warn("dig hook failed", "error", err)
			}
		}(h)
	}
	wg.Wait()

	for _, drop := range digPolicy.Drops(block, s.heldToolName()) {
		s.dropAt(coord, drop)
	}

	return s.bus.FlushChunk(ctx, chunk)
}

// dropHeldItem consumes one from the held slot and spawns it as an Item
// entity 2 blocks in front of the player at head height (spec.md §4.5).
func (s *Session) dropHeldItem() error {
	s.mu.Lock()
	player := s.player
	loc := s.loc
	s.mu.Unlock()
	if player == nil {
		return nil
	}

	held := player.Inventory.HeldItem()
	if held.IsEmpty() {
		return nil
	}
	if !player.Inventory.Consume(held.ID, held.Damage, player.Inventory.HeldSlot) {
		return nil
	}

	fx, fy, fz := loc.InFrontOf(2)
	fy++ // head height: one block above the feet
	coord := worldmodel.BlockCoord{X: int32(fx), Y: uint8(fy), Z: int32(fz)}
	s.bus.Give(s.ctx, coord, held.ID, held.Damage, 1)

	s.sendOwnInventory()
	if player.Inventory.HeldItem().IsEmpty() {
		s.bus.BroadcastForOthers(&wire.EntityEquipment{EntityID: int32(s.eid), Slot: -1}, s.Username())
	}
	return nil
}

// dropAt spawns a dig-drop item at the broken block's location.
func (s *Session) dropAt(coord worldmodel.BlockCoord, drop worldmodel.ItemPayload) {
	s.bus.Give(s.ctx, coord, drop.ItemID, drop.Damage, drop.Count)
}

func (s *Session) heldToolName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return "hand"
	}
	held := s.player.Inventory.HeldItem()
	if held.IsEmpty() {
		return "hand"
	}
	if kind := worldmodel.ToolKind(held.ID); kind != "" {
		return kind
	}
	return "hand"
}

// handleBuild is spec.md §4.5's build pipeline.
func (s *Session) handleBuild(p *wire.PlayerBlockPlacement) error {
	if isSentinel(p.X, p.Y, p.Z) || p.Held.ID == -1 || p.Direction == wire.NoopFace {
		return nil
	}

	target := worldmodel.BlockCoord{X: p.X, Y: p.Y, Z: p.Z}
	targetChunkCoord := target.Chunk()
	s.mu.Lock()
	targetChunk, ok := s.chunks[targetChunkCoord]
	s.mu.Unlock()
	if !ok {
		s.Disconnect("chunk not loaded")
		return fmt.Errorf("build: chunk %v not in session cache", targetChunkCoord)
	}

	lx, ly, lz := target.Local()
	targetID := targetChunk.GetBlock(lx, ly, lz)
	if tb, ok := worldmodel.ByID(targetID); ok && tb.IsWorkbench {
		return s.openWorkbench()
	}

	if p.Y == 127 && p.Direction == 1 {
		return nil
	}

	block, known := worldmodel.ByID(uint8(p.Held.ID))
	if !known {
		s.log.Debug("unknown build item", "id", p.Held.ID)
		return nil
	}

	data := &hooks.BuildData{Block: block, Metadata: 0, Coord: target, Face: p.Direction}

	for _, h := range s.namedHooks.PreBuild {
		cont, err := h.PreBuild(s.ctx, s.bus, data)
		if err != nil {
			s.log.Warn("pre-build hook failed", "error", err)
			return nil
		}
		if !cont {
			return nil
		}
	}

	if err := s.runBuild(data); err != nil {
		if _, ok := err.(*BuildError); ok {
			return nil
		}
		return nil
	}

	for _, h := range s.namedHooks.PostBuild {
		if err := h.PostBuild(s.ctx, s.bus, data); err != nil {
			s.log.Warn("post-build hook failed", "error", err)
		}
	}

	for _, a := range s.namedHooks.AutomatonsFor(data.Block.ID) {
		a.Feed(s.ctx, s.bus, data.Coord)
	}

	s.sendOwnInventory()
	s.flushDirtyChunks()
	return nil
}

// runBuild is spec.md §4.5 step 7: the commit. set_block and
// set_metadata run concurrently once both are decided, per §5's
// inlineCallbacks-style concurrency note.
func (s *Session) runBuild(data *hooks.BuildData) error {
	block, known := worldmodel.ByID(data.Block.ID)
	if !known {
		return &BuildError{Reason: "not a placeable block"}
	}

	if data.Metadata == 0 && block.Orientable {
		meta, ok := orientationFromFace(data.Face)
		if !ok {
			return &BuildError{Reason: "no orientation for face"}
		}
		data.Metadata = meta
	}

	s.mu.Lock()
	player := s.player
	s.mu.Unlock()
	if player == nil {
		return &BuildError{Reason: "no player loaded"}
	}
	if !player.Inventory.Consume(int16(block.ID), 0, player.Inventory.HeldSlot) &&
		!player.Inventory.Consume(block.DropID, 0, player.Inventory.HeldSlot) {
		return &BuildError{Reason: "nothing to consume from held slot"}
	}

	dx, dy, dz := faceOffset(data.Face)
	coord := worldmodel.BlockCoord{
		X: data.Coord.X + dx,
		Y: uint8(int32(data.Coord.Y) + dy),
		Z: data.Coord.Z + dz,
	}
	data.Coord = coord

	var wg sync.WaitGroup
	var blockErr, metaErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		blockErr = s.gw.SetBlock(s.ctx, coord, block.ID)
	}()
	if data.Metadata != 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metaErr = s.gw.SetMetadata(s.ctx, coord, data.Metadata)
		}()
	}
	wg.Wait()
	if blockErr != nil {
		return blockErr
	}
	if metaErr != nil {
		return metaErr
	}
	return nil
}

// flushDirtyChunks flushes every dirty chunk in the session's cache via
// the broadcast bus (spec.md §4.5 step 11).
func (s *Session) flushDirtyChunks() {
	s.mu.Lock()
	chunks := make([]*worldmodel.Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		chunks = append(chunks, c)
	}
	s.mu.Unlock()
	for _, c := range chunks {
		if err := s.bus.FlushChunk(s.ctx, c); err != nil {
			s.log.Warn("flush chunk failed", "error", err)
		}
	}
}
