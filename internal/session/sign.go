package session

import (
	"fmt"

	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// handleSign is spec.md §4.8: upsert the tile, broadcast it to every
// session with the chunk cached, then invoke every sign hook.
func (s *Session) handleSign(p *wire.UpdateSign) error {
	coord := worldmodel.BlockCoord{X: p.X, Y: uint8(p.Y), Z: p.Z}
	chunkCoord := coord.Chunk()

	s.mu.Lock()
	chunk, ok := s.chunks[chunkCoord]
	s.mu.Unlock()
	if !ok {
		s.Disconnect("chunk not loaded")
		return fmt.Errorf("sign: chunk %v not in session cache", chunkCoord)
	}

	lines := [4]string{p.Line1, p.Line2, p.Line3, p.Line4}
	isNew := chunk.SetTile(coord, &worldmodel.TileEntity{Lines: lines})

	s.bus.BroadcastForChunk(p, chunkCoord.CX, chunkCoord.CZ)

	for _, h := range s.namedHooks.Sign {
		if err := h.Sign(s.ctx, s.bus, chunk, coord, lines, isNew); err != nil {
			s.log.Warn("sign hook failed", "error", err)
		}
	}
	return nil
}
