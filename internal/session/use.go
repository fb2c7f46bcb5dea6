package session

import (
	"github.com/coldiron/betacraft/internal/hooks"
	"github.com/coldiron/betacraft/internal/wire"
)

// handleUse is spec.md §4.6: find the (at most one) entity within
// useRadius whose eid matches the packet's target, among both chunk
// entities and other players, and dispatch every use-hook registered for
// its name.
func (s *Session) handleUse(p *wire.UseEntity) error {
	target := uint32(p.Target)

	s.mu.Lock()
	loc := s.loc
	var chunks = make([]*chunkEntity, 0)
	for _, c := range s.chunks {
		for _, e := range c.Entities() {
			chunks = append(chunks, &chunkEntity{name: e.Name, eid: e.EID, dist: loc.Distance(e.Location)})
		}
	}
	s.mu.Unlock()

	name, found := "", false
	for _, ce := range chunks {
		if ce.eid == target && ce.dist <= useRadius {
			name, found = ce.name, true
			break
		}
	}
	if !found {
		for _, pl := range s.bus.PlayersNear(loc, useRadius) {
			if pl.EID == target {
				name, found = "Player", true
				break
			}
		}
	}
	if !found {
		return nil
	}

	user := hooks.PlayerInfo{Username: s.Username(), EID: s.eid, Location: loc}
	primary := p.LeftClick // primary == button==0 (left click)
	for _, h := range s.namedHooks.UseHooksFor(name) {
		if err := h.Use(s.ctx, s.bus, user, target, primary); err != nil {
			s.log.Warn("use hook failed", "entity", name, "error", err)
		}
	}
	return nil
}

type chunkEntity struct {
	name string
	eid  uint32
	dist float64
}
