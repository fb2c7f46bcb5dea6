package worldmodel

import (
	"sync/atomic"

	"github.com/coldiron/betacraft/internal/location"
)

// Entity is any non-player-controlled or player-controlled world presence
// with an eid, a name (used to key use-hooks), a location, and an opaque
// payload (e.g. an ItemPayload for dropped items) — spec.md §3.
type Entity struct {
	EID      uint32
	Name     string
	Location location.Location
	Payload  any
}

// ItemPayload is the payload carried by a dropped-item entity
// (name="Item" per spec.md §3).
type ItemPayload struct {
	ItemID int16
	Count  int8
	Damage int16
}

var eidCounter uint32

// NextEID allocates a monotonically increasing, server-lifetime-unique
// entity id from one process-wide counter. Both session construction
// (player eids) and the broadcast bus's Give (dropped items) draw from it.
func NextEID() uint32 {
	return atomic.AddUint32(&eidCounter, 1)
}

// TileEntity is extra per-block state, currently just sign text
// (spec.md glossary).
type TileEntity struct {
	Lines [4]string
}
