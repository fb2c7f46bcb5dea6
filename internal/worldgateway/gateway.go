// Package worldgateway implements the asynchronous façade over the world
// that spec.md §4/§6 calls the World Gateway: chunk loading/generation,
// block/metadata mutation, and player/plugin-data persistence. The real
// on-disk serializer is named an out-of-scope external collaborator in
// spec.md §1, so this package supplies an in-memory chunk cache backed by
// the teacher's atomic-JSON-write persistence style
// (internal/server/storage/storage.go) for player records and world
// metadata, plus a deterministic terrain generator adapted from
// internal/server/world/gen for chunks not yet persisted.
package worldgateway

import (
	"context"
	"fmt"

	"github.com/coldiron/betacraft/internal/inventory"
	"github.com/coldiron/betacraft/internal/location"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// WorldError wraps any I/O failure surfaced by the gateway (spec.md §7).
type WorldError struct {
	Op  string
	Err error
}

func (e *WorldError) Error() string { return fmt.Sprintf("worldgateway: %s: %v", e.Op, e.Err) }
func (e *WorldError) Unwrap() error { return e.Err }

// Player is the persisted player record (spec.md §3).
type Player struct {
	UUID     string
	Username string
	Location location.Location
	Inventory *inventory.Inventory
	Equipped  uint8
	GameMode  uint8
}

// Gateway is the World Gateway contract (spec.md §6). All methods are
// idempotent and safe for concurrent use by multiple sessions.
type Gateway interface {
	RequestChunk(ctx context.Context, coord worldmodel.ChunkCoord) (*worldmodel.Chunk, error)
	GetBlock(ctx context.Context, coord worldmodel.BlockCoord) (uint8, error)
	GetMetadata(ctx context.Context, coord worldmodel.BlockCoord) (uint8, error)
	SetBlock(ctx context.Context, coord worldmodel.BlockCoord, id uint8) error
	SetMetadata(ctx context.Context, coord worldmodel.BlockCoord, meta uint8) error
	Destroy(ctx context.Context, coord worldmodel.BlockCoord) error

	LoadPlayer(ctx context.Context, username string) (*Player, error)
	SavePlayer(ctx context.Context, username string, p *Player) error

	LoadPluginData(ctx context.Context, key string) ([]byte, error)
	SavePluginData(ctx context.Context, key string, data []byte) error

	// PersistChunk flushes one chunk's dirty block/metadata state to
	// storage; invoked by the broadcast bus's flush_chunk after it has
	// broadcast the change packets (spec.md §6's broadcast bus
	// flush_chunk; the gateway side is the persistence half).
	PersistChunk(ctx context.Context, c *worldmodel.Chunk) error

	// SpawnLocation returns the world's configured spawn point.
	SpawnLocation() (x, z int32)

	// Time returns the current world age/time-of-day tick count
	// (spec.md §4.9's time-sync loop reads this every 10s).
	Time() int64
}
