package worldgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/coldiron/betacraft/internal/inventory"
	"github.com/coldiron/betacraft/internal/location"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// MemoryGateway is the reference Gateway implementation: an in-memory chunk
// cache with lazy terrain generation, backed by diskStorage for player
// records and plugin-data blobs, and its own per-chunk JSON files for block
// state. Grounded on the teacher's internal/server/world.World (the
// in-memory chunk map a server process keeps hot) paired with
// internal/server/storage.Storage for the persisted half.
type MemoryGateway struct {
	storage *diskStorage
	gen     *Generator
	log     *slog.Logger

	mu     sync.RWMutex
	chunks map[worldmodel.ChunkCoord]*worldmodel.Chunk

	spawnX, spawnZ int32
	age            int64
}

// NewMemoryGateway opens (or creates) a world rooted at dir, seeded for
// terrain generation, with its spawn point at (0,0) unless the saved
// world.json names another.
func NewMemoryGateway(dir string, seed int64, log *slog.Logger) (*MemoryGateway, error) {
	s, err := newDiskStorage(dir, log)
	if err != nil {
		return nil, err
	}
	g := &MemoryGateway{
		storage: s,
		gen:     NewGenerator(seed),
		log:     log,
		chunks:  make(map[worldmodel.ChunkCoord]*worldmodel.Chunk),
	}
	g.spawnX, g.spawnZ = 0, 0
	g.loadMeta(dir)
	return g, nil
}

type worldMeta struct {
	SpawnX int32 `json:"spawn_x"`
	SpawnZ int32 `json:"spawn_z"`
	Age    int64 `json:"age"`
}

func (g *MemoryGateway) metaPath() string {
	return g.storage.dir + "/world.json"
}

func (g *MemoryGateway) loadMeta(dir string) {
	data, err := os.ReadFile(g.metaPath())
	if err != nil {
		return
	}
	var m worldMeta
	if json.Unmarshal(data, &m) == nil {
		g.spawnX, g.spawnZ, g.age = m.SpawnX, m.SpawnZ, m.Age
	}
}

// SaveMeta flushes spawn location and world age to disk; called by the
// server's periodic save and the broadcast bus's SaveAll, alongside player
// saves.
func (g *MemoryGateway) SaveMeta() error {
	g.mu.RLock()
	m := worldMeta{SpawnX: g.spawnX, SpawnZ: g.spawnZ, Age: g.age}
	g.mu.RUnlock()
	return g.storage.atomicWriteJSON(g.metaPath(), &m)
}

// Tick advances the world age by one tick. The server runs no tick loop
// that calls it, so the age otherwise stays at its loaded value.
func (g *MemoryGateway) Tick() {
	g.mu.Lock()
	g.age++
	g.mu.Unlock()
}

func (g *MemoryGateway) RequestChunk(ctx context.Context, coord worldmodel.ChunkCoord) (*worldmodel.Chunk, error) {
	g.mu.RLock()
	c, ok := g.chunks[coord]
	g.mu.RUnlock()
	if ok {
		return c, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.chunks[coord]; ok {
		return c, nil
	}

	c, err := g.loadChunkFromDisk(coord)
	if err != nil {
		return nil, &WorldError{Op: "RequestChunk", Err: err}
	}
	if c == nil {
		c = g.gen.Generate(coord)
	}
	g.chunks[coord] = c
	return c, nil
}

func (g *MemoryGateway) loadChunkFromDisk(coord worldmodel.ChunkCoord) (*worldmodel.Chunk, error) {
	data, err := os.ReadFile(g.storage.chunkPath(coord.CX, coord.CZ))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var rec chunkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse chunk %d,%d: %w", coord.CX, coord.CZ, err)
	}
	return chunkFromRecord(coord, &rec), nil
}

func chunkFromRecord(coord worldmodel.ChunkCoord, rec *chunkRecord) *worldmodel.Chunk {
	c := worldmodel.NewChunk(coord)
	for lx := int32(0); lx < 16; lx++ {
		for lz := int32(0); lz < 16; lz++ {
			for y := 0; y < worldmodel.ChunkHeight; y++ {
				i := int(lx)*worldmodel.ChunkHeight*16 + int(lz)*worldmodel.ChunkHeight + y
				if i >= len(rec.Blocks) {
					continue
				}
				c.SetBlock(lx, uint8(y), lz, rec.Blocks[i])
				meta := rec.Metadata[i/2]
				if i%2 == 0 {
					c.SetMetadata(lx, uint8(y), lz, meta&0x0F)
				} else {
					c.SetMetadata(lx, uint8(y), lz, meta>>4)
				}
			}
		}
	}
	c.ClearDirty()
	return c
}

func (g *MemoryGateway) getChunk(ctx context.Context, bc worldmodel.BlockCoord) (*worldmodel.Chunk, worldmodel.BlockCoord, error) {
	coord := bc.Chunk()
	c, err := g.RequestChunk(ctx, coord)
	if err != nil {
		return nil, worldmodel.BlockCoord{}, err
	}
	return c, bc, nil
}

func (g *MemoryGateway) GetBlock(ctx context.Context, coord worldmodel.BlockCoord) (uint8, error) {
	c, bc, err := g.getChunk(ctx, coord)
	if err != nil {
		return 0, err
	}
	lx, y, lz := bc.Local()
	return c.GetBlock(lx, y, lz), nil
}

func (g *MemoryGateway) GetMetadata(ctx context.Context, coord worldmodel.BlockCoord) (uint8, error) {
	c, bc, err := g.getChunk(ctx, coord)
	if err != nil {
		return 0, err
	}
	lx, y, lz := bc.Local()
	return c.GetMetadata(lx, y, lz), nil
}

func (g *MemoryGateway) SetBlock(ctx context.Context, coord worldmodel.BlockCoord, id uint8) error {
	c, bc, err := g.getChunk(ctx, coord)
	if err != nil {
		return err
	}
	lx, y, lz := bc.Local()
	c.SetBlock(lx, y, lz, id)
	return nil
}

func (g *MemoryGateway) SetMetadata(ctx context.Context, coord worldmodel.BlockCoord, meta uint8) error {
	c, bc, err := g.getChunk(ctx, coord)
	if err != nil {
		return err
	}
	lx, y, lz := bc.Local()
	c.SetMetadata(lx, y, lz, meta)
	return nil
}

func (g *MemoryGateway) Destroy(ctx context.Context, coord worldmodel.BlockCoord) error {
	c, bc, err := g.getChunk(ctx, coord)
	if err != nil {
		return err
	}
	lx, y, lz := bc.Local()
	c.Destroy(lx, y, lz)
	return nil
}

func (g *MemoryGateway) LoadPlayer(ctx context.Context, username string) (*Player, error) {
	p, err := g.storage.loadPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	sx, sz := g.SpawnLocation()
	h := g.gen.HeightAt(sx, sz)
	return &Player{
		UUID:     UsernameUUID(username),
		Username: username,
		Location: location.Location{
			X: float64(sx) + 0.5, Y: float64(h) + 1, Z: float64(sz) + 0.5,
			Stance: float64(h) + 1 + 1.62,
		},
		Inventory: inventory.New(),
		GameMode:  0,
	}, nil
}

func (g *MemoryGateway) SavePlayer(ctx context.Context, username string, p *Player) error {
	return g.storage.savePlayer(ctx, username, p)
}

func (g *MemoryGateway) LoadPluginData(ctx context.Context, key string) ([]byte, error) {
	return g.storage.loadPluginData(ctx, key)
}

func (g *MemoryGateway) SavePluginData(ctx context.Context, key string, data []byte) error {
	return g.storage.savePluginData(ctx, key, data)
}

// PersistChunk flushes a chunk's block/metadata state to its own JSON file
// if it is dirty, then clears the dirty flag — the gateway-side half of the
// broadcast bus's flush_chunk (spec.md §6).
func (g *MemoryGateway) PersistChunk(ctx context.Context, c *worldmodel.Chunk) error {
	if !c.IsDirty() {
		return nil
	}
	raw := c.SerializeBlocks()
	blockCount := 16 * worldmodel.ChunkHeight * 16
	rec := chunkRecord{
		CX:       c.Coord.CX,
		CZ:       c.Coord.CZ,
		Blocks:   raw[:blockCount],
		Metadata: raw[blockCount:],
	}
	if err := g.storage.atomicWriteJSON(g.storage.chunkPath(c.Coord.CX, c.Coord.CZ), &rec); err != nil {
		return &WorldError{Op: "PersistChunk", Err: err}
	}
	c.ClearDirty()
	return nil
}

func (g *MemoryGateway) SpawnLocation() (x, z int32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.spawnX, g.spawnZ
}

func (g *MemoryGateway) Time() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.age
}

var _ Gateway = (*MemoryGateway)(nil)
