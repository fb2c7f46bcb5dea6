package worldmodel

import "sync"

const (
	ChunkHeight = 128
	chunkWidth  = 16
	blockCount  = chunkWidth * ChunkHeight * chunkWidth
)

// Chunk is a 16x128x16 voxel column: the unit of world streaming and
// persistence (GLOSSARY). Blocks and per-block metadata are stored as one
// byte each, indexed column-major by (y + lz*128 + lx*128*16) to match the
// wire chunk payload's byte order. Metadata is logically a nibble (0..15)
// but is kept as a full byte per entry for simplicity; only its low 4 bits
// are ever meaningful.
type Chunk struct {
	Coord ChunkCoord

	mu       sync.RWMutex
	blocks   [blockCount]uint8
	metadata [blockCount]uint8

	entities map[uint32]*Entity
	tiles    map[BlockCoord]*TileEntity
	Dirty    bool
}

// NewChunk allocates an empty (all-air) chunk at coord.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		Coord:    coord,
		entities: make(map[uint32]*Entity),
		tiles:    make(map[BlockCoord]*TileEntity),
	}
}

func index(lx int32, y uint8, lz int32) int {
	return int(lx)*ChunkHeight*chunkWidth + int(lz)*ChunkHeight + int(y)
}

// GetBlock returns the block id at a local (lx,y,lz) coordinate.
func (c *Chunk) GetBlock(lx int32, y uint8, lz int32) uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[index(lx, y, lz)]
}

// GetMetadata returns the metadata nibble at a local coordinate.
func (c *Chunk) GetMetadata(lx int32, y uint8, lz int32) uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metadata[index(lx, y, lz)] & 0x0F
}

// SetBlock sets the block id at a local coordinate and marks the chunk
// dirty.
func (c *Chunk) SetBlock(lx int32, y uint8, lz int32, id uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks[index(lx, y, lz)] = id
	c.Dirty = true
}

// SetMetadata sets the metadata nibble at a local coordinate and marks the
// chunk dirty.
func (c *Chunk) SetMetadata(lx int32, y uint8, lz int32, meta uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[index(lx, y, lz)] = meta & 0x0F
	c.Dirty = true
}

// Destroy clears the block and metadata at a local coordinate (sets it to
// air) — spec.md §4.5's dig pipeline commit.
func (c *Chunk) Destroy(lx int32, y uint8, lz int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := index(lx, y, lz)
	c.blocks[i] = 0
	c.metadata[i] = 0
	c.Dirty = true
}

// HeightAt returns the y of the topmost non-air block plus one, i.e. the
// first free-standing y at this column — used by the chunk streamer's
// initial-spawn height computation (spec.md §4.4).
func (c *Chunk) HeightAt(lx, lz int32) uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for y := ChunkHeight - 1; y >= 0; y-- {
		if c.blocks[index(lx, uint8(y), lz)] != 0 {
			return uint8(y + 1)
		}
	}
	return 0
}

// Column returns the full 128-entry block-id column at (lx,lz).
func (c *Chunk) Column(lx, lz int32) [ChunkHeight]uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out [ChunkHeight]uint8
	for y := 0; y < ChunkHeight; y++ {
		out[y] = c.blocks[index(lx, uint8(y), lz)]
	}
	return out
}

// AddEntity registers an entity as owned by this chunk.
func (c *Chunk) AddEntity(e *Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities[e.EID] = e
}

// RemoveEntity unregisters an entity from this chunk.
func (c *Chunk) RemoveEntity(eid uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entities, eid)
}

// Entities returns a snapshot slice of this chunk's entities.
func (c *Chunk) Entities() []*Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entity, 0, len(c.entities))
	for _, e := range c.entities {
		out = append(out, e)
	}
	return out
}

// SetTile upserts a tile entity (e.g. sign text) at a local coordinate and
// marks the chunk dirty. Returns true if this is a newly created tile
// (spec.md §4.8's `is_new`).
func (c *Chunk) SetTile(pos BlockCoord, t *TileEntity) (isNew bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, existed := c.tiles[pos]
	c.tiles[pos] = t
	c.Dirty = true
	return !existed
}

// Tiles returns a snapshot of this chunk's tile entities.
func (c *Chunk) Tiles() map[BlockCoord]*TileEntity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[BlockCoord]*TileEntity, len(c.tiles))
	for k, v := range c.tiles {
		out[k] = v
	}
	return out
}

// ClearDirty resets the dirty flag, called after a successful flush.
func (c *Chunk) ClearDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Dirty = false
}

// IsDirty reports the chunk's dirty flag under lock.
func (c *Chunk) IsDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Dirty
}

// SerializeBlocks returns the flat blocks+metadata payload in the wire's
// expected byte order: all block ids, then all metadata nibbles packed two
// per byte (low nibble first), matching the Beta MapChunk payload layout.
func (c *Chunk) SerializeBlocks() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]byte, 0, blockCount+blockCount/2)
	out = append(out, c.blocks[:]...)

	packed := make([]byte, blockCount/2)
	for i := 0; i < blockCount; i += 2 {
		lo := c.metadata[i] & 0x0F
		hi := c.metadata[i+1] & 0x0F
		packed[i/2] = lo | (hi << 4)
	}
	out = append(out, packed...)
	return out
}

// VisibleCircle returns the set of chunk-coordinate offsets within radius
// 10 of the origin, inclusive: {(i,j): i²+j² ≤ 100} — spec.md §4.4. It is
// computed once and cached.
var VisibleCircle = computeCircle(10)

func computeCircle(radius int) []ChunkCoord {
	var out []ChunkCoord
	r2 := radius * radius
	for i := -radius; i <= radius; i++ {
		for j := -radius; j <= radius; j++ {
			if i*i+j*j <= r2 {
				out = append(out, ChunkCoord{CX: int32(i), CZ: int32(j)})
			}
		}
	}
	return out
}
