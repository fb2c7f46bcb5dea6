// Package worldmodel implements the core world data types the session and
// chunk streamer operate on: chunk/block coordinates, the Chunk itself
// (block/metadata storage plus its owned entities and tile entities), and
// a small Beta-era block table with a dig policy. Adapted from the
// teacher's internal/server/world package, restructured for a single
// 16x128x16 byte-array-plus-nibble-array column instead of the 1.8
// multi-section chunk format.
package worldmodel

// ChunkCoord identifies a chunk column.
type ChunkCoord struct {
	CX, CZ int32
}

// BlockCoord identifies a single world block.
type BlockCoord struct {
	X int32
	Y uint8
	Z int32
}

// Chunk returns the ChunkCoord containing this block.
func (b BlockCoord) Chunk() ChunkCoord {
	return ChunkCoord{CX: b.X >> 4, CZ: b.Z >> 4}
}

// Local returns the in-chunk (0..15, y, 0..15) coordinate.
func (b BlockCoord) Local() (lx int32, y uint8, lz int32) {
	return b.X & 15, b.Y, b.Z & 15
}

// SquaredDistance returns the squared integer distance between two chunk
// coordinates, used by the chunk streamer's nearest-first sort
// (spec.md §4.4).
func (c ChunkCoord) SquaredDistance(o ChunkCoord) int64 {
	di := int64(c.CX - o.CX)
	dj := int64(c.CZ - o.CZ)
	return di*di + dj*dj
}
