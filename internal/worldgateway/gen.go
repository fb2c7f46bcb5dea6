package worldgateway

import "github.com/coldiron/betacraft/internal/worldmodel"

const (
	seaLevel = 62
	bedrock  = 7
	stone    = 1
	dirt     = 3
	grass    = 2
	sand     = 12
	log      = 17
	leaves   = 18
)

// Generator produces deterministic terrain for chunks that have not yet
// been persisted. Adapted from the teacher's
// internal/server/world/gen.DefaultGenerator, scaled from a 256-tall,
// multi-biome, cave/ore/tree-decorated world down to Beta's 128-tall
// column: one noise-driven heightmap, a stone/dirt/grass/sand layering,
// and sparse tree placement. Caves and ores are not reproduced — the
// Beta-era core this spec targets has no equivalent block table entries
// for ore variants, so there is nothing to place them into.
type Generator struct {
	seed   int64
	terr   *noiseGen
	detail *noiseGen
}

// NewGenerator creates a Generator from a world seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed, terr: newNoiseGen(seed), detail: newNoiseGen(seed + 1)}
}

// Generate fills a fresh Chunk at coord with terrain.
func (g *Generator) Generate(coord worldmodel.ChunkCoord) *worldmodel.Chunk {
	c := worldmodel.NewChunk(coord)

	var heights [16][16]int
	for lx := int32(0); lx < 16; lx++ {
		for lz := int32(0); lz < 16; lz++ {
			bx := coord.CX*16 + lx
			bz := coord.CZ*16 + lz
			h := g.heightAt(bx, bz)
			heights[lx][lz] = h
			g.fillColumn(c, lx, lz, h)
		}
	}
	g.scatterTrees(c, coord, heights)
	c.ClearDirty() // freshly generated terrain isn't "dirty" in the persistence sense
	return c
}

// HeightAt returns the terrain height at a world block coordinate, used by
// MemoryGateway.LoadPlayer to place a brand-new player above the terrain
// at the spawn point.
func (g *Generator) HeightAt(bx, bz int32) int {
	return g.heightAt(bx, bz)
}

func (g *Generator) heightAt(bx, bz int32) int {
	nx, nz := float64(bx)/128.0, float64(bz)/128.0
	base := g.terr.octave2D(nx, nz, 6, 0.5)
	dx, dz := float64(bx)/32.0, float64(bz)/32.0
	detail := g.detail.octave2D(dx, dz, 3, 0.5)

	h := float64(seaLevel) + base*12.0 + detail*3.0
	hi := int(h)
	if hi < 1 {
		hi = 1
	}
	if hi > worldmodel.ChunkHeight-2 {
		hi = worldmodel.ChunkHeight - 2
	}
	return hi
}

func (g *Generator) fillColumn(c *worldmodel.Chunk, lx, lz int32, height int) {
	c.SetBlock(lx, 0, lz, bedrock)
	for y := 1; y < height-3 && y < worldmodel.ChunkHeight; y++ {
		c.SetBlock(lx, uint8(y), lz, stone)
	}
	for y := max(1, height-3); y < height && y < worldmodel.ChunkHeight; y++ {
		c.SetBlock(lx, uint8(y), lz, dirt)
	}
	if height < worldmodel.ChunkHeight {
		surface := uint8(grass)
		if height <= seaLevel+1 {
			surface = sand
		}
		c.SetBlock(lx, uint8(height), lz, surface)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// scatterTrees places a handful of log+leaves trees per chunk, deterministic
// per (seed, chunk) so repeated generation is stable.
func (g *Generator) scatterTrees(c *worldmodel.Chunk, coord worldmodel.ChunkCoord, heights [16][16]int) {
	r := newNoiseGen(g.seed ^ int64(coord.CX)<<32 ^ int64(coord.CZ))
	for lx := int32(2); lx < 14; lx += 4 {
		for lz := int32(2); lz < 14; lz += 4 {
			if r.noise2D(float64(lx), float64(lz)) < 0.55 {
				continue
			}
			h := heights[lx][lz]
			if h <= seaLevel {
				continue // no trees in water
			}
			placeTree(c, lx, uint8(h+1), lz)
		}
	}
}

func placeTree(c *worldmodel.Chunk, lx int32, baseY uint8, lz int32) {
	const trunkHeight = 4
	for i := 0; i < trunkHeight && int(baseY)+i < worldmodel.ChunkHeight; i++ {
		c.SetBlock(lx, baseY+uint8(i), lz, log)
	}
	topY := int(baseY) + trunkHeight - 1
	for dy := -1; dy <= 1; dy++ {
		y := topY + dy
		if y < 0 || y >= worldmodel.ChunkHeight {
			continue
		}
		for dx := int32(-1); dx <= 1; dx++ {
			for dz := int32(-1); dz <= 1; dz++ {
				x, z := lx+dx, lz+dz
				if x < 0 || x > 15 || z < 0 || z > 15 {
					continue
				}
				if dx == 0 && dz == 0 && dy <= 0 {
					continue // don't overwrite the trunk
				}
				if c.GetBlock(x, uint8(y), z) == 0 {
					c.SetBlock(x, uint8(y), z, leaves)
				}
			}
		}
	}
}
