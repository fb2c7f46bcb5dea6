package worldmodel

import "testing"

func TestChunkSetGetBlock(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetBlock(1, 64, 2, 1)
	c.SetMetadata(1, 64, 2, 5)
	if got := c.GetBlock(1, 64, 2); got != 1 {
		t.Fatalf("GetBlock = %d, want 1", got)
	}
	if got := c.GetMetadata(1, 64, 2); got != 5 {
		t.Fatalf("GetMetadata = %d, want 5", got)
	}
	if !c.IsDirty() {
		t.Fatal("expected chunk dirty after SetBlock")
	}
}

func TestChunkDestroy(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetBlock(0, 0, 0, 1)
	c.Destroy(0, 0, 0)
	if got := c.GetBlock(0, 0, 0); got != 0 {
		t.Fatalf("GetBlock after destroy = %d, want 0 (air)", got)
	}
}

func TestHeightAt(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetBlock(0, 0, 0, 1)
	c.SetBlock(0, 5, 0, 1)
	if got := c.HeightAt(0, 0); got != 6 {
		t.Fatalf("HeightAt = %d, want 6", got)
	}
}

func TestVisibleCircleRadius10(t *testing.T) {
	for _, p := range VisibleCircle {
		if p.CX*p.CX+p.CZ*p.CZ > 100 {
			t.Fatalf("point %+v outside radius-10 circle", p)
		}
	}
	if len(VisibleCircle) == 0 {
		t.Fatal("expected non-empty circle")
	}
}

func TestSquaredDistance(t *testing.T) {
	a := ChunkCoord{CX: 0, CZ: 0}
	b := ChunkCoord{CX: 3, CZ: 4}
	if got := a.SquaredDistance(b); got != 25 {
		t.Fatalf("SquaredDistance = %d, want 25", got)
	}
}

func TestDigPolicyOneShotTallGrass(t *testing.T) {
	block, _ := ByID(31) // tall-grass, hardness 0
	var policy DigPolicy
	if !policy.IsOneShot(block, "hand") {
		t.Fatal("expected tall-grass to be a one-shot break")
	}
}

func TestDigPolicyDirtWithDiamondPickaxeIsFast(t *testing.T) {
	block, _ := ByID(3) // dirt
	var policy DigPolicy
	if !policy.IsOneShot(block, "pickaxe") {
		t.Fatal("expected dirt to break in a single tick with a pickaxe (spec.md §8 scenario 3)")
	}
	if d := policy.DigTime(block, "pickaxe"); d != 0 {
		t.Fatalf("DigTime for a one-shot break = %v, want 0", d)
	}
}

func TestDigPolicyBedrockNeverBreaks(t *testing.T) {
	block, _ := ByID(7)
	var policy DigPolicy
	if policy.IsOneShot(block, "pickaxe") {
		t.Fatal("bedrock must not be one-shot breakable")
	}
}
