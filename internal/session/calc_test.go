package session

import (
	"testing"

	"github.com/coldiron/betacraft/internal/worldmodel"
)

func TestVisibleSetRadius(t *testing.T) {
	center := worldmodel.ChunkCoord{CX: 5, CZ: -3}
	set := visibleSet(center)
	if len(set) != len(worldmodel.VisibleCircle) {
		t.Fatalf("visibleSet size = %d, want %d", len(set), len(worldmodel.VisibleCircle))
	}
	if !set[center] {
		t.Fatal("center chunk should always be visible")
	}
	far := worldmodel.ChunkCoord{CX: center.CX + 20, CZ: center.CZ}
	if set[far] {
		t.Fatal("chunk far outside radius should not be visible")
	}
}

func TestDiffChunks(t *testing.T) {
	a := worldmodel.ChunkCoord{CX: 0, CZ: 0}
	b := worldmodel.ChunkCoord{CX: 1, CZ: 0}
	c := worldmodel.ChunkCoord{CX: 2, CZ: 0}

	have := map[worldmodel.ChunkCoord]*worldmodel.Chunk{a: worldmodel.NewChunk(a), b: worldmodel.NewChunk(b)}
	want := map[worldmodel.ChunkCoord]bool{b: true, c: true}

	toEnable, toDisable := diffChunks(have, want)
	if len(toEnable) != 1 || toEnable[0] != c {
		t.Fatalf("toEnable = %v, want [%v]", toEnable, c)
	}
	if len(toDisable) != 1 || toDisable[0] != a {
		t.Fatalf("toDisable = %v, want [%v]", toDisable, a)
	}
}

func TestInitialSquareIs6x6(t *testing.T) {
	center := worldmodel.ChunkCoord{CX: 10, CZ: 10}
	sq := initialSquare(center)
	if len(sq) != 36 {
		t.Fatalf("initialSquare size = %d, want 36", len(sq))
	}
	seen := make(map[worldmodel.ChunkCoord]bool, len(sq))
	for _, c := range sq {
		seen[c] = true
		if c.CX < center.CX-3 || c.CX > center.CX+2 || c.CZ < center.CZ-3 || c.CZ > center.CZ+2 {
			t.Fatalf("chunk %+v outside expected 6x6 square around %+v", c, center)
		}
	}
	if len(seen) != 36 {
		t.Fatalf("initialSquare has duplicates: %d unique of 36", len(seen))
	}
}

func TestFaceOffset(t *testing.T) {
	cases := []struct {
		face       uint8
		dx, dy, dz int32
	}{
		{0, 0, -1, 0},
		{1, 0, 1, 0},
		{2, 0, 0, -1},
		{3, 0, 0, 1},
		{4, -1, 0, 0},
		{5, 1, 0, 0},
		{6, 0, 0, 0},
	}
	for _, tc := range cases {
		dx, dy, dz := faceOffset(tc.face)
		if dx != tc.dx || dy != tc.dy || dz != tc.dz {
			t.Errorf("faceOffset(%d) = (%d,%d,%d), want (%d,%d,%d)", tc.face, dx, dy, dz, tc.dx, tc.dy, tc.dz)
		}
	}
}

func TestOrientationFromFace(t *testing.T) {
	if _, ok := orientationFromFace(0); ok {
		t.Error("face 0 (down) should have no orientation")
	}
	if _, ok := orientationFromFace(1); ok {
		t.Error("face 1 (up) should have no orientation")
	}
	meta, ok := orientationFromFace(2)
	if !ok || meta != 2 {
		t.Errorf("orientationFromFace(2) = (%d,%v), want (2,true)", meta, ok)
	}
}

func TestParseChatMessage(t *testing.T) {
	name, args, isCommand := parseChatMessage("hello there")
	if isCommand || name != "" || args != nil {
		t.Fatalf("plain message misparsed as command: name=%q args=%v", name, args)
	}

	name, args, isCommand = parseChatMessage("/tp Notch")
	if !isCommand {
		t.Fatal("expected /tp to parse as a command")
	}
	if name != "tp" {
		t.Fatalf("command name = %q, want tp", name)
	}
	if len(args) != 1 || args[0] != "Notch" {
		t.Fatalf("args = %v, want [Notch]", args)
	}

	name, args, isCommand = parseChatMessage("/TP Notch")
	if name != "tp" {
		t.Fatalf("command name should be lowercased, got %q", name)
	}

	_, _, isCommand = parseChatMessage("/")
	if !isCommand {
		t.Fatal("bare slash should still parse as (empty) command")
	}
}
