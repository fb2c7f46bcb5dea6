package session

import (
	"fmt"
	"strings"

	"github.com/coldiron/betacraft/internal/worldmodel"
)

// visibleSet returns the radius-10 chunk set around center (spec.md §4.4).
func visibleSet(center worldmodel.ChunkCoord) map[worldmodel.ChunkCoord]bool {
	out := make(map[worldmodel.ChunkCoord]bool, len(worldmodel.VisibleCircle))
	for _, off := range worldmodel.VisibleCircle {
		out[worldmodel.ChunkCoord{CX: center.CX + off.CX, CZ: center.CZ + off.CZ}] = true
	}
	return out
}

// diffChunks compares a session's currently-cached chunk set against the
// desired set, returning what must be enabled and what must be disabled.
// Neither slice is sorted here; the caller sorts toEnable nearest-first.
func diffChunks(have map[worldmodel.ChunkCoord]*worldmodel.Chunk, want map[worldmodel.ChunkCoord]bool) (toEnable, toDisable []worldmodel.ChunkCoord) {
	for c := range have {
		if !want[c] {
			toDisable = append(toDisable, c)
		}
	}
	for c := range want {
		if _, ok := have[c]; !ok {
			toEnable = append(toEnable, c)
		}
	}
	return toEnable, toDisable
}

// initialSquare returns the 6x6 chunk square centred (as near as an even
// square allows) on center — spec.md §4.4's "strict pipeline" spawn set,
// delivered before anything else.
func initialSquare(center worldmodel.ChunkCoord) []worldmodel.ChunkCoord {
	var out []worldmodel.ChunkCoord
	for i := -3; i <= 2; i++ {
		for j := -3; j <= 2; j++ {
			out = append(out, worldmodel.ChunkCoord{CX: center.CX + int32(i), CZ: center.CZ + int32(j)})
		}
	}
	return out
}

// faceOffset returns the block-coordinate delta for a placement face
// (0=-Y,1=+Y,2=-Z,3=+Z,4=-X,5=+X), matching the teacher's orientation
// convention in internal/server/conn/mining.go's face table.
func faceOffset(face uint8) (dx int32, dy int32, dz int32) {
	switch face {
	case 0:
		return 0, -1, 0
	case 1:
		return 0, 1, 0
	case 2:
		return 0, 0, -1
	case 3:
		return 0, 0, 1
	case 4:
		return -1, 0, 0
	case 5:
		return 1, 0, 0
	default:
		return 0, 0, 0
	}
}

// orientationFromFace computes an orientable block's metadata nibble from
// the placement face (spec.md §4.5 step 7). Only the four horizontal faces
// carry an orientation; up/down/unknown report ok=false, which the build
// pipeline turns into a BuildError.
func orientationFromFace(face uint8) (meta uint8, ok bool) {
	switch face {
	case 2:
		return 2, true
	case 3:
		return 3, true
	case 4:
		return 4, true
	case 5:
		return 5, true
	default:
		return 0, false
	}
}

// parseChatMessage splits a raw chat message into a command name and its
// arguments if it begins with '/' (spec.md §4.3).
func parseChatMessage(msg string) (cmdName string, args []string, isCommand bool) {
	if !strings.HasPrefix(msg, "/") {
		return "", nil, false
	}
	fields := strings.Fields(msg[1:])
	if len(fields) == 0 {
		return "", nil, true
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// unknownCommandReply is bravo's fallback reply for an unmatched leading-/
// message (SPEC_FULL.md §5).
func unknownCommandReply(name string) string {
	return fmt.Sprintf("Unknown command: %s", name)
}

// pickupRadius is the dropped-item pickup distance, a named package
// constant rather than a magic number (bravo's value; SPEC_FULL.md §5).
const pickupRadius = 2.0

// useRadius is the distance within which a `use` packet's target entity is
// searched for (spec.md §4.6).
const useRadius = 4.0
