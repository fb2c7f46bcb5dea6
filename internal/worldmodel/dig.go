package worldmodel

import (
	"time"
)

// toolSpeeds mirrors the teacher's MaterialRegistry.ToolSpeeds idea, keyed
// by (tool name, block's best-tool name) instead of a loaded material
// table. Adapted from internal/server/conn/mining.go's calcBreakTime.
// Retuned from the teacher's flat 4/4/4/1 so that a pickaxe — the best
// tool for every block in this table that doesn't name one (hardness
// 0.5, e.g. dirt) — clears the best-tool instant-break threshold below
// (spec.md §8 scenario 3: diamond-pickaxe on dirt is a single-tick
// break); stone (hardness 1.5, best tool pickaxe) stays well under the
// threshold at this speed, so it's still a timed dig.
var toolSpeeds = map[string]float64{
	"pickaxe": 16,
	"axe":     4,
	"shovel":  4,
	"hand":    1,
}

// bestToolDivisor and offToolDivisor are the teacher's damage-per-tick
// divisors (internal/server/conn/mining.go's calcBreakTime: 30 when the
// held tool can harvest the block, 100 — 5x slower — otherwise).
const (
	bestToolDivisor = 30.0
	offToolDivisor  = 100.0
)

// DigPolicy decides whether a dig is one-shot (instant break) and, if not,
// how long it takes — spec.md §4.5's `is_1ko`/`dig_time`.
type DigPolicy struct{}

// damagePerTick is the teacher's calcBreakTime formula, shared by
// IsOneShot and DigTime so the two can never disagree about the
// one-tick-or-more boundary.
func damagePerTick(block Block, tool string) float64 {
	if !block.Diggable || block.Hardness <= 0 {
		return 0
	}

	speed := toolSpeeds["hand"]
	if s, ok := toolSpeeds[tool]; ok {
		speed = s
	}

	isBest := block.BestTool == "" || block.BestTool == tool
	if isBest {
		return speed / block.Hardness / bestToolDivisor
	}
	return speed / block.Hardness / offToolDivisor
}

// IsOneShot reports whether `tool` breaks `block` in a single tick: either
// the block has zero hardness (e.g. tall grass — always instant,
// regardless of tool) or the tool's damage-per-tick against it reaches 1.0
// in one go.
func (DigPolicy) IsOneShot(block Block, tool string) bool {
	if !block.Diggable {
		return false
	}
	if block.Hardness == 0 {
		return true
	}
	if block.Hardness < 0 {
		return false
	}
	return damagePerTick(block, tool) >= 1.0
}

// DigTime returns how long breaking `block` with `tool` takes, using the
// same damage-per-tick formula IsOneShot checks against 1.0.
func (DigPolicy) DigTime(block Block, tool string) time.Duration {
	if !block.Diggable || block.Hardness < 0 {
		return time.Duration(1<<31) * time.Second // effectively never
	}
	if block.Hardness == 0 {
		return 0
	}

	damage := damagePerTick(block, tool)
	if damage >= 1.0 {
		return 0
	}

	ticks := int(1.0 / damage)
	return time.Duration(ticks) * 50 * time.Millisecond // 20 ticks/sec
}

// Drops computes the item slots dropped when `block` is broken by `tool`,
// mirroring the teacher's blockDrops.
func (DigPolicy) Drops(block Block, tool string) []ItemPayload {
	if block.DropID < 0 || block.DropCount <= 0 {
		return nil
	}
	return []ItemPayload{{ItemID: block.DropID, Count: block.DropCount}}
}
