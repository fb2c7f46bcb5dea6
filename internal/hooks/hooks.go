// Package hooks implements the Hook Registry (spec.md §4/glossary): ordered
// pre-build, post-build, dig, sign, and use hook chains, plus keyed chat
// and console commands. The teacher has no equivalent concept (a 1.8
// server with no plugin surface), so the shape here is grounded on
// bravo's `beta.py` dispatch (chat commands, hook invocation order) and
// implemented in the teacher's idiom: typed interfaces, ordered slices
// resolved once at construction, no reflection-based plugin discovery.
package hooks

import (
	"context"
	"iter"

	"github.com/coldiron/betacraft/internal/location"
	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// PlayerInfo is the read-only view of a connected player that hooks and
// commands are allowed to see, decoupling them from the session package
// (which would otherwise be a dependency cycle: session needs hooks,
// hooks would need session's Player).
type PlayerInfo struct {
	Username string
	EID      uint32
	Location location.Location
}

// Factory is the capability bag a session exposes to hooks and commands —
// spec.md's "duck-typed factory", reimplemented as an explicit interface
// per DESIGN NOTES. It is satisfied by *broadcast.Bus without that
// package importing this one.
type Factory interface {
	Broadcast(p wire.Packet)
	BroadcastForOthers(p wire.Packet, originUsername string)
	BroadcastForChunk(p wire.Packet, cx, cz int32)
	PlayersNear(loc location.Location, radius float64) []PlayerInfo
	Give(ctx context.Context, coords worldmodel.BlockCoord, itemID int16, damage int16, count int8)
	DestroyEntity(eid uint32)
	Chat(line string)
	FlushChunk(ctx context.Context, c *worldmodel.Chunk) error
	Time() int64
	PlayerByUsername(username string) (PlayerInfo, bool)
	OnlineUsernames() []string
	Teleport(username string, loc location.Location) bool
	SaveAll(ctx context.Context)
}

// BuildData is the mutable request threaded through the pre-build hook
// chain and into the commit (spec.md §4.5 step 5-7). Pre-build hooks may
// mutate Block/Metadata; Coord is already offset by the placement face by
// the time post-build hooks see it.
type BuildData struct {
	Block    worldmodel.Block
	Metadata uint8
	Coord    worldmodel.BlockCoord
	Face     uint8
}

// PreBuildHook runs before a build is committed. Returning cont=false
// vetoes the build; no further pre-build hooks run and the commit is
// skipped entirely (spec.md §4.5 step 6).
type PreBuildHook interface {
	PreBuild(ctx context.Context, f Factory, data *BuildData) (cont bool, err error)
}

// PreBuildHookFunc adapts a plain function to a PreBuildHook, mirroring
// the standard library's http.HandlerFunc idiom.
type PreBuildHookFunc func(ctx context.Context, f Factory, data *BuildData) (bool, error)

func (fn PreBuildHookFunc) PreBuild(ctx context.Context, f Factory, data *BuildData) (bool, error) {
	return fn(ctx, f, data)
}

// PostBuildHook runs after a build has been committed to the world
// (spec.md §4.5 step 9): it always sees a committed block.
type PostBuildHook interface {
	PostBuild(ctx context.Context, f Factory, data *BuildData) error
}

type PostBuildHookFunc func(ctx context.Context, f Factory, data *BuildData) error

func (fn PostBuildHookFunc) PostBuild(ctx context.Context, f Factory, data *BuildData) error {
	return fn(ctx, f, data)
}

// DigHook is invoked once per break, in parallel with every other dig
// hook, with the original (pre-destroy) block identity (spec.md §4.5,
// §8).
type DigHook interface {
	Dig(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, block worldmodel.Block) error
}

type DigHookFunc func(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, block worldmodel.Block) error

func (fn DigHookFunc) Dig(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, block worldmodel.Block) error {
	return fn(ctx, f, chunk, coord, block)
}

// SignHook is invoked once per sign edit, after the tile entity has been
// upserted and the chunk broadcast (spec.md §4.8).
type SignHook interface {
	Sign(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, lines [4]string, isNew bool) error
}

type SignHookFunc func(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, lines [4]string, isNew bool) error

func (fn SignHookFunc) Sign(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, lines [4]string, isNew bool) error {
	return fn(ctx, f, chunk, coord, lines, isNew)
}

// UseHook reacts to a `use` packet (spec.md §4.6) targeting an entity
// whose name matches EntityName. Primary reports button==0 (left-click).
type UseHook interface {
	EntityName() string
	Use(ctx context.Context, f Factory, user PlayerInfo, target uint32, primary bool) error
}

// Automaton is an external subsystem (water, redstone) subscribed to
// block-placement events via a trigger set (spec.md §1's "physics
// automatons... driven by dig/build hooks and specified only by the hook
// interface they consume", glossary "Automaton"). This interface is the
// consumed contract: the core's job is dispatch — which placed block ids
// feed which automaton, and when — not the automaton's own physics, which
// stays an external collaborator.
type Automaton interface {
	// Blocks returns the trigger set: block ids that feed this automaton.
	Blocks() []uint8
	// Feed is called once per matching build, after post-build hooks have
	// run, with the newly placed block's coordinates (spec.md §4.5 step
	// 10).
	Feed(ctx context.Context, f Factory, coord worldmodel.BlockCoord)
}

// NamedHooks is the resolved, ordered hook set for one session/world,
// built once at session construction from the per-world config's
// comma-separated hook-name lists (spec.md §6).
type NamedHooks struct {
	PreBuild   []PreBuildHook
	PostBuild  []PostBuildHook
	Dig        []DigHook
	Sign       []SignHook
	Use        []UseHook
	Automatons []Automaton
}

// AutomatonsFor returns the resolved automatons whose trigger set contains
// blockID, in configuration order (spec.md §4.5 step 10).
func (n NamedHooks) AutomatonsFor(blockID uint8) []Automaton {
	var out []Automaton
	for _, a := range n.Automatons {
		for _, b := range a.Blocks() {
			if b == blockID {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// UseHooksFor returns the subset of resolved use hooks registered for the
// given entity name, in configuration order — spec.md §4.6: "invoke every
// use-hook registered for that entity's name."
func (n NamedHooks) UseHooksFor(entityName string) []UseHook {
	var out []UseHook
	for _, h := range n.Use {
		if h.EntityName() == entityName {
			out = append(out, h)
		}
	}
	return out
}

// ChatCommandFunc handles a `/command args...` chat message and yields its
// response lines lazily — spec.md's generator-based response stream
// (DESIGN NOTES: "Reimplement as an async stream... the dispatcher must
// write each yielded line as an individual chat packet, in order"). Using
// iter.Seq here is the direct Go analogue of bravo's `yield`-based
// command bodies.
type ChatCommandFunc func(ctx context.Context, f Factory, username string, args []string) (iter.Seq[string], error)

// ConsoleCommandFunc is the console-originated analogue of ChatCommandFunc
// (spec.md §4, glossary: "plus a keyed... console commands").
type ConsoleCommandFunc func(ctx context.Context, f Factory, args []string) (iter.Seq[string], error)

// Lines is a convenience constructor for a ChatCommandFunc/ConsoleCommandFunc
// result: an iter.Seq yielding a fixed, already-known set of lines.
func Lines(lines ...string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range lines {
			if !yield(l) {
				return
			}
		}
	}
}
