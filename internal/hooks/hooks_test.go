package hooks

import (
	"context"
	"log/slog"
	"testing"

	"github.com/coldiron/betacraft/internal/location"
	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

type fakeFactory struct {
	chatLines []string
	players   map[string]PlayerInfo
}

func (f *fakeFactory) Broadcast(p wire.Packet)                                 {}
func (f *fakeFactory) BroadcastForOthers(p wire.Packet, origin string)         {}
func (f *fakeFactory) BroadcastForChunk(p wire.Packet, cx, cz int32)           {}
func (f *fakeFactory) PlayersNear(loc location.Location, radius float64) []PlayerInfo { return nil }
func (f *fakeFactory) Give(ctx context.Context, coords worldmodel.BlockCoord, itemID, damage int16, count int8) {
}
func (f *fakeFactory) DestroyEntity(eid uint32) {}
func (f *fakeFactory) Chat(line string)         { f.chatLines = append(f.chatLines, line) }
func (f *fakeFactory) FlushChunk(ctx context.Context, c *worldmodel.Chunk) error { return nil }
func (f *fakeFactory) Time() int64                                              { return 42 }
func (f *fakeFactory) PlayerByUsername(username string) (PlayerInfo, bool) {
	p, ok := f.players[username]
	return p, ok
}
func (f *fakeFactory) OnlineUsernames() []string {
	out := make([]string, 0, len(f.players))
	for u := range f.players {
		out = append(out, u)
	}
	return out
}
func (f *fakeFactory) Teleport(username string, loc location.Location) bool { return true }
func (f *fakeFactory) SaveAll(ctx context.Context)                          {}

var _ Factory = (*fakeFactory)(nil)

func TestRegistryResolveUnknownNamesReported(t *testing.T) {
	r := NewRegistry()
	r.RegisterDig("log", noopDigHook{log: slog.Default()})
	_, unknown := r.ResolveDig([]string{"log", "nonexistent"})
	if len(unknown) != 1 || unknown[0] != "nonexistent" {
		t.Fatalf("expected one unknown hook name, got %v", unknown)
	}
}

func TestChatCommandAliasRewriting(t *testing.T) {
	r := NewRegistry()
	r.RegisterChat("list", cmdList)
	r.RegisterAlias("players", "list")
	c, ok := r.ChatCommand("PLAYERS")
	if !ok {
		t.Fatal("expected alias to resolve")
	}
	f := &fakeFactory{players: map[string]PlayerInfo{"alice": {Username: "alice"}}}
	seq, err := c(context.Background(), f, "alice", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var lines []string
	for l := range seq {
		lines = append(lines, l)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %v", lines)
	}
}

func TestCmdSayRequiresArgs(t *testing.T) {
	f := &fakeFactory{}
	if _, err := cmdSay(context.Background(), f, "bob", nil); err == nil {
		t.Fatal("expected error for empty /say")
	}
}

func TestUseHooksForFiltersByEntityName(t *testing.T) {
	n := NamedHooks{Use: []UseHook{creeperHook{}, zombieHook{}}}
	got := n.UseHooksFor("Creeper")
	if len(got) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(got))
	}
}

type gravityAutomaton struct{ fed []worldmodel.BlockCoord }

func (a *gravityAutomaton) Blocks() []uint8 { return []uint8{12, 13} }
func (a *gravityAutomaton) Feed(ctx context.Context, f Factory, coord worldmodel.BlockCoord) {
	a.fed = append(a.fed, coord)
}

func TestAutomatonsForFiltersByTriggerBlock(t *testing.T) {
	a := &gravityAutomaton{}
	n := NamedHooks{Automatons: []Automaton{a}}
	if got := n.AutomatonsFor(12); len(got) != 1 {
		t.Fatalf("expected sand (12) to trigger the automaton, got %d matches", len(got))
	}
	if got := n.AutomatonsFor(1); len(got) != 0 {
		t.Fatalf("expected stone (1) not to trigger the automaton, got %d matches", len(got))
	}
}

func TestRegistryResolveAutomatons(t *testing.T) {
	r := NewRegistry()
	r.RegisterAutomaton("gravity", &gravityAutomaton{})
	resolved, unknown := r.ResolveAutomatons([]string{"gravity", "nonexistent"})
	if len(resolved) != 1 {
		t.Fatalf("expected 1 resolved automaton, got %d", len(resolved))
	}
	if len(unknown) != 1 || unknown[0] != "nonexistent" {
		t.Fatalf("expected one unknown automaton name, got %v", unknown)
	}
}

type creeperHook struct{}

func (creeperHook) EntityName() string { return "Creeper" }
func (creeperHook) Use(ctx context.Context, f Factory, user PlayerInfo, target uint32, primary bool) error {
	return nil
}

type zombieHook struct{}

func (zombieHook) EntityName() string { return "Zombie" }
func (zombieHook) Use(ctx context.Context, f Factory, user PlayerInfo, target uint32, primary bool) error {
	return nil
}
