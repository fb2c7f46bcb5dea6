package hooks

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/coldiron/betacraft/internal/worldmodel"
)

// DefaultTaglines is the built-in MOTD tagline set substituted for the
// literal `<tagline>` token (spec.md §4.4, Open Question (c)).
var DefaultTaglines = []string{
	"Watch out for creepers.",
	"Dig straight down at your own risk.",
	"Now with 100% more cobblestone.",
	"A wizard did it.",
	"Powered by betacraft.",
}

// loggingSignHook is the default sign hook: it logs every edit. Automaton
// subscriptions (redstone, etc.) are out of scope (spec.md §1); this hook
// exists so the registry is exercised end to end per SPEC_FULL.md §4.
type loggingSignHook struct{ log *slog.Logger }

func (h loggingSignHook) Sign(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, lines [4]string, isNew bool) error {
	h.log.Info("sign edited", "x", coord.X, "y", coord.Y, "z", coord.Z, "new", isNew, "line1", lines[0])
	return nil
}

// noopDigHook is the default dig hook placeholder; the default set only
// proves the hook is invoked.
type noopDigHook struct{ log *slog.Logger }

func (h noopDigHook) Dig(ctx context.Context, f Factory, chunk *worldmodel.Chunk, coord worldmodel.BlockCoord, block worldmodel.Block) error {
	h.log.Debug("block broken", "x", coord.X, "y", coord.Y, "z", coord.Z, "block", block.Name)
	return nil
}

// loggingAutomaton is the default Automaton: its own physics (sand/gravel
// falling, water flow, redstone propagation) is the external collaborator
// spec.md §1 excludes, but it still owns a real trigger set so the feed
// dispatch in the build pipeline (spec.md §4.5 step 10) is exercised end
// to end against blocks players can actually place.
type loggingAutomaton struct{ log *slog.Logger }

func (a loggingAutomaton) Blocks() []uint8 { return []uint8{12, 13} } // sand, gravel

func (a loggingAutomaton) Feed(ctx context.Context, f Factory, coord worldmodel.BlockCoord) {
	a.log.Debug("automaton fed", "x", coord.X, "y", coord.Y, "z", coord.Z)
}

// RegisterDefaults installs the default hook set and chat/console commands
// described in SPEC_FULL.md §4: a logging sign hook, a placeholder dig
// hook, and the `/help`/`/list`/`/tp`/`/say`/`/me`/`/save` commands
// adapted from the teacher's internal/server/conn/commands.go table.
func RegisterDefaults(r *Registry, log *slog.Logger) {
	r.RegisterSign("log", loggingSignHook{log: log})
	r.RegisterDig("log", noopDigHook{log: log})
	r.RegisterAutomaton("log", loggingAutomaton{log: log})

	r.RegisterChat("help", cmdHelp)
	r.RegisterChat("list", cmdList)
	r.RegisterChat("tp", cmdTp)
	r.RegisterChat("say", cmdSay)
	r.RegisterChat("me", cmdMe)
	r.RegisterChat("save", cmdSave)
	r.RegisterAlias("players", "list")
}

var commandUsage = []string{
	"/help - show available commands",
	"/list - show online players",
	"/tp <player> - teleport to a player",
	"/say <message> - broadcast an announcement",
	"/me <action> - send an action message",
	"/save - save world and player data",
}

func cmdHelp(ctx context.Context, f Factory, username string, args []string) (iter.Seq[string], error) {
	return Lines(commandUsage...), nil
}

func cmdList(ctx context.Context, f Factory, username string, args []string) (iter.Seq[string], error) {
	return Lines(fmt.Sprintf("Online players: %s", strings.Join(f.OnlineUsernames(), ", "))), nil
}

func cmdTp(ctx context.Context, f Factory, username string, args []string) (iter.Seq[string], error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: /tp <player>")
	}
	target, ok := f.PlayerByUsername(args[0])
	if !ok {
		return nil, fmt.Errorf("player %q not found", args[0])
	}
	if !f.Teleport(username, target.Location) {
		return nil, fmt.Errorf("teleport failed")
	}
	return Lines(fmt.Sprintf("Teleported to %s.", target.Username)), nil
}

func cmdSay(ctx context.Context, f Factory, username string, args []string) (iter.Seq[string], error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: /say <message>")
	}
	f.Chat(fmt.Sprintf("[Server] %s", strings.Join(args, " ")))
	return Lines(), nil
}

func cmdMe(ctx context.Context, f Factory, username string, args []string) (iter.Seq[string], error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: /me <action>")
	}
	f.Chat(fmt.Sprintf("* %s %s", username, strings.Join(args, " ")))
	return Lines(), nil
}

func cmdSave(ctx context.Context, f Factory, username string, args []string) (iter.Seq[string], error) {
	f.SaveAll(ctx)
	return Lines("Saving world and player data..."), nil
}
