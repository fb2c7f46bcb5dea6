package hooks

import "strings"

// Registry is the process-wide, constructed-once table of named hooks and
// commands (spec.md DESIGN NOTES: "a registry constructed once at startup
// and injected; the session reads only the resolved hook lists for its
// world"). Registration happens during startup wiring in cmd/server;
// resolution happens once per session, keyed by the per-world config's
// hook-name lists.
type Registry struct {
	preBuild  map[string]PreBuildHook
	postBuild map[string]PostBuildHook
	dig       map[string]DigHook
	sign      map[string]SignHook
	use       map[string]UseHook
	automaton map[string]Automaton
	chat      map[string]ChatCommandFunc
	aliases   map[string]string
	console   map[string]ConsoleCommandFunc
}

// NewRegistry returns an empty registry. Use RegisterDefaults to populate
// it with the built-in hook/command set described in SPEC_FULL.md §4.
func NewRegistry() *Registry {
	return &Registry{
		preBuild:  map[string]PreBuildHook{},
		postBuild: map[string]PostBuildHook{},
		dig:       map[string]DigHook{},
		sign:      map[string]SignHook{},
		use:       map[string]UseHook{},
		automaton: map[string]Automaton{},
		chat:      map[string]ChatCommandFunc{},
		aliases:   map[string]string{},
		console:   map[string]ConsoleCommandFunc{},
	}
}

func (r *Registry) RegisterPreBuild(name string, h PreBuildHook)   { r.preBuild[name] = h }
func (r *Registry) RegisterPostBuild(name string, h PostBuildHook) { r.postBuild[name] = h }
func (r *Registry) RegisterDig(name string, h DigHook)             { r.dig[name] = h }
func (r *Registry) RegisterSign(name string, h SignHook)           { r.sign[name] = h }
func (r *Registry) RegisterUse(name string, h UseHook)             { r.use[name] = h }
func (r *Registry) RegisterAutomaton(name string, a Automaton)     { r.automaton[name] = a }
func (r *Registry) RegisterChat(name string, c ChatCommandFunc)    { r.chat[name] = c }
func (r *Registry) RegisterConsole(name string, c ConsoleCommandFunc) {
	r.console[name] = c
}

// RegisterAlias makes `alias` resolve to the chat command registered under
// `target` (spec.md §4.3: "including alias rewriting").
func (r *Registry) RegisterAlias(alias, target string) { r.aliases[alias] = target }

// ResolvePreBuild looks up each name in order, returning the resolved
// hooks and the subset of names that had no registration (logged by the
// caller, not here — the registry has no logger of its own).
func (r *Registry) ResolvePreBuild(names []string) (hooks []PreBuildHook, unknown []string) {
	for _, n := range names {
		if h, ok := r.preBuild[n]; ok {
			hooks = append(hooks, h)
		} else {
			unknown = append(unknown, n)
		}
	}
	return hooks, unknown
}

func (r *Registry) ResolvePostBuild(names []string) (out []PostBuildHook, unknown []string) {
	for _, n := range names {
		if h, ok := r.postBuild[n]; ok {
			out = append(out, h)
		} else {
			unknown = append(unknown, n)
		}
	}
	return out, unknown
}

func (r *Registry) ResolveDig(names []string) (out []DigHook, unknown []string) {
	for _, n := range names {
		if h, ok := r.dig[n]; ok {
			out = append(out, h)
		} else {
			unknown = append(unknown, n)
		}
	}
	return out, unknown
}

func (r *Registry) ResolveSign(names []string) (out []SignHook, unknown []string) {
	for _, n := range names {
		if h, ok := r.sign[n]; ok {
			out = append(out, h)
		} else {
			unknown = append(unknown, n)
		}
	}
	return out, unknown
}

func (r *Registry) ResolveUse(names []string) (out []UseHook, unknown []string) {
	for _, n := range names {
		if h, ok := r.use[n]; ok {
			out = append(out, h)
		} else {
			unknown = append(unknown, n)
		}
	}
	return out, unknown
}

func (r *Registry) ResolveAutomatons(names []string) (out []Automaton, unknown []string) {
	for _, n := range names {
		if a, ok := r.automaton[n]; ok {
			out = append(out, a)
		} else {
			unknown = append(unknown, n)
		}
	}
	return out, unknown
}

// ChatCommand looks up a chat command by name, lowercasing and following
// one level of alias rewriting — spec.md §4.3.
func (r *Registry) ChatCommand(name string) (ChatCommandFunc, bool) {
	name = strings.ToLower(name)
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	c, ok := r.chat[name]
	return c, ok
}

// ConsoleCommand looks up a console command by name (no alias rewriting;
// console input isn't player-facing shorthand).
func (r *Registry) ConsoleCommand(name string) (ConsoleCommandFunc, bool) {
	c, ok := r.console[strings.ToLower(name)]
	return c, ok
}

// Resolve builds the full NamedHooks set for one session's world from its
// six hook/automaton-name lists in one call.
func (r *Registry) Resolve(preBuild, postBuild, dig, sign, use, automatons []string) (NamedHooks, []string) {
	var unknown []string
	pb, u1 := r.ResolvePreBuild(preBuild)
	po, u2 := r.ResolvePostBuild(postBuild)
	dg, u3 := r.ResolveDig(dig)
	sg, u4 := r.ResolveSign(sign)
	us, u5 := r.ResolveUse(use)
	am, u6 := r.ResolveAutomatons(automatons)
	unknown = append(unknown, u1...)
	unknown = append(unknown, u2...)
	unknown = append(unknown, u3...)
	unknown = append(unknown, u4...)
	unknown = append(unknown, u5...)
	unknown = append(unknown, u6...)
	return NamedHooks{PreBuild: pb, PostBuild: po, Dig: dg, Sign: sg, Use: us, Automatons: am}, unknown
}
