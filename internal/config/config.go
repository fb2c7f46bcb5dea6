// Package config implements the process-level and per-world configuration
// described in spec.md §6. Process settings (port, data directory, world
// seed, auto-save interval) are `flag`-driven exactly as the teacher's
// cmd/server/main.go does it; per-world settings are YAML, grounded on
// dmitrymodder-minewire/main.go's `server.yaml` decode-into-struct
// pattern, since spec.md's `world <name>` sections nest naturally into a
// YAML map keyed by world name (unlike the teacher's flat JSON config).
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide server settings, populated from `flag`s at
// the cmd/server entry point.
type Config struct {
	Port            int
	DataDir         string
	Seed            int64
	AutoSaveMinutes int
	WorldsFile      string
	DefaultWorld    string
}

// DefaultConfig returns a Config with sensible defaults, mirroring the
// teacher's config.DefaultConfig shape.
func DefaultConfig() *Config {
	return &Config{
		Port:            25565,
		DataDir:         "data",
		Seed:            0,
		AutoSaveMinutes: 5,
		WorldsFile:      "worlds.yaml",
		DefaultWorld:    "default",
	}
}

// WorldConfig is one `world <name>` section (spec.md §6): ordered,
// comma-separated hook-name lists plus MOTD/url/serializer. Hook lists are
// kept as raw comma-separated strings on the wire format (matching
// spec.md's literal phrasing) and split via the HookNames accessors.
type WorldConfig struct {
	PreBuildHooks string `yaml:"pre_build_hooks"`
	PostBuildHooks string `yaml:"post_build_hooks"`
	DigHooks      string `yaml:"dig_hooks"`
	SignHooks     string `yaml:"sign_hooks"`
	UseHooks      string `yaml:"use_hooks"`
	Automatons    string `yaml:"automatons"`
	MOTD          string `yaml:"motd"`
	URL           string `yaml:"url"`
	Serializer    string `yaml:"serializer"`
}

func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (w WorldConfig) PreBuildHookNames() []string  { return splitNames(w.PreBuildHooks) }
func (w WorldConfig) PostBuildHookNames() []string { return splitNames(w.PostBuildHooks) }
func (w WorldConfig) DigHookNames() []string       { return splitNames(w.DigHooks) }
func (w WorldConfig) SignHookNames() []string      { return splitNames(w.SignHooks) }
func (w WorldConfig) UseHookNames() []string       { return splitNames(w.UseHooks) }
func (w WorldConfig) AutomatonNames() []string      { return splitNames(w.Automatons) }

// WorldsFile is the top-level YAML document: one `world <name>` section
// per map entry.
type WorldsFile struct {
	Worlds map[string]WorldConfig `yaml:"worlds"`
}

// LoadWorlds reads and parses a worlds.yaml file. A missing file is not an
// error: it yields a single "default" world with zero-value settings
// (matching spec.md's "default implementation" fallbacks — offline-mode
// handshake, no configured hooks).
func LoadWorlds(path string) (*WorldsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &WorldsFile{Worlds: map[string]WorldConfig{"default": {}}}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var wf WorldsFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if wf.Worlds == nil {
		wf.Worlds = map[string]WorldConfig{"default": {}}
	}
	return &wf, nil
}

// World looks up a named world section, falling back to an empty
// WorldConfig (the all-defaults world) if absent.
func (wf *WorldsFile) World(name string) WorldConfig {
	if w, ok := wf.Worlds[name]; ok {
		return w
	}
	return WorldConfig{}
}
