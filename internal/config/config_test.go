package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWorldsMissingFileYieldsDefault(t *testing.T) {
	wf, err := LoadWorlds(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := wf.World("default")
	if len(w.PreBuildHookNames()) != 0 {
		t.Fatalf("expected no hooks configured, got %v", w.PreBuildHookNames())
	}
}

func TestLoadWorldsParsesHookLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worlds.yaml")
	doc := `
worlds:
  default:
    pre_build_hooks: "anti-grief, workbench"
    dig_hooks: "log"
    automatons: "gravity, log"
    motd: "Welcome to <tagline>"
    url: "https://example.invalid/starter-world.tar.gz"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	wf, err := LoadWorlds(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := wf.World("default")
	got := w.PreBuildHookNames()
	want := []string{"anti-grief", "workbench"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
	if gotA := w.AutomatonNames(); len(gotA) != 2 || gotA[0] != "gravity" || gotA[1] != "log" {
		t.Fatalf("got automatons %v, want [gravity log]", gotA)
	}
	if w.MOTD != "Welcome to <tagline>" {
		t.Fatalf("unexpected motd: %q", w.MOTD)
	}
	if w.URL == "" {
		t.Fatal("expected url to be parsed")
	}
}
