package worldgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/coldiron/betacraft/internal/inventory"
	"github.com/coldiron/betacraft/internal/location"
)

// playerNamespace anchors the deterministic v5 UUIDs this package mints for
// offline-mode usernames, so a player's save file survives a server restart
// even though Beta has no Mojang-authenticated UUID of its own.
var playerNamespace = uuid.MustParse("6f7e4b1a-9b41-4c2e-8f0a-4c3a2d9e6b10")

// UsernameUUID deterministically derives a stable per-username identifier,
// the offline-mode equivalent of a Mojang account UUID.
func UsernameUUID(username string) string {
	return uuid.NewSHA1(playerNamespace, []byte(username)).String()
}

// diskStorage implements the on-disk half of a Gateway: atomic-JSON-write
// persistence for player records and plugin-data blobs, directly grounded
// on the teacher's internal/server/storage.Storage (atomicWriteJSON, the
// players/<uuid>.json layout). World block state is handled separately by
// MemoryGateway's chunk cache, which persists whole chunks rather than a
// single overrides.json (spec.md's per-chunk PersistChunk contract).
type diskStorage struct {
	dir string
	log *slog.Logger
}

func newDiskStorage(dir string, log *slog.Logger) (*diskStorage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, "players"),
		filepath.Join(dir, "chunks"),
		filepath.Join(dir, "plugindata"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &diskStorage{dir: dir, log: log}, nil
}

// playerRecord is the on-disk shape of a Player; Inventory is flattened to
// plain slot slices since inventory.Inventory carries an unexported mutex.
type playerRecord struct {
	UUID      string           `json:"uuid"`
	Username  string           `json:"username"`
	Location  location.Location `json:"location"`
	Equipped  uint8            `json:"equipped"`
	GameMode  uint8            `json:"game_mode"`
	Main      [36]inventory.Slot `json:"main"`
	Armor     [4]inventory.Slot  `json:"armor"`
	HeldSlot  int16            `json:"held_slot"`
}

func (s *diskStorage) playerPath(username string) string {
	return filepath.Join(s.dir, "players", UsernameUUID(username)+".json")
}

func (s *diskStorage) loadPlayer(ctx context.Context, username string) (*Player, error) {
	path := s.playerPath(username)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &WorldError{Op: "LoadPlayer", Err: err}
	}

	var rec playerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &WorldError{Op: "LoadPlayer", Err: fmt.Errorf("parse player %s: %w", username, err)}
	}

	inv := inventory.New()
	inv.Main = rec.Main
	inv.Armor = rec.Armor
	inv.SetHeldSlot(rec.HeldSlot)

	return &Player{
		UUID:      rec.UUID,
		Username:  rec.Username,
		Location:  rec.Location,
		Inventory: inv,
		Equipped:  rec.Equipped,
		GameMode:  rec.GameMode,
	}, nil
}

func (s *diskStorage) savePlayer(ctx context.Context, username string, p *Player) error {
	main, armor, held := p.Inventory.Snapshot()
	rec := playerRecord{
		UUID:     UsernameUUID(username),
		Username: username,
		Location: p.Location,
		Equipped: p.Equipped,
		GameMode: p.GameMode,
		HeldSlot: held,
		Main:     main,
		Armor:    armor,
	}
	return s.atomicWriteJSON(s.playerPath(username), &rec)
}

func (s *diskStorage) pluginDataPath(key string) string {
	return filepath.Join(s.dir, "plugindata", key+".json")
}

func (s *diskStorage) loadPluginData(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.pluginDataPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &WorldError{Op: "LoadPluginData", Err: err}
	}
	return data, nil
}

func (s *diskStorage) savePluginData(ctx context.Context, key string, data []byte) error {
	path := s.pluginDataPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &WorldError{Op: "SavePluginData", Err: fmt.Errorf("write temp file: %w", err)}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &WorldError{Op: "SavePluginData", Err: fmt.Errorf("rename temp file: %w", err)}
	}
	return nil
}

func (s *diskStorage) chunkPath(cx, cz int32) string {
	return filepath.Join(s.dir, "chunks", fmt.Sprintf("c.%d.%d.json", cx, cz))
}

type chunkRecord struct {
	CX       int32  `json:"cx"`
	CZ       int32  `json:"cz"`
	Blocks   []byte `json:"blocks"`
	Metadata []byte `json:"metadata"`
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp
// file plus rename, matching the teacher's storage layer exactly.
func (s *diskStorage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &WorldError{Op: "atomicWriteJSON", Err: fmt.Errorf("marshal json: %w", err)}
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &WorldError{Op: "atomicWriteJSON", Err: fmt.Errorf("write temp file: %w", err)}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &WorldError{Op: "atomicWriteJSON", Err: fmt.Errorf("rename temp file: %w", err)}
	}
	return nil
}
