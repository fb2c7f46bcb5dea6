package worldmodel

// Block is a minimal Beta-era block/item description. Protocol 11 has on
// the order of ninety block ids, so a small embedded table — rather than
// the teacher's JSON-schema-driven, per-version gamedata registry — is
// enough to make the dig/build orchestrator's testable scenarios concrete
// (spec.md §8 names specific blocks and tools).
type Block struct {
	ID           uint8
	Name         string
	Hardness     float64 // negative = unbreakable
	Diggable     bool
	Orientable   bool // e.g. furnace/workbench-adjacent blocks that store facing in metadata
	IsWorkbench  bool
	DropID       int16 // item id dropped; -1 = drops nothing
	DropCount    int8
	BestTool     string // "" = any tool is "best"
	HarvestTools map[string]bool
}

// air is never in the registry; id 0 always means air.
const AirBlockID uint8 = 0

// Registry is the process-wide block table, indexed by id.
var Registry = buildRegistry()

func buildRegistry() map[uint8]Block {
	reg := map[uint8]Block{
		1:  {ID: 1, Name: "stone", Hardness: 1.5, Diggable: true, DropID: 4, DropCount: 1, BestTool: "pickaxe"},
		2:  {ID: 2, Name: "grass", Hardness: 0.6, Diggable: true, DropID: 3, DropCount: 1},
		3:  {ID: 3, Name: "dirt", Hardness: 0.5, Diggable: true, DropID: 3, DropCount: 1},
		4:  {ID: 4, Name: "cobblestone", Hardness: 2.0, Diggable: true, DropID: 4, DropCount: 1, BestTool: "pickaxe"},
		5:  {ID: 5, Name: "planks", Hardness: 2.0, Diggable: true, DropID: 5, DropCount: 1, BestTool: "axe"},
		7:  {ID: 7, Name: "bedrock", Hardness: -1, Diggable: false},
		12: {ID: 12, Name: "sand", Hardness: 0.5, Diggable: true, DropID: 12, DropCount: 1},
		13: {ID: 13, Name: "gravel", Hardness: 0.6, Diggable: true, DropID: 13, DropCount: 1},
		17: {ID: 17, Name: "log", Hardness: 2.0, Diggable: true, DropID: 17, DropCount: 1, BestTool: "axe"},
		18: {ID: 18, Name: "leaves", Hardness: 0.2, Diggable: true, DropID: -1, DropCount: 0},
		31: {ID: 31, Name: "tall-grass", Hardness: 0, Diggable: true, DropID: -1, DropCount: 0},
		58: {ID: 58, Name: "workbench", Hardness: 2.5, Diggable: true, DropID: 58, DropCount: 1, IsWorkbench: true, BestTool: "axe"},
		61: {ID: 61, Name: "furnace", Hardness: 3.5, Diggable: true, DropID: 61, DropCount: 1, Orientable: true, BestTool: "pickaxe"},
		63: {ID: 63, Name: "sign-post", Hardness: 1.0, Diggable: true, DropID: 323, DropCount: 1, Orientable: true},
		68: {ID: 68, Name: "wall-sign", Hardness: 1.0, Diggable: true, DropID: 323, DropCount: 1, Orientable: true},
	}
	return reg
}

// ByID looks up a block by id.
func ByID(id uint8) (Block, bool) {
	b, ok := Registry[id]
	return b, ok
}

// ByName looks up a block by its lowercase name. Build placement resolves
// a held item through ByID instead (a block item's id equals its block id).
func ByName(name string) (Block, bool) {
	for _, b := range Registry {
		if b.Name == name {
			return b, true
		}
	}
	return Block{}, false
}
