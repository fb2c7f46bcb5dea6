package worldmodel

// toolItems maps a held-item id to the tool-kind name DigPolicy compares
// against a block's BestTool (spec.md §4.5's `tool` parameter). Item ids
// are Beta's real tool ids across all five material tiers; DigPolicy only
// cares about tool kind, not tier, so every tier maps to the same name.
var toolItems = map[int16]string{
	256: "shovel", 257: "pickaxe", 258: "axe", // iron
	269: "shovel", 270: "pickaxe", 271: "axe", // wood
	273: "shovel", 274: "pickaxe", 275: "axe", // stone
	277: "shovel", 278: "pickaxe", 279: "axe", // diamond
	284: "shovel", 285: "pickaxe", 286: "axe", // gold
}

// ToolKind reports the tool-kind name for a held item id, or "" (meaning
// "hand", no tool bonus applies) if it isn't a known tool.
func ToolKind(itemID int16) string {
	return toolItems[itemID]
}
