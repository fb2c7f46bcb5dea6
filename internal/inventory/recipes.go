package inventory

// Ingredient and Recipe mirror the teacher's gamedata.Recipe/Ingredient
// shape (internal/gamedata/recipe.go), kept as a small embedded table
// instead of a JSON-schema-loaded registry, since the workbench window
// this package serves only ever presents a 2x2 grid (spec.md §4.5 step 2).
type Ingredient struct {
	ID       int
	Metadata int // -1 = any metadata
}

type Recipe struct {
	// InShape is a shaped recipe's grid (rows of ingredients; entries with
	// ID 0 are empty cells). Takes precedence over Ingredients if non-empty.
	InShape [][]Ingredient
	// Ingredients is a shapeless recipe's ingredient multiset.
	Ingredients []Ingredient
	Result      RecipeResult
}

type RecipeResult struct {
	ID       int
	Count    int
	Metadata int
}

// DefaultRecipes is a small built-in 2x2-craftable recipe set.
var DefaultRecipes = []Recipe{
	{ // planks from a log, shapeless (any single log in any cell)
		Ingredients: []Ingredient{{ID: 17, Metadata: -1}},
		Result:      RecipeResult{ID: 5, Count: 4, Metadata: 0},
	},
	{ // 4 planks -> workbench, shaped 2x2 full
		InShape: [][]Ingredient{
			{{ID: 5, Metadata: -1}, {ID: 5, Metadata: -1}},
			{{ID: 5, Metadata: -1}, {ID: 5, Metadata: -1}},
		},
		Result: RecipeResult{ID: 58, Count: 1, Metadata: 0},
	},
	{ // 2 planks stacked vertically -> sticks
		InShape: [][]Ingredient{
			{{ID: 5, Metadata: -1}},
			{{ID: 5, Metadata: -1}},
		},
		Result: RecipeResult{ID: 280, Count: 4, Metadata: 0},
	},
}
