package inventory

// MatchRecipe2x2 tries to match a 2x2 crafting grid against the known
// recipe set. Grid layout: [0]=top-left, [1]=top-right, [2]=bottom-left,
// [3]=bottom-right. Adapted from the teacher's
// internal/server/conn/crafting.go matchRecipe2x2/matchShaped2x2/
// matchShapeless2x2, re-typed against this package's Slot/Recipe instead
// of the generated gamedata registry.
func MatchRecipe2x2(grid [4]Slot, recipes []Recipe) Slot {
	for _, recipe := range recipes {
		if len(recipe.InShape) > 0 {
			if matchShaped2x2(grid, recipe) {
				return recipeResultToSlot(recipe.Result)
			}
		} else if len(recipe.Ingredients) > 0 {
			if matchShapeless2x2(grid, recipe) {
				return recipeResultToSlot(recipe.Result)
			}
		}
	}
	return EmptySlot
}

func matchShaped2x2(grid [4]Slot, recipe Recipe) bool {
	shape := recipe.InShape
	rows := len(shape)
	if rows == 0 || rows > 2 {
		return false
	}
	cols := 0
	for _, row := range shape {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols > 2 {
		return false
	}

	for rowOff := 0; rowOff <= 2-rows; rowOff++ {
		for colOff := 0; colOff <= 2-cols; colOff++ {
			if checkShapedAt(grid, shape, rowOff, colOff) {
				return true
			}
		}
	}

	mirrored := mirrorShape(shape)
	for rowOff := 0; rowOff <= 2-rows; rowOff++ {
		for colOff := 0; colOff <= 2-cols; colOff++ {
			if checkShapedAt(grid, mirrored, rowOff, colOff) {
				return true
			}
		}
	}
	return false
}

func checkShapedAt(grid [4]Slot, shape [][]Ingredient, rowOff, colOff int) bool {
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			gridSlot := grid[r*2+c]
			shapeR := r - rowOff
			shapeC := c - colOff

			var expected Ingredient
			inShape := false
			if shapeR >= 0 && shapeR < len(shape) && shapeC >= 0 && shapeC < len(shape[shapeR]) {
				expected = shape[shapeR][shapeC]
				inShape = true
			}

			if inShape && expected.ID > 0 {
				if gridSlot.IsEmpty() {
					return false
				}
				if int(gridSlot.ID) != expected.ID {
					return false
				}
				if expected.Metadata >= 0 && int(gridSlot.Damage) != expected.Metadata {
					return false
				}
			} else if !gridSlot.IsEmpty() {
				return false
			}
		}
	}
	return true
}

func mirrorShape(shape [][]Ingredient) [][]Ingredient {
	mirrored := make([][]Ingredient, len(shape))
	for i, row := range shape {
		mirrored[i] = make([]Ingredient, len(row))
		for j := range row {
			mirrored[i][j] = row[len(row)-1-j]
		}
	}
	return mirrored
}

func matchShapeless2x2(grid [4]Slot, recipe Recipe) bool {
	if len(recipe.Ingredients) > 4 {
		return false
	}

	var gridItems []Slot
	for _, s := range grid {
		if !s.IsEmpty() {
			gridItems = append(gridItems, s)
		}
	}
	if len(gridItems) != len(recipe.Ingredients) {
		return false
	}

	used := make([]bool, len(gridItems))
	for _, ing := range recipe.Ingredients {
		found := false
		for j, gs := range gridItems {
			if used[j] {
				continue
			}
			if int(gs.ID) == ing.ID && (ing.Metadata < 0 || int(gs.Damage) == ing.Metadata) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func recipeResultToSlot(result RecipeResult) Slot {
	return Slot{ID: int16(result.ID), Count: int8(result.Count), Damage: int16(result.Metadata)}
}
