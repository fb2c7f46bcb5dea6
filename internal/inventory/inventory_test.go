package inventory

import "testing"

func TestAddStacksThenFills(t *testing.T) {
	inv := New()
	if !inv.Add(1, 10, 0) {
		t.Fatal("expected add to succeed on empty inventory")
	}
	if !inv.Add(1, 5, 0) {
		t.Fatal("expected add to stack onto existing slot")
	}
	if inv.Main[0].Count != 15 {
		t.Fatalf("Main[0].Count = %d, want 15", inv.Main[0].Count)
	}
}

func TestConsumeRequiresMatch(t *testing.T) {
	inv := New()
	inv.Main[0] = Slot{ID: 1, Count: 2, Damage: 0}
	if inv.Consume(2, 0, 0) {
		t.Fatal("expected consume to fail on id mismatch")
	}
	if !inv.Consume(1, 0, 0) {
		t.Fatal("expected consume to succeed")
	}
	if inv.Main[0].Count != 1 {
		t.Fatalf("Count after consume = %d, want 1", inv.Main[0].Count)
	}
}

func TestConsumeEmptiesSlotAtZero(t *testing.T) {
	inv := New()
	inv.Main[0] = Slot{ID: 1, Count: 1, Damage: 0}
	inv.Consume(1, 0, 0)
	if !inv.Main[0].IsEmpty() {
		t.Fatal("expected slot to become empty after last item consumed")
	}
}

func TestMatchShapelessLogToPlanks(t *testing.T) {
	grid := [4]Slot{{ID: 17, Count: 1}, EmptySlot, EmptySlot, EmptySlot}
	result := MatchRecipe2x2(grid, DefaultRecipes)
	if result.ID != 5 || result.Count != 4 {
		t.Fatalf("got %+v, want planks x4", result)
	}
}

func TestMatchShapedWorkbench(t *testing.T) {
	grid := [4]Slot{{ID: 5, Count: 1}, {ID: 5, Count: 1}, {ID: 5, Count: 1}, {ID: 5, Count: 1}}
	result := MatchRecipe2x2(grid, DefaultRecipes)
	if result.ID != 58 {
		t.Fatalf("got %+v, want workbench", result)
	}
}

func TestMatchNoRecipe(t *testing.T) {
	grid := [4]Slot{{ID: 1, Count: 1}, EmptySlot, EmptySlot, EmptySlot}
	result := MatchRecipe2x2(grid, DefaultRecipes)
	if !result.IsEmpty() {
		t.Fatalf("expected no match, got %+v", result)
	}
}

func TestClickSlotPickupAndPlace(t *testing.T) {
	target := Slot{ID: 1, Count: 5}
	cursor := EmptySlot
	if !clickSlot(&target, &cursor, false, false) {
		t.Fatal("expected change on pickup")
	}
	if !target.IsEmpty() || cursor.ID != 1 || cursor.Count != 5 {
		t.Fatalf("unexpected state after pickup: target=%+v cursor=%+v", target, cursor)
	}
	target2 := EmptySlot
	if !clickSlot(&target2, &cursor, false, false) {
		t.Fatal("expected change on place")
	}
	if target2.ID != 1 || target2.Count != 5 || !cursor.IsEmpty() {
		t.Fatalf("unexpected state after place: target=%+v cursor=%+v", target2, cursor)
	}
}

func TestWindowResultConsumesGrid(t *testing.T) {
	w := NewWorkbench(1, New())
	w.Crafting = [4]Slot{{ID: 17, Count: 1}, EmptySlot, EmptySlot, EmptySlot}
	cursor := EmptySlot
	if !w.Select(0, false, false, &cursor) {
		t.Fatal("expected taking the result to change state")
	}
	if cursor.ID != 5 {
		t.Fatalf("cursor = %+v, want planks", cursor)
	}
	if !w.Crafting[0].IsEmpty() {
		t.Fatal("expected log to be consumed from grid")
	}
}
