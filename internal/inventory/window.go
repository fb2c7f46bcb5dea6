package inventory

import "sync"

// Kind distinguishes the player's own inventory window (wid=0, implicit)
// from an opened Workbench window — spec.md §3.
type Kind int

const (
	KindPlayer Kind = iota
	KindWorkbench
)

// WorkbenchIdentifier is the window type sent in window-open for a
// workbench (spec.md §4.5 step 2).
const WorkbenchIdentifier = 1

// Window is an open container on the client, keyed by wid — spec.md §3.
// A workbench window owns a 2x2 crafting grid plus its computed result
// slot; closing it is the orchestrator's job (drains leftover items, see
// internal/session). Owner is the player's own inventory, not a copy, so
// nothing is synced back on close.
type Window struct {
	WID   uint16
	Kind  Kind
	Owner *Inventory // the player's inventory, for armor/main addressing

	mu       sync.Mutex
	Crafting [4]Slot // workbench-only 2x2 grid
}

// NewWorkbench allocates a workbench window bound to owner.
func NewWorkbench(wid uint16, owner *Inventory) *Window {
	w := &Window{WID: wid, Kind: KindWorkbench, Owner: owner}
	for i := range w.Crafting {
		w.Crafting[i] = EmptySlot
	}
	return w
}

// Result returns the currently computed crafting result for the grid.
func (w *Window) Result() Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return MatchRecipe2x2(w.Crafting, DefaultRecipes)
}

// CraftingSnapshot returns a copy of the 2x2 grid (e.g. to spill on close).
func (w *Window) CraftingSnapshot() [4]Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Crafting
}

// ClearCrafting empties the grid, returning its prior, non-empty contents.
func (w *Window) ClearCrafting() []Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	var leftovers []Slot
	for i, s := range w.Crafting {
		if !s.IsEmpty() {
			leftovers = append(leftovers, s)
		}
		w.Crafting[i] = EmptySlot
	}
	return leftovers
}

// windowSize is the number of logical slots exposed by a workbench window:
// slot 0 is the result, 1-4 are the crafting grid.
const windowSize = 5

// Select performs a single click: picking up from, or placing into,
// `slot` (window-relative: 0=result, 1-4=crafting grid for a workbench
// window; this package's Inventory addresses its own slots separately via
// slotAt/setSlotAt for the player-inventory wid). `cursor` is the item
// currently held by the mouse, shared across every window the session has
// open — spec.md doesn't name this explicitly, but a single-cursor click
// model is how the wire protocol's waction packet is universally
// interpreted. Returns whether any slot actually changed.
func (w *Window) Select(slot int, rightClick bool, shift bool, cursor *Slot) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if slot == 0 {
		// Result slot: taking it consumes one of each non-empty grid
		// ingredient and fills the cursor with the result (if the cursor
		// can accept it).
		result := MatchRecipe2x2(w.Crafting, DefaultRecipes)
		if result.IsEmpty() {
			return false
		}
		if !cursor.IsEmpty() && (cursor.ID != result.ID || cursor.Damage != result.Damage) {
			return false
		}
		for i, s := range w.Crafting {
			if !s.IsEmpty() {
				s.Count--
				if s.Count <= 0 {
					w.Crafting[i] = EmptySlot
				} else {
					w.Crafting[i] = s
				}
			}
		}
		if cursor.IsEmpty() {
			*cursor = result
		} else {
			cursor.Count += result.Count
		}
		return true
	}

	if slot < 1 || slot > 4 {
		return false
	}
	i := slot - 1
	return clickSlot(&w.Crafting[i], cursor, rightClick, shift)
}

// SelectInventory performs a click against the player's own inventory
// (armor+main), addressed with spec.md §4.7's window-relative layout:
// slots 0-4 are reserved for the workbench/crafting area of the player's
// own inventory window and are not handled here (the player-inventory
// window's own built-in crafting isn't modeled; only the workbench window
// exposes one, per this package's enrichment). Slot indices here are
// relative to armor+main only (ArmorSlotOffset already subtracted by the
// caller in internal/session).
func SelectInventory(inv *Inventory, i int, rightClick, shift bool, cursor *Slot) bool {
	if i < 0 || i >= len(inv.Armor)+len(inv.Main) {
		return false
	}
	inv.mu.Lock()
	var target *Slot
	if i < len(inv.Armor) {
		target = &inv.Armor[i]
	} else {
		target = &inv.Main[i-len(inv.Armor)]
	}
	changed := clickSlot(target, cursor, rightClick, shift)
	inv.mu.Unlock()
	return changed
}

// clickSlot implements the shared pick-up/place/merge/swap logic for a
// single target slot against the shared mouse cursor.
func clickSlot(target *Slot, cursor *Slot, rightClick bool, shift bool) bool {
	if shift {
		if target.IsEmpty() {
			return false
		}
		// Shift-click is modeled as "send to cursor if empty, else no-op"
		// — full cross-container transfer logic lives in the session,
		// which knows both containers involved.
		if cursor.IsEmpty() {
			*cursor = *target
			*target = EmptySlot
			return true
		}
		return false
	}

	switch {
	case cursor.IsEmpty() && target.IsEmpty():
		return false
	case cursor.IsEmpty():
		// Pick up from target.
		if rightClick {
			half := (target.Count + 1) / 2
			cursor.ID, cursor.Damage = target.ID, target.Damage
			cursor.Count = half
			target.Count -= half
			if target.Count <= 0 {
				*target = EmptySlot
			}
		} else {
			*cursor = *target
			*target = EmptySlot
		}
		return true
	case target.IsEmpty():
		// Place into target.
		if rightClick {
			*target = Slot{ID: cursor.ID, Count: 1, Damage: cursor.Damage}
			cursor.Count--
			if cursor.Count <= 0 {
				*cursor = EmptySlot
			}
		} else {
			*target = *cursor
			*cursor = EmptySlot
		}
		return true
	case target.ID == cursor.ID && target.Damage == cursor.Damage && target.Count < 64:
		n := int8(1)
		if !rightClick {
			n = cursor.Count
		}
		room := int8(64) - target.Count
		if n > room {
			n = room
		}
		target.Count += n
		cursor.Count -= n
		if cursor.Count <= 0 {
			*cursor = EmptySlot
		}
		return n > 0
	default:
		// Swap.
		*target, *cursor = *cursor, *target
		return true
	}
}
