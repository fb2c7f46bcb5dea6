// Package inventory implements the Inventory/Window/Workbench data model
// (spec.md §3): slotted containers, the select (click) operation, and
// 2x2 crafting-result computation for the workbench window. Slot storage
// reuses wire.Slot directly (id/count/damage) rather than a parallel type,
// since the inventory's on-wire representation and in-memory
// representation are identical in this protocol. Adapted from the
// teacher's internal/server/player/inventory.go (Slot shape, mutex-guarded
// array, held-slot accessors), trimmed from the 1.8 36+4+off-hand layout
// down to Beta's 36+4, no off-hand.
package inventory

import (
	"sync"

	"github.com/coldiron/betacraft/internal/wire"
)

// Slot is the inventory's slot type; alias to the wire encoding so no
// translation is needed when syncing to the client.
type Slot = wire.Slot

// EmptySlot is re-exported for callers that don't want to import wire
// directly.
var EmptySlot = wire.EmptySlot

// Inventory holds a player's main storage (0-35, hotbar is 0-8) and armor
// (0-3: boots, leggings, chestplate, helmet) — spec.md §3.
type Inventory struct {
	mu       sync.RWMutex
	Main     [36]Slot
	Armor    [4]Slot
	HeldSlot int16
}

// New creates an empty inventory.
func New() *Inventory {
	inv := &Inventory{}
	for i := range inv.Main {
		inv.Main[i] = EmptySlot
	}
	for i := range inv.Armor {
		inv.Armor[i] = EmptySlot
	}
	return inv
}

// HeldItem returns the slot currently selected in the hotbar.
func (inv *Inventory) HeldItem() Slot {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.Main[inv.HeldSlot]
}

// SetHeldSlot changes which of the nine holdable slots (spec.md §3's
// holdables[0..9]) is selected.
func (inv *Inventory) SetHeldSlot(slot int16) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if slot >= 0 && slot < 9 {
		inv.HeldSlot = slot
	}
}

// Add places count items of id/damage into the first stackable or empty
// main slot. Returns false if the inventory is full.
func (inv *Inventory) Add(id int16, count int8, damage int16) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i, s := range inv.Main {
		if s.ID == id && s.Damage == damage && s.Count < 64 {
			room := int8(64) - s.Count
			if room >= count {
				inv.Main[i].Count += count
				return true
			}
		}
	}
	for i, s := range inv.Main {
		if s.IsEmpty() {
			inv.Main[i] = Slot{ID: id, Count: count, Damage: damage}
			return true
		}
	}
	return false
}

// Consume removes one item matching (id, damage) from slot `heldSlot`.
// Returns false if the held slot doesn't hold a matching item.
func (inv *Inventory) Consume(id int16, damage int16, heldSlot int16) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if heldSlot < 0 || int(heldSlot) >= len(inv.Main) {
		return false
	}
	s := inv.Main[heldSlot]
	if s.IsEmpty() || s.ID != id || s.Damage != damage {
		return false
	}
	s.Count--
	if s.Count <= 0 {
		inv.Main[heldSlot] = EmptySlot
	} else {
		inv.Main[heldSlot] = s
	}
	return true
}

// SaveToPacket returns a snapshot of main+armor slots for a full
// window-items sync (spec.md §3's save_to_packet).
func (inv *Inventory) SaveToPacket() (main [36]Slot, armor [4]Slot) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.Main, inv.Armor
}

// Snapshot returns a copy of the whole inventory's slots for persistence.
func (inv *Inventory) Snapshot() ([36]Slot, [4]Slot, int16) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.Main, inv.Armor, inv.HeldSlot
}

// Restore overwrites the inventory's contents, used when loading a player.
func (inv *Inventory) Restore(main [36]Slot, armor [4]Slot, held int16) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.Main = main
	inv.Armor = armor
	inv.HeldSlot = held
}

// slotAt/setSlotAt address a logical window-wide slot index for Select:
// 0-3 armor, 4-39 main (so the hotbar, Main 0-8, is 4-12): armor first,
// then main, matching the order SaveToPacket emits.
func (inv *Inventory) slotAt(i int) Slot {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if i < len(inv.Armor) {
		return inv.Armor[i]
	}
	return inv.Main[i-len(inv.Armor)]
}

func (inv *Inventory) setSlotAt(i int, s Slot) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if i < len(inv.Armor) {
		inv.Armor[i] = s
		return
	}
	inv.Main[i-len(inv.Armor)] = s
}

// ArmorSlotOffset is the window-relative slot where armor begins,
// matching spec.md §4.7's "armor range (5..9)" against a window layout
// where slots 0-4 are the crafting grid+result.
const ArmorSlotOffset = 5

// HeldSlotIndex is the window-relative index spec.md §4.7 calls "the
// held-slot (36)".
const HeldSlotIndex = 36
