package session

import (
	"fmt"

	"github.com/coldiron/betacraft/internal/inventory"
	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// craftingSlots is how many window-relative slots a window's crafting
// area occupies (0=result, 1-4=grid) before armor/main begin, for both
// the player's own window (wid 0, crafting not modeled — see
// internal/inventory/window.go) and an open workbench (spec.md §3/§4.7).
const craftingSlots = 5

// sendOwnInventory resyncs the player's full inventory (armor+main) to
// the client via a single window-items packet, wid 0.
func (s *Session) sendOwnInventory() {
	s.mu.Lock()
	player := s.player
	s.mu.Unlock()
	if player == nil {
		return
	}
	main, armor := player.Inventory.SaveToPacket()
	slots := make([]wire.Slot, 0, len(armor)+len(main))
	slots = append(slots, armor[:]...)
	slots = append(slots, main[:]...)
	if err := wire.WriteWindowItems(s.conn, 0, slots); err != nil {
		s.log.Warn("send inventory failed", "error", err)
	}
}

// openWorkbench allocates a new wid, syncs the player inventory into it,
// and sends window-open (spec.md §4.5 step 2).
func (s *Session) openWorkbench() error {
	s.mu.Lock()
	player := s.player
	wid := s.nextWID
	s.nextWID++
	w := inventory.NewWorkbench(wid, player.Inventory)
	s.windows[wid] = w
	s.mu.Unlock()

	return s.WritePacket(&wire.WindowOpen{
		WindowID: uint8(wid), InvType: wire.WindowTypeWorkbench,
		Title: "Workbench", SlotCount: 2,
	})
}

// handleWindowClose is spec.md §4.7's wclose: the player-inventory wid is
// always a no-op; a workbench spills leftover crafting items and is
// removed; any other wid is unknown and closes the connection.
func (s *Session) handleWindowClose(p *wire.WindowClose) error {
	wid := uint16(p.WindowID)
	if wid == 0 {
		return nil
	}

	s.mu.Lock()
	w, ok := s.windows[wid]
	if ok {
		delete(s.windows, wid)
	}
	loc := s.loc
	s.mu.Unlock()

	if !ok {
		s.Disconnect("Unknown window.")
		return fmt.Errorf("unknown wid %d", wid)
	}

	if w.Kind == inventory.KindWorkbench {
		for _, item := range w.ClearCrafting() {
			fx, fy, fz := loc.InFrontOf(2)
			coord := worldmodel.BlockCoord{X: int32(fx), Y: uint8(fy), Z: int32(fz)}
			s.bus.Give(s.ctx, coord, item.ID, item.Damage, item.Count)
		}
	}
	// w.Owner aliases the player's own inventory directly, so there is
	// nothing further to copy back (see internal/inventory/window.go).
	return nil
}

// handleWindowAction is spec.md §4.7's waction: dispatch the click to the
// right window, resend inventory on change, broadcast equipment when the
// player's own armor/held slot changed, and always acknowledge.
func (s *Session) handleWindowAction(p *wire.WindowAction) error {
	wid := uint16(p.WindowID)
	changed := false

	s.mu.Lock()
	player := s.player
	var w *inventory.Window
	if wid != 0 {
		w = s.windows[wid]
	}
	s.mu.Unlock()

	if wid != 0 && w == nil {
		s.Disconnect("Unknown window.")
		return fmt.Errorf("unknown wid %d", wid)
	}
	if player == nil {
		return nil
	}

	slot := int(p.Slot)

	s.mu.Lock()
	cursor := s.cursor
	s.mu.Unlock()

	switch {
	case slot < craftingSlots:
		if w != nil {
			changed = w.Select(slot, p.RightClick, p.Shift, &cursor)
		}
	default:
		changed = inventory.SelectInventory(player.Inventory, slot-craftingSlots, p.RightClick, p.Shift, &cursor)
	}

	s.mu.Lock()
	s.cursor = cursor
	s.mu.Unlock()

	if changed {
		s.sendOwnInventory()
		if wid == 0 {
			s.broadcastEquipmentIfSlot(slot)
		}
	}

	return s.WritePacket(&wire.WindowToken{WindowID: p.WindowID, ActionNumber: p.ActionNumber, Accepted: changed})
}

// broadcastEquipmentIfSlot broadcasts entity-equipment to other sessions
// when the clicked window-relative slot was player armor (5..8) or the
// held slot (36) (spec.md §4.7).
func (s *Session) broadcastEquipmentIfSlot(winSlot int) {
	switch {
	case winSlot >= craftingSlots && winSlot < craftingSlots+4:
		armorIdx := winSlot - craftingSlots // 0..3
		equipSlot := int16(4 - armorIdx)
		s.bus.BroadcastForOthers(&wire.EntityEquipment{EntityID: int32(s.eid), Slot: equipSlot}, s.Username())
	case winSlot == inventory.HeldSlotIndex:
		s.bus.BroadcastForOthers(&wire.EntityEquipment{EntityID: int32(s.eid), Slot: 0}, s.Username())
	}
}
