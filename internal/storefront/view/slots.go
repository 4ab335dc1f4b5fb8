package view

import "storefront/pkg/model"

// NoSelection is the SlotPicker index when nothing is selected.
const NoSelection = -1

// SlotPicker holds a single slot selection. Unavailable or out of range
// slots can never become selected.
type SlotPicker struct {
	Slots    []model.Slot
	selected int
}

func NewSlotPicker(slots []model.Slot) *SlotPicker {
	return &SlotPicker{Slots: slots, selected: NoSelection}
}

// Select selects slot i and reports whether the selection changed to it.
func (p *SlotPicker) Select(i int) bool {
	if i < 0 || i >= len(p.Slots) || !p.Slots[i].Available {
		return false
	}
	p.selected = i
	return true
}

func (p *SlotPicker) SelectedIndex() int {
	return p.selected
}

func (p *SlotPicker) Selected() (model.Slot, bool) {
	if p.selected == NoSelection {
		return model.Slot{}, false
	}
	return p.Slots[p.selected], true
}

func (p *SlotPicker) HasSelection() bool {
	return p.selected != NoSelection
}

func (p *SlotPicker) IsSelected(i int) bool {
	return p.selected != NoSelection && p.selected == i
}
