package gtsmgr

import "github.com/sarchlab/akita/v4/sim"

// SlotEvent marks a slot boundary of the underlying multi-superframe
// schedule; the manager only acts when Slot == FinalCAPSlot+1, treating the
// boundary as the CFP_STARTED signal of the handshake logic.
type SlotEvent struct {
	sim.EventBase

	Slot       int
	Superframe int
}

// NewSlotEvent creates a SlotEvent to be delivered to handler at t.
func NewSlotEvent(t sim.VTimeInSec, handler sim.Handler, slot, superframe int) SlotEvent {
	evt := SlotEvent{
		EventBase:  *sim.NewEventBase(t, handler),
		Slot:       slot,
		Superframe: superframe,
	}
	return evt
}
