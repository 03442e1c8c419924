package pib

// PIB bundles the SAB and ACT a device maintains; the GTS Manager holds
// exactly one and never mutates either container except through Updater or
// the overheard-frame path.
type PIB struct {
	SAB *SAB
	ACT *ACT
}

// NewPIB creates an empty PIB sized for numGTSlots slots and numChannels
// channels.
func NewPIB(numGTSlots, numChannels int) *PIB {
	return &PIB{
		SAB: NewSAB(numGTSlots, numChannels),
		ACT: NewACT(),
	}
}

// HasEntry reports whether an ACT entry exists at (superframeID, slotID).
func (p *PIB) HasEntry(superframeID, slotID uint8) bool {
	_, ok := p.ACT.Find(superframeID, slotID)
	return ok
}

// IdleCounterOf returns the idle counter of the entry at
// (superframeID, slotID), or 0 if there is none.
func (p *PIB) IdleCounterOf(superframeID, slotID uint8) uint16 {
	e, ok := p.ACT.Find(superframeID, slotID)
	if !ok {
		return 0
	}
	return e.IdleCounter
}

// IsOccupied reports whether the SAB has (superframeID, slot, channel) set.
func (p *PIB) IsOccupied(superframeID uint8, slot, channel int) bool {
	return p.SAB.IsSet(superframeID, slot, channel)
}

// ConflictingEntry looks up the ACT entry that would conflict with an
// allocation of (superframeID, slot, channel): an entry exists at that
// slot and, unless allChannels is set, uses the same channel.
func (p *PIB) ConflictingEntry(superframeID uint8, slot int, channel int, allChannels bool) (*ACTEntry, bool) {
	e, ok := p.ACT.Find(superframeID, uint8(slot))
	if !ok {
		return nil, false
	}
	if allChannels || int(e.Channel) == channel {
		return e, true
	}
	return nil, false
}

// EntriesDueForSweep returns every ACT entry a CFP_STARTED expiration sweep
// should consider: state INVALID, state UNCONFIRMED, or an idle counter
// beyond expirationTime. UNCONFIRMED candidates are skipped while any FSM
// instance is non-idle.
func (p *PIB) EntriesDueForSweep(expirationTime uint16, anyPendingAllocation bool) []*ACTEntry {
	var due []*ACTEntry
	for _, e := range p.ACT.All() {
		switch {
		case e.State == Invalid:
			due = append(due, e)
		case e.State == Unconfirmed:
			if !anyPendingAllocation {
				due = append(due, e)
			}
		case e.IdleCounter > expirationTime:
			due = append(due, e)
		}
	}
	return due
}

// SlotChannelOf converts an entry's SlotID into (slot, channel) using its
// own recorded channel — a convenience for building SABSpecification bits.
func SlotChannelOf(e *ACTEntry) (slot, channel int) {
	return int(e.SlotID), int(e.Channel)
}
