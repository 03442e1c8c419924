package pib

import "github.com/borg-org/openDSME/gtscmd"

// ACTState is the lifecycle state of an Allocation Counter Table entry.
type ACTState int

// The ACT entry lifecycle states.
const (
	Valid ACTState = iota
	Unconfirmed
	Invalid
	Deallocated
	Removed
)

func (s ACTState) String() string {
	switch s {
	case Valid:
		return "VALID"
	case Unconfirmed:
		return "UNCONFIRMED"
	case Invalid:
		return "INVALID"
	case Deallocated:
		return "DEALLOCATED"
	case Removed:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// ACTEntry is one reservation this device participates in.
type ACTEntry struct {
	SuperframeID uint8
	SlotID       uint8
	Channel      uint8
	Direction    gtscmd.Direction
	PeerAddress  gtscmd.ShortAddress
	State        ACTState
	IdleCounter  uint16
}

// ACT is the Allocation Counter Table: at most one entry per
// (superframeID, slotID) pair, iterated in the order entries were first
// added so that CFP sweeps are deterministic across runs. A linear scan
// over entries is enough since the table never grows past
// numGTSlots*numSuperframesPerMultiSuperframe.
type ACT struct {
	entries []*ACTEntry
}

// NewACT creates an empty Allocation Counter Table.
func NewACT() *ACT {
	return &ACT{}
}

// Find returns the entry at (superframeID, slotID), if any.
func (t *ACT) Find(superframeID, slotID uint8) (*ACTEntry, bool) {
	for _, e := range t.entries {
		if e.SuperframeID == superframeID && e.SlotID == slotID {
			return e, true
		}
	}
	return nil, false
}

// Add inserts a new entry, replacing any existing entry at the same key.
// The at-most-one-entry-per-key invariant is enforced here.
func (t *ACT) Add(e *ACTEntry) {
	for i, existing := range t.entries {
		if existing.SuperframeID == e.SuperframeID && existing.SlotID == e.SlotID {
			t.entries[i] = e
			return
		}
	}
	t.entries = append(t.entries, e)
}

// Remove deletes the entry at (superframeID, slotID), if any.
func (t *ACT) Remove(superframeID, slotID uint8) {
	for i, e := range t.entries {
		if e.SuperframeID == superframeID && e.SlotID == slotID {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// All returns every entry, in insertion order.
func (t *ACT) All() []*ACTEntry {
	return t.entries
}

// IncrementIdleCounters increments every entry's idle counter. Called once
// per multi-superframe boundary (superframe == 0); the counter is reset
// separately whenever a slot sees RX/TX activity.
func (t *ACT) IncrementIdleCounters() {
	for _, e := range t.entries {
		e.IdleCounter++
	}
}

// ResetIdleCounter zeroes the idle counter of the entry at
// (superframeID, slotID), if it exists.
func (t *ACT) ResetIdleCounter(superframeID, slotID uint8) {
	if e, ok := t.Find(superframeID, slotID); ok {
		e.IdleCounter = 0
	}
}
