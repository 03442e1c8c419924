package pib

import "github.com/borg-org/openDSME/gtscmd"

// Updater is the only writer of ACT state transitions and the SAB mirror
// bits that follow them. Every method takes the SABSpecification carried
// by the frame that triggered the transition and applies it slot-by-slot
// A single command frame may carry more than one slot; every set bit
// is handled independently.
type Updater struct {
	pib *PIB
}

// NewUpdater builds an Updater writing through to p.
func NewUpdater(p *PIB) *Updater {
	return &Updater{pib: p}
}

func (u *Updater) forEachSlot(sabSpec gtscmd.SABSpecification, fn func(slot, channel int)) {
	numChannels := u.pib.SAB.NumChannels()
	for _, bit := range sabSpec.SetBits() {
		slot, channel := gtscmd.SlotChannel(bit, numChannels)
		fn(slot, channel)
	}
}

func (u *Updater) addEntry(superframeID uint8, slot, channel int, dir gtscmd.Direction, peer gtscmd.ShortAddress, state ACTState) {
	u.pib.ACT.Add(&ACTEntry{
		SuperframeID: superframeID,
		SlotID:       uint8(slot),
		Channel:      uint8(channel),
		Direction:    dir,
		PeerAddress:  peer,
		State:        state,
	})
}

// ApprovalQueued records the responder's tentative reservation the moment
// its positive REPLY is handed to the CAP for transmission, in UNCONFIRMED
// state so a concurrent duplicate check on the same slot can see it without
// yet mirroring it in the SAB.
func (u *Updater) ApprovalQueued(sabSpec gtscmd.SABSpecification, mgmt gtscmd.GTSManagement, peer gtscmd.ShortAddress) {
	u.forEachSlot(sabSpec, func(slot, channel int) {
		u.addEntry(sabSpec.SubBlockIndex, slot, channel, mgmt.Direction, peer, Unconfirmed)
	})
}

// ApprovalDelivered is a no-op on the ACT: the responder's positive REPLY
// left the CAP successfully, but the entry stays UNCONFIRMED until the
// initiator's NOTIFY is received.
func (u *Updater) ApprovalDelivered(gtscmd.SABSpecification, gtscmd.GTSManagement, gtscmd.ShortAddress) {}

// ApprovalReceived is the initiator side receiving a positive REPLY: the
// entry is created UNCONFIRMED with the direction carried in mgmt, pending
// delivery of its own NOTIFY.
func (u *Updater) ApprovalReceived(sabSpec gtscmd.SABSpecification, mgmt gtscmd.GTSManagement, peer gtscmd.ShortAddress) {
	u.forEachSlot(sabSpec, func(slot, channel int) {
		u.addEntry(sabSpec.SubBlockIndex, slot, channel, mgmt.Direction, peer, Unconfirmed)
	})
}

// NotifyDelivered promotes the initiator's UNCONFIRMED entry to VALID once
// its NOTIFY has left the CAP, and mirrors the reservation into the SAB.
func (u *Updater) NotifyDelivered(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.forEachSlot(sabSpec, func(slot, channel int) {
		if e, ok := u.pib.ACT.Find(sabSpec.SubBlockIndex, uint8(slot)); ok {
			e.State = Valid
			e.IdleCounter = 0
		}
	})
	u.pib.SAB.AddOccupiedSlots(sabSpec)
}

// NotifyReceived promotes the responder's UNCONFIRMED entry to VALID upon
// receiving the initiator's NOTIFY, mirroring the reservation into the SAB.
func (u *Updater) NotifyReceived(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.NotifyDelivered(sabSpec, gtscmd.GTSManagement{}, 0)
}

// Disapproved marks a rejected REQUEST's would-be entry, if any was
// speculatively created, as INVALID so the next expiration sweep reaps it.
func (u *Updater) Disapproved(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.markState(sabSpec, Invalid)
}

// DisapprovalDelivered, DisapprovalNoAck and DisapprovalAccessFailure all
// converge on the same effect: the local candidate entry is dropped
// outright, since no peer ever confirmed it.
func (u *Updater) DisapprovalDelivered(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.removeEntries(sabSpec)
}

func (u *Updater) DisapprovalNoAck(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.removeEntries(sabSpec)
}

func (u *Updater) DisapprovalAccessFailure(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.removeEntries(sabSpec)
}

// ApprovalAccessFailure rolls an UNCONFIRMED entry back to INVALID when the
// CAP could not get the responder's positive REPLY on air.
func (u *Updater) ApprovalAccessFailure(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.markState(sabSpec, Invalid)
}

// RequestNoAck, RequestAccessFailure: the REQUEST itself never reached the
// peer, so any speculative entry is removed rather than left to expire.
func (u *Updater) RequestNoAck(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.removeEntries(sabSpec)
}

func (u *Updater) RequestAccessFailure(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.removeEntries(sabSpec)
}

// NotifyAccessFailure: the NOTIFY never made it out; the entry it would
// have confirmed reverts to INVALID.
func (u *Updater) NotifyAccessFailure(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.markState(sabSpec, Invalid)
}

// NotifyTimeout: the responder never saw the initiator's NOTIFY within
// macResponseWaitTime; its UNCONFIRMED entry reverts to INVALID for
// the next sweep to reap.
func (u *Updater) NotifyTimeout(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.markState(sabSpec, Invalid)
}

// ResponseTimeout: the initiator never saw a REPLY within
// macResponseWaitTime; there is no ACT entry yet to touch beyond dropping
// any speculative UNCONFIRMED placeholder.
func (u *Updater) ResponseTimeout(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.removeEntries(sabSpec)
}

// DuplicateAllocation marks the conflicting entry INVALID and records the
// announced slots as occupied in the SAB mirror, per
// DUPLICATED_ALLOCATION_NOTIFICATION handling: SAB first, then ACT.
func (u *Updater) DuplicateAllocation(sabSpec gtscmd.SABSpecification, _ gtscmd.GTSManagement, _ gtscmd.ShortAddress) {
	u.pib.SAB.AddOccupiedSlots(sabSpec)
	u.markState(sabSpec, Invalid)
}

func (u *Updater) markState(sabSpec gtscmd.SABSpecification, state ACTState) {
	u.forEachSlot(sabSpec, func(slot, _ int) {
		if e, ok := u.pib.ACT.Find(sabSpec.SubBlockIndex, uint8(slot)); ok {
			e.State = state
		}
	})
}

func (u *Updater) removeEntries(sabSpec gtscmd.SABSpecification) {
	u.forEachSlot(sabSpec, func(slot, _ int) {
		u.pib.ACT.Remove(sabSpec.SubBlockIndex, uint8(slot))
	})
}
