package gtsmgr

import (
	"github.com/borg-org/openDSME/gtscmd"
	"github.com/borg-org/openDSME/pib"
)

// DuplicateDetector compares an incoming SAB specification against the ACT
// and reports which of its bits collide with a reservation this device
// already knows about.
type DuplicateDetector struct {
	pib *pib.PIB
}

// NewDuplicateDetector builds a detector reading through to p.
func NewDuplicateDetector(p *pib.PIB) *DuplicateDetector {
	return &DuplicateDetector{pib: p}
}

// Check walks the set bits of sabSpec. For every bit that conflicts with an
// existing ACT entry it sets the matching bit in the returned dupReq
// specification and clears it from sabSpec, so the caller is left with a
// SAB spec safe to use for its own NOTIFY. found reports whether any
// conflict existed at all.
func (d *DuplicateDetector) Check(sabSpec *gtscmd.SABSpecification, allChannels bool) (dupReq gtscmd.SABSpecification, found bool) {
	numChannels := d.pib.SAB.NumChannels()
	numGTSlots := len(sabSpec.SubBlock) / numChannels
	dupReq = gtscmd.NewSABSpecification(sabSpec.SubBlockIndex, numGTSlots, numChannels)

	for _, bit := range sabSpec.SetBits() {
		slot, channel := gtscmd.SlotChannel(bit, numChannels)
		if _, conflict := d.pib.ConflictingEntry(sabSpec.SubBlockIndex, slot, channel, allChannels); conflict {
			dupReq.Set(bit)
			sabSpec.Clear(bit)
			found = true
		}
	}

	return dupReq, found
}
