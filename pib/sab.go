// Package pib implements the MAC PAN Information Base containers the GTS
// Manager drives: the Slot Allocation Bitmap (SAB) and the Allocation
// Counter Table (ACT), plus the ACT Updater state-transition table and the
// read-only SAB/ACT query surface.
package pib

import "github.com/borg-org/openDSME/gtscmd"

// SAB is the device's view of every occupied (superframe, slot, channel)
// tuple, whether allocated locally or overheard from a neighbor.
type SAB struct {
	numGTSlots  int
	numChannels int
	occupied    map[uint8][]bool // superframeID -> bitmap of length numGTSlots*numChannels
}

// NewSAB creates an empty slot allocation bitmap sized for numGTSlots
// slots and numChannels channels per superframe.
func NewSAB(numGTSlots, numChannels int) *SAB {
	return &SAB{
		numGTSlots:  numGTSlots,
		numChannels: numChannels,
		occupied:    make(map[uint8][]bool),
	}
}

// NumChannels returns the number of channels per slot this SAB was sized
// for, needed to decode a SABSpecification's flat bit vector.
func (s *SAB) NumChannels() int { return s.numChannels }

func (s *SAB) bitmapFor(superframeID uint8) []bool {
	bm, ok := s.occupied[superframeID]
	if !ok {
		bm = make([]bool, s.numGTSlots*s.numChannels)
		s.occupied[superframeID] = bm
	}
	return bm
}

// SetBit marks (superframeID, slot, channel) occupied.
func (s *SAB) SetBit(superframeID uint8, slot, channel int) {
	bm := s.bitmapFor(superframeID)
	bm[gtscmd.BitIndex(slot, channel, s.numChannels)] = true
}

// ClearBit marks (superframeID, slot, channel) free.
func (s *SAB) ClearBit(superframeID uint8, slot, channel int) {
	bm := s.bitmapFor(superframeID)
	bm[gtscmd.BitIndex(slot, channel, s.numChannels)] = false
}

// IsSet reports whether (superframeID, slot, channel) is occupied.
func (s *SAB) IsSet(superframeID uint8, slot, channel int) bool {
	bm, ok := s.occupied[superframeID]
	if !ok {
		return false
	}
	return bm[gtscmd.BitIndex(slot, channel, s.numChannels)]
}

// AddOccupiedSlots ORs every set bit of spec into the bitmap for its
// superframe, mirroring DSMESAB::addOccupiedSlots.
func (s *SAB) AddOccupiedSlots(spec gtscmd.SABSpecification) {
	bm := s.bitmapFor(spec.SubBlockIndex)
	for _, bit := range spec.SetBits() {
		bm[bit] = true
	}
}

// RemoveOccupiedSlots clears every set bit of spec from the bitmap for its
// superframe, mirroring DSMESAB::removeOccupiedSlots.
func (s *SAB) RemoveOccupiedSlots(spec gtscmd.SABSpecification) {
	bm := s.bitmapFor(spec.SubBlockIndex)
	for _, bit := range spec.SetBits() {
		bm[bit] = false
	}
}
