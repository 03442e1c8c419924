// Package gtsmgr implements the per-peer GTS handshake state machine pool
// and the dispatcher that routes MLME-SAP primitives, received GTS command
// frames, and CSMA completions to the right instance.
package gtsmgr

import "github.com/sarchlab/akita/v4/sim"

// Config carries every MAC PIB constant the manager consults. All fields
// mirror the constant names used by the handshake logic itself so the two
// stay easy to cross-reference.
type Config struct {
	NumSuperframesPerMultiSuperframe int
	NumGTSlots                       int
	NumChannels                      int
	MacDSMEGTSExpirationTime         uint16
	MacResponseWaitTime              int
	MacSuperframeOrder               uint
	MacShortAddress                  uint16
	StateMultiplicity                int
	FinalCAPSlot                     int
	SlotDuration                     sim.VTimeInSec
}

// responseWaitExceeded reports whether a WaitFor* instance parked
// in its current state for sfCount superframes has exceeded
// macResponseWaitTime, computed as the original strict inequality
// (sfCount * 2^macSuperframeOrder > macResponseWaitTime) rather than a
// pre-divided threshold, which would round differently.
func (c Config) responseWaitExceeded(sfCount int) bool {
	return sfCount*(1<<c.MacSuperframeOrder) > c.MacResponseWaitTime
}
