package gtscmd

import "github.com/sarchlab/akita/v4/sim"

// CSMASent is the onCSMASent completion callback, delivered back to the
// manager over the same CAPPort a CommandFrame was sent on. OriginalID
// names the CommandFrame.ID this completion reports on; a completion whose
// OriginalID no longer matches any in-flight msgToSend is logged and
// dropped rather than misrouted.
type CSMASent struct {
	sim.MsgMeta

	OriginalID  string
	CmdID       CommandID
	Status      DataStatus
	NumBackoffs int
}

// Meta returns the akita message metadata.
func (c *CSMASent) Meta() *sim.MsgMeta { return &c.MsgMeta }

// Clone returns a copy of the completion with a fresh message ID.
func (c *CSMASent) Clone() sim.Msg {
	clone := *c
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}
