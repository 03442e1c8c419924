package gtscmd

import (
	"github.com/sarchlab/akita/v4/sim"
)

// CommandID identifies which of the three (or four) GTS command frames a
// CommandFrame carries. There is no distinct ID for
// DUPLICATED_ALLOCATION_NOTIFICATION: it is a Request frame whose
// Management.Type is DuplicatedAllocationNotification.
type CommandID int

// The three command frame identifiers exchanged by the GTS Manager.
const (
	Request CommandID = iota
	Reply
	Notify
)

func (c CommandID) String() string {
	switch c {
	case Request:
		return "DSME_GTS_REQUEST"
	case Reply:
		return "DSME_GTS_REPLY"
	case Notify:
		return "DSME_GTS_NOTIFY"
	default:
		return "UNKNOWN"
	}
}

// GTSRequestCmd is the payload of a DSME_GTS_REQUEST frame.
type GTSRequestCmd struct {
	NumSlots              uint8
	PreferredSuperframeID uint8
	PreferredSlotID       uint8
	SABSpec               SABSpecification
}

// GTSReplyNotifyCmd is the payload of a DSME_GTS_REPLY or DSME_GTS_NOTIFY
// frame.
type GTSReplyNotifyCmd struct {
	DestinationAddress ShortAddress
	SABSpec            SABSpecification
}

// CommandFrame is the akita Msg carrying a GTS management command between
// the CAP ports of two DSME devices. Every field below mirrors the
// IEEE 802.15.4 MAC header fields the original openDSME implementation sets
// in GTSManager::sendGTSCommand: AckRequest is always true, addressing is
// short, and the frame type is always COMMAND.
type CommandFrame struct {
	sim.MsgMeta

	CmdID      CommandID
	Management GTSManagement
	SrcAddr    ShortAddress
	DstAddr    ShortAddress
	AckRequest bool

	Request     *GTSRequestCmd
	ReplyNotify *GTSReplyNotifyCmd
}

// Meta returns the akita message metadata.
func (f *CommandFrame) Meta() *sim.MsgMeta {
	return &f.MsgMeta
}

// Clone returns a deep copy of the frame with a fresh message ID, as
// required by the akita sim.Msg contract.
func (f *CommandFrame) Clone() sim.Msg {
	clone := *f
	clone.ID = sim.GetIDGenerator().Generate()

	if f.Request != nil {
		req := *f.Request
		req.SABSpec = f.Request.SABSpec.Clone()
		clone.Request = &req
	}

	if f.ReplyNotify != nil {
		rn := *f.ReplyNotify
		rn.SABSpec = f.ReplyNotify.SABSpec.Clone()
		clone.ReplyNotify = &rn
	}

	return &clone
}

