package gtscmd

import "github.com/sarchlab/akita/v4/sim"

// GTSRequest is the akita Msg carrying a MLME-DSME-GTS.request primitive
// down into the manager over MLMEPort.
type GTSRequest struct {
	sim.MsgMeta

	PeerAddress ShortAddress
	Management  GTSManagement
	Cmd         GTSRequestCmd
}

// Meta returns the akita message metadata.
func (r *GTSRequest) Meta() *sim.MsgMeta { return &r.MsgMeta }

// Clone returns a copy of the request with a fresh message ID.
func (r *GTSRequest) Clone() sim.Msg {
	clone := *r
	clone.ID = sim.GetIDGenerator().Generate()
	clone.Cmd.SABSpec = r.Cmd.SABSpec.Clone()
	return &clone
}

// GTSResponse is the akita Msg carrying a MLME-DSME-GTS.response primitive
// down into the manager over MLMEPort.
type GTSResponse struct {
	sim.MsgMeta

	Management GTSManagement
	Cmd        GTSReplyNotifyCmd
}

// Meta returns the akita message metadata.
func (r *GTSResponse) Meta() *sim.MsgMeta { return &r.MsgMeta }

// Clone returns a copy of the response with a fresh message ID.
func (r *GTSResponse) Clone() sim.Msg {
	clone := *r
	clone.ID = sim.GetIDGenerator().Generate()
	clone.Cmd.SABSpec = r.Cmd.SABSpec.Clone()
	return &clone
}

// GTSConfirm is MLME-DSME-GTS.confirm, delivered upward on MLMEPort in
// response to a GTSRequest.
type GTSConfirm struct {
	sim.MsgMeta

	PeerAddress              ShortAddress
	ManagementType           ManagementType
	Direction                Direction
	PrioritizedChannelAccess Priority
	SABSpec                  SABSpecification
	Status                   GTSStatus
}

// Meta returns the akita message metadata.
func (c *GTSConfirm) Meta() *sim.MsgMeta { return &c.MsgMeta }

// Clone returns a copy of the confirm with a fresh message ID.
func (c *GTSConfirm) Clone() sim.Msg {
	clone := *c
	clone.ID = sim.GetIDGenerator().Generate()
	clone.SABSpec = c.SABSpec.Clone()
	return &clone
}

// GTSIndication is MLME-DSME-GTS.indication, delivered upward on MLMEPort
// on a received REQUEST, an expiration sweep, or a duplicate announcement.
type GTSIndication struct {
	sim.MsgMeta

	PeerAddress              ShortAddress
	ManagementType           ManagementType
	Direction                Direction
	PrioritizedChannelAccess Priority
	NumSlots                 uint8
	PreferredSuperframeID    uint8
	PreferredSlotID          uint8
	SABSpec                  SABSpecification
}

// Meta returns the akita message metadata.
func (i *GTSIndication) Meta() *sim.MsgMeta { return &i.MsgMeta }

// Clone returns a copy of the indication with a fresh message ID.
func (i *GTSIndication) Clone() sim.Msg {
	clone := *i
	clone.ID = sim.GetIDGenerator().Generate()
	clone.SABSpec = i.SABSpec.Clone()
	return &clone
}

// CommStatusIndication is MLME-COMM-STATUS.indication, delivered upward on
// NOTIFY receipt and on REPLY send failures.
type CommStatusIndication struct {
	sim.MsgMeta

	SrcAddr ShortAddress
	DstAddr ShortAddress
	Status  CommStatus
}

// Meta returns the akita message metadata.
func (c *CommStatusIndication) Meta() *sim.MsgMeta { return &c.MsgMeta }

// Clone returns a copy of the indication with a fresh message ID.
func (c *CommStatusIndication) Clone() sim.Msg {
	clone := *c
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}
