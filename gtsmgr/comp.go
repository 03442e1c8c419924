package gtsmgr

import (
	"log"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/borg-org/openDSME/gtscmd"
	"github.com/borg-org/openDSME/pib"
)

// Comp is the GTS Manager: a ticking akita component owning a pool of
// per-peer handshake instances, the PIB it mutates through Updater, and
// the duplicate detector that guards against conflicting reservations.
type Comp struct {
	*sim.TickingComponent

	MLMEPort sim.Port
	CAPPort  sim.Port

	// UpperPort is the remote MLME-SAP user every confirm and indication
	// is addressed to.
	UpperPort sim.RemotePort

	cfg     Config
	pib     *pib.PIB
	updater *pib.Updater
	dup     *DuplicateDetector
	pool    *FramePool

	// Peers resolves a device's short address to the akita port it is
	// reachable at; BroadcastPort is used for BroadcastAddress traffic.
	Peers         map[gtscmd.ShortAddress]sim.RemotePort
	BroadcastPort sim.RemotePort

	instances []fsmInstance

	nextSlot       int
	nextSuperframe int
}

// Tick drains one message from each of MLMEPort and CAPPort per cycle,
// mirroring the teacher's ticking-component idiom of a small ordered chain
// of independent progress checks.
func (c *Comp) Tick() bool {
	madeProgress := false
	madeProgress = c.processMLME() || madeProgress
	madeProgress = c.processCAP() || madeProgress
	return madeProgress
}

func (c *Comp) processMLME() bool {
	msg := c.MLMEPort.PeekIncoming()
	if msg == nil {
		return false
	}

	switch m := msg.(type) {
	case *gtscmd.GTSRequest:
		c.HandleMLMERequest(m)
	case *gtscmd.GTSResponse:
		c.HandleMLMEResponse(m)
	default:
		log.Panicf("gtsmgr: unexpected message on MLMEPort: %T", m)
	}

	c.MLMEPort.RetrieveIncoming()
	return true
}

func (c *Comp) processCAP() bool {
	msg := c.CAPPort.PeekIncoming()
	if msg == nil {
		return false
	}

	switch m := msg.(type) {
	case *gtscmd.CommandFrame:
		switch m.CmdID {
		case gtscmd.Request:
			c.HandleGTSRequest(m)
		case gtscmd.Reply:
			c.HandleGTSResponse(m)
		case gtscmd.Notify:
			c.HandleGTSNotify(m)
		}
	case *gtscmd.CSMASent:
		c.OnCSMASent(m)
	default:
		log.Panicf("gtsmgr: unexpected message on CAPPort: %T", m)
	}

	c.CAPPort.RetrieveIncoming()
	return true
}

// --- dispatcher lookups (§4.4) ---

func (c *Comp) getFsmIdIdle() int {
	for i := range c.instances {
		if c.instances[i].state == StateIdle {
			return i
		}
	}
	return -1
}

func (c *Comp) getFsmIdForRequest() int {
	if id := c.getFsmIdIdle(); id >= 0 {
		return id
	}
	return len(c.instances)
}

// getFsmIdForResponse retains the original selection, which only checks
// for any Idle instance and ignores destinationAddress; a stricter
// per-peer binding is a candidate improvement, not required here.
func (c *Comp) getFsmIdForResponse(_ gtscmd.ShortAddress) int {
	return c.getFsmIdForRequest()
}

func (c *Comp) getFsmIdFromResponseForMe(src gtscmd.ShortAddress) int {
	for i := range c.instances {
		if c.instances[i].state == StateWaitForResponse && c.instances[i].responsePartnerAddress == src {
			return i
		}
	}
	return len(c.instances)
}

func (c *Comp) getFsmIdFromNotifyForMe(src gtscmd.ShortAddress) int {
	for i := range c.instances {
		if c.instances[i].state == StateWaitForNotify && c.instances[i].notifyPartnerAddress == src {
			return i
		}
	}
	return len(c.instances)
}

func (c *Comp) findSendingInstance(msgID string) int {
	for i := range c.instances {
		if c.instances[i].state == StateSending && c.instances[i].msgToSend != nil &&
			c.instances[i].msgToSend.ID == msgID {
			return i
		}
	}
	return -1
}

// --- outbound helpers ---

func (c *Comp) resolvePort(addr gtscmd.ShortAddress) sim.RemotePort {
	if addr == gtscmd.BroadcastAddress {
		return c.BroadcastPort
	}
	if port, ok := c.Peers[addr]; ok {
		return port
	}
	return c.BroadcastPort
}

func (c *Comp) sendGTSCommand(id int, frame *gtscmd.CommandFrame, cmdID gtscmd.CommandID, track bool) bool {
	if err := c.CAPPort.Send(frame); err != nil {
		c.pool.Release(frame)
		return false
	}
	if track && id >= 0 && id < len(c.instances) {
		inst := &c.instances[id]
		inst.msgToSend = frame
		inst.cmdToSend = cmdID
	}
	return true
}

func (c *Comp) newFrame(dst gtscmd.ShortAddress) *gtscmd.CommandFrame {
	f := c.pool.Get()
	f.Src = c.CAPPort.AsRemote()
	f.Dst = c.resolvePort(dst)
	f.ID = sim.GetIDGenerator().Generate()
	f.TrafficClass = "gtscmd.CommandFrame"
	f.AckRequest = true
	f.SrcAddr = gtscmd.ShortAddress(c.cfg.MacShortAddress)
	f.DstAddr = dst
	return f
}

func (c *Comp) buildRequestFrame(req *gtscmd.GTSRequest) *gtscmd.CommandFrame {
	f := c.newFrame(req.PeerAddress)
	f.CmdID = gtscmd.Request
	f.Management = req.Management
	f.Request = &gtscmd.GTSRequestCmd{
		NumSlots:              req.Cmd.NumSlots,
		PreferredSuperframeID: req.Cmd.PreferredSuperframeID,
		PreferredSlotID:       req.Cmd.PreferredSlotID,
		SABSpec:               req.Cmd.SABSpec.Clone(),
	}
	return f
}

func (c *Comp) buildReplyFrame(resp *gtscmd.GTSResponse, positive bool) *gtscmd.CommandFrame {
	dst := resp.Cmd.DestinationAddress
	if positive {
		dst = gtscmd.BroadcastAddress
	}
	f := c.newFrame(dst)
	f.CmdID = gtscmd.Reply
	f.Management = resp.Management
	f.ReplyNotify = &gtscmd.GTSReplyNotifyCmd{
		DestinationAddress: resp.Cmd.DestinationAddress,
		SABSpec:            resp.Cmd.SABSpec.Clone(),
	}
	return f
}

func (c *Comp) buildNotifyFrame(peer gtscmd.ShortAddress, mgmt gtscmd.GTSManagement, sabSpec gtscmd.SABSpecification) *gtscmd.CommandFrame {
	f := c.newFrame(gtscmd.BroadcastAddress)
	f.CmdID = gtscmd.Notify
	f.Management = gtscmd.GTSManagement{Type: mgmt.Type, Direction: mgmt.Direction, Status: gtscmd.Success}
	f.ReplyNotify = &gtscmd.GTSReplyNotifyCmd{
		DestinationAddress: peer,
		SABSpec:            sabSpec.Clone(),
	}
	return f
}

func (c *Comp) sendDuplicateNotification(peer gtscmd.ShortAddress, subBlockIndex uint8, dupReq gtscmd.SABSpecification) {
	f := c.newFrame(peer)
	f.CmdID = gtscmd.Request
	f.Management = gtscmd.GTSManagement{Type: gtscmd.DuplicatedAllocationNotification}
	f.Request = &gtscmd.GTSRequestCmd{SABSpec: dupReq}
	// Stateless notification: no FSM instance owns its completion.
	c.sendGTSCommand(-1, f, gtscmd.Request, false)
}

func (c *Comp) confirmMLME(peer gtscmd.ShortAddress, mgmt gtscmd.GTSManagement, sabSpec gtscmd.SABSpecification, status gtscmd.GTSStatus) {
	confirm := &gtscmd.GTSConfirm{
		PeerAddress:              peer,
		ManagementType:           mgmt.Type,
		Direction:                mgmt.Direction,
		PrioritizedChannelAccess: mgmt.PrioritizedChannelAccess,
		SABSpec:                  sabSpec,
		Status:                   status,
	}
	confirm.Src = c.MLMEPort.AsRemote()
	confirm.Dst = c.UpperPort
	confirm.ID = sim.GetIDGenerator().Generate()
	confirm.TrafficClass = "gtscmd.GTSConfirm"
	if err := c.MLMEPort.Send(confirm); err != nil {
		log.Printf("gtsmgr: MLME-DSME-GTS.confirm dropped, upward port full")
	}
}

func (c *Comp) indicateMLME(ind *gtscmd.GTSIndication) {
	ind.Src = c.MLMEPort.AsRemote()
	ind.Dst = c.UpperPort
	ind.ID = sim.GetIDGenerator().Generate()
	ind.TrafficClass = "gtscmd.GTSIndication"
	if err := c.MLMEPort.Send(ind); err != nil {
		log.Printf("gtsmgr: MLME-DSME-GTS.indication dropped, upward port full")
	}
}

func (c *Comp) commStatus(peer gtscmd.ShortAddress, status gtscmd.CommStatus) {
	ind := &gtscmd.CommStatusIndication{
		SrcAddr: gtscmd.ShortAddress(c.cfg.MacShortAddress),
		DstAddr: peer,
		Status:  status,
	}
	ind.Src = c.MLMEPort.AsRemote()
	ind.Dst = c.UpperPort
	ind.ID = sim.GetIDGenerator().Generate()
	ind.TrafficClass = "gtscmd.CommStatusIndication"
	if err := c.MLMEPort.Send(ind); err != nil {
		log.Printf("gtsmgr: MLME-COMM-STATUS.indication dropped, upward port full")
	}
}

// --- upward entry points (§6) ---

// HandleMLMERequest implements MLME-DSME-GTS.request → the Idle/Busy
// MLME_REQUEST_ISSUED transition of §4.2.
func (c *Comp) HandleMLMERequest(req *gtscmd.GTSRequest) {
	id := c.getFsmIdForRequest()
	if id == len(c.instances) {
		c.confirmMLME(req.PeerAddress, req.Management, req.Cmd.SABSpec, gtscmd.TransactionOverflow)
		return
	}

	inst := &c.instances[id]
	inst.pendingManagement = req.Management
	inst.pendingConfirm = gtscmd.GTSConfirm{
		PeerAddress:              req.PeerAddress,
		ManagementType:           req.Management.Type,
		Direction:                req.Management.Direction,
		PrioritizedChannelAccess: req.Management.PrioritizedChannelAccess,
	}
	inst.activeSAB = req.Cmd.SABSpec.Clone()

	frame := c.buildRequestFrame(req)
	if !c.sendGTSCommand(id, frame, gtscmd.Request, true) {
		c.confirmMLME(req.PeerAddress, req.Management, req.Cmd.SABSpec, gtscmd.TransactionOverflow)
		inst.reset()
		return
	}
	inst.enter(StateSending)
}

// HandleMLMEResponse implements MLME-DSME-GTS.response → the Idle/Busy
// MLME_RESPONSE_ISSUED transition of §4.2.
func (c *Comp) HandleMLMEResponse(resp *gtscmd.GTSResponse) {
	positive := resp.Management.Status == gtscmd.Success
	id := c.getFsmIdForResponse(resp.Cmd.DestinationAddress)

	if id == len(c.instances) {
		frame := c.buildReplyFrame(resp, false)
		frame.Management.Status = gtscmd.NoData
		c.sendGTSCommand(-1, frame, gtscmd.Reply, false)
		c.commStatus(resp.Cmd.DestinationAddress, gtscmd.CommTransactionOverflow)
		return
	}

	inst := &c.instances[id]
	inst.pendingManagement = resp.Management
	inst.pendingConfirm.PeerAddress = resp.Cmd.DestinationAddress
	inst.activeSAB = resp.Cmd.SABSpec.Clone()

	frame := c.buildReplyFrame(resp, positive)
	if !c.sendGTSCommand(id, frame, gtscmd.Reply, true) {
		c.commStatus(resp.Cmd.DestinationAddress, gtscmd.CommTransactionOverflow)
		inst.reset()
		return
	}

	if positive {
		c.updater.ApprovalQueued(inst.activeSAB, resp.Management, resp.Cmd.DestinationAddress)
	}
	inst.enter(StateSending)
}

// --- received command frames ---

// HandleGTSRequest handles a received DSME_GTS_REQUEST, including its
// DUPLICATED_ALLOCATION_NOTIFICATION overload.
func (c *Comp) HandleGTSRequest(frame *gtscmd.CommandFrame) {
	req := frame.Request
	if frame.Management.Type == gtscmd.DuplicatedAllocationNotification {
		c.updater.DuplicateAllocation(req.SABSpec, frame.Management, frame.SrcAddr)
	}

	c.indicateMLME(&gtscmd.GTSIndication{
		PeerAddress:              frame.SrcAddr,
		ManagementType:           frame.Management.Type,
		Direction:                frame.Management.Direction,
		PrioritizedChannelAccess: frame.Management.PrioritizedChannelAccess,
		NumSlots:                 req.NumSlots,
		PreferredSuperframeID:    req.PreferredSuperframeID,
		PreferredSlotID:          req.PreferredSlotID,
		SABSpec:                  req.SABSpec.Clone(),
	})
}

// HandleGTSResponse handles a received DSME_GTS_REPLY, the
// RESPONSE_CMD_FOR_ME signal of WaitForResponse in §4.2, or routes it to
// the overheard-frame path of §4.4 when addressed to another device.
func (c *Comp) HandleGTSResponse(frame *gtscmd.CommandFrame) {
	if frame.DstAddr == gtscmd.BroadcastAddress && frame.Management.Status != gtscmd.Success {
		log.Printf("gtsmgr: discarding broadcast negative REPLY from %d", frame.SrcAddr)
		return
	}

	if frame.ReplyNotify.DestinationAddress != gtscmd.ShortAddress(c.cfg.MacShortAddress) {
		c.handleOverheardReplyNotify(frame)
		return
	}

	id := c.getFsmIdFromResponseForMe(frame.SrcAddr)
	if id == len(c.instances) {
		c.handleOverheardReplyNotify(frame)
		return
	}

	inst := &c.instances[id]
	inst.responsePartnerAddress = gtscmd.NoShortAddress
	if inst.state != StateWaitForResponse {
		log.Panicf("gtsmgr: RESPONSE_CMD_FOR_ME delivered to instance %d in state %v", id, inst.state)
	}

	if !c.responseMatchesPending(inst, frame) {
		log.Printf("gtsmgr: RESPONSE_CMD_FOR_ME mismatch on instance %d, ignoring", id)
		return
	}

	sabSpec := frame.ReplyNotify.SABSpec.Clone()
	status := frame.Management.Status

	c.confirmMLME(frame.SrcAddr, inst.pendingManagement, sabSpec, status)

	switch {
	case status == gtscmd.Success:
		if inst.pendingManagement.Type == gtscmd.Allocation {
			dupReq, foundDup := c.dup.Check(&sabSpec, true)
			if foundDup {
				c.sendDuplicateNotification(frame.SrcAddr, frame.ReplyNotify.SABSpec.SubBlockIndex, dupReq)
				if sabSpec.Count() == 0 {
					status = gtscmd.Denied
				}
			}

			if status == gtscmd.Denied {
				c.updater.Disapproved(sabSpec, inst.pendingManagement, frame.SrcAddr)
				inst.reset()
				return
			}

			c.updater.ApprovalReceived(sabSpec, inst.pendingManagement, frame.SrcAddr)
		}

		notify := c.buildNotifyFrame(frame.SrcAddr, inst.pendingManagement, sabSpec)
		if !c.sendGTSCommand(id, notify, gtscmd.Notify, true) {
			c.updater.NotifyAccessFailure(sabSpec, inst.pendingManagement, frame.SrcAddr)
			inst.reset()
			return
		}
		inst.activeSAB = sabSpec
		inst.notifyPartnerAddress = frame.SrcAddr
		inst.enter(StateSending)

	case status == gtscmd.NoData:
		c.updater.ResponseTimeout(sabSpec, inst.pendingManagement, frame.SrcAddr)
		inst.reset()

	case status == gtscmd.Denied:
		c.updater.Disapproved(sabSpec, inst.pendingManagement, frame.SrcAddr)
		inst.reset()

	default:
		inst.reset()
	}
}

func (c *Comp) responseMatchesPending(inst *fsmInstance, frame *gtscmd.CommandFrame) bool {
	return inst.pendingConfirm.PeerAddress == frame.SrcAddr &&
		inst.pendingConfirm.ManagementType == frame.Management.Type &&
		inst.pendingConfirm.Direction == frame.Management.Direction
}

// HandleGTSNotify handles a received DSME_GTS_NOTIFY, the
// NOTIFY_CMD_FOR_ME signal of WaitForNotify in §4.2, or routes it to the
// overheard-frame path of §4.4.
func (c *Comp) HandleGTSNotify(frame *gtscmd.CommandFrame) {
	if frame.ReplyNotify.DestinationAddress != gtscmd.ShortAddress(c.cfg.MacShortAddress) {
		c.handleOverheardReplyNotify(frame)
		return
	}

	id := c.getFsmIdFromNotifyForMe(frame.SrcAddr)
	if id == len(c.instances) {
		c.handleOverheardReplyNotify(frame)
		return
	}

	inst := &c.instances[id]
	inst.notifyPartnerAddress = gtscmd.NoShortAddress
	if inst.state != StateWaitForNotify {
		log.Panicf("gtsmgr: NOTIFY_CMD_FOR_ME delivered to instance %d in state %v", id, inst.state)
	}

	c.updater.NotifyReceived(frame.ReplyNotify.SABSpec, frame.Management, frame.SrcAddr)
	c.commStatus(frame.SrcAddr, gtscmd.CommSuccess)
	inst.reset()
}

// handleOverheardReplyNotify implements the bypass path of §4.4 for a
// REPLY or NOTIFY addressed to a different device.
func (c *Comp) handleOverheardReplyNotify(frame *gtscmd.CommandFrame) {
	if frame.Management.Status != gtscmd.Success {
		return
	}
	sabSpec := frame.ReplyNotify.SABSpec.Clone()
	if _, foundDup := c.dup.Check(&sabSpec, false); foundDup {
		return
	}
	switch frame.Management.Type {
	case gtscmd.Allocation:
		c.pib.SAB.AddOccupiedSlots(sabSpec)
	case gtscmd.Deallocation:
		c.pib.SAB.RemoveOccupiedSlots(sabSpec)
	}
}

// --- CSMA completion (§4.2, Sending) ---

// OnCSMASent implements the SEND_COMPLETE signal, routed to the instance
// whose msgToSend matches the completion by message ID.
func (c *Comp) OnCSMASent(msg *gtscmd.CSMASent) {
	id := c.findSendingInstance(msg.OriginalID)
	if id < 0 {
		log.Printf("gtsmgr: SEND_COMPLETE for unknown message %s dropped", msg.OriginalID)
		return
	}

	inst := &c.instances[id]
	c.pool.Release(inst.msgToSend)
	inst.msgToSend = nil

	switch msg.CmdID {
	case gtscmd.Notify:
		c.updater.NotifyDelivered(inst.activeSAB, inst.pendingManagement, inst.notifyPartnerAddress)
		inst.reset()

	case gtscmd.Request:
		c.onRequestSent(inst, msg.Status)

	case gtscmd.Reply:
		c.onReplySent(inst, msg.Status)
	}
}

func (c *Comp) onRequestSent(inst *fsmInstance, status gtscmd.DataStatus) {
	peer := inst.peer()
	switch status {
	case gtscmd.DataSuccess:
		inst.responsePartnerAddress = peer
		inst.enter(StateWaitForResponse)
	case gtscmd.DataNoAck:
		c.updater.RequestNoAck(inst.activeSAB, inst.pendingManagement, peer)
		c.confirmMLME(peer, inst.pendingManagement, inst.activeSAB, gtscmd.NoAck)
		inst.reset()
	case gtscmd.DataChannelAccessFailure:
		c.updater.RequestAccessFailure(inst.activeSAB, inst.pendingManagement, peer)
		c.confirmMLME(peer, inst.pendingManagement, inst.activeSAB, gtscmd.ChannelAccessFailure)
		inst.reset()
	}
}

func (c *Comp) onReplySent(inst *fsmInstance, status gtscmd.DataStatus) {
	positive := inst.pendingManagement.Status == gtscmd.Success
	peer := inst.pendingConfirm.PeerAddress

	switch status {
	case gtscmd.DataSuccess:
		if positive {
			c.updater.ApprovalDelivered(inst.activeSAB, inst.pendingManagement, peer)
			inst.notifyPartnerAddress = peer
			inst.enter(StateWaitForNotify)
			return
		}
		c.updater.DisapprovalDelivered(inst.activeSAB, inst.pendingManagement, peer)
		inst.reset()

	case gtscmd.DataNoAck:
		if positive {
			log.Panicf("gtsmgr: NO_ACK on a positive REPLY, protocol violation")
		}
		c.updater.DisapprovalNoAck(inst.activeSAB, inst.pendingManagement, peer)
		c.commStatus(peer, gtscmd.CommNoAck)
		inst.reset()

	case gtscmd.DataChannelAccessFailure:
		if positive {
			c.updater.ApprovalAccessFailure(inst.activeSAB, inst.pendingManagement, peer)
		} else {
			c.updater.DisapprovalAccessFailure(inst.activeSAB, inst.pendingManagement, peer)
		}
		c.commStatus(peer, gtscmd.CommChannelAccessFailure)
		inst.reset()
	}
}

// --- slot tick (§4.5) ---

// HandleSlotEvent implements handleSlotEvent(slot, superframe): the
// manager only acts at slot == FinalCAPSlot+1, treating that boundary as
// the CFP_STARTED signal.
func (c *Comp) HandleSlotEvent(slot, superframe int) {
	if slot != c.cfg.FinalCAPSlot+1 {
		return
	}

	for i := range c.instances {
		c.instances[i].superframesInCurrentState++
	}

	if superframe == 0 {
		c.pib.ACT.IncrementIdleCounters()
	}

	for i := range c.instances {
		switch c.instances[i].state {
		case StateWaitForResponse:
			c.cfpWaitForResponse(&c.instances[i])
		case StateWaitForNotify:
			c.cfpWaitForNotify(&c.instances[i])
		}
	}

	anyPending := false
	for i := range c.instances {
		if c.instances[i].state != StateIdle {
			anyPending = true
			break
		}
	}

	if id := c.getFsmIdIdle(); id >= 0 {
		c.cfpIdleSweep(anyPending)
	}
}

func (c *Comp) cfpWaitForResponse(inst *fsmInstance) {
	if !c.cfg.responseWaitExceeded(inst.superframesInCurrentState) {
		return
	}
	peer := inst.peer()
	c.updater.ResponseTimeout(inst.activeSAB, inst.pendingManagement, peer)
	c.confirmMLME(peer, inst.pendingManagement, inst.activeSAB, gtscmd.NoData)
	inst.reset()
}

func (c *Comp) cfpWaitForNotify(inst *fsmInstance) {
	if !c.cfg.responseWaitExceeded(inst.superframesInCurrentState) {
		return
	}
	peer := inst.notifyPartnerAddress
	c.updater.NotifyTimeout(inst.activeSAB, inst.pendingManagement, peer)
	c.commStatus(peer, gtscmd.CommTransactionExpired)
	inst.reset()
}

// cfpIdleSweep emits at most one MLME-DSME-GTS.indication(EXPIRATION) per
// tick for the first ACT entry due for reclamation.
func (c *Comp) cfpIdleSweep(anyPending bool) {
	due := c.pib.EntriesDueForSweep(c.cfg.MacDSMEGTSExpirationTime, anyPending)
	if len(due) == 0 {
		return
	}

	e := due[0]
	sabSpec := gtscmd.NewSABSpecification(e.SuperframeID, c.cfg.NumGTSlots, c.cfg.NumChannels)
	sabSpec.Set(gtscmd.BitIndex(int(e.SlotID), int(e.Channel), c.cfg.NumChannels))

	c.indicateMLME(&gtscmd.GTSIndication{
		PeerAddress:    e.PeerAddress,
		ManagementType: gtscmd.Expiration,
		Direction:      e.Direction,
		SABSpec:        sabSpec,
	})

	if e.IdleCounter > c.cfg.MacDSMEGTSExpirationTime {
		c.pib.ACT.ResetIdleCounter(e.SuperframeID, e.SlotID)
	}
}
