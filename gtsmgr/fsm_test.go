package gtsmgr

import (
	"github.com/sarchlab/akita/v4/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/borg-org/openDSME/gtscmd"
)

// wireComp builds a Comp with n handshake instances and an upper-layer MLME
// sink reachable through a PortRelay. Its CAPPort is plugged alone into a
// second PortRelay, which drops every frame since peerPort is not plugged
// in. The result is ready to drive HandleMLMERequest/HandleMLMEResponse and
// inspect what comes back out on MLMEPort.
func wireComp(name string, n int, peer gtscmd.ShortAddress, peerPort sim.RemotePort) (*Comp, *sinkComp) {
	upper := newSinkComp(name + ".Upper")

	engine := sim.NewSerialEngine()
	c := MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.Hz).
		WithStateMultiplicity(n).
		WithMacShortAddress(1).
		WithPeer(peer, peerPort).
		WithBroadcastPort(peerPort).
		WithUpperPort(upper.port.AsRemote()).
		Build(name)

	mlmeConn := NewPortRelay(name + ".MLMEConn")
	mlmeConn.PlugIn(c.MLMEPort)
	mlmeConn.PlugIn(upper.port)

	capConn := NewPortRelay(name + ".CAPConn")
	capConn.PlugIn(c.CAPPort)

	return c, upper
}

var _ = Describe("Comp handshake instances", func() {
	var (
		c     *Comp
		upper *sinkComp
	)

	BeforeEach(func() {
		c, upper = wireComp("Device", 1, 2, sim.RemotePort("Peer.CAPPort"))
	})

	It("reports TRANSACTION_OVERFLOW when every instance is busy", func() {
		req := &gtscmd.GTSRequest{
			PeerAddress: 2,
			Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX},
			Cmd:         gtscmd.GTSRequestCmd{SABSpec: gtscmd.NewSABSpecification(0, 7, 16)},
		}
		req.Cmd.SABSpec.Set(0)

		c.HandleMLMERequest(req)
		Expect(c.instances[0].state).To(Equal(StateSending))

		c.HandleMLMERequest(req)

		msg := upper.port.PeekIncoming()
		Expect(msg).NotTo(BeNil())
		confirm, ok := msg.(*gtscmd.GTSConfirm)
		Expect(ok).To(BeTrue())
		Expect(confirm.Status).To(Equal(gtscmd.TransactionOverflow))
	})

	It("moves Sending to WaitForResponse on a successful CSMA send", func() {
		req := &gtscmd.GTSRequest{
			PeerAddress: 2,
			Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX},
			Cmd:         gtscmd.GTSRequestCmd{SABSpec: gtscmd.NewSABSpecification(0, 7, 16)},
		}
		req.Cmd.SABSpec.Set(0)
		c.HandleMLMERequest(req)

		sentID := c.instances[0].msgToSend.ID
		c.OnCSMASent(&gtscmd.CSMASent{OriginalID: sentID, CmdID: gtscmd.Request, Status: gtscmd.DataSuccess})

		Expect(c.instances[0].state).To(Equal(StateWaitForResponse))
		Expect(c.instances[0].responsePartnerAddress).To(Equal(gtscmd.ShortAddress(2)))
	})

	It("confirms NO_ACK and resets on a failed REQUEST send", func() {
		req := &gtscmd.GTSRequest{
			PeerAddress: 2,
			Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX},
			Cmd:         gtscmd.GTSRequestCmd{SABSpec: gtscmd.NewSABSpecification(0, 7, 16)},
		}
		req.Cmd.SABSpec.Set(0)
		c.HandleMLMERequest(req)

		sentID := c.instances[0].msgToSend.ID
		c.OnCSMASent(&gtscmd.CSMASent{OriginalID: sentID, CmdID: gtscmd.Request, Status: gtscmd.DataNoAck})

		Expect(c.instances[0].state).To(Equal(StateIdle))

		msg := upper.port.RetrieveIncoming()
		confirm := msg.(*gtscmd.GTSConfirm)
		Expect(confirm.Status).To(Equal(gtscmd.NoAck))
	})

	It("times out WaitForResponse after macResponseWaitTime superframes", func() {
		req := &gtscmd.GTSRequest{
			PeerAddress: 2,
			Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX},
			Cmd:         gtscmd.GTSRequestCmd{SABSpec: gtscmd.NewSABSpecification(0, 7, 16)},
		}
		req.Cmd.SABSpec.Set(0)
		c.HandleMLMERequest(req)
		sentID := c.instances[0].msgToSend.ID
		c.OnCSMASent(&gtscmd.CSMASent{OriginalID: sentID, CmdID: gtscmd.Request, Status: gtscmd.DataSuccess})
		Expect(c.instances[0].state).To(Equal(StateWaitForResponse))

		for sf := 0; sf <= c.cfg.MacResponseWaitTime; sf++ {
			c.HandleSlotEvent(c.cfg.FinalCAPSlot+1, 0)
		}

		Expect(c.instances[0].state).To(Equal(StateIdle))
	})

	It("confirms DENIED and returns to Idle without an ACT entry on a unicast negative REPLY", func() {
		req := &gtscmd.GTSRequest{
			PeerAddress: 2,
			Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX},
			Cmd:         gtscmd.GTSRequestCmd{SABSpec: gtscmd.NewSABSpecification(0, 7, 16)},
		}
		req.Cmd.SABSpec.Set(0)
		c.HandleMLMERequest(req)

		sentID := c.instances[0].msgToSend.ID
		c.OnCSMASent(&gtscmd.CSMASent{OriginalID: sentID, CmdID: gtscmd.Request, Status: gtscmd.DataSuccess})
		Expect(c.instances[0].state).To(Equal(StateWaitForResponse))

		frame := &gtscmd.CommandFrame{
			CmdID:       gtscmd.Reply,
			Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX, Status: gtscmd.Denied},
			SrcAddr:     2,
			DstAddr:     1,
			ReplyNotify: &gtscmd.GTSReplyNotifyCmd{DestinationAddress: 1, SABSpec: req.Cmd.SABSpec.Clone()},
		}
		c.HandleGTSResponse(frame)

		Expect(c.instances[0].state).To(Equal(StateIdle))
		Expect(c.instances[0].responsePartnerAddress).To(Equal(gtscmd.NoShortAddress))

		msg := upper.port.RetrieveIncoming()
		Expect(msg).NotTo(BeNil())
		confirm, ok := msg.(*gtscmd.GTSConfirm)
		Expect(ok).To(BeTrue())
		Expect(confirm.Status).To(Equal(gtscmd.Denied))

		_, found := c.pib.ACT.Find(0, 0)
		Expect(found).To(BeFalse())
	})

	It("routes a negative broadcast REPLY away from an idle instance without indicating", func() {
		frame := &gtscmd.CommandFrame{
			CmdID:      gtscmd.Reply,
			Management: gtscmd.GTSManagement{Status: gtscmd.Denied},
			SrcAddr:    2,
			DstAddr:    gtscmd.BroadcastAddress,
		}
		c.HandleGTSResponse(frame)
		Expect(upper.port.PeekIncoming()).To(BeNil())
	})
})

var _ = Describe("dispatcher lookups under pool pressure", func() {
	It("falls back to the Busy id once every instance is occupied", func() {
		c, _ := wireComp("Device", 1, 2, sim.RemotePort("Peer.CAPPort"))
		c.instances[0].enter(StateSending)

		Expect(c.getFsmIdForRequest()).To(Equal(len(c.instances)))
		Expect(c.getFsmIdIdle()).To(Equal(-1))
	})
})
