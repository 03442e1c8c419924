package gtsmgr

import (
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/akita/v4/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/borg-org/openDSME/gtscmd"
)

var _ = Describe("sendGTSCommand against a CAP port that refuses the send", func() {
	It("releases the frame and reports TRANSACTION_OVERFLOW without entering Sending", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		c, upper := wireComp("Device", 1, 2, sim.RemotePort("Peer.CAPPort"))

		mockCAP := NewMockPort(ctrl, "Device.CAPPort")
		mockCAP.EXPECT().Send(gomock.Any()).Return(sim.NewSendError()).Times(1)
		c.CAPPort = mockCAP

		req := &gtscmd.GTSRequest{
			PeerAddress: 2,
			Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX},
			Cmd:         gtscmd.GTSRequestCmd{SABSpec: gtscmd.NewSABSpecification(0, 7, 16)},
		}
		req.Cmd.SABSpec.Set(0)

		c.HandleMLMERequest(req)

		Expect(c.instances[0].state).To(Equal(StateIdle))
		Expect(c.pool.free).To(HaveLen(1))

		msg := upper.port.RetrieveIncoming()
		Expect(msg).NotTo(BeNil())
		confirm, ok := msg.(*gtscmd.GTSConfirm)
		Expect(ok).To(BeTrue())
		Expect(confirm.Status).To(Equal(gtscmd.TransactionOverflow))
	})
})
