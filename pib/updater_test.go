package pib_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/borg-org/openDSME/gtscmd"
	"github.com/borg-org/openDSME/pib"
)

var _ = Describe("Updater", func() {
	var (
		p       *pib.PIB
		updater *pib.Updater
		spec    gtscmd.SABSpecification
		peer    gtscmd.ShortAddress
	)

	BeforeEach(func() {
		p = pib.NewPIB(7, 16)
		updater = pib.NewUpdater(p)
		spec = gtscmd.NewSABSpecification(2, 7, 16)
		spec.Set(gtscmd.BitIndex(3, 5, 16))
		peer = gtscmd.ShortAddress(0x1234)
	})

	It("creates an UNCONFIRMED entry on ApprovalQueued", func() {
		updater.ApprovalQueued(spec, gtscmd.GTSManagement{Direction: gtscmd.TX}, peer)

		e, ok := p.ACT.Find(2, 3)
		Expect(ok).To(BeTrue())
		Expect(e.State).To(Equal(pib.Unconfirmed))
		Expect(e.Channel).To(Equal(uint8(5)))
		Expect(e.PeerAddress).To(Equal(peer))
		Expect(p.IsOccupied(2, 3, 5)).To(BeFalse())
	})

	It("promotes to VALID and mirrors the SAB on NotifyDelivered", func() {
		updater.ApprovalQueued(spec, gtscmd.GTSManagement{Direction: gtscmd.TX}, peer)
		updater.NotifyDelivered(spec, gtscmd.GTSManagement{}, 0)

		e, ok := p.ACT.Find(2, 3)
		Expect(ok).To(BeTrue())
		Expect(e.State).To(Equal(pib.Valid))
		Expect(e.IdleCounter).To(Equal(uint16(0)))
		Expect(p.IsOccupied(2, 3, 5)).To(BeTrue())
	})

	It("removes the candidate entry on ResponseTimeout", func() {
		updater.ApprovalQueued(spec, gtscmd.GTSManagement{Direction: gtscmd.TX}, peer)
		updater.ResponseTimeout(spec, gtscmd.GTSManagement{}, 0)

		_, ok := p.ACT.Find(2, 3)
		Expect(ok).To(BeFalse())
	})

	It("rolls back to INVALID on ApprovalAccessFailure without deleting the entry", func() {
		updater.ApprovalQueued(spec, gtscmd.GTSManagement{Direction: gtscmd.TX}, peer)
		updater.ApprovalAccessFailure(spec, gtscmd.GTSManagement{}, 0)

		e, ok := p.ACT.Find(2, 3)
		Expect(ok).To(BeTrue())
		Expect(e.State).To(Equal(pib.Invalid))
	})

	It("keeps the SAB mirror bit occupied and invalidates on DuplicateAllocation", func() {
		updater.ApprovalQueued(spec, gtscmd.GTSManagement{Direction: gtscmd.TX}, peer)
		updater.NotifyDelivered(spec, gtscmd.GTSManagement{}, 0)
		Expect(p.IsOccupied(2, 3, 5)).To(BeTrue())

		updater.DuplicateAllocation(spec, gtscmd.GTSManagement{}, 0)

		Expect(p.IsOccupied(2, 3, 5)).To(BeTrue())
		e, ok := p.ACT.Find(2, 3)
		Expect(ok).To(BeTrue())
		Expect(e.State).To(Equal(pib.Invalid))
	})

	It("widens across every set bit of a multi-slot SABSpecification", func() {
		multi := gtscmd.NewSABSpecification(4, 7, 16)
		multi.Set(gtscmd.BitIndex(1, 0, 16))
		multi.Set(gtscmd.BitIndex(2, 0, 16))

		updater.ApprovalQueued(multi, gtscmd.GTSManagement{Direction: gtscmd.RX}, peer)

		_, ok1 := p.ACT.Find(4, 1)
		_, ok2 := p.ACT.Find(4, 2)
		Expect(ok1).To(BeTrue())
		Expect(ok2).To(BeTrue())
	})
})
