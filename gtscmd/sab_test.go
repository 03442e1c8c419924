package gtscmd_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/borg-org/openDSME/gtscmd"
)

var _ = Describe("SABSpecification", func() {
	It("decodes bit indices into slot/channel pairs", func() {
		slot, channel := gtscmd.SlotChannel(3*16+5, 16)
		Expect(slot).To(Equal(3))
		Expect(channel).To(Equal(5))
		Expect(gtscmd.BitIndex(3, 5, 16)).To(Equal(3*16 + 5))
	})

	It("tracks set bits and their count", func() {
		spec := gtscmd.NewSABSpecification(1, 7, 16)
		spec.Set(gtscmd.BitIndex(3, 5, 16))
		spec.Set(gtscmd.BitIndex(0, 0, 16))

		Expect(spec.Count()).To(Equal(2))
		Expect(spec.SetBits()).To(Equal([]int{0, 3*16 + 5}))
	})

	It("clones independently of the original", func() {
		spec := gtscmd.NewSABSpecification(1, 7, 16)
		spec.Set(0)

		clone := spec.Clone()
		clone.Clear(0)

		Expect(spec.IsSet(0)).To(BeTrue())
		Expect(clone.IsSet(0)).To(BeFalse())
	})
})
