// Command dsmesim drives a two-node GTS reservation handshake end to end,
// printing each MLME confirm and indication as it arrives. It exists to
// show gtsmgr.Comp wired the way an application would wire it, with no
// test harness underneath.
package main

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/simulation"

	"github.com/borg-org/openDSME/gtscmd"
	"github.com/borg-org/openDSME/gtsmgr"
)

// upperLayer stands in for the MLME-SAP user above a GTS Manager: it owns
// a port, prints whatever confirm or indication lands on it, and answers
// every GTS indication, whatever its management type, with an acceptance
// response of its own.
type upperLayer struct {
	sim.HookableBase
	*sim.PortOwnerBase
	name string
	port sim.Port
	peer *gtsmgr.Comp
}

func newUpperLayer(name string) *upperLayer {
	u := &upperLayer{name: name, PortOwnerBase: sim.NewPortOwnerBase()}
	u.port = sim.NewPort(u, 16, 16, name+".Port")
	u.AddPort(name+".Port", u.port)
	return u
}

func (u *upperLayer) Name() string            { return u.name }
func (u *upperLayer) NotifyPortFree(sim.Port) {}
func (u *upperLayer) Handle(sim.Event) error  { return nil }

func (u *upperLayer) NotifyRecv(port sim.Port) {
	for {
		msg := port.RetrieveIncoming()
		if msg == nil {
			return
		}

		switch m := msg.(type) {
		case *gtscmd.GTSConfirm:
			fmt.Printf("%s: GTS confirm from peer %d, status=%s\n", u.name, m.PeerAddress, m.Status)
		case *gtscmd.GTSIndication:
			fmt.Printf("%s: GTS indication from peer %d, %d slot(s) requested\n",
				u.name, m.PeerAddress, m.NumSlots)
			u.peer.HandleMLMEResponse(&gtscmd.GTSResponse{
				Management: gtscmd.GTSManagement{Type: m.ManagementType, Direction: m.Direction, Status: gtscmd.Success},
				Cmd:        gtscmd.GTSReplyNotifyCmd{DestinationAddress: m.PeerAddress, SABSpec: m.SABSpec.Clone()},
			})
		case *gtscmd.CommStatusIndication:
			fmt.Printf("%s: comm status from peer %d: %d\n", u.name, m.SrcAddr, m.Status)
		}
	}
}

func pump(rounds int, comps ...*gtsmgr.Comp) {
	for i := 0; i < rounds; i++ {
		for _, c := range comps {
			c.Tick()
		}
	}
}

func main() {
	s := simulation.MakeBuilder().Build()
	engine := s.GetEngine()

	deviceA := newUpperLayer("Coordinator")
	deviceB := newUpperLayer("Device")

	a := gtsmgr.MakeBuilder().
		WithEngine(engine).WithFreq(1 * sim.Hz).
		WithMacShortAddress(1).
		WithUpperPort(deviceA.port.AsRemote()).
		Build("Coordinator.GTSManager")
	b := gtsmgr.MakeBuilder().
		WithEngine(engine).WithFreq(1 * sim.Hz).
		WithMacShortAddress(2).
		WithUpperPort(deviceB.port.AsRemote()).
		Build("Device.GTSManager")

	deviceA.peer = a
	deviceB.peer = b

	a.Peers[2] = b.CAPPort.AsRemote()
	a.BroadcastPort = b.CAPPort.AsRemote()
	b.Peers[1] = a.CAPPort.AsRemote()
	b.BroadcastPort = a.CAPPort.AsRemote()

	cap := gtsmgr.NewCSMAStandIn("CAP")
	cap.PlugIn(a.CAPPort)
	cap.PlugIn(b.CAPPort)

	mlmeA := gtsmgr.NewPortRelay("Coordinator.MLMEConn")
	mlmeA.PlugIn(a.MLMEPort)
	mlmeA.PlugIn(deviceA.port)

	mlmeB := gtsmgr.NewPortRelay("Device.MLMEConn")
	mlmeB.PlugIn(b.MLMEPort)
	mlmeB.PlugIn(deviceB.port)

	spec := gtscmd.NewSABSpecification(0, 7, 16)
	spec.Set(gtscmd.BitIndex(3, 1, 16))

	fmt.Println("Coordinator requests a TX slot from Device...")
	a.HandleMLMERequest(&gtscmd.GTSRequest{
		PeerAddress: 2,
		Management:  gtscmd.GTSManagement{Type: gtscmd.Allocation, Direction: gtscmd.TX},
		Cmd:         gtscmd.GTSRequestCmd{NumSlots: 1, SABSpec: spec},
	})

	pump(10, a, b)

	s.Terminate()
}
