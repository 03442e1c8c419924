package gtsmgr

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/borg-org/openDSME/gtscmd"
)

// PortRelay is a zero-latency sim.Connection that forwards every message
// sent on one plugged port straight to whichever other plugged port its
// Dst names. It exists for wiring the upward MLME-SAP traffic between a
// Comp and its upper-layer user, and for standing in as the CAP-side
// transport in a demonstration with no real channel model behind it.
type PortRelay struct {
	sim.HookableBase
	name  string
	ports map[sim.RemotePort]sim.Port
}

// NewPortRelay creates an unplugged relay named name.
func NewPortRelay(name string) *PortRelay {
	return &PortRelay{name: name, ports: make(map[sim.RemotePort]sim.Port)}
}

// Name returns the relay's name.
func (r *PortRelay) Name() string { return r.name }

// PlugIn registers port with the relay.
func (r *PortRelay) PlugIn(port sim.Port) {
	r.ports[port.AsRemote()] = port
	port.SetConnection(r)
}

// Unplug removes port from the relay.
func (r *PortRelay) Unplug(port sim.Port) {
	delete(r.ports, port.AsRemote())
}

// NotifyAvailable is a no-op: PortRelay never buffers a message it cannot
// immediately deliver.
func (r *PortRelay) NotifyAvailable(sim.Port) {}

// NotifySend drains every plugged port's outgoing buffer, delivering each
// message to the plugged port named by its Dst and dropping anything
// addressed elsewhere.
func (r *PortRelay) NotifySend() {
	for _, p := range r.ports {
		r.drain(p)
	}
}

func (r *PortRelay) drain(p sim.Port) {
	for {
		msg := p.PeekOutgoing()
		if msg == nil {
			return
		}
		if dst, ok := r.ports[msg.Meta().Dst]; ok {
			dst.Deliver(msg)
		}
		p.RetrieveOutgoing()
	}
}

// CSMAStandIn is a PortRelay for the CAP side of two or more devices that
// additionally completes every relayed CommandFrame with an immediate
// onCSMASent(DataSuccess), the way a CSMA-CA/PHY layer would once it
// actually transmitted the frame. It has no notion of backoff, collision,
// or channel occupancy — CSMA-CA, framing, and PHY are out of scope, and
// this only exists so a Comp can be exercised without one.
type CSMAStandIn struct {
	PortRelay
}

// NewCSMAStandIn creates an unplugged CAP-side stand-in named name.
func NewCSMAStandIn(name string) *CSMAStandIn {
	return &CSMAStandIn{PortRelay: PortRelay{name: name, ports: make(map[sim.RemotePort]sim.Port)}}
}

// NotifySend drains every plugged port, relaying CommandFrames to their
// destination and echoing a synthetic send completion back to the sender.
func (c *CSMAStandIn) NotifySend() {
	for _, p := range c.ports {
		c.drainCAP(p)
	}
}

func (c *CSMAStandIn) drainCAP(p sim.Port) {
	for {
		msg := p.PeekOutgoing()
		if msg == nil {
			return
		}

		if frame, ok := msg.(*gtscmd.CommandFrame); ok {
			if dst, ok := c.ports[frame.Dst]; ok {
				dst.Deliver(frame)
			}
			p.Deliver(&gtscmd.CSMASent{OriginalID: frame.ID, CmdID: frame.CmdID, Status: gtscmd.DataSuccess})
		}
		p.RetrieveOutgoing()
	}
}
