package gtsmgr

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/borg-org/openDSME/gtscmd"
	"github.com/borg-org/openDSME/pib"
)

// Builder assembles a Comp with the fluent WithX idiom used throughout the
// example pack's component builders.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	cfg    Config
	peers  map[gtscmd.ShortAddress]sim.RemotePort
	bcast  sim.RemotePort
	upper  sim.RemotePort
}

// MakeBuilder returns a Builder with the field defaults every GTS Manager
// needs before WithX calls override them.
func MakeBuilder() Builder {
	return Builder{
		cfg: Config{
			NumSuperframesPerMultiSuperframe: 16,
			NumGTSlots:                       7,
			NumChannels:                      16,
			MacDSMEGTSExpirationTime:         7,
			MacResponseWaitTime:              15,
			MacSuperframeOrder:               0,
			StateMultiplicity:                1,
			FinalCAPSlot:                     8,
			SlotDuration:                     sim.VTimeInSec(1e-3),
		},
	}
}

func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

func (b Builder) WithNumSuperframesPerMultiSuperframe(n int) Builder {
	b.cfg.NumSuperframesPerMultiSuperframe = n
	return b
}

func (b Builder) WithNumGTSlots(n int) Builder {
	b.cfg.NumGTSlots = n
	return b
}

func (b Builder) WithNumChannels(n int) Builder {
	b.cfg.NumChannels = n
	return b
}

func (b Builder) WithMacDSMEGTSExpirationTime(t uint16) Builder {
	b.cfg.MacDSMEGTSExpirationTime = t
	return b
}

func (b Builder) WithMacResponseWaitTime(t int) Builder {
	b.cfg.MacResponseWaitTime = t
	return b
}

func (b Builder) WithMacSuperframeOrder(order uint) Builder {
	b.cfg.MacSuperframeOrder = order
	return b
}

func (b Builder) WithMacShortAddress(addr uint16) Builder {
	b.cfg.MacShortAddress = addr
	return b
}

func (b Builder) WithStateMultiplicity(n int) Builder {
	b.cfg.StateMultiplicity = n
	return b
}

func (b Builder) WithFinalCAPSlot(slot int) Builder {
	b.cfg.FinalCAPSlot = slot
	return b
}

func (b Builder) WithSlotDuration(d sim.VTimeInSec) Builder {
	b.cfg.SlotDuration = d
	return b
}

func (b Builder) WithPeer(addr gtscmd.ShortAddress, port sim.RemotePort) Builder {
	if b.peers == nil {
		b.peers = make(map[gtscmd.ShortAddress]sim.RemotePort)
	}
	b.peers[addr] = port
	return b
}

func (b Builder) WithBroadcastPort(port sim.RemotePort) Builder {
	b.bcast = port
	return b
}

func (b Builder) WithUpperPort(port sim.RemotePort) Builder {
	b.upper = port
	return b
}

// Build creates a fully wired Comp named name.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		cfg:           b.cfg,
		Peers:         b.peers,
		BroadcastPort: b.bcast,
		UpperPort:     b.upper,
	}
	if c.Peers == nil {
		c.Peers = make(map[gtscmd.ShortAddress]sim.RemotePort)
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.MLMEPort = sim.NewPort(c, 4, 4, name+".MLMEPort")
	c.CAPPort = sim.NewPort(c, 4, 4, name+".CAPPort")

	c.pib = pib.NewPIB(b.cfg.NumGTSlots, b.cfg.NumChannels)
	c.updater = pib.NewUpdater(c.pib)
	c.dup = NewDuplicateDetector(c.pib)
	c.pool = NewFramePool()

	c.instances = make([]fsmInstance, b.cfg.StateMultiplicity)
	for i := range c.instances {
		c.instances[i] = fsmInstance{id: i, state: StateIdle}
	}

	return c
}
