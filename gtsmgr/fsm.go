package gtsmgr

import "github.com/borg-org/openDSME/gtscmd"

// fsmState is one state of a per-peer handshake instance. Busy is never
// entered by a real instance; it is a synthetic fallback the dispatcher
// returns when every instance in the pool is occupied.
type fsmState int

const (
	StateIdle fsmState = iota
	StateSending
	StateWaitForResponse
	StateWaitForNotify
	StateBusy
)

func (s fsmState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSending:
		return "SENDING"
	case StateWaitForResponse:
		return "WAIT_FOR_RESPONSE"
	case StateWaitForNotify:
		return "WAIT_FOR_NOTIFY"
	case StateBusy:
		return "BUSY"
	default:
		return "UNKNOWN"
	}
}

// fsmInstance is one slot in the manager's handshake pool.
type fsmInstance struct {
	id    int
	state fsmState

	pendingManagement gtscmd.GTSManagement
	pendingConfirm    gtscmd.GTSConfirm

	responsePartnerAddress gtscmd.ShortAddress
	notifyPartnerAddress   gtscmd.ShortAddress

	cmdToSend gtscmd.CommandID
	msgToSend *gtscmd.CommandFrame
	activeSAB gtscmd.SABSpecification

	superframesInCurrentState int
}

// peer is the address this instance's handshake is being conducted with,
// echoed from the MLME primitive or received frame that started it.
func (f *fsmInstance) peer() gtscmd.ShortAddress {
	return f.pendingConfirm.PeerAddress
}

// enter transitions the instance to state s, resetting the superframe
// counter every WaitForResponse/WaitForNotify has consulted on entry.
func (f *fsmInstance) enter(s fsmState) {
	f.state = s
	f.superframesInCurrentState = 0
}

func (f *fsmInstance) reset() {
	*f = fsmInstance{id: f.id, state: StateIdle}
}
