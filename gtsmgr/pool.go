package gtsmgr

import "github.com/borg-org/openDSME/gtscmd"

// FramePool is the getEmptyMessage/releaseMessage buffer lifecycle the
// downward CSMA interface expects: on every failure path that refused to
// hand a frame to the CAP, the frame must come back here rather than be
// garbage, mirroring the platform message pool the handshake logic
// borrows from and returns to on every rejected send.
type FramePool struct {
	free []*gtscmd.CommandFrame
}

// NewFramePool creates an empty pool; frames are lazily allocated on first
// use and recycled afterwards.
func NewFramePool() *FramePool {
	return &FramePool{}
}

// Get returns a frame from the free list, or allocates a fresh one.
func (p *FramePool) Get() *gtscmd.CommandFrame {
	if len(p.free) == 0 {
		return &gtscmd.CommandFrame{}
	}
	f := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	*f = gtscmd.CommandFrame{}
	return f
}

// Release returns msg to the pool. Calling Release on a frame that has
// already been handed to the CAP is a use-after-transfer bug in the
// caller, not something the pool guards against.
func (p *FramePool) Release(msg *gtscmd.CommandFrame) {
	p.free = append(p.free, msg)
}
