package gtsmgr

import "github.com/sarchlab/akita/v4/sim"

// Handle intercepts SlotEvent to drive the multi-superframe schedule and
// otherwise delegates to the embedded TickingComponent's own Handle, which
// turns any other event into a Tick.
func (c *Comp) Handle(e sim.Event) error {
	if se, ok := e.(SlotEvent); ok {
		c.HandleSlotEvent(se.Slot, se.Superframe)
		c.scheduleNextSlot(se.Time())
		c.TickNow()
		return nil
	}
	return c.TickingComponent.Handle(e)
}

// scheduleNextSlot advances (slot, superframe) by one and schedules the
// SlotEvent that will deliver it, self-perpetuating the schedule the way
// TickScheduler self-perpetuates ticks.
func (c *Comp) scheduleNextSlot(now sim.VTimeInSec) {
	totalSlots := c.cfg.FinalCAPSlot + 1 + c.cfg.NumGTSlots
	c.nextSlot++
	if c.nextSlot >= totalSlots {
		c.nextSlot = 0
		c.nextSuperframe = (c.nextSuperframe + 1) % c.cfg.NumSuperframesPerMultiSuperframe
	}

	evt := NewSlotEvent(now+c.cfg.SlotDuration, c, c.nextSlot, c.nextSuperframe)
	c.Engine.Schedule(evt)
}

// StartSlotClock schedules the first SlotEvent; callers wire this into
// simulation setup after Build, alongside plugging in the ports.
func (c *Comp) StartSlotClock(at sim.VTimeInSec) {
	evt := NewSlotEvent(at, c, 0, 0)
	c.Engine.Schedule(evt)
}
