package sim

import "apm/core"

// Fabric models a PPI: a fixed number of channels, each binding one event
// register to one task register.
type Fabric struct {
	bus     *Bus
	eep     []uint32
	tep     []uint32
	used    uint32
	enabled uint32

	// Routed counts task triggers delivered through the fabric.
	Routed uint64
}

// NewFabric attaches a fabric with n channels (at most 32) to bus.
func NewFabric(bus *Bus, n int) *Fabric {
	if n > 32 {
		n = 32
	}
	f := &Fabric{
		bus: bus,
		eep: make([]uint32, n),
		tep: make([]uint32, n),
	}
	bus.fabric = f
	return f
}

func (f *Fabric) AllocChannel() (core.Channel, error) {
	for i := range f.eep {
		if f.used&(1<<uint(i)) == 0 {
			f.used |= 1 << uint(i)
			return core.Channel(i), nil
		}
	}
	return 0, core.ErrResourceExhausted
}

func (f *Fabric) ConnectEndpoints(ch core.Channel, eep, tep uint32) {
	if int(ch) >= len(f.eep) {
		return
	}
	f.eep[ch] = eep
	f.tep[ch] = tep
}

func (f *Fabric) EnableChannels(mask uint32) {
	f.enabled |= mask & f.used
}

// Enabled returns the mask of enabled channels.
func (f *Fabric) Enabled() uint32 {
	return f.enabled
}

// Allocated returns the mask of allocated channels.
func (f *Fabric) Allocated() uint32 {
	return f.used
}

func (f *Fabric) route(eep uint32) {
	for i := range f.eep {
		if f.enabled&(1<<uint(i)) == 0 || f.eep[i] != eep {
			continue
		}
		if f.bus.Trigger(f.tep[i]) {
			f.Routed++
		}
	}
}

var _ core.Interconnect = (*Fabric)(nil)
