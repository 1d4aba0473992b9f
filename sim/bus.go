package sim

// Bus maps peripheral task register addresses to their behavior and
// forwards peripheral events to the interconnect.
type Bus struct {
	tasks  map[uint32]func()
	fabric *Fabric
}

func NewBus() *Bus {
	return &Bus{tasks: make(map[uint32]func())}
}

// Map installs the behavior of the task register at addr.
func (b *Bus) Map(addr uint32, task func()) {
	b.tasks[addr] = task
}

// Trigger writes the task register at addr. It reports false for an
// unmapped address, which real hardware ignores as well.
func (b *Bus) Trigger(addr uint32) bool {
	task, ok := b.tasks[addr]
	if !ok {
		return false
	}
	task()
	return true
}

// Signal raises the event register at addr.
func (b *Bus) Signal(addr uint32) {
	if b.fabric != nil {
		b.fabric.route(addr)
	}
}
