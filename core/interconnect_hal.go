package core

// Channel is an allocated interconnect channel.
type Channel uint8

// Interconnect routes a peripheral event to a peripheral task with no CPU
// involvement (PPI/DPPI on nRF).
type Interconnect interface {
	// AllocChannel returns ErrResourceExhausted when every channel is taken.
	AllocChannel() (Channel, error)

	// ConnectEndpoints binds the event register at eep to the task
	// register at tep. The binding is inert until enabled.
	ConnectEndpoints(ch Channel, eep, tep uint32)

	EnableChannels(mask uint32)
}

// ChannelMask returns the enable mask for ch.
func ChannelMask(ch Channel) uint32 {
	return 1 << uint(ch)
}
