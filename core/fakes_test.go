package core

import "strings"

// Hand-written peripheral mocks for pipeline tests.

type mockTimer struct {
	initErr   error
	inits     int
	enables   int
	disables  int
	ticks     uint32
	autoClear bool
	freq      uint32
}

func (t *mockTimer) Init(cfg TimerConfig) error {
	t.inits++
	if t.initErr != nil {
		return t.initErr
	}
	t.freq = cfg.FrequencyHz
	return nil
}

func (t *mockTimer) SetCompare(ch CompareChannel, ticks uint32, autoClear bool) {
	t.ticks = ticks
	t.autoClear = autoClear
}

func (t *mockTimer) Enable()  { t.enables++ }
func (t *mockTimer) Disable() { t.disables++ }

func (t *mockTimer) MicrosecondsToTicks(us uint32) uint32 {
	return uint32(uint64(us) * uint64(t.freq) / 1000000)
}

func (t *mockTimer) CompareEventAddress(ch CompareChannel) uint32 {
	return 0x4000A140 + 4*uint32(ch)
}

type mockConverter struct {
	errs    map[string]error
	calls   []string
	handler EventHandler
	set     [][]int16
	mask    uint32
	reenter Event

	// quiet stops call and buffer recording so the event path can be
	// measured without the mock allocating.
	quiet bool
}

func newMockConverter() *mockConverter {
	return &mockConverter{errs: make(map[string]error)}
}

func (c *mockConverter) call(op string) error {
	if !c.quiet {
		c.calls = append(c.calls, op)
	}
	return c.errs[op]
}

func (c *mockConverter) Init(priority uint8) error { return c.call("init") }

func (c *mockConverter) ConfigureChannels(channels []ChannelConfig) error {
	if err := c.call("channels_config"); err != nil {
		return err
	}
	c.mask = uint32(1)<<uint(len(channels)) - 1
	return nil
}

func (c *mockConverter) ConfiguredChannels() uint32 { return c.mask }

func (c *mockConverter) SetMode(mask uint32, res Resolution, adv AdvancedConfig, handler EventHandler) error {
	c.handler = handler
	return c.call("mode_set")
}

func (c *mockConverter) SetBuffer(buf []int16, size int) error {
	if err := c.call("buffer_set"); err != nil {
		return err
	}
	if !c.quiet {
		c.set = append(c.set, buf[:size])
	}
	return nil
}

func (c *mockConverter) Calibrate(handler EventHandler) error { return c.call("calibrate") }

func (c *mockConverter) TriggerMode() error {
	if c.reenter != nil {
		c.handler(c.reenter)
	}
	return c.call("mode_trigger")
}

func (c *mockConverter) TaskAddress(task ConverterTask) uint32 {
	return 0x40007000 + 4*uint32(task)
}

func (c *mockConverter) EventAddress(event ConverterEvent) uint32 {
	return 0x40007100 + 4*uint32(event)
}

type mockFabric struct {
	free    int
	next    Channel
	links   map[Channel][2]uint32
	enabled uint32
}

func newMockFabric(free int) *mockFabric {
	return &mockFabric{free: free, links: make(map[Channel][2]uint32)}
}

func (f *mockFabric) AllocChannel() (Channel, error) {
	if f.free == 0 {
		return 0, ErrResourceExhausted
	}
	f.free--
	ch := f.next
	f.next++
	return ch, nil
}

func (f *mockFabric) ConnectEndpoints(ch Channel, eep, tep uint32) {
	f.links[ch] = [2]uint32{eep, tep}
}

func (f *mockFabric) EnableChannels(mask uint32) { f.enabled |= mask }

// captureLog collects formatted log lines.
type captureLog struct {
	lines []string
}

func (c *captureLog) write(line []byte) { c.lines = append(c.lines, string(line)) }

func (c *captureLog) find(substr string) (string, bool) {
	for _, l := range c.lines {
		if strings.Contains(l, substr) {
			return l, true
		}
	}
	return "", false
}
