//go:build nrf52 || nrf52840 || nrf52833

package main

import (
	"device/nrf"
	"machine"
	"time"

	"tinygo.org/x/drivers"

	"apm/core"
)

var crlf = []byte("\r\n")

func writeUART(line []byte) {
	machine.Serial.Write(line)
	machine.Serial.Write(crlf)
}

func main() {
	// Records are formatted inside the SAADC interrupt into the ring; the
	// idle loop below drains it to the UART.
	out := core.NewAsyncWriter(writeUART, 64)
	log := core.NewLogger("apm", out.Write)

	cfg := core.DefaultConfig()
	// nRF52 internal reference is 0.6 V.
	cfg.Scale.ReferenceMilliVolts = 600

	hw := core.Peripherals{
		Timer:        newHWTimer(nrf.TIMER2),
		Converter:    &saadc,
		Interconnect: &PPI{},
	}
	p, err := core.New(cfg, hw, log)
	if err != nil {
		log.Error("configuration rejected", core.Err(err))
		for {
			out.Flush()
			time.Sleep(time.Second)
		}
	}

	monitor := core.NewMonitor()
	p.AddReportSink(monitor)

	log.Info("starting", core.Uint("interval_us", uint64(cfg.SampleIntervalMicros)),
		core.Uint("buffer_size", uint64(cfg.BufferSize)))
	if err := p.Setup(); err != nil {
		p.DumpTrace()
	}

	var lastSeq, lastFailures, lastDropped uint32
	for tick := 0; ; tick++ {
		out.Flush()
		time.Sleep(10 * time.Millisecond)
		if tick%100 != 0 {
			continue
		}

		monitor.Update(drivers.Voltage)
		if seq := monitor.Sequence(); seq != lastSeq {
			lastSeq = seq
			log.Debug("latest",
				core.Uint("reports", uint64(seq)),
				core.Int("mv0", monitor.MilliVolts(0)),
				core.Int("mv1", monitor.MilliVolts(1)))
		}

		c := p.Counters()
		if c.Failures != lastFailures {
			lastFailures = c.Failures
			p.DumpTrace()
		}
		if n := out.Dropped(); n != lastDropped {
			log.Warn("log lines dropped", core.Uint("count", uint64(n-lastDropped)))
			lastDropped = n
		}
	}
}
