package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apm/core"
	"apm/host/serial"
	"apm/host/summary"
	"apm/sim"
)

var (
	runOpts = struct {
		buffers  uint64
		timeout  uint64
		serial   string
		baud     int
		trace    bool
		counters bool
	}{}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline until a number of buffers have been reported",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadConfig()
			if err != nil {
				return err
			}
			cfg, err := f.Core()
			if err != nil {
				return err
			}
			scfg, err := f.SimConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			write := func(line []byte) { fmt.Fprintf(out, "%s\n", line) }

			device := f.Log.Serial
			if runOpts.serial != "" {
				device = runOpts.serial
			}
			if device != "" {
				pcfg := serial.DefaultConfig(device)
				pcfg.Baud = f.Log.Baud
				if runOpts.baud != 0 {
					pcfg.Baud = runOpts.baud
				}
				port, err := serial.Open(pcfg)
				if err != nil {
					return err
				}
				lw := serial.NewLineWriter(port)
				defer lw.Close()
				write = lw.WriteLine
			}

			log := core.NewLogger("apm", write)
			level := f.Log.Level
			if logLevel != "" {
				level = logLevel
			}
			log.SetLevel(core.ParseLevel(level))

			sys := sim.NewSystem(scfg)
			p, err := core.New(cfg, sys.Peripherals(), log)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			collector := summary.NewCollector(len(cfg.Channels))
			p.AddReportSink(collector)

			if err := p.Setup(); err != nil {
				fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
			}

			deadline := runOpts.timeout * 1000000
			if deadline == 0 {
				// Calibration plus twice the nominal fill time per buffer.
				deadline = scfg.CalibrationNanos + 2*runOpts.buffers*cfg.FillPeriodMicros()*1000 + 1000000
			}
			reached := sys.RunUntilReports(runOpts.buffers, deadline)

			if runOpts.trace {
				p.DumpTrace()
			}
			collector.Summary().Print(out)
			if runOpts.counters {
				c := p.Counters()
				fmt.Fprintf(out, "counters: reports=%d requests=%d failures=%d ignored=%d overruns=%d\n",
					c.Reports, c.Requests, c.Failures, c.Ignored, c.Overruns)
				fmt.Fprintf(out, "converter: triggers=%d accepted=%d skipped=%d stalled=%d\n",
					sys.Converter.Triggers, sys.Converter.Accepted, sys.Converter.Skipped, sys.Converter.Stalled)
			}
			fmt.Fprintf(out, "simulated time: %.3f ms\n", float64(sys.Sched.Now())/1e6)

			if !reached {
				return fmt.Errorf("only %d of %d buffers completed (state %s)",
					sys.Converter.Completions, runOpts.buffers, p.State())
			}
			return nil
		},
	}
)

func init() {
	runCmd.Flags().Uint64VarP(&runOpts.buffers, "buffers", "n", 10, "number of buffers to report")
	runCmd.Flags().Uint64Var(&runOpts.timeout, "timeout-ms", 0, "simulated time limit in ms (default: from buffer count)")
	runCmd.Flags().StringVarP(&runOpts.serial, "serial", "s", "", "write log lines to this serial device instead of stdout")
	runCmd.Flags().IntVarP(&runOpts.baud, "baud", "b", 0, "serial baud rate (overrides config)")
	runCmd.Flags().BoolVar(&runOpts.trace, "trace", false, "dump the event trace at the end")
	runCmd.Flags().BoolVar(&runOpts.counters, "counters", false, "print pipeline and converter counters")
}
