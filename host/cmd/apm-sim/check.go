package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a configuration and print its timing",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig()
		if err != nil {
			return err
		}
		cfg, err := f.Core()
		if err != nil {
			return err
		}
		if _, err := f.SimConfig(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "channels:          %d\n", len(cfg.Channels))
		fmt.Fprintf(out, "sample interval:   %d us\n", cfg.SampleIntervalMicros)
		fmt.Fprintf(out, "minimum interval:  %d us\n", cfg.MinIntervalMicros())
		fmt.Fprintf(out, "buffer fill time:  %d us\n", cfg.FillPeriodMicros())
		if cfg.ReduceCostNanos != 0 {
			fmt.Fprintf(out, "reduction time:    %d us\n", uint64(cfg.BufferSize)*uint64(cfg.ReduceCostNanos)/1000)
		}
		if cfg.IntervalDegraded() {
			fmt.Fprintln(out, "warning: sample interval is shorter than acquisition plus conversion, triggers will be skipped")
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		fmt.Fprintln(out, "ok")
		return nil
	},
}
