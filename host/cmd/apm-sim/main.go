package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apm/host/config"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "apm-sim",
		Short: "Simulate the timer-paced SAADC capture pipeline",
		Long: "apm-sim runs the capture pipeline against a simulated timer, PPI and SAADC " +
			"and prints the per-buffer reports the firmware would log.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (default: reference board)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.AddCommand(runCmd, checkCmd)
}

func loadConfig() (*config.File, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFile(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
