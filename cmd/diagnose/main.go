// Diagnostic tool for inspecting container layouts and growth.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	logLevel string
	metrics  bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "diagnose [command]",
		Short: "inspect array shapes and vector growth",
		Long: `
  Prints how array indices map onto storage and how a vector's capacity
  grows, together with the buffer allocations this causes.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "log level (debug shows every reallocation)")
	root.PersistentFlags().BoolVar(&f.metrics, "metrics", false, "print the buffer metrics after running")

	root.AddCommand(
		newShapeCmd(f),
		newGrowthCmd(f),
		newRunCmd(f),
	)
	return root
}

func (f *rootFlags) logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(f.logLevel)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
