package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShapeCmd(f *rootFlags) *cobra.Command {
	var (
		dims  int
		sizes []int
		index []int
	)
	cmd := &cobra.Command{
		Use:   "shape",
		Short: "print the layout of an array",
		Long: `
  Prints the shape, size and strides of an array and, with --index, the
  storage offset and block a (possibly partial) index addresses.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := f.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			r := newReporter(cmd.OutOrStdout(), logger)
			ac := ArrayConfig{Dims: dims, Sizes: sizes}
			if cmd.Flags().Changed("index") {
				ac.Indices = [][]int{index}
			}
			if err := r.array(ac); err != nil {
				return err
			}
			return r.finish(f.metrics)
		},
	}
	cmd.Flags().IntVar(&dims, "dims", 1, "number of dimensions")
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{1}, "dimension sizes; missing ones repeat the last")
	cmd.Flags().IntSliceVar(&index, "index", nil, "index to locate")
	return cmd
}

func newGrowthCmd(f *rootFlags) *cobra.Command {
	var vc VectorConfig
	cmd := &cobra.Command{
		Use:   "growth",
		Short: "print how a vector's capacity grows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := f.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			r := newReporter(cmd.OutOrStdout(), logger)
			if err := r.growth(vc); err != nil {
				return err
			}
			return r.finish(f.metrics)
		},
	}
	cmd.Flags().IntVar(&vc.Pushes, "pushes", 20, "number of elements to append")
	cmd.Flags().IntVar(&vc.Reserve, "reserve", 0, "capacity to reserve before appending")
	return cmd
}

// Config lists the arrays and vectors the run command inspects.
type Config struct {
	Arrays  []ArrayConfig  `yaml:"arrays"`
	Vectors []VectorConfig `yaml:"vectors"`
}

func loadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(buf)
}

func parseConfig(buf []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if len(cfg.Arrays) == 0 && len(cfg.Vectors) == 0 {
		return nil, errors.New("config lists no arrays and no vectors")
	}
	return &cfg, nil
}

func newRunCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "inspect every array and vector listed in a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			logger, err := f.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			r := newReporter(cmd.OutOrStdout(), logger)
			for _, ac := range cfg.Arrays {
				if err := r.array(ac); err != nil {
					return err
				}
			}
			for _, vc := range cfg.Vectors {
				if err := r.growth(vc); err != nil {
					return err
				}
			}
			return r.finish(f.metrics)
		},
	}
}
