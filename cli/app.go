// Package cli contains the closedchain command line tool, which evaluates the closed-chain constraint and the self
// collision check of the dual arm robot.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagWorkers = "workers"
	flagSamples = "samples"
	flagSeed    = "seed"
)

// NewApp returns the closedchain app writing its output to out and its logs to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "closedchain",
		Usage:           "evaluate the closed-chain constraint and self collisions of a dual arm robot",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load robot configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "residual",
				Usage:     "print the constraint residual and Jacobian norm of configurations",
				ArgsUsage: "[configurations.json]",
				Action:    ResidualAction,
			},
			{
				Name:      "validate",
				Usage:     "check configurations for self collisions",
				ArgsUsage: "[configurations.json]",
				Action:    ValidateAction,
			},
			{
				Name:      "bounds",
				Usage:     "wrap configurations into the joint limits",
				ArgsUsage: "[configurations.json]",
				Action:    BoundsAction,
			},
			{
				Name:   "bench",
				Usage:  "time the constraint and validity check over random configurations",
				Action: BenchAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagWorkers,
						Usage: "number of parallel workers, 0 for one per available core",
					},
					&cli.IntFlag{
						Name:  flagSamples,
						Value: 1000,
						Usage: "total number of random configurations",
					},
					&cli.Int64Flag{
						Name:  flagSeed,
						Usage: "random seed",
					},
				},
			},
		},
	}
}
