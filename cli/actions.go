package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/dualarm/config"
	"go.viam.com/dualarm/logging"
	"go.viam.com/dualarm/motionplan"
	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/robots/panda"
)

// ResidualAction prints the closed-chain residual of each configuration.
func ResidualAction(c *cli.Context) error {
	arm, configurations, err := setup(c)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Residual", "Satisfied", "|J|"})
	for i, x := range configurations {
		r, err := arm.Constraint.Function(x)
		if err != nil {
			return errors.Wrapf(err, "configuration %d", i)
		}
		jac, err := arm.Constraint.Jacobian(x)
		if err != nil {
			return errors.Wrapf(err, "configuration %d", i)
		}
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("%.6f", r[0]),
			r[0] <= arm.Constraint.Tolerance(),
			fmt.Sprintf("%.6f", mat.Norm(jac, 2)),
		})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// ValidateAction prints whether each configuration is free of disallowed self collisions.
func ValidateAction(c *cli.Context) error {
	arm, configurations, err := setup(c)
	if err != nil {
		return err
	}
	stats := &motionplan.ValidityStats{}
	arm.Validity.SetStats(stats)
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Valid", "Collisions"})
	for i, x := range configurations {
		valid, err := arm.Validity.IsValid(x)
		if err != nil {
			t.AppendRow(table.Row{i, "error", err.Error()})
			continue
		}
		var pairs []string
		if !valid {
			collisions, err := arm.Validity.Collisions(x)
			if err != nil {
				return errors.Wrapf(err, "configuration %d", i)
			}
			for _, col := range collisions {
				pairs = append(pairs, fmt.Sprintf("%s/%s (%.4f)", col.Name1, col.Name2, col.PenetrationDepth))
			}
		}
		t.AppendRow(table.Row{i, valid, strings.Join(pairs, "\n")})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d", stats.Valid(), stats.Checked()), fmt.Sprintf("%d failed", stats.Failed())})
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// BoundsAction prints each configuration wrapped into the joint limits.
func BoundsAction(c *cli.Context) error {
	arm, configurations, err := setup(c)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Joint", "Input", "Bounded"})
	names := arm.Space.Names()
	for i, x := range configurations {
		bounded, err := arm.Space.EnforceBounds(x)
		if err != nil {
			return errors.Wrapf(err, "configuration %d", i)
		}
		for j := range x {
			if x[j] == bounded[j] {
				continue
			}
			t.AppendRow(table.Row{i, names[j], fmt.Sprintf("%.4f", x[j]), fmt.Sprintf("%.4f", bounded[j])})
		}
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// BenchAction times the constraint function, its Jacobian and the validity check at random configurations.
func BenchAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, err := readConfig(c, logger)
	if err != nil {
		return err
	}
	opts, err := cfg.DualArmOptions()
	if err != nil {
		return err
	}
	start := cfg.StartConfiguration()
	factory := func(worker int) (*motionplan.BenchmarkWorker, error) {
		arm, err := panda.NewDualArm(start, opts, logger.Sublogger(fmt.Sprintf("worker%d", worker)))
		if err != nil {
			return nil, err
		}
		return arm.BenchmarkWorker(), nil
	}
	result, err := motionplan.RunBenchmark(c.Context, motionplan.BenchmarkConfig{
		Workers: c.Int(flagWorkers),
		Samples: c.Int(flagSamples),
		Seed:    c.Int64(flagSeed),
	}, factory, logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Operation", "Count", "Mean (µs)", "Median (µs)", "P95 (µs)", "Max (µs)"})
	for _, row := range []struct {
		name    string
		summary motionplan.TimingSummary
	}{
		{"function", result.Function},
		{"jacobian", result.Jacobian},
		{"is valid", result.IsValid},
	} {
		t.AppendRow(table.Row{
			row.name,
			row.summary.Count,
			fmt.Sprintf("%.1f", row.summary.Mean),
			fmt.Sprintf("%.1f", row.summary.Median),
			fmt.Sprintf("%.1f", row.summary.P95),
			fmt.Sprintf("%.1f", row.summary.Max),
		})
	}
	printf(c.App.Writer, "%s", t.Render())
	printf(c.App.Writer, "%d workers, %v elapsed, %d satisfied, %d valid, %d invalid, %d failed",
		result.Workers, result.Elapsed, result.Satisfied,
		result.Validity.Valid(), result.Validity.Invalid(), result.Validity.Failed())
	return nil
}

func setup(c *cli.Context) (*panda.DualArm, [][]referenceframe.Input, error) {
	logger := newLogger(c)
	cfg, err := readConfig(c, logger)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.DualArmOptions()
	if err != nil {
		return nil, nil, err
	}
	arm, err := panda.NewDualArm(cfg.StartConfiguration(), opts, logger)
	if err != nil {
		return nil, nil, err
	}
	configurations := [][]referenceframe.Input{cfg.StartConfiguration()}
	if path := c.Args().First(); path != "" {
		if configurations, err = readConfigurations(path); err != nil {
			return nil, nil, err
		}
	}
	return arm, configurations, nil
}

// readConfig reads the --config file, if any, and applies its log level unless --debug is set.
func readConfig(c *cli.Context, logger logging.Logger) (*config.Config, error) {
	path := c.String(flagConfig)
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Read(path, logger)
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel != nil && !c.Bool(flagDebug) {
		logger.SetLevel(*cfg.LogLevel)
	}
	return cfg, nil
}

// readConfigurations reads a JSON array of joint configurations.
func readConfigurations(path string) ([][]referenceframe.Input, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var configurations [][]referenceframe.Input
	if err := json.Unmarshal(data, &configurations); err != nil {
		return nil, errors.Wrapf(err, "failed to decode configurations from %s", path)
	}
	if len(configurations) == 0 {
		return nil, errors.Errorf("%s has no configurations", path)
	}
	return configurations, nil
}

// newLogger returns a logger writing warnings to the app's error stream, or everything with --debug.
func newLogger(c *cli.Context) logging.Logger {
	logger := logging.NewBlankLogger("closedchain")
	logger.AddAppender(logging.NewWriterAppender(zapcore.AddSync(c.App.ErrWriter)))
	if !c.Bool(flagDebug) {
		logger.SetLevel(logging.WARN)
	}
	return logger
}

// printf prints a message with a newline to the given writer.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
