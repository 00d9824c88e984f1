package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jungletek/vms-storage-calc/pkg/config"
	"github.com/jungletek/vms-storage-calc/pkg/estimator"
	"github.com/jungletek/vms-storage-calc/pkg/fleet"
	"github.com/jungletek/vms-storage-calc/pkg/fsutil"
	"github.com/jungletek/vms-storage-calc/pkg/logger"
	"github.com/jungletek/vms-storage-calc/pkg/menu"
	"github.com/jungletek/vms-storage-calc/pkg/probe"
	"github.com/jungletek/vms-storage-calc/pkg/report"
)

// run executes the selected subcommand, writing results to stdout or cfg.OutPath
func run(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	var buf bytes.Buffer
	out := stdout
	if cfg.OutPath != "" {
		out = &buf
	}

	if err := dispatch(ctx, cfg, stdin, out); err != nil {
		return err
	}

	if cfg.OutPath != "" {
		if err := fsutil.WriteOutput(cfg.OutPath, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfg.OutPath, err)
		}
		logger.GetLogger().WithField("path", cfg.OutPath).Info("Results written")
	}
	return nil
}

func dispatch(ctx context.Context, cfg *config.Config, stdin io.Reader, out io.Writer) error {
	r := report.NewRenderer(out, cfg.JSON)

	switch cmd := cfg.Subcommand().(type) {
	case *config.ExactCmd:
		if err := requirePositive("bitrate", cmd.Bitrate, "days", cmd.Days); err != nil {
			return err
		}
		quick := estimator.StorageQuick(cmd.Bitrate, cmd.Days)
		return r.Estimate(report.Estimate{
			BitrateMbps: cmd.Bitrate,
			Duration:    cmd.Days,
			Unit:        "days",
			ExactGB:     estimator.StorageExact(cmd.Bitrate, cmd.Days),
			QuickGB:     &quick,
		})
	case *config.HoursCmd:
		if err := requirePositive("bitrate", cmd.Bitrate, "hours", cmd.Hours); err != nil {
			return err
		}
		return r.Estimate(report.Estimate{
			BitrateMbps: cmd.Bitrate,
			Duration:    cmd.Hours,
			Unit:        "hours",
			ExactGB:     estimator.StorageForHours(cmd.Bitrate, cmd.Hours),
		})
	case *config.FPSCmd:
		reference := cfg.ReferenceFPS
		if cmd.Reference != nil {
			reference = *cmd.Reference
		}
		if err := requirePositive("bitrate", cmd.Bitrate, "fps", cmd.TargetFPS); err != nil {
			return err
		}
		// zero is left to the core, which reports ErrZeroReferenceFPS
		if reference != 0 {
			if err := config.RequirePositive("reference", reference); err != nil {
				return err
			}
		}
		impact, err := estimator.CalculateFPSImpact(cmd.Bitrate, cmd.TargetFPS, reference)
		if err != nil {
			return err
		}
		return r.FPSImpact(impact)
	case *config.TableCmd:
		for _, v := range append(append([]float64{}, cmd.Bitrates...), cmd.Durations...) {
			if err := config.RequirePositive("table", v); err != nil {
				return err
			}
		}
		return r.StorageTable(estimator.GenerateTable(
			firstNonNil(cmd.Bitrates, cfg.TableBitrates),
			firstNonNil(cmd.Durations, cfg.TableDurations),
		))
	case *config.ReferenceCmd:
		return r.QuickReference(estimator.GetQuickReference())
	case *config.FleetCmd:
		return runFleet(cfg, cmd, r)
	case *config.ProbeCmd:
		return runProbe(ctx, cfg, cmd, r)
	case *config.MenuCmd:
		return menu.New(stdin, out, menu.Options{
			ReferenceFPS:   cfg.ReferenceFPS,
			TableBitrates:  cfg.TableBitrates,
			TableDurations: cfg.TableDurations,
		}).Run()
	case nil:
		return walkthrough(out)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

func runFleet(cfg *config.Config, cmd *config.FleetCmd, r *report.Renderer) error {
	var (
		cameras  []estimator.CameraProfile
		fileDays float64
	)

	sources := 0
	for _, set := range []bool{cmd.File != "", cmd.Sample, cmd.Count > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("fleet takes only one of a file, --sample or --count")
	}

	switch {
	case cmd.File != "":
		loaded, err := fleet.Load(cmd.File)
		if err != nil {
			return err
		}
		cameras, fileDays = loaded.Cameras, loaded.Days
	case cmd.Sample:
		cameras = fleet.Sample()
	case cmd.Count > 0:
		generated, err := fleet.Generated(cmd.Count, cmd.Bitrate, cmd.FPS, cmd.Hours)
		if err != nil {
			return err
		}
		cameras = generated
	default:
		return fmt.Errorf("fleet needs a file, --sample or --count")
	}

	days := cfg.DefaultDays
	if fileDays > 0 {
		days = fileDays
	}
	if cmd.Days != nil {
		days = *cmd.Days
	}
	if err := config.RequirePositive("days", days); err != nil {
		return err
	}

	return r.Fleet(estimator.AggregateFleet(cameras, days))
}

func runProbe(ctx context.Context, cfg *config.Config, cmd *config.ProbeCmd, r *report.Renderer) error {
	sources, err := probe.ExpandSources(cmd.Sources)
	if err != nil {
		return err
	}

	days := cfg.DefaultDays
	if cmd.Days != nil {
		days = *cmd.Days
	}
	if err := config.RequirePositive("days", days); err != nil {
		return err
	}
	if cmd.Height < 0 {
		return config.ConfigError{Field: "height", Value: cmd.Height, Message: "height must not be negative"}
	}

	prober := probe.NewProber(nil)
	streams := make([]*probe.StreamInfo, 0, len(sources))
	for _, source := range sources {
		info, err := prober.Probe(ctx, source, cmd.Height)
		if err != nil {
			return err
		}
		streams = append(streams, info)
	}

	if !cmd.Fleet {
		return r.Streams(streams, days)
	}

	cameras := make([]estimator.CameraProfile, len(streams))
	for i, s := range streams {
		cameras[i] = s.Profile("")
	}
	return r.Fleet(estimator.AggregateFleet(cameras, days))
}

// walkthrough prints the worked examples shown when no subcommand is given
func walkthrough(out io.Writer) error {
	text := report.NewRenderer(out, false)
	section := func(title string) {
		fmt.Fprintf(out, "\n[EXAMPLE] %s\n%s\n", title, strings.Repeat("-", 40))
	}

	section("Example 1: Basic Storage Calculation")
	quick := estimator.StorageQuick(4, 7)
	if err := text.Estimate(report.Estimate{
		BitrateMbps: 4, Duration: 7, Unit: "days",
		ExactGB: estimator.StorageExact(4, 7), QuickGB: &quick,
	}); err != nil {
		return err
	}

	section("Example 2: FPS Impact Calculation")
	impact, err := estimator.CalculateFPSImpact(4, 30, estimator.DefaultReferenceFPS)
	if err != nil {
		return err
	}
	if err := text.FPSImpact(impact); err != nil {
		return err
	}

	section("Example 3: Hourly Storage Calculation")
	if err := text.Estimate(report.Estimate{
		BitrateMbps: 2, Duration: 12, Unit: "hours",
		ExactGB: estimator.StorageForHours(2, 12),
	}); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if err := text.StorageTable(estimator.GenerateTable(nil, nil)); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := text.QuickReference(estimator.GetQuickReference()); err != nil {
		return err
	}

	section("Example: Multiple Cameras Storage Calculation")
	if err := text.Fleet(estimator.AggregateFleet(fleet.Sample(), 7)); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nRun '%s menu' for the interactive calculator.\n", config.ProgramName)
	return nil
}

// commandName returns the subcommand name for log context
func commandName(sub interface{}) string {
	if sub == nil {
		return "walkthrough"
	}
	name := fmt.Sprintf("%T", sub)
	name = strings.TrimPrefix(name, "*config.")
	return strings.ToLower(strings.TrimSuffix(name, "Cmd"))
}

// requirePositive checks a bitrate together with a duration or frame rate
func requirePositive(bitrateField string, bitrate float64, field string, value float64) error {
	if err := config.RequirePositive(bitrateField, bitrate); err != nil {
		return err
	}
	return config.RequirePositive(field, value)
}

func firstNonNil(values ...[]float64) []float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
