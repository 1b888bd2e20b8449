package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sigreer/fmlogreport/internal/aggregate"
	"github.com/sigreer/fmlogreport/internal/config"
	"github.com/sigreer/fmlogreport/internal/hwgrok"
	"github.com/sigreer/fmlogreport/internal/input"
	"github.com/sigreer/fmlogreport/internal/logger"
	"github.com/sigreer/fmlogreport/internal/metrics"
	"github.com/sigreer/fmlogreport/internal/pipeline"
	"github.com/sigreer/fmlogreport/internal/report"
	"github.com/sigreer/fmlogreport/internal/store"
	"github.com/spf13/cobra"
)

func (o *options) execute(cmd *cobra.Command, stdout, stderr io.Writer) error {
	// A bad --output is a command line problem, not a processing one
	if cmd.Flags().Changed("output") && o.output != config.OutputText && o.output != config.OutputJSON {
		return fmt.Errorf("invalid output format %q (want %s or %s)", o.output, config.OutputText, config.OutputJSON)
	}

	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return fail(err)
	}
	o.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}
	if err := logger.Init(cfg.Logging.Level, stderr); err != nil {
		return fail(err)
	}

	var inv *hwgrok.Snapshot
	if o.hwgrok != "" {
		inv, err = hwgrok.Load(o.hwgrok)
		if err != nil {
			return fail(err)
		}
		logger.Debugf("loaded inventory %s: %d drive bays, %d PCI devices", o.hwgrok, len(inv.DriveBays), len(inv.PCIDevices))
	}

	in, err := input.Open(o.fmlog)
	if err != nil {
		return fail(err)
	}
	defer in.Close()

	tbl := aggregate.New()
	stats, err := pipeline.Run(in, tbl)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", o.fmlog, err))
	}

	r := report.Assemble(tbl, inv, report.NewMeta(o.fmlog, o.hwgrok))
	r.Summary = &report.Summary{
		Lines:    stats.Lines,
		Recorded: stats.Recorded,
		Filtered: stats.FilteredTotal(),
		Dropped:  stats.DroppedTotal(),
	}

	// Nothing reaches stdout unless the whole run succeeds
	var buf bytes.Buffer
	switch cfg.Output {
	case config.OutputJSON:
		if err := report.PrintJSON(&buf, r); err != nil {
			return fail(err)
		}
	default:
		report.PrintText(&buf, r)
	}

	if path := cfg.Export.SQLite; path != "" {
		if err := exportReport(path, r); err != nil {
			return fail(err)
		}
		logger.Infof("exported run %s to %s", r.RunID, path)
	}

	if path := cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path, stats, len(r.Devices)); err != nil {
			return fail(err)
		}
	}

	if _, err := buf.WriteTo(stdout); err != nil {
		return fail(err)
	}
	return nil
}

func exportReport(path string, r *report.Report) error {
	s, err := store.New(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Export(r)
}
