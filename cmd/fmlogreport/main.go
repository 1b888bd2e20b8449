package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sigreer/fmlogreport/internal/config"
	"github.com/sigreer/fmlogreport/internal/version"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// runError marks a failure that happened while processing, as opposed
// to a problem with the command line
type runError struct {
	err error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func fail(err error) error {
	return &runError{err: err}
}

type options struct {
	cfgFile     string
	fmlog       string
	hwgrok      string
	output      string
	exportDB    string
	metricsFile string
	logLevel    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "fmlogreport -f <fmlog.json> [-H <hwgrok.json>]",
		Short: "Summarize fault management ereports per device",
		Long: `fmlogreport reads an FMA error log exported as one JSON ereport per line
and prints, for every device that raised ereports, the total count, a
histogram by ereport class, and a histogram by day.

When a hwgrok inventory snapshot is given, disks and PCI devices are
annotated with their bay label, manufacturer, model, serial number and
firmware, and hc-scheme devices with the matching inventory components.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.execute(cmd, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.fmlog, "fmlog", "f", "", "FMA error log, one JSON ereport per line (zstd compressed is accepted)")
	flags.StringVarP(&opts.hwgrok, "hwgrok", "H", "", "hwgrok JSON inventory snapshot")
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is /etc/fmlogreport/config.yaml)")
	flags.StringVarP(&opts.output, "output", "o", "", "report format: text or json")
	flags.StringVar(&opts.exportDB, "export-db", "", "also write the report into this SQLite database")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write run statistics to this Prometheus textfile")
	flags.StringVar(&opts.logLevel, "log-level", "", "diagnostic level: debug, info, warn or error")
	cmd.MarkFlagRequired("fmlog")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// applyFlags overrides config values with any flags given
func (o *options) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("export-db") {
		cfg.Export.SQLite = o.exportDB
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = o.metricsFile
	}
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	helped := false
	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, a []string) {
		helped = true
		defaultHelp(c, a)
	})

	err := cmd.Execute()

	var rerr *runError
	switch {
	case errors.As(err, &rerr):
		fmt.Fprintf(stderr, "Error: %v\n", rerr.err)
		return exitError
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	case helped:
		return exitUsage
	}
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
