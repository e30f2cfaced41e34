// Command fhirres validates, converts and stores FHIR Account and Patient
// resources.
//
// Usage:
//
//	fhirres code <value>...            Check values against the code rules
//	fhirres uri <value>...             Check values against the uri rules
//	fhirres roundtrip <file>...        Decode and re-encode, report differences
//	fhirres check <file>...            Decode, then run invariants and bindings
//	fhirres ndjson <file>...           Decode NDJSON in parallel and summarize
//	fhirres bundle <file>...           Decode and check Bundle entries
//	fhirres store put|get|list|delete  Persist resources
//	fhirres version                    Print version information
//
// Files may be glob patterns; "-" reads stdin. Settings come from flags,
// FHIRRES_* environment variables and an optional --config file. The exit
// status is 1 when any value, file or line fails. --metrics writes the run's
// counters in the Prometheus text format once the command finishes.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/internal/config"
	"github.com/gofhir/resources/metrics"
	"github.com/gofhir/resources/pkg/logger"
)

// errFailed is returned by commands that already reported their failures.
var errFailed = errors.New("one or more checks failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, a := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if merr := a.writeMetrics(stderr); merr != nil && err == nil {
		err = merr
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// app carries what every command needs once flags are parsed.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *fv.Metrics
	in      io.Reader
	out     io.Writer
}

func (a *app) codecOptions() []codec.Option {
	return []codec.Option{
		codec.WithIndent(a.cfg.Indent),
		codec.WithStrict(a.cfg.Strict),
		codec.WithMetrics(a.metrics),
		codec.WithLogger(a.log),
	}
}

// writeMetrics exports the collected counters when --metrics was given. The
// path "-" means stderr.
func (a *app) writeMetrics(stderr io.Writer) error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	reg := metrics.NewRegistry(a.metrics)
	if a.cfg.MetricsFile == "-" {
		return metrics.WriteText(stderr, reg)
	}

	f, err := os.Create(a.cfg.MetricsFile)
	if err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	if err := metrics.WriteText(f, reg); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing metrics: %w", err)
	}
	return f.Close()
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{in: stdin, out: stdout}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "fhirres",
		Short:         "Validate, convert and store FHIR Account and Patient resources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(stderr, cfg.Level())
			a.metrics = fv.NewMetrics()
			a.log.Debug("config: output=%s strict=%t workers=%d store=%s",
				cfg.Output, cfg.Strict, cfg.Workers, cfg.StoreDriver)
			return nil
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error, none")
	pf.StringP("output", "o", config.OutputText, "Output format: text or json")
	pf.Bool("indent", true, "Indent encoded JSON")
	pf.Bool("strict", false, "Reject unknown JSON members when decoding")
	pf.Int("workers", runtime.NumCPU(), "Number of decode workers")
	pf.Bool("terminology", true, "Check required value set bindings")
	pf.String("definitions", "", "Directory of ValueSet/CodeSystem JSON to load")
	pf.String("store", config.StoreMemory, "Store driver: memory, bolt or postgres")
	pf.String("store-path", "fhirres.db", "Bolt store file")
	pf.String("database-url", "", "PostgreSQL connection string")
	pf.Int("max-line-bytes", 16<<20, "Longest accepted NDJSON line")
	pf.String("metrics", "", `Write Prometheus text metrics to this file ("-" for stderr)`)

	rootCmd.AddCommand(codeCmd(a))
	rootCmd.AddCommand(uriCmd(a))
	rootCmd.AddCommand(roundtripCmd(a))
	rootCmd.AddCommand(checkCmd(a))
	rootCmd.AddCommand(ndjsonCmd(a))
	rootCmd.AddCommand(bundleCmd(a))
	rootCmd.AddCommand(storeCmd(a))
	rootCmd.AddCommand(versionCmd(a))

	return rootCmd, a
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.cfg.IsJSON() {
				return writeJSON(a.out, map[string]string{
					"version":     fv.Version,
					"fhirVersion": fv.R4.String(),
				})
			}
			fmt.Fprintf(a.out, "fhirres version %s (FHIR %s %s)\n", fv.Version, fv.R4.Release(), fv.R4)
			return nil
		},
	}
}
