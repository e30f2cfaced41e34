package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gofhir/resources/ndjson"
	"github.com/gofhir/resources/store"
)

// NDJSONOutput summarizes one NDJSON input.
type NDJSONOutput struct {
	Resource string         `json:"resource"`
	Total    int            `json:"total"`
	Failed   int            `json:"failed"`
	Saved    int            `json:"saved,omitempty"`
	ByType   map[string]int `json:"byType,omitempty"`
	ByFailed map[string]int `json:"byFailure,omitempty"`
	Failures []LineFailure  `json:"failures,omitempty"`
}

// LineFailure is one line that did not decode.
type LineFailure struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

func ndjsonCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "ndjson <file|->...",
		Short: "Decode NDJSON resources in parallel and summarize them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var st store.Store
			if save {
				s, err := openStore(cmd.Context(), a)
				if err != nil {
					return err
				}
				defer s.Close()
				st = s
			}

			failed := false
			var outputs []NDJSONOutput
			for _, name := range args {
				out, err := a.decodeNDJSON(cmd, name, st)
				if err != nil {
					return err
				}
				if out.Failed > 0 {
					failed = true
				}
				outputs = append(outputs, out)
				if !a.cfg.IsJSON() {
					printNDJSON(a.out, out)
				}
			}

			if a.cfg.IsJSON() {
				if err := writeJSON(a.out, outputs); err != nil {
					return err
				}
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Put every decoded resource into the configured store")
	return cmd
}

func (a *app) decodeNDJSON(cmd *cobra.Command, name string, st store.Store) (NDJSONOutput, error) {
	var r io.Reader = a.in
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return NDJSONOutput{}, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	lines, err := ndjson.DecodeAll(cmd.Context(), r,
		ndjson.WithWorkers(a.cfg.Workers),
		ndjson.WithMaxLineSize(a.cfg.MaxLineBytes),
		ndjson.WithCodecOptions(a.codecOptions()...),
		ndjson.WithLogger(a.log),
	)
	if err != nil {
		return NDJSONOutput{}, fmt.Errorf("%s: %w", name, err)
	}

	sum := ndjson.Summarize(lines)
	out := NDJSONOutput{
		Resource: name,
		Total:    sum.Total,
		Failed:   sum.Failed,
		ByType:   sum.ByType,
		ByFailed: sum.ByFailed,
	}

	for _, l := range lines {
		if l.Err != nil {
			out.Failures = append(out.Failures, LineFailure{Line: l.Number, Error: l.Err.Error()})
			continue
		}
		if st == nil {
			continue
		}
		if err := st.Put(cmd.Context(), store.NewID(), l.Resource); err != nil {
			return out, fmt.Errorf("%s line %d: %w", name, l.Number, err)
		}
		out.Saved++
	}
	a.log.Debug("ndjson: %s decoded %d lines, %d failed, %d saved", name, out.Total, out.Failed, out.Saved)
	return out, nil
}

func printNDJSON(w io.Writer, out NDJSONOutput) {
	fmt.Fprintf(w, "== %s ==\n", out.Resource)
	fmt.Fprintf(w, "Lines: %d, Decoded: %d, Failed: %d\n", out.Total, out.Total-out.Failed, out.Failed)
	if out.Saved > 0 {
		fmt.Fprintf(w, "Saved: %d\n", out.Saved)
	}
	for _, rt := range sortedKeys(out.ByType) {
		fmt.Fprintf(w, "  %-20s %d\n", rt, out.ByType[rt])
	}
	for _, f := range out.Failures {
		fmt.Fprintf(w, "  ERROR line %d: %s\n", f.Line, f.Error)
	}
	fmt.Fprintln(w)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
