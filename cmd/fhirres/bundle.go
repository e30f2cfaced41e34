package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/primitive"
	"github.com/gofhir/resources/store"
	"github.com/gofhir/resources/stream"
)

// BundleOutput reports the entries of one Bundle.
type BundleOutput struct {
	Resource string             `json:"resource"`
	Entries  int                `json:"entries"`
	Decoded  int                `json:"decoded"`
	Failed   int                `json:"failed"`
	Saved    int                `json:"saved,omitempty"`
	ByType   map[string]int     `json:"byType,omitempty"`
	Results  []ValidationOutput `json:"results,omitempty"`
}

func bundleCmd(a *app) *cobra.Command {
	var (
		parallel bool
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "bundle <file|->...",
		Short: "Decode and check the Account and Patient entries of Bundles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ck, err := newChecker(a)
			if err != nil {
				return err
			}

			var st store.Store
			if save {
				s, err := openStore(cmd.Context(), a)
				if err != nil {
					return err
				}
				defer s.Close()
				st = s
			}

			reader := stream.NewBundleReader(a.codecOptions()...).
				WithWorkerCount(a.cfg.Workers).
				WithCheck(ck.checkResource)

			failed := false
			var outputs []BundleOutput
			for _, in := range readInputs(args, a.in) {
				if in.err != nil {
					return fmt.Errorf("%s: %w", in.name, in.err)
				}
				out, err := a.readBundle(cmd.Context(), reader, in, parallel, st)
				if err != nil {
					return err
				}
				if out.Failed > 0 {
					failed = true
				}
				outputs = append(outputs, out)
				if !a.cfg.IsJSON() {
					printBundle(a, out)
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
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Buffer each bundle and decode its entries on all workers")
	cmd.Flags().BoolVar(&save, "save", false, "Put every decoded entry into the configured store")
	return cmd
}

func (a *app) readBundle(ctx context.Context, reader *stream.BundleReader, in input, parallel bool, st store.Store) (BundleOutput, error) {
	start := time.Now()

	var entries []stream.Entry
	if parallel {
		var err error
		if entries, err = reader.DecodeParallel(ctx, in.data); err != nil {
			return BundleOutput{}, fmt.Errorf("%s: %w", in.name, err)
		}
	} else {
		entries = stream.Collect(reader.Stream(ctx, bytes.NewReader(in.data)))
	}

	sum := stream.Aggregate(entries)
	out := BundleOutput{
		Resource: in.name,
		Entries:  sum.TotalEntries,
		Decoded:  sum.Decoded,
		Failed:   sum.EntriesWithErrors,
		ByType:   sum.ByType,
	}
	for _, e := range entries {
		if e.Index < 0 {
			// Bundle-level failures are not counted as entries.
			out.Failed++
		}
		name := entryName(in.name, e)
		switch {
		case e.Err != nil:
			result := fv.AcquireResult()
			result.ResourceType = e.ResourceType
			result.AddIssue(decodeIssue(e.Err))
			out.Results = append(out.Results, newValidationOutput(name, result, 0))
			result.Release()
		case e.Result != nil:
			out.Results = append(out.Results, newValidationOutput(name, e.Result, 0))
			e.Result.Release()
		}

		if st == nil || e.Resource == nil {
			continue
		}
		id := entryID(e)
		if err := st.Put(ctx, id, e.Resource); err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		out.Saved++
	}

	a.log.Debug("bundle: %s: %s in %v", in.name, sum, time.Since(start))
	return out, nil
}

func entryName(bundle string, e stream.Entry) string {
	if e.Index < 0 {
		return bundle
	}
	if e.FullURL != "" {
		return fmt.Sprintf("%s entry[%d] %s", bundle, e.Index, e.FullURL)
	}
	return fmt.Sprintf("%s entry[%d]", bundle, e.Index)
}

// entryID keeps the uuid of a urn:uuid fullUrl as the store id.
func entryID(e stream.Entry) string {
	if u, err := primitive.NewURI(e.FullURL); err == nil {
		if id, ok := u.UUID(); ok {
			return id.String()
		}
	}
	return store.NewID()
}

func printBundle(a *app, out BundleOutput) {
	fmt.Fprintf(a.out, "== %s ==\n", out.Resource)
	fmt.Fprintf(a.out, "Entries: %d, Decoded: %d, Failed: %d\n", out.Entries, out.Decoded, out.Failed)
	if out.Saved > 0 {
		fmt.Fprintf(a.out, "Saved: %d\n", out.Saved)
	}
	for _, rt := range sortedKeys(out.ByType) {
		fmt.Fprintf(a.out, "  %-20s %d\n", rt, out.ByType[rt])
	}
	fmt.Fprintln(a.out)

	for _, r := range out.Results {
		if len(r.Issues) > 0 {
			printTextResult(a.out, r)
		}
	}
}
