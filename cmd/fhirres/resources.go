package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/constraint"
	"github.com/gofhir/resources/resource"
	"github.com/gofhir/resources/terminology"
)

// RoundtripOutput reports whether a document survived decode and
// re-encode unchanged.
type RoundtripOutput struct {
	Resource     string `json:"resource"`
	ResourceType string `json:"resourceType,omitempty"`
	Stable       bool   `json:"stable"`
	Bytes        int    `json:"bytes,omitempty"`
	Error        string `json:"error,omitempty"`
}

func roundtripCmd(a *app) *cobra.Command {
	var printOut bool

	cmd := &cobra.Command{
		Use:   "roundtrip <file|->...",
		Short: "Decode and re-encode resources, reporting any drift",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := codec.New(a.codecOptions()...)
			failed := false
			var outputs []RoundtripOutput

			for _, in := range readInputs(args, a.in) {
				out, encoded := roundtrip(c, in)
				if !out.Stable {
					failed = true
				}
				outputs = append(outputs, out)

				if a.cfg.IsJSON() {
					continue
				}
				if out.Error != "" {
					fmt.Fprintf(a.out, "FAIL   %s: %s\n", out.Resource, out.Error)
					continue
				}
				fmt.Fprintf(a.out, "OK     %s (%s, %d bytes)\n", out.Resource, out.ResourceType, out.Bytes)
				if printOut {
					fmt.Fprintln(a.out, string(encoded))
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
	cmd.Flags().BoolVar(&printOut, "print", false, "Print the re-encoded resource")
	return cmd
}

// roundtrip decodes in, encodes the result and decodes that again. The
// document is stable when both decoded values and both encodings match.
func roundtrip(c *codec.Codec, in input) (RoundtripOutput, []byte) {
	out := RoundtripOutput{Resource: in.name}
	if in.err != nil {
		out.Error = in.err.Error()
		return out, nil
	}

	first, err := c.Decode(in.data)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	out.ResourceType = first.ResourceType()

	encoded, err := c.Encode(first)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	second, err := c.Decode(encoded)
	if err != nil {
		out.Error = fmt.Sprintf("re-decoding: %v", err)
		return out, nil
	}
	again, err := c.Encode(second)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}

	switch {
	case !resource.Equal(first, second):
		out.Error = "decoded values differ after re-encoding"
	case string(encoded) != string(again):
		out.Error = "encoding is not idempotent"
	default:
		out.Stable = true
		out.Bytes = len(encoded)
	}
	return out, encoded
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|->...",
		Short: "Decode resources and run invariant and terminology checks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ck, err := newChecker(a)
			if err != nil {
				return err
			}

			failed := false
			var outputs []ValidationOutput
			for _, in := range readInputs(args, a.in) {
				out := ck.check(cmd.Context(), in)
				if !out.Valid {
					failed = true
				}
				outputs = append(outputs, out)
				if !a.cfg.IsJSON() {
					printTextResult(a.out, out)
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
}

// checker runs decoding, invariants and (optionally) terminology over one
// document.
type checker struct {
	codec       *codec.Codec
	constraints *constraint.Validator
	terminology *terminology.Checker
}

func newChecker(a *app) (*checker, error) {
	c := codec.New(a.codecOptions()...)
	ck := &checker{
		codec:       c,
		constraints: constraint.New(constraint.WithCodec(c), constraint.WithMetrics(a.metrics)),
	}
	if !a.cfg.Terminology {
		return ck, nil
	}

	svc := terminology.New(terminology.WithResultCache(1024), terminology.WithMetrics(a.metrics))
	if a.cfg.Definitions != "" {
		stats, err := svc.LoadDir(a.cfg.Definitions)
		if err != nil {
			return nil, fmt.Errorf("loading definitions: %w", err)
		}
		a.log.Info("Loaded %d code systems and %d value sets from %s (%d files skipped)",
			stats.CodeSystems, stats.ValueSets, a.cfg.Definitions, stats.Errors)
	}
	ck.terminology = terminology.NewChecker(svc).WithMetrics(a.metrics)
	return ck, nil
}

func (ck *checker) check(ctx context.Context, in input) ValidationOutput {
	if in.err != nil {
		return failedOutput(in.name, fmt.Errorf("reading file: %w", in.err))
	}
	start := time.Now()

	res, err := ck.codec.Decode(in.data)
	if err != nil {
		result := fv.AcquireResult()
		defer result.Release()
		result.AddIssue(decodeIssue(err))
		return newValidationOutput(in.name, result, time.Since(start))
	}

	result, err := ck.checkResource(ctx, res)
	if err != nil {
		return failedOutput(in.name, err)
	}
	defer result.Release()
	return newValidationOutput(in.name, result, time.Since(start))
}

// checkResource runs invariants and, when enabled, terminology over a
// decoded resource. The result comes from the result pool.
func (ck *checker) checkResource(ctx context.Context, res resource.Resource) (*fv.Result, error) {
	result := fv.AcquireResult()
	result.ResourceType = res.ResourceType()
	result.Ran(fv.SourceDecode)

	inv, err := ck.constraints.Validate(ctx, res)
	if err != nil {
		result.Release()
		return nil, err
	}
	result.Merge(inv)

	if ck.terminology != nil {
		tx, err := ck.terminology.Check(ctx, res)
		if err != nil {
			result.Release()
			return nil, err
		}
		result.Merge(tx)
	}
	return result, nil
}

// decodeIssue maps a decoding failure onto an OperationOutcome issue.
func decodeIssue(err error) fv.Issue {
	code := fv.IssueTypeStructure
	path := ""

	var de *codec.DecodeError
	if errors.As(err, &de) {
		path = de.Path
		switch de.Kind {
		case codec.KindMissingField:
			code = fv.IssueTypeRequired
		case codec.KindInvalidValue:
			code = fv.IssueTypeValue
		case codec.KindUnknownResourceType:
			code = fv.IssueTypeNotSupported
		case codec.KindTypeMismatch, codec.KindChoiceConflict:
			code = fv.IssueTypeInvalid
		}
	}

	b := fv.Error(code).Diagnostics(err.Error()).Source(fv.SourceDecode)
	if path != "" {
		b = b.At(path)
	}
	return b.Build()
}
