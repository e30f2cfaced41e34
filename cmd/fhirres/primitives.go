package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gofhir/resources/primitive"
)

// PrimitiveOutput describes one checked code or uri value.
type PrimitiveOutput struct {
	Value  string   `json:"value"`
	Valid  bool     `json:"valid"`
	Kind   string   `json:"kind,omitempty"`
	Error  string   `json:"error,omitempty"`
	Tokens []string `json:"tokens,omitempty"`

	Absolute *bool  `json:"absolute,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

func codeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "code <value>...",
		Short: "Check values against the FHIR code rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			outputs := make([]PrimitiveOutput, 0, len(args))
			for _, raw := range args {
				outputs = append(outputs, describeCode(raw))
			}
			return a.reportPrimitives(outputs)
		},
	}
}

func uriCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uri <value>...",
		Short: "Check values against the FHIR uri rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			outputs := make([]PrimitiveOutput, 0, len(args))
			for _, raw := range args {
				outputs = append(outputs, describeURI(raw))
			}
			return a.reportPrimitives(outputs)
		},
	}
}

func describeCode(raw string) PrimitiveOutput {
	out := PrimitiveOutput{Value: raw}
	code, err := primitive.NewCode(raw)
	if err != nil {
		var ce *primitive.CodeError
		if errors.As(err, &ce) {
			out.Kind = ce.Kind.String()
		}
		out.Error = err.Error()
		return out
	}
	out.Valid = true
	out.Tokens = code.Tokens()
	return out
}

func describeURI(raw string) PrimitiveOutput {
	out := PrimitiveOutput{Value: raw}
	u, err := primitive.NewURI(raw)
	if err != nil {
		var ue *primitive.URIError
		if errors.As(err, &ue) {
			out.Kind = ue.Kind.String()
		}
		out.Error = err.Error()
		return out
	}
	out.Valid = true
	abs := u.IsAbsolute()
	out.Absolute = &abs
	if id, ok := u.UUID(); ok {
		out.UUID = id.String()
	}
	out.Fragment, _ = u.Fragment()
	return out
}

func (a *app) reportPrimitives(outputs []PrimitiveOutput) error {
	failed := false
	for _, o := range outputs {
		if !o.Valid {
			failed = true
		}
	}

	if a.cfg.IsJSON() {
		if err := writeJSON(a.out, outputs); err != nil {
			return err
		}
	} else {
		for _, o := range outputs {
			printPrimitive(a, o)
		}
	}

	if failed {
		return errFailed
	}
	return nil
}

func printPrimitive(a *app, o PrimitiveOutput) {
	if !o.Valid {
		fmt.Fprintf(a.out, "INVALID %s [%s] %s\n", strconv.Quote(o.Value), o.Kind, o.Error)
		return
	}

	detail := ""
	switch {
	case o.Tokens != nil:
		detail = fmt.Sprintf("tokens=%d", len(o.Tokens))
	case o.Absolute != nil:
		detail = "relative"
		if *o.Absolute {
			detail = "absolute"
		}
		if o.UUID != "" {
			detail += " uuid=" + o.UUID
		}
		if o.Fragment != "" {
			detail += " fragment=" + o.Fragment
		}
	}
	fmt.Fprintf(a.out, "VALID   %s %s\n", strconv.Quote(o.Value), detail)
}
