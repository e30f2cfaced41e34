package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	fv "github.com/gofhir/resources"
)

// input is one named document read from a file or stdin.
type input struct {
	name string
	data []byte
	err  error
}

// readInputs expands glob patterns and reads every match. "-" reads r.
// A pattern with no matches yields an input carrying an error.
func readInputs(args []string, r io.Reader) []input {
	var inputs []input
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(r)
			inputs = append(inputs, input{name: "stdin", data: data, err: err})
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			inputs = append(inputs, input{name: arg, err: fmt.Errorf("bad pattern: %w", err)})
			continue
		}
		if len(matches) == 0 {
			inputs = append(inputs, input{name: arg, err: fmt.Errorf("no files match pattern")})
			continue
		}
		for _, m := range matches {
			data, err := os.ReadFile(m)
			inputs = append(inputs, input{name: m, data: data, err: err})
		}
	}
	return inputs
}

// ValidationOutput is the JSON form of one checked document.
type ValidationOutput struct {
	Resource     string        `json:"resource"`
	ResourceType string        `json:"resourceType,omitempty"`
	Valid        bool          `json:"valid"`
	Errors       int           `json:"errors"`
	Warnings     int           `json:"warnings"`
	Duration     string        `json:"duration,omitempty"`
	Checks       []string      `json:"checks,omitempty"`
	Issues       []IssueOutput `json:"issues,omitempty"`
}

// IssueOutput is the JSON form of one issue.
type IssueOutput struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Diagnostics string   `json:"diagnostics"`
	Expression  []string `json:"expression,omitempty"`
	Source      string   `json:"source,omitempty"`
}

func newValidationOutput(name string, result *fv.Result, duration time.Duration) ValidationOutput {
	counts := result.Counts()
	out := ValidationOutput{
		Resource:     name,
		ResourceType: result.ResourceType,
		Valid:        counts.Errors == 0,
		Errors:       counts.Errors,
		Warnings:     counts.Warnings,
		Duration:     duration.Round(time.Microsecond).String(),
	}
	// Issues are listed check by check.
	for _, group := range result.BySource() {
		if group.Source != "" {
			out.Checks = append(out.Checks, group.Source)
		}
		for _, iss := range group.Issues {
			out.Issues = append(out.Issues, IssueOutput{
				Severity:    string(iss.Severity),
				Code:        string(iss.Code),
				Diagnostics: iss.Diagnostics,
				Expression:  iss.Expression,
				Source:      iss.Source,
			})
		}
	}
	return out
}

// failedOutput reports a document that could not be checked at all.
func failedOutput(name string, err error) ValidationOutput {
	return ValidationOutput{
		Resource: name,
		Valid:    false,
		Errors:   1,
		Issues: []IssueOutput{{
			Severity:    string(fv.SeverityError),
			Code:        string(fv.IssueTypeStructure),
			Diagnostics: err.Error(),
		}},
	}
}

func printTextResult(w io.Writer, out ValidationOutput) {
	status := "VALID"
	if !out.Valid {
		status = "INVALID"
	}

	fmt.Fprintf(w, "== %s ==\n", out.Resource)
	fmt.Fprintf(w, "Status: %s\n", status)
	if out.ResourceType != "" {
		fmt.Fprintf(w, "Type: %s\n", out.ResourceType)
	}
	fmt.Fprintf(w, "Errors: %d, Warnings: %d\n", out.Errors, out.Warnings)
	if out.Duration != "" {
		fmt.Fprintf(w, "Duration: %s\n", out.Duration)
	}

	if len(out.Checks) > 0 {
		fmt.Fprintf(w, "Checks: %s\n", strings.Join(out.Checks, ", "))
	}

	if len(out.Issues) > 0 {
		fmt.Fprintln(w, "\nIssues:")
		source := "-"
		for _, iss := range out.Issues {
			if iss.Source != source {
				source = iss.Source
				heading := source
				if heading == "" {
					heading = "other"
				}
				fmt.Fprintf(w, "  %s:\n", heading)
			}
			location := ""
			if len(iss.Expression) > 0 {
				location = fmt.Sprintf(" @ %s", strings.Join(iss.Expression, ", "))
			}
			fmt.Fprintf(w, "    %s [%s] %s%s\n", severityLabel(iss.Severity), iss.Code, iss.Diagnostics, location)
		}
	}

	fmt.Fprintln(w)
}

func severityLabel(severity string) string {
	switch fv.IssueSeverity(severity) {
	case fv.SeverityFatal, fv.SeverityError:
		return "ERROR"
	case fv.SeverityWarning:
		return "WARN "
	case fv.SeverityInformation:
		return "INFO "
	default:
		return "     "
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
