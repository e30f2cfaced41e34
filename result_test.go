package fhirresources

// Value-level tests use the testing package alone.

import (
	"slices"
	"sync"
	"testing"
)

func TestResult_Basic(t *testing.T) {
	r := NewResult()

	if !r.Valid {
		t.Error("NewResult should be valid initially")
	}
	if len(r.Issues) != 0 || len(r.Checks) != 0 {
		t.Errorf("NewResult() = %+v; want empty", r)
	}
}

func TestResult_AddIssue(t *testing.T) {
	r := NewResult()

	r.AddIssue(Warning(IssueTypeCodeInvalid).Source(SourceTerminology).Build())
	if !r.Valid {
		t.Error("Result should still be valid after warning")
	}

	r.AddIssue(Error(IssueTypeInvariant).Diagnostics("broken").At("Patient").Source(SourceConstraint).Build())
	r.AddIssue(NewIssue(SeverityInformation, IssueTypeValue).Build())
	if r.Valid {
		t.Error("Result should be invalid after error")
	}

	want := Counts{Errors: 1, Warnings: 1, Information: 1}
	if got := r.Counts(); got != want {
		t.Errorf("Counts() = %+v; want %+v", got, want)
	}
	if r.ErrorCount() != 1 || r.WarningCount() != 1 || !r.HasErrors() {
		t.Errorf("ErrorCount() = %d, WarningCount() = %d, HasErrors() = %t", r.ErrorCount(), r.WarningCount(), r.HasErrors())
	}
	if errs := r.Errors(); len(errs) != 1 || errs[0].Diagnostics != "broken" {
		t.Errorf("Errors() = %v", errs)
	}
	if want := []string{SourceTerminology, SourceConstraint}; !slices.Equal(r.Checks, want) {
		t.Errorf("Checks = %v; want %v", r.Checks, want)
	}
}

func TestResult_AddIssues_Empty(t *testing.T) {
	r := NewResult()
	r.AddIssues(nil)
	r.AddIssues([]Issue{})

	if len(r.Issues) != 0 || !r.Valid {
		t.Errorf("AddIssues(empty) changed the result: %+v", r)
	}
}

func TestResult_Ran(t *testing.T) {
	r := NewResult()
	r.Ran(SourceDecode)
	r.Ran(SourceDecode)
	r.Ran("")

	if want := []string{SourceDecode}; !slices.Equal(r.Checks, want) {
		t.Errorf("Checks = %v; want %v", r.Checks, want)
	}
	if !r.Valid {
		t.Error("Ran should not affect validity")
	}
}

func TestResult_Merge(t *testing.T) {
	a := NewResult()
	a.Ran(SourceDecode)

	b := NewResult()
	b.Ran(SourceConstraint)
	b.AddIssue(Error(IssueTypeValue).Diagnostics("bad").At("Account.status").Source(SourceTerminology).Build())

	a.Merge(b)
	a.Merge(nil)
	a.Merge(a)

	if a.Valid {
		t.Error("Merge should carry errors over")
	}
	if len(a.Issues) != 1 {
		t.Errorf("len(Issues) = %d; want 1", len(a.Issues))
	}
	if want := []string{SourceDecode, SourceConstraint, SourceTerminology}; !slices.Equal(a.Checks, want) {
		t.Errorf("Checks = %v; want %v", a.Checks, want)
	}
}

func TestResult_BySource(t *testing.T) {
	r := NewResult()
	r.Ran(SourceDecode)
	r.AddIssue(Error(IssueTypeInvariant).Source(SourceConstraint).Constraint("pat-1").Build())
	r.AddIssue(Warning(IssueTypeProcessing).Build())
	r.AddIssue(Warning(IssueTypeCodeInvalid).Source(SourceTerminology).Build())
	r.AddIssue(Error(IssueTypeInvariant).Source(SourceConstraint).Constraint("pat-2").Build())

	groups := r.BySource()

	tests := []struct {
		source string
		issues int
	}{
		{SourceDecode, 0},
		{SourceConstraint, 2},
		{SourceTerminology, 1},
		{"", 1},
	}
	if len(groups) != len(tests) {
		t.Fatalf("len(BySource()) = %d; want %d: %+v", len(groups), len(tests), groups)
	}
	for i, tt := range tests {
		if groups[i].Source != tt.source || len(groups[i].Issues) != tt.issues {
			t.Errorf("BySource()[%d] = %q with %d issues; want %q with %d",
				i, groups[i].Source, len(groups[i].Issues), tt.source, tt.issues)
		}
	}
	if groups[1].Issues[1].ConstraintKey != "pat-2" {
		t.Errorf("issues within a source should keep their order: %+v", groups[1].Issues)
	}
}

func TestResult_Pool(t *testing.T) {
	r := AcquireResult()
	r.ResourceType = "Patient"
	r.AddIssue(Error(IssueTypeInvalid).Source(SourceDecode).Build())
	r.Release()

	again := AcquireResult()
	defer again.Release()
	if !again.Valid || len(again.Issues) != 0 || len(again.Checks) != 0 || again.ResourceType != "" {
		t.Errorf("AcquireResult() = %+v; want a reset result", again)
	}

	var nilResult *Result
	nilResult.Release()
}

func TestResult_Concurrent(t *testing.T) {
	r := NewResult()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.AddIssue(Warning(IssueTypeInvariant).Source(SourceConstraint).Build())
		}()
	}
	wg.Wait()

	if r.WarningCount() != 50 {
		t.Errorf("WarningCount() = %d; want 50", r.WarningCount())
	}
	if len(r.Checks) != 1 {
		t.Errorf("Checks = %v; want one entry", r.Checks)
	}
}
