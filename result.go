package fhirresources

import (
	"slices"
	"sync"
)

// Check sources. Every Issue names the check that raised it in Source.
const (
	SourceDecode      = "decode"
	SourceConstraint  = "constraint"
	SourceTerminology = "terminology"
)

// maxPooledIssues bounds the issue capacity a released Result may keep.
const maxPooledIssues = 256

// Result gathers what the checks found for one resource. Each check
// records that it ran, even when it found nothing, and adds its issues.
// A Result is safe for concurrent use.
type Result struct {
	// ResourceType is the type of the checked resource.
	ResourceType string `json:"resourceType,omitempty"`

	// Valid is false once any error or fatal issue is added.
	Valid bool `json:"valid"`

	// Checks lists the sources that ran, in the order they first reported.
	Checks []string `json:"checks,omitempty"`

	Issues []Issue `json:"issues,omitempty"`

	mu sync.Mutex
}

// SourceIssues is the set of issues one check raised.
type SourceIssues struct {
	Source string
	Issues []Issue
}

// Counts tallies issues by severity. Fatal issues count as errors.
type Counts struct {
	Errors      int
	Warnings    int
	Information int
}

var resultPool = sync.Pool{
	New: func() any {
		return &Result{Issues: make([]Issue, 0, 8)}
	},
}

// NewResult returns an empty, valid result that is not pooled.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AcquireResult returns an empty, valid result from the pool. Hand it back
// with Release once nothing refers to it.
func AcquireResult() *Result {
	r := resultPool.Get().(*Result)
	r.ResourceType = ""
	r.Valid = true
	r.Checks = r.Checks[:0]
	r.Issues = r.Issues[:0]
	return r
}

// Release returns r to the pool. r must not be used afterwards.
func (r *Result) Release() {
	if r == nil || cap(r.Issues) > maxPooledIssues {
		return
	}
	resultPool.Put(r)
}

// Ran records that the named check ran.
func (r *Result) Ran(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran(source)
}

// AddIssue adds issue and records its source as a check that ran.
func (r *Result) AddIssue(issue Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(issue)
}

// AddIssues adds issues in order.
func (r *Result) AddIssues(issues []Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, issue := range issues {
		r.add(issue)
	}
}

// Merge adds the checks and issues of other to r.
func (r *Result) Merge(other *Result) {
	if other == nil || other == r {
		return
	}

	other.mu.Lock()
	checks := slices.Clone(other.Checks)
	issues := slices.Clone(other.Issues)
	other.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, source := range checks {
		r.ran(source)
	}
	for _, issue := range issues {
		r.add(issue)
	}
}

func (r *Result) ran(source string) {
	if source != "" && !slices.Contains(r.Checks, source) {
		r.Checks = append(r.Checks, source)
	}
}

func (r *Result) add(issue Issue) {
	r.ran(issue.Source)
	r.Issues = append(r.Issues, issue)
	if issue.IsError() {
		r.Valid = false
	}
}

// Counts tallies the issues by severity.
func (r *Result) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()

	var c Counts
	for _, issue := range r.Issues {
		switch {
		case issue.IsError():
			c.Errors++
		case issue.IsWarning():
			c.Warnings++
		default:
			c.Information++
		}
	}
	return c
}

// HasErrors reports whether any error or fatal issue was added.
func (r *Result) HasErrors() bool {
	return r.Counts().Errors > 0
}

// ErrorCount returns the number of error and fatal issues.
func (r *Result) ErrorCount() int {
	return r.Counts().Errors
}

// WarningCount returns the number of warnings.
func (r *Result) WarningCount() int {
	return r.Counts().Warnings
}

// Errors returns the error and fatal issues in the order they were added.
func (r *Result) Errors() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []Issue
	for _, issue := range r.Issues {
		if issue.IsError() {
			errs = append(errs, issue)
		}
	}
	return errs
}

// BySource groups the issues by the check that raised them. Groups follow
// Checks, so a check that ran clean appears with no issues. Issues without
// a source come last under "".
func (r *Result) BySource() []SourceIssues {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups := make([]SourceIssues, 0, len(r.Checks)+1)
	for _, source := range r.Checks {
		groups = append(groups, SourceIssues{Source: source})
	}
	for _, issue := range r.Issues {
		i := slices.IndexFunc(groups, func(g SourceIssues) bool { return g.Source == issue.Source })
		if i < 0 {
			groups = append(groups, SourceIssues{})
			i = len(groups) - 1
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}
	return groups
}
