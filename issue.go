package fhirresources

// IssueSeverity represents the severity of an issue.
// Maps to OperationOutcome.issue.severity in FHIR.
type IssueSeverity string

const (
	// SeverityFatal indicates the check could not run at all.
	SeverityFatal IssueSeverity = "fatal"
	// SeverityError indicates the resource breaks a rule.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a potential problem that should be reviewed.
	SeverityWarning IssueSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation IssueSeverity = "information"
)

// IssueType represents the type of issue.
// Maps to OperationOutcome.issue.code in FHIR.
type IssueType string

const (
	// IssueTypeInvalid indicates the content is invalid.
	IssueTypeInvalid IssueType = "invalid"
	// IssueTypeStructure indicates a structural issue in the encoded form.
	IssueTypeStructure IssueType = "structure"
	// IssueTypeRequired indicates a required element is missing.
	IssueTypeRequired IssueType = "required"
	// IssueTypeValue indicates an invalid primitive value.
	IssueTypeValue IssueType = "value"
	// IssueTypeInvariant indicates an invariant violation.
	IssueTypeInvariant IssueType = "invariant"
	// IssueTypeProcessing indicates the check itself failed.
	IssueTypeProcessing IssueType = "processing"
	// IssueTypeCodeInvalid indicates a code outside its value set.
	IssueTypeCodeInvalid IssueType = "code-invalid"
	// IssueTypeNotSupported indicates an unsupported resource type.
	IssueTypeNotSupported IssueType = "not-supported"
)

// Issue represents a single finding about a resource.
// It maps to OperationOutcome.issue in FHIR.
type Issue struct {
	// Severity of the issue (error, warning, information)
	Severity IssueSeverity `json:"severity"`

	// Code identifying the type of issue
	Code IssueType `json:"code"`

	// Diagnostics contains human-readable details about the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// Expression contains FHIRPath expression(s) to the element(s) in error
	Expression []string `json:"expression,omitempty"`

	// Source names the check that produced this issue (decode, constraint, terminology)
	Source string `json:"source,omitempty"`

	// ConstraintKey is the invariant key (e.g., "pat-1") for invariant violations
	ConstraintKey string `json:"constraintKey,omitempty"`
}

// IsError returns true if this is an error or fatal issue.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// IsWarning returns true if this is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	path := ""
	if len(i.Expression) > 0 {
		path = " at " + i.Expression[0]
	}
	key := ""
	if i.ConstraintKey != "" {
		key = " [" + i.ConstraintKey + "]"
	}
	return string(i.Severity) + key + ": " + i.Diagnostics + path
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue creates a new IssueBuilder.
func NewIssue(severity IssueSeverity, code IssueType) *IssueBuilder {
	return &IssueBuilder{
		issue: Issue{
			Severity: severity,
			Code:     code,
		},
	}
}

// Error creates an error issue.
func Error(code IssueType) *IssueBuilder {
	return NewIssue(SeverityError, code)
}

// Warning creates a warning issue.
func Warning(code IssueType) *IssueBuilder {
	return NewIssue(SeverityWarning, code)
}

// Diagnostics sets the diagnostic message.
func (b *IssueBuilder) Diagnostics(msg string) *IssueBuilder {
	b.issue.Diagnostics = msg
	return b
}

// At sets the expression path.
func (b *IssueBuilder) At(path string) *IssueBuilder {
	b.issue.Expression = []string{path}
	return b
}

// Source sets the name of the producing check.
func (b *IssueBuilder) Source(source string) *IssueBuilder {
	b.issue.Source = source
	return b
}

// Constraint sets the constraint key.
func (b *IssueBuilder) Constraint(key string) *IssueBuilder {
	b.issue.ConstraintKey = key
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
