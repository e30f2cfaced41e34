// Package constraint checks resources against FHIRPath invariants.
//
// Resources are encoded with the codec and the compiled expressions are
// evaluated against the JSON. An expression that yields an empty
// collection, or one that cannot be read as a boolean, passes.
package constraint

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofhir/fhirpath"
	"github.com/gofhir/fhirpath/funcs"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/cache"
	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/resource"
)

func init() {
	// trace() output goes nowhere unless a caller installs a logger.
	funcs.SetTraceLogger(funcs.NullTraceLogger{})
}

// Option configures a Validator.
type Option func(*Validator)

// WithCacheSize sets how many compiled expressions are kept.
func WithCacheSize(n int) Option {
	return func(v *Validator) {
		v.cacheSize = n
	}
}

// WithMetrics records cache hits and issues into m.
func WithMetrics(m *fv.Metrics) Option {
	return func(v *Validator) {
		v.metrics = m
	}
}

// WithCodec sets the codec used to encode resources before evaluation.
func WithCodec(c *codec.Codec) Option {
	return func(v *Validator) {
		v.codec = c
	}
}

// Validator evaluates invariants. It is safe for concurrent use.
type Validator struct {
	codec     *codec.Codec
	metrics   *fv.Metrics
	cacheSize int
	exprs     *cache.Cache[string, *fhirpath.Expression]

	mu         sync.RWMutex
	invariants map[string][]Invariant
}

// New creates a Validator loaded with DefaultInvariants.
func New(opts ...Option) *Validator {
	v := &Validator{
		cacheSize:  256,
		invariants: DefaultInvariants(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.codec == nil {
		v.codec = codec.New(codec.WithMetrics(v.metrics))
	}
	v.exprs = cache.New[string, *fhirpath.Expression](v.cacheSize)
	return v
}

// Register adds invariants for resourceType. The expressions are compiled
// immediately so a bad expression is reported here rather than during
// validation.
func (v *Validator) Register(resourceType string, invs ...Invariant) error {
	for _, inv := range invs {
		if inv.Key == "" {
			return fmt.Errorf("constraint: invariant for %s has no key", resourceType)
		}
		if _, err := v.compile(inv.Expression); err != nil {
			return fmt.Errorf("constraint: %s: %w", inv.Key, err)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.invariants[resourceType] = append(v.invariants[resourceType], invs...)
	return nil
}

// Invariants returns the rules registered for resourceType.
func (v *Validator) Invariants(resourceType string) []Invariant {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Invariant(nil), v.invariants[resourceType]...)
}

// Validate checks res against the invariants registered for its type.
func (v *Validator) Validate(ctx context.Context, res resource.Resource) (*fv.Result, error) {
	data, err := v.codec.Encode(res)
	if err != nil {
		return nil, err
	}
	return v.ValidateJSON(ctx, res.ResourceType(), data)
}

// ValidateJSON checks an already encoded resource of the given type.
func (v *Validator) ValidateJSON(ctx context.Context, resourceType string, data []byte) (*fv.Result, error) {
	result := fv.NewResult()
	result.ResourceType = resourceType
	result.Ran(fv.SourceConstraint)

	for _, inv := range v.Invariants(resourceType) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v.check(inv, data, result)
	}
	return result, nil
}

func (v *Validator) check(inv Invariant, data []byte, result *fv.Result) {
	out, err := v.evaluate(inv.Expression, data)
	if err != nil {
		v.add(result, fv.Warning(fv.IssueTypeProcessing).
			Diagnostics(fmt.Sprintf("unable to evaluate %s: %v", inv.Key, err)).
			At(inv.Path).
			Constraint(inv.Key).
			Source(fv.SourceConstraint).
			Build())
		return
	}
	if passed(out) {
		return
	}
	v.add(result, fv.NewIssue(inv.Severity, fv.IssueTypeInvariant).
		Diagnostics(fmt.Sprintf("Constraint failed: %s: '%s'", inv.Key, inv.Human)).
		At(inv.Path).
		Constraint(inv.Key).
		Source(fv.SourceConstraint).
		Build())
}

func (v *Validator) add(result *fv.Result, issue fv.Issue) {
	v.metrics.RecordIssue(issue.Severity)
	result.AddIssue(issue)
}

// Evaluate runs an ad-hoc FHIRPath expression against res.
func (v *Validator) Evaluate(res resource.Resource, expr string) (fhirpath.Collection, error) {
	data, err := v.codec.Encode(res)
	if err != nil {
		return nil, err
	}
	return v.evaluate(expr, data)
}

func (v *Validator) evaluate(expr string, data []byte) (fhirpath.Collection, error) {
	compiled, err := v.compile(expr)
	if err != nil {
		return nil, err
	}
	return compiled.Evaluate(data)
}

func (v *Validator) compile(expr string) (*fhirpath.Expression, error) {
	compiled, cached, err := v.exprs.GetOrLoad(expr, func() (*fhirpath.Expression, error) {
		return fhirpath.Compile(expr)
	})
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	if cached {
		v.metrics.RecordCacheHit()
	} else {
		v.metrics.RecordCacheMiss()
	}
	return compiled, nil
}

// CacheStats returns statistics for the compiled expression cache.
func (v *Validator) CacheStats() cache.Stats {
	return v.exprs.Stats()
}

func passed(out fhirpath.Collection) bool {
	if out.Empty() {
		return true
	}
	b, err := out.ToBoolean()
	if err != nil {
		return true
	}
	return b
}
