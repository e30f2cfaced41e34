package terminology

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/gofhir/fhir/r4"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/cache"
)

var (
	// ErrValueSetNotFound is returned when a value set URL is not loaded.
	ErrValueSetNotFound = errors.New("terminology: value set not found")
	// ErrCodeSystemNotFound is returned when a code system URL is not loaded.
	ErrCodeSystemNotFound = errors.New("terminology: code system not found")
	// ErrNoCanonical is returned when a definition has no url.
	ErrNoCanonical = errors.New("terminology: definition has no url")
)

// Validation is the outcome of checking one code.
type Validation struct {
	Valid   bool
	Code    string
	System  string
	Display string
	Message string
}

// Concept is one member of an expanded value set.
type Concept struct {
	System  string
	Code    string
	Display string
}

type concept struct {
	display string
	parents []string
}

type codeSystem struct {
	url      string
	concepts map[string]concept
	children map[string][]string
}

// include is a compose.include entry waiting for its code system.
type include struct {
	system   string
	property string
	op       string
	value    string
}

type valueSet struct {
	url      string
	codes    map[string]map[string]string // system -> code -> display
	pending  []include
	expanded bool
}

// Option configures a Service.
type Option func(*Service)

// WithResultCache memoizes up to n ValidateCode outcomes.
func WithResultCache(n int) Option {
	return func(s *Service) {
		s.results = cache.New[string, Validation](n)
	}
}

// WithMetrics records result cache hits and misses into m.
func WithMetrics(m *fv.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service validates codes against in-memory value sets. It is safe for
// concurrent use.
type Service struct {
	mu          sync.RWMutex
	valueSets   map[string]*valueSet
	codeSystems map[string]*codeSystem

	results *cache.Cache[string, Validation]
	metrics *fv.Metrics
}

// New creates a Service preloaded with the built-in value sets.
func New(opts ...Option) *Service {
	s := NewEmpty(opts...)
	s.loadBuiltins()
	return s
}

// NewEmpty creates a Service with nothing loaded.
func NewEmpty(opts ...Option) *Service {
	s := &Service{
		valueSets:   make(map[string]*valueSet),
		codeSystems: make(map[string]*codeSystem),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadCodeSystem adds or replaces a code system.
func (s *Service) LoadCodeSystem(cs *r4.CodeSystem) error {
	if cs == nil || cs.Url == nil || *cs.Url == "" {
		return ErrNoCanonical
	}

	sys := &codeSystem{
		url:      *cs.Url,
		concepts: make(map[string]concept),
		children: make(map[string][]string),
	}
	collectConcepts(sys, cs.Concept, "")
	for code, c := range sys.concepts {
		for _, parent := range c.parents {
			sys.children[parent] = append(sys.children[parent], code)
		}
	}

	s.mu.Lock()
	s.codeSystems[sys.url] = sys
	// Value sets composed from this system may now expand differently.
	for _, vs := range s.valueSets {
		if len(vs.pending) > 0 {
			vs.expanded = false
		}
	}
	s.mu.Unlock()
	s.clearResults()
	return nil
}

func collectConcepts(sys *codeSystem, concepts []r4.CodeSystemConcept, parent string) {
	for i := range concepts {
		c := &concepts[i]
		if c.Code == nil {
			continue
		}

		entry := concept{}
		if c.Display != nil {
			entry.display = *c.Display
		}
		if parent != "" {
			entry.parents = append(entry.parents, parent)
		}
		for _, p := range c.Property {
			if p.Code != nil && *p.Code == "subsumedBy" && p.ValueCode != nil {
				entry.parents = append(entry.parents, *p.ValueCode)
			}
		}
		sys.concepts[*c.Code] = entry

		collectConcepts(sys, c.Concept, *c.Code)
	}
}

// LoadValueSet adds or replaces a value set. An expansion is used as-is;
// otherwise compose.include entries are expanded against loaded code
// systems on first use.
func (s *Service) LoadValueSet(vs *r4.ValueSet) error {
	if vs == nil || vs.Url == nil || *vs.Url == "" {
		return ErrNoCanonical
	}

	set := &valueSet{
		url:   *vs.Url,
		codes: make(map[string]map[string]string),
	}
	if vs.Expansion != nil {
		addContains(set, vs.Expansion.Contains)
		set.expanded = true
	} else if vs.Compose != nil {
		addIncludes(set, vs.Compose.Include)
	}

	s.mu.Lock()
	s.valueSets[set.url] = set
	s.mu.Unlock()
	s.clearResults()
	return nil
}

func (set *valueSet) add(system, code, display string) {
	if set.codes[system] == nil {
		set.codes[system] = make(map[string]string)
	}
	set.codes[system][code] = display
}

func addContains(set *valueSet, contains []r4.ValueSetExpansionContains) {
	for i := range contains {
		c := &contains[i]
		if c.System != nil && c.Code != nil {
			set.add(*c.System, *c.Code, deref(c.Display))
		}
		addContains(set, c.Contains)
	}
}

func addIncludes(set *valueSet, includes []r4.ValueSetComposeInclude) {
	for i := range includes {
		inc := &includes[i]
		if inc.System == nil {
			continue
		}
		system := *inc.System

		for _, c := range inc.Concept {
			if c.Code != nil {
				set.add(system, *c.Code, deref(c.Display))
			}
		}
		for _, f := range inc.Filter {
			if f.Property == nil || f.Op == nil || f.Value == nil {
				continue
			}
			set.pending = append(set.pending, include{
				system:   system,
				property: *f.Property,
				op:       string(*f.Op),
				value:    *f.Value,
			})
		}
		if len(inc.Concept) == 0 && len(inc.Filter) == 0 {
			set.pending = append(set.pending, include{system: system, op: "all"})
		}
	}
}

// expand resolves pending includes. Callers hold the write lock.
func (s *Service) expand(set *valueSet) {
	if set.expanded {
		return
	}
	for _, inc := range set.pending {
		sys, ok := s.codeSystems[inc.system]
		if !ok {
			continue
		}
		switch {
		case inc.op == "all":
			for code, c := range sys.concepts {
				set.add(sys.url, code, c.display)
			}
		case inc.property == "concept" && (inc.op == "is-a" || inc.op == "descendent-of"):
			for _, code := range descendants(sys, inc.value, inc.op == "is-a") {
				set.add(sys.url, code, sys.concepts[code].display)
			}
		case inc.property == "code" && inc.op == "regex":
			re, err := regexp.Compile(inc.value)
			if err != nil {
				continue
			}
			for code, c := range sys.concepts {
				if re.MatchString(code) {
					set.add(sys.url, code, c.display)
				}
			}
		case inc.property == "code" && inc.op == "=":
			if c, ok := sys.concepts[inc.value]; ok {
				set.add(sys.url, inc.value, c.display)
			}
		}
	}
	set.expanded = true
}

func descendants(sys *codeSystem, root string, includeRoot bool) []string {
	var out []string
	seen := make(map[string]bool)

	var walk func(code string)
	walk = func(code string) {
		if seen[code] {
			return
		}
		seen[code] = true
		if _, ok := sys.concepts[code]; ok && (includeRoot || code != root) {
			out = append(out, code)
		}
		for _, child := range sys.children[code] {
			walk(child)
		}
	}
	walk(root)
	return out
}

// lookup returns the expanded value set for url.
func (s *Service) lookup(url string) (*valueSet, error) {
	s.mu.RLock()
	set, ok := s.valueSets[url]
	ready := ok && set.expanded
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrValueSetNotFound, url)
	}
	if ready {
		return set, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expand(set)
	return set, nil
}

// ValidateCode checks code against valueSetURL, or against the code system
// named by system when valueSetURL is empty. An empty system matches the
// code in any system of the value set. A "|version" suffix on the value
// set url is ignored.
func (s *Service) ValidateCode(ctx context.Context, system, code, valueSetURL string) (Validation, error) {
	if err := ctx.Err(); err != nil {
		return Validation{}, err
	}
	valueSetURL = stripVersion(valueSetURL)

	if s.results == nil {
		return s.validate(system, code, valueSetURL)
	}

	key := system + "|" + code + "|" + valueSetURL
	v, cached, err := s.results.GetOrLoad(key, func() (Validation, error) {
		return s.validate(system, code, valueSetURL)
	})
	if err == nil {
		if cached {
			s.metrics.RecordCacheHit()
		} else {
			s.metrics.RecordCacheMiss()
		}
	}
	return v, err
}

func (s *Service) validate(system, code, valueSetURL string) (Validation, error) {
	out := Validation{Code: code, System: system}
	if code == "" {
		out.Message = "code is empty"
		return out, nil
	}

	if valueSetURL == "" {
		if system == "" {
			out.Message = "no system or value set to check against"
			return out, nil
		}
		s.mu.RLock()
		sys, ok := s.codeSystems[system]
		var c concept
		var found bool
		if ok {
			c, found = sys.concepts[code]
		}
		s.mu.RUnlock()
		if !ok {
			return Validation{}, fmt.Errorf("%w: %s", ErrCodeSystemNotFound, system)
		}
		if !found {
			out.Message = fmt.Sprintf("code '%s' is not in code system '%s'", code, system)
			return out, nil
		}
		out.Valid, out.Display = true, c.display
		return out, nil
	}

	set, err := s.lookup(valueSetURL)
	if err != nil {
		return Validation{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for sys, codes := range set.codes {
		if system != "" && sys != system {
			continue
		}
		if display, ok := codes[code]; ok {
			out.Valid, out.System, out.Display = true, sys, display
			return out, nil
		}
	}
	out.Message = fmt.Sprintf("code '%s' is not in value set '%s'", code, valueSetURL)
	return out, nil
}

// Expand returns the members of a value set, sorted by system and code.
func (s *Service) Expand(ctx context.Context, url string) ([]Concept, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set, err := s.lookup(stripVersion(url))
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Concept
	for sys, codes := range set.codes {
		for code, display := range codes {
			out = append(out, Concept{System: sys, Code: code, Display: display})
		}
	}
	sortConcepts(out)
	return out, nil
}

// ValueSetCount returns the number of loaded value sets.
func (s *Service) ValueSetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.valueSets)
}

// CodeSystemCount returns the number of loaded code systems.
func (s *Service) CodeSystemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.codeSystems)
}

func (s *Service) clearResults() {
	if s.results != nil {
		s.results.Clear()
	}
}

func sortConcepts(cs []Concept) {
	slices.SortFunc(cs, func(a, b Concept) int {
		if c := cmp.Compare(a.System, b.System); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}

func stripVersion(url string) string {
	if i := strings.LastIndex(url, "|"); i != -1 {
		return url[:i]
	}
	return url
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
