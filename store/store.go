// Package store persists resources as FHIR JSON keyed by resource type
// and id.
//
// Three backends share one contract: MemoryStore for tests and one-shot
// tools, BoltStore for a single local file and PostgresStore for a shared
// database. Writes go through the codec's encoder. Reads decode in trusted
// mode since every stored document was written by this package.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/pkg/logger"
	"github.com/gofhir/resources/resource"
)

var (
	// ErrNotFound is returned when no resource has the requested type and id.
	ErrNotFound = errors.New("store: resource not found")
	// ErrInvalidID is returned for ids outside [A-Za-z0-9-.]{1,64}.
	ErrInvalidID = errors.New("store: invalid id")
	// ErrNilResource is returned by Put for a nil resource.
	ErrNilResource = errors.New("store: nil resource")
)

// Store is implemented by every backend. Implementations are safe for
// concurrent use.
type Store interface {
	// Put inserts or replaces res under its resource type and id.
	Put(ctx context.Context, id string, res resource.Resource) error
	// Get returns the resource or ErrNotFound.
	Get(ctx context.Context, resourceType, id string) (resource.Resource, error)
	// Delete removes the resource. Deleting a missing resource is not an error.
	Delete(ctx context.Context, resourceType, id string) error
	// List returns every resource of a type, ordered by id.
	List(ctx context.Context, resourceType string) ([]Entry, error)
	// Close releases the backend.
	Close() error
}

// Entry is one stored resource.
type Entry struct {
	ID       string
	Resource resource.Resource
}

// NewID returns a fresh random id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a legal FHIR logical id.
func ValidID(id string) bool {
	if len(id) == 0 || len(id) > 64 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

// Option configures a backend.
type Option func(*options)

type options struct {
	logger  *logger.Logger
	metrics *fv.Metrics
}

// WithLogger sets the logger for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records encode and decode activity into m.
func WithMetrics(m *fv.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// base holds what every backend shares: the write and read codecs.
type base struct {
	writer *codec.Codec
	reader *codec.Codec
	log    *logger.Logger
}

func newBase(opts []Option) base {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Default()
	}
	return base{
		writer: codec.New(codec.WithMetrics(o.metrics)),
		reader: codec.New(codec.WithMetrics(o.metrics), codec.WithTrusted(true)),
		log:    o.logger,
	}
}

// encode checks the key and encodes res.
func (b base) encode(id string, res resource.Resource) ([]byte, error) {
	if res == nil {
		return nil, ErrNilResource
	}
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return b.writer.Encode(res)
}

func (b base) decode(resourceType, id string, data []byte) (resource.Resource, error) {
	res, err := b.reader.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: reading %s/%s: %w", resourceType, id, err)
	}
	return res, nil
}
