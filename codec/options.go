package codec

import (
	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/pkg/logger"
)

// Option configures a Codec.
type Option func(*Options)

// Options holds all configuration for a Codec.
type Options struct {
	// Indent pretty-prints encoded output with two-space indentation.
	Indent bool

	// Strict rejects keys the schema does not define.
	Strict bool

	// Trusted rebuilds codes and uris without validating them. Only for
	// payloads this package wrote itself, such as store reads.
	Trusted bool

	// Metrics receives encode and decode counts when non-nil.
	Metrics *fv.Metrics

	// Logger receives debug output. Nil means logger.Default().
	Logger *logger.Logger
}

// DefaultOptions returns the default configuration: compact, lenient on
// unknown keys, validating.
func DefaultOptions() *Options {
	return &Options{}
}

// WithIndent enables indented output.
func WithIndent(enable bool) Option {
	return func(o *Options) {
		o.Indent = enable
	}
}

// WithStrict enables rejection of unknown keys.
func WithStrict(enable bool) Option {
	return func(o *Options) {
		o.Strict = enable
	}
}

// WithTrusted skips code and uri validation on decode.
func WithTrusted(enable bool) Option {
	return func(o *Options) {
		o.Trusted = enable
	}
}

// WithMetrics records activity into m.
func WithMetrics(m *fv.Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
