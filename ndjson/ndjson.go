// Package ndjson reads and writes newline-delimited FHIR JSON, the bulk
// data format with one resource per line.
package ndjson

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/pkg/logger"
	"github.com/gofhir/resources/resource"
	"github.com/gofhir/resources/worker"
)

// DefaultMaxLineSize is the longest line DecodeAll accepts by default.
const DefaultMaxLineSize = 16 << 20

// Writer writes one compact resource per line.
type Writer struct {
	w     *bufio.Writer
	codec *codec.Codec
	count int
}

// NewWriter creates a Writer. Indentation is always disabled.
func NewWriter(w io.Writer, opts ...codec.Option) *Writer {
	opts = append(slices.Clone(opts), codec.WithIndent(false))
	return &Writer{
		w:     bufio.NewWriter(w),
		codec: codec.New(opts...),
	}
}

// Write encodes res and appends it as a line.
func (w *Writer) Write(res resource.Resource) error {
	data, err := w.codec.Encode(res)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of resources written.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Line is the outcome of decoding one input line.
type Line struct {
	// Number is the 1-based line number in the input.
	Number int

	// Resource is set when Err is nil.
	Resource resource.Resource

	// Err is the decode error for this line, usually a *codec.DecodeError.
	Err error
}

// Option configures DecodeAll.
type Option func(*options)

type options struct {
	workers     int
	maxLineSize int
	codecOpts   []codec.Option
	logger      *logger.Logger
}

// WithWorkers sets the number of decoding goroutines. Defaults to
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMaxLineSize sets the longest accepted line in bytes.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		o.maxLineSize = n
	}
}

// WithCodecOptions configures the codec each line is decoded with.
func WithCodecOptions(opts ...codec.Option) Option {
	return func(o *options) {
		o.codecOpts = append(o.codecOpts, opts...)
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// DecodeAll reads r line by line and decodes each non-blank line on a
// worker pool. Lines come back in input order, each with its own error; a
// bad line never stops the others. The returned error is set only when
// reading r fails or ctx is cancelled.
func DecodeAll(ctx context.Context, r io.Reader, opts ...Option) ([]Line, error) {
	o := &options{
		workers:     runtime.NumCPU(),
		maxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Default()
	}

	c := codec.New(o.codecOpts...)
	pool := worker.NewPool(ctx, func(_ context.Context, payload []byte) (resource.Resource, error) {
		return c.Decode(payload)
	}, o.workers)

	var lines []Line
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for res := range pool.Results() {
			lines = append(lines, Line{Number: res.Index, Resource: res.Value, Err: res.Err})
		}
	}()

	readErr := submitLines(r, pool, o.maxLineSize)
	pool.Close()
	<-collected

	if readErr != nil {
		return nil, readErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(lines, func(a, b Line) int { return a.Number - b.Number })
	stats := pool.Stats()
	o.logger.Debug("ndjson: decoded %d lines (%d failed) on %d workers, avg %v",
		stats.JobsCompleted, stats.JobsFailed, stats.Workers, stats.AvgDuration)
	return lines, nil
}

func submitLines(r io.Reader, pool *worker.Pool[resource.Resource], maxLineSize int) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		// The scanner reuses its buffer.
		if !pool.Submit(worker.Job{Index: n, Payload: bytes.Clone(line)}) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ndjson: line %d: %w", n+1, err)
	}
	return nil
}

// Summary aggregates the outcome of a DecodeAll call.
type Summary struct {
	Total    int
	Failed   int
	ByType   map[string]int
	ByFailed map[string]int // failure count by codec.DecodeErrorKind
}

// Summarize counts decoded resources by type and failures by kind.
func Summarize(lines []Line) Summary {
	s := Summary{
		Total:    len(lines),
		ByType:   make(map[string]int),
		ByFailed: make(map[string]int),
	}
	for _, l := range lines {
		if l.Err != nil {
			s.Failed++
			s.ByFailed[failureKind(l.Err)]++
			continue
		}
		s.ByType[l.Resource.ResourceType()]++
	}
	return s
}

func failureKind(err error) string {
	var de *codec.DecodeError
	if errors.As(err, &de) {
		return de.Kind.String()
	}
	return "Other"
}
