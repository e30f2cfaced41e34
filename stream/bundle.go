// Package stream decodes the Account and Patient entries of FHIR Bundles,
// either one entry at a time from a reader or in parallel from a buffered
// document.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/buger/jsonparser"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/resource"
	"github.com/gofhir/resources/worker"
)

// ErrNotBundle is returned when the document's resourceType is not Bundle.
var ErrNotBundle = errors.New("stream: document is not a Bundle")

// Entry is the outcome for a single bundle entry.
type Entry struct {
	// Index is the position of the entry in the bundle, or -1 for a
	// bundle-level failure.
	Index int

	// FullURL is the fullUrl of the entry (if present)
	FullURL string

	// ResourceType is the type of resource in the entry
	ResourceType string

	// Resource is the decoded resource. It is nil when Err is set or the
	// entry carries no resource.
	Resource resource.Resource

	// Result holds the issues reported by the check function, if any.
	Result *fv.Result

	// Err is the decode or check error for this entry.
	Err error
}

// CheckFunc inspects a decoded entry resource.
type CheckFunc func(ctx context.Context, res resource.Resource) (*fv.Result, error)

// BundleReader decodes bundle entries.
type BundleReader struct {
	codec       *codec.Codec
	check       CheckFunc
	bufferSize  int
	workerCount int
}

// NewBundleReader creates a reader whose entries are decoded with a codec
// built from opts.
func NewBundleReader(opts ...codec.Option) *BundleReader {
	return &BundleReader{
		codec:       codec.New(opts...),
		bufferSize:  100,
		workerCount: runtime.NumCPU(),
	}
}

// WithCheck runs fn on every decoded resource.
func (b *BundleReader) WithCheck(fn CheckFunc) *BundleReader {
	b.check = fn
	return b
}

// WithBufferSize sets the channel buffer size.
func (b *BundleReader) WithBufferSize(size int) *BundleReader {
	if size > 0 {
		b.bufferSize = size
	}
	return b
}

// WithWorkerCount sets the number of parallel workers.
func (b *BundleReader) WithWorkerCount(count int) *BundleReader {
	if count > 0 {
		b.workerCount = count
	}
	return b
}

// Stream reads a bundle from r and emits its entries in order as they are
// decoded. Only one entry is held in memory at a time. A bundle-level
// failure is emitted as an Entry with Index -1, after which the channel
// closes.
func (b *BundleReader) Stream(ctx context.Context, r io.Reader) <-chan Entry {
	out := make(chan Entry, b.bufferSize)

	go func() {
		defer close(out)

		dec := json.NewDecoder(r)
		if err := expectDelim(dec, '{'); err != nil {
			out <- Entry{Index: -1, Err: fmt.Errorf("stream: reading bundle: %w", err)}
			return
		}

		for dec.More() {
			if err := ctx.Err(); err != nil {
				out <- Entry{Index: -1, Err: err}
				return
			}

			token, err := dec.Token()
			if err != nil {
				out <- Entry{Index: -1, Err: fmt.Errorf("stream: reading field: %w", err)}
				return
			}
			field, _ := token.(string)

			switch field {
			case "resourceType":
				var rt string
				if err := dec.Decode(&rt); err != nil || rt != "Bundle" {
					out <- Entry{Index: -1, Err: ErrNotBundle}
					return
				}
			case "entry":
				b.streamEntries(ctx, dec, out)
				return
			default:
				var skip json.RawMessage
				if err := dec.Decode(&skip); err != nil {
					out <- Entry{Index: -1, Err: fmt.Errorf("stream: skipping %s: %w", field, err)}
					return
				}
			}
		}
	}()

	return out
}

type rawEntry struct {
	FullURL  string          `json:"fullUrl"`
	Resource json.RawMessage `json:"resource"`
}

func (b *BundleReader) streamEntries(ctx context.Context, dec *json.Decoder, out chan<- Entry) {
	if err := expectDelim(dec, '['); err != nil {
		out <- Entry{Index: -1, Err: fmt.Errorf("stream: reading entry array: %w", err)}
		return
	}

	for index := 0; dec.More(); index++ {
		if err := ctx.Err(); err != nil {
			out <- Entry{Index: index, Err: err}
			return
		}

		var raw rawEntry
		if err := dec.Decode(&raw); err != nil {
			// The decoder cannot resynchronise after a syntax error.
			out <- Entry{Index: index, Err: fmt.Errorf("stream: entry %d: %w", index, err)}
			return
		}
		out <- b.entry(ctx, index, raw.FullURL, raw.Resource)
	}
}

// entry decodes and checks one entry's resource.
func (b *BundleReader) entry(ctx context.Context, index int, fullURL string, data []byte) Entry {
	e := Entry{Index: index, FullURL: fullURL}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return e
	}

	e.ResourceType, _ = codec.SniffResourceType(data)
	e.Resource, e.Result, e.Err = b.decode(ctx, data)
	return e
}

func (b *BundleReader) decode(ctx context.Context, data []byte) (resource.Resource, *fv.Result, error) {
	res, err := b.codec.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	if b.check == nil {
		return res, nil, nil
	}
	result, err := b.check(ctx, res)
	if err != nil {
		return nil, nil, err
	}
	return res, result, nil
}

// decoded is what a worker hands back for one entry.
type decoded struct {
	resource resource.Resource
	result   *fv.Result
}

// DecodeParallel decodes every entry of a buffered bundle on a worker pool.
// Entries are returned in bundle order. The error is set for a document
// that is not a Bundle or when ctx is cancelled; entry failures are
// reported per entry.
func (b *BundleReader) DecodeParallel(ctx context.Context, data []byte) ([]Entry, error) {
	rt, err := codec.SniffResourceType(data)
	if err != nil {
		return nil, err
	}
	if rt != "Bundle" {
		return nil, fmt.Errorf("%w (got %q)", ErrNotBundle, rt)
	}

	// Split the entry array first so workers only see resource payloads.
	var entries []Entry
	var payloads [][]byte
	_, err = jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		fullURL, _ := jsonparser.GetString(value, "fullUrl")
		res, typ, _, getErr := jsonparser.Get(value, "resource")
		if getErr != nil || typ == jsonparser.Null {
			res = nil
		}
		entries = append(entries, Entry{Index: len(entries), FullURL: fullURL})
		payloads = append(payloads, res)
	}, "entry")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("stream: reading entries: %w", err)
	}

	pool := worker.NewPool(ctx, func(ctx context.Context, payload []byte) (decoded, error) {
		res, result, err := b.decode(ctx, payload)
		return decoded{resource: res, result: result}, err
	}, b.workerCount)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range pool.Results() {
			e := &entries[r.Index]
			e.Resource, e.Result, e.Err = r.Value.resource, r.Value.result, r.Err
		}
	}()

	for i, payload := range payloads {
		if payload == nil {
			continue
		}
		entries[i].ResourceType, _ = codec.SniffResourceType(payload)
		if !pool.Submit(worker.Job{Index: i, Payload: payload}) {
			break
		}
	}
	pool.Close()
	<-collected

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Collect drains a Stream channel into a slice.
func Collect(ch <-chan Entry) []Entry {
	var out []Entry
	for e := range ch {
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b Entry) int { return a.Index - b.Index })
	return out
}

// Summary aggregates the entries of one bundle.
type Summary struct {
	// TotalEntries is the number of entries seen
	TotalEntries int

	// Decoded is the count of entries whose resource decoded
	Decoded int

	// Empty is the count of entries without a resource
	Empty int

	// EntriesWithErrors counts entries that failed to decode or had error issues
	EntriesWithErrors int

	// EntriesWithWarnings counts entries with warnings but no errors
	EntriesWithWarnings int

	// TotalIssues is the total number of check issues
	TotalIssues int

	// ProcessingErrors are bundle-level and entry decode errors
	ProcessingErrors []error

	// ByType counts decoded resources per resource type
	ByType map[string]int
}

// Aggregate summarizes entries.
func Aggregate(entries []Entry) *Summary {
	s := &Summary{ByType: make(map[string]int)}

	for _, e := range entries {
		if e.Err != nil {
			s.ProcessingErrors = append(s.ProcessingErrors, e.Err)
			if e.Index >= 0 {
				s.TotalEntries++
				s.EntriesWithErrors++
			}
			continue
		}

		s.TotalEntries++
		if e.Resource == nil {
			s.Empty++
			continue
		}
		s.Decoded++
		s.ByType[e.ResourceType]++

		if e.Result == nil {
			continue
		}
		s.TotalIssues += len(e.Result.Issues)
		switch {
		case e.Result.HasErrors():
			s.EntriesWithErrors++
		case e.Result.WarningCount() > 0:
			s.EntriesWithWarnings++
		}
	}

	return s
}

// HasErrors returns true if any entry failed.
func (s *Summary) HasErrors() bool {
	return s.EntriesWithErrors > 0 || len(s.ProcessingErrors) > 0
}

// String returns a human-readable summary.
func (s *Summary) String() string {
	return fmt.Sprintf(
		"Read %d entries: %d decoded, %d empty, %d with errors, %d with warnings, %d total issues",
		s.TotalEntries,
		s.Decoded,
		s.Empty,
		s.EntriesWithErrors,
		s.EntriesWithWarnings,
		s.TotalIssues,
	)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := token.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, token)
	}
	return nil
}
