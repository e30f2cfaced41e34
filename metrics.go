package fhirresources

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks codec and checking activity using lock-free atomic
// operations. All methods are safe for concurrent use. A nil *Metrics
// ignores every Record call.
type Metrics struct {
	encodesTotal  atomic.Uint64
	bytesEncoded  atomic.Uint64
	decodesTotal  atomic.Uint64
	decodesFailed atomic.Uint64
	bytesDecoded  atomic.Uint64

	// Decode timing (stored as nanoseconds)
	decodeTimeTotal atomic.Uint64
	decodeTimeMin   atomic.Uint64
	decodeTimeMax   atomic.Uint64

	// Expression cache
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Issue counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	// Decode failures by kind
	failureKinds sync.Map // map[string]*atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.decodeTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordEncode records an encoded resource of n bytes.
func (m *Metrics) RecordEncode(n int) {
	if m == nil {
		return
	}
	m.encodesTotal.Add(1)
	m.bytesEncoded.Add(uint64(n)) //nolint:gosec // n is a byte count
}

// RecordDecode records a decode of n bytes. failureKind is empty on success.
func (m *Metrics) RecordDecode(n int, duration time.Duration, failureKind string) {
	if m == nil {
		return
	}
	m.decodesTotal.Add(1)
	m.bytesDecoded.Add(uint64(n)) //nolint:gosec // n is a byte count
	if failureKind != "" {
		m.decodesFailed.Add(1)
		m.failureCounter(failureKind).Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // durations are positive
	m.decodeTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.decodeTimeMin.Load()
		if ns >= old {
			break
		}
		if m.decodeTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.decodeTimeMax.Load()
		if ns <= old {
			break
		}
		if m.decodeTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

func (m *Metrics) failureCounter(kind string) *atomic.Uint64 {
	if v, ok := m.failureKinds.Load(kind); ok {
		return v.(*atomic.Uint64)
	}
	actual, _ := m.failureKinds.LoadOrStore(kind, &atomic.Uint64{})
	return actual.(*atomic.Uint64)
}

// RecordCacheHit records an expression cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Add(1)
}

// RecordCacheMiss records an expression cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Add(1)
}

// RecordIssue records an issue based on severity.
func (m *Metrics) RecordIssue(severity IssueSeverity) {
	if m == nil {
		return
	}
	switch severity {
	case SeverityError, SeverityFatal:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInformation:
		m.infosTotal.Add(1)
	}
}

// --- Query Methods ---

// EncodesTotal returns the number of encoded resources.
func (m *Metrics) EncodesTotal() uint64 {
	return m.encodesTotal.Load()
}

// DecodesTotal returns the number of decode attempts.
func (m *Metrics) DecodesTotal() uint64 {
	return m.decodesTotal.Load()
}

// DecodesFailed returns the number of failed decodes.
func (m *Metrics) DecodesFailed() uint64 {
	return m.decodesFailed.Load()
}

// DecodeFailures returns the failed decode count for one failure kind.
func (m *Metrics) DecodeFailures(kind string) uint64 {
	v, ok := m.failureKinds.Load(kind)
	if !ok {
		return 0
	}
	return v.(*atomic.Uint64).Load()
}

// AverageDecodeTime returns the average decode duration.
func (m *Metrics) AverageDecodeTime() time.Duration {
	total := m.decodesTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.decodeTimeTotal.Load() / total) //nolint:gosec // nanoseconds within int64 range
}

// MinDecodeTime returns the minimum decode duration.
func (m *Metrics) MinDecodeTime() time.Duration {
	minVal := m.decodeTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // nanoseconds within int64 range
}

// MaxDecodeTime returns the maximum decode duration.
func (m *Metrics) MaxDecodeTime() time.Duration {
	return time.Duration(m.decodeTimeMax.Load()) //nolint:gosec // nanoseconds within int64 range
}

// CacheHitRate returns the expression cache hit rate (0.0 to 1.0).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	total := hits + m.cacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// ErrorsTotal returns the total error issues found.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning issues found.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	EncodesTotal  uint64 `json:"encodes_total"`
	BytesEncoded  uint64 `json:"bytes_encoded"`
	DecodesTotal  uint64 `json:"decodes_total"`
	DecodesFailed uint64 `json:"decodes_failed"`
	BytesDecoded  uint64 `json:"bytes_decoded"`

	AvgDecodeTimeNs uint64 `json:"avg_decode_time_ns"`
	MinDecodeTimeNs uint64 `json:"min_decode_time_ns"`
	MaxDecodeTimeNs uint64 `json:"max_decode_time_ns"`

	CacheHits    uint64  `json:"cache_hits"`
	CacheMisses  uint64  `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	DecodeFailures map[string]uint64 `json:"decode_failures,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	minTime := m.decodeTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	s := Snapshot{
		Timestamp:       time.Now(),
		EncodesTotal:    m.encodesTotal.Load(),
		BytesEncoded:    m.bytesEncoded.Load(),
		DecodesTotal:    m.decodesTotal.Load(),
		DecodesFailed:   m.decodesFailed.Load(),
		BytesDecoded:    m.bytesDecoded.Load(),
		AvgDecodeTimeNs: uint64(m.AverageDecodeTime().Nanoseconds()), //nolint:gosec // positive
		MinDecodeTimeNs: minTime,
		MaxDecodeTimeNs: m.decodeTimeMax.Load(),
		CacheHits:       m.cacheHits.Load(),
		CacheMisses:     m.cacheMisses.Load(),
		CacheHitRate:    m.CacheHitRate(),
		ErrorsTotal:     m.errorsTotal.Load(),
		WarningsTotal:   m.warningsTotal.Load(),
		InfosTotal:      m.infosTotal.Load(),
	}

	m.failureKinds.Range(func(key, value any) bool {
		if s.DecodeFailures == nil {
			s.DecodeFailures = make(map[string]uint64)
		}
		s.DecodeFailures[key.(string)] = value.(*atomic.Uint64).Load()
		return true
	})
	return s
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.encodesTotal.Store(0)
	m.bytesEncoded.Store(0)
	m.decodesTotal.Store(0)
	m.decodesFailed.Store(0)
	m.bytesDecoded.Store(0)
	m.decodeTimeTotal.Store(0)
	m.decodeTimeMin.Store(^uint64(0))
	m.decodeTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	m.failureKinds.Range(func(key, _ any) bool {
		m.failureKinds.Delete(key)
		return true
	})
}
