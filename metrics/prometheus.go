// Package metrics exports fhirresources.Metrics counters to Prometheus.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	fv "github.com/gofhir/resources"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "fhirres"

// Collector reads a Metrics snapshot on every scrape. The counters stay
// lock-free on the hot path; Prometheus only sees them when it collects.
type Collector struct {
	source *fv.Metrics

	encodes        *prometheus.Desc
	bytesEncoded   *prometheus.Desc
	decodes        *prometheus.Desc
	decodesFailed  *prometheus.Desc
	decodeFailures *prometheus.Desc
	bytesDecoded   *prometheus.Desc
	decodeAvg      *prometheus.Desc
	cacheHits      *prometheus.Desc
	cacheMisses    *prometheus.Desc
	issues         *prometheus.Desc
}

// NewCollector returns a Collector over m. An empty namespace means
// DefaultNamespace.
func NewCollector(namespace string, m *fv.Metrics) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}

	return &Collector{
		source:         m,
		encodes:        desc("encodes_total", "Total resources encoded"),
		bytesEncoded:   desc("encoded_bytes_total", "Total bytes of JSON written"),
		decodes:        desc("decodes_total", "Total decode attempts"),
		decodesFailed:  desc("decodes_failed_total", "Total failed decodes"),
		decodeFailures: desc("decode_failures_total", "Failed decodes by error kind", "kind"),
		bytesDecoded:   desc("decoded_bytes_total", "Total bytes of JSON read"),
		decodeAvg:      desc("decode_duration_average_seconds", "Average decode duration"),
		cacheHits:      desc("cache_hits_total", "Expression and terminology cache hits"),
		cacheMisses:    desc("cache_misses_total", "Expression and terminology cache misses"),
		issues:         desc("issues_total", "Issues reported by checks, by severity", "severity"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.encodes
	ch <- c.bytesEncoded
	ch <- c.decodes
	ch <- c.decodesFailed
	ch <- c.decodeFailures
	ch <- c.bytesDecoded
	ch <- c.decodeAvg
	ch <- c.cacheHits
	ch <- c.cacheMisses
	ch <- c.issues
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.source == nil {
		return
	}
	s := c.source.Snapshot()

	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}

	counter(c.encodes, s.EncodesTotal)
	counter(c.bytesEncoded, s.BytesEncoded)
	counter(c.decodes, s.DecodesTotal)
	counter(c.decodesFailed, s.DecodesFailed)
	for kind, n := range s.DecodeFailures {
		counter(c.decodeFailures, n, kind)
	}
	counter(c.bytesDecoded, s.BytesDecoded)
	ch <- prometheus.MustNewConstMetric(c.decodeAvg, prometheus.GaugeValue, float64(s.AvgDecodeTimeNs)/1e9)
	counter(c.cacheHits, s.CacheHits)
	counter(c.cacheMisses, s.CacheMisses)
	counter(c.issues, s.ErrorsTotal, string(fv.SeverityError))
	counter(c.issues, s.WarningsTotal, string(fv.SeverityWarning))
	counter(c.issues, s.InfosTotal, string(fv.SeverityInformation))
}

// NewRegistry returns a registry holding only a Collector over m.
func NewRegistry(m *fv.Metrics) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(DefaultNamespace, m))
	return reg
}

// WriteText writes everything g gathers in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
