package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	fv "github.com/gofhir/resources"
)

func TestCollector(t *testing.T) {
	m := fv.NewMetrics()
	m.RecordEncode(100)
	m.RecordEncode(50)
	m.RecordDecode(80, time.Millisecond, "")
	m.RecordDecode(10, time.Millisecond, "InvalidValue")
	m.RecordCacheHit()
	m.RecordIssue(fv.SeverityError)
	m.RecordIssue(fv.SeverityWarning)
	m.RecordIssue(fv.SeverityWarning)

	reg := NewRegistry(m)
	var buf bytes.Buffer
	if err := WriteText(&buf, reg); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"fhirres_encodes_total 2",
		"fhirres_encoded_bytes_total 150",
		"fhirres_decodes_total 2",
		"fhirres_decodes_failed_total 1",
		`fhirres_decode_failures_total{kind="InvalidValue"} 1`,
		"fhirres_cache_hits_total 1",
		`fhirres_issues_total{severity="error"} 1`,
		`fhirres_issues_total{severity="warning"} 2`,
		"# TYPE fhirres_decode_duration_average_seconds gauge",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCollectorLint(t *testing.T) {
	problems, err := testutil.CollectAndLint(NewCollector("", fv.NewMetrics()))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range problems {
		t.Errorf("lint: %s: %s", p.Metric, p.Text)
	}
}

func TestCollectorNamespace(t *testing.T) {
	c := NewCollector("app", fv.NewMetrics())
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatal(err)
	}
	if n, err := testutil.GatherAndCount(reg, "app_encodes_total"); err != nil || n != 1 {
		t.Errorf("GatherAndCount() = %d, %v; want 1", n, err)
	}
}

func TestCollectorNilSource(t *testing.T) {
	if n := testutil.CollectAndCount(NewCollector("", nil)); n != 0 {
		t.Errorf("CollectAndCount() = %d; want 0", n)
	}
}
