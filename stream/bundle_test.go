package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/resource"
)

const testBundle = `{
	"resourceType": "Bundle",
	"type": "collection",
	"entry": [
		{
			"fullUrl": "urn:uuid:patient-1",
			"resource": {
				"resourceType": "Patient",
				"id": "1",
				"name": [{"use": "official", "text": "Test", "family": "Test"}]
			}
		},
		{
			"fullUrl": "urn:uuid:account-1",
			"resource": {"resourceType": "Account", "status": "active"}
		},
		{
			"fullUrl": "urn:uuid:obs-1",
			"resource": {"resourceType": "Observation", "status": "final"}
		},
		{
			"request": {"method": "DELETE", "url": "Patient/9"}
		},
		{
			"resource": {"resourceType": "Patient", "gender": "not  valid"}
		}
	]
}`

// flagInactive reports a warning for every resource.
func flagInactive(_ context.Context, res resource.Resource) (*fv.Result, error) {
	result := fv.NewResult()
	result.ResourceType = res.ResourceType()
	result.AddIssue(fv.Warning(fv.IssueTypeInvariant).Diagnostics("checked").Build())
	return result, nil
}

func checkEntries(t *testing.T, entries []Entry) {
	t.Helper()

	if len(entries) != 5 {
		t.Fatalf("got %d entries; want 5", len(entries))
	}
	for i, e := range entries {
		if e.Index != i {
			t.Errorf("entries[%d].Index = %d", i, e.Index)
		}
	}

	if entries[0].Err != nil || entries[0].ResourceType != resource.TypePatient {
		t.Errorf("entry 0 = %+v; want a decoded Patient", entries[0])
	}
	if entries[0].FullURL != "urn:uuid:patient-1" {
		t.Errorf("entry 0 FullURL = %q", entries[0].FullURL)
	}
	if p, ok := entries[0].Resource.(*resource.Patient); !ok || p.Name[0].Family != "Test" {
		t.Errorf("entry 0 resource = %#v", entries[0].Resource)
	}
	if _, ok := entries[1].Resource.(*resource.Account); !ok {
		t.Errorf("entry 1 resource = %#v; want *Account", entries[1].Resource)
	}
	if !codec.IsKind(entries[2].Err, codec.KindUnknownResourceType) {
		t.Errorf("entry 2 error = %v; want UnknownResourceType", entries[2].Err)
	}
	if entries[2].ResourceType != "Observation" {
		t.Errorf("entry 2 ResourceType = %q", entries[2].ResourceType)
	}
	if entries[3].Resource != nil || entries[3].Err != nil {
		t.Errorf("entry 3 = %+v; want an empty entry", entries[3])
	}
	if !codec.IsKind(entries[4].Err, codec.KindInvalidValue) {
		t.Errorf("entry 4 error = %v; want InvalidValue", entries[4].Err)
	}
}

func TestStream(t *testing.T) {
	r := NewBundleReader().WithBufferSize(1)
	entries := Collect(r.Stream(context.Background(), strings.NewReader(testBundle)))
	checkEntries(t, entries)
}

func TestDecodeParallel(t *testing.T) {
	r := NewBundleReader().WithWorkerCount(3)
	entries, err := r.DecodeParallel(context.Background(), []byte(testBundle))
	if err != nil {
		t.Fatalf("DecodeParallel() error = %v", err)
	}
	checkEntries(t, entries)
}

func TestWithCheck(t *testing.T) {
	r := NewBundleReader().WithCheck(flagInactive)
	entries, err := r.DecodeParallel(context.Background(), []byte(testBundle))
	if err != nil {
		t.Fatal(err)
	}

	s := Aggregate(entries)
	if s.TotalEntries != 5 || s.Decoded != 2 || s.Empty != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.EntriesWithErrors != 2 || len(s.ProcessingErrors) != 2 {
		t.Errorf("errors = %d, processing = %d; want 2 and 2", s.EntriesWithErrors, len(s.ProcessingErrors))
	}
	if s.EntriesWithWarnings != 2 || s.TotalIssues != 2 {
		t.Errorf("warnings = %d, issues = %d; want 2 and 2", s.EntriesWithWarnings, s.TotalIssues)
	}
	if s.ByType[resource.TypePatient] != 1 || s.ByType[resource.TypeAccount] != 1 {
		t.Errorf("ByType = %v", s.ByType)
	}
	if !s.HasErrors() {
		t.Error("HasErrors() = false")
	}
	if !strings.Contains(s.String(), "Read 5 entries: 2 decoded") {
		t.Errorf("String() = %q", s.String())
	}
}

func TestCheckError(t *testing.T) {
	boom := errors.New("boom")
	r := NewBundleReader().WithCheck(func(context.Context, resource.Resource) (*fv.Result, error) {
		return nil, boom
	})

	entries := Collect(r.Stream(context.Background(), strings.NewReader(testBundle)))
	if !errors.Is(entries[0].Err, boom) {
		t.Errorf("entry 0 error = %v; want %v", entries[0].Err, boom)
	}
}

func TestNotABundle(t *testing.T) {
	doc := `{"resourceType": "Patient", "entry": []}`

	entries := Collect(NewBundleReader().Stream(context.Background(), strings.NewReader(doc)))
	if len(entries) != 1 || !errors.Is(entries[0].Err, ErrNotBundle) {
		t.Errorf("Stream() = %+v; want ErrNotBundle", entries)
	}

	if _, err := NewBundleReader().DecodeParallel(context.Background(), []byte(doc)); !errors.Is(err, ErrNotBundle) {
		t.Errorf("DecodeParallel() error = %v; want ErrNotBundle", err)
	}
}

func TestEmptyBundle(t *testing.T) {
	doc := `{"resourceType": "Bundle", "type": "searchset", "total": 0}`

	if entries := Collect(NewBundleReader().Stream(context.Background(), strings.NewReader(doc))); len(entries) != 0 {
		t.Errorf("Stream() = %+v; want no entries", entries)
	}
	entries, err := NewBundleReader().DecodeParallel(context.Background(), []byte(doc))
	if err != nil || len(entries) != 0 {
		t.Errorf("DecodeParallel() = %+v, %v; want no entries", entries, err)
	}
}

func TestMalformed(t *testing.T) {
	entries := Collect(NewBundleReader().Stream(context.Background(), strings.NewReader(`[1, 2]`)))
	if len(entries) != 1 || entries[0].Index != -1 || entries[0].Err == nil {
		t.Errorf("Stream() = %+v; want one bundle-level error", entries)
	}

	// A syntax error inside the entry array stops the stream.
	doc := `{"resourceType": "Bundle", "entry": [{"resource": {"resourceType": "Patient"}}, {"resource": ]}`
	entries = Collect(NewBundleReader().Stream(context.Background(), strings.NewReader(doc)))
	if len(entries) != 2 || entries[0].Err != nil || entries[1].Err == nil {
		t.Errorf("Stream() = %+v; want one good entry then an error", entries)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewBundleReader().DecodeParallel(ctx, []byte(testBundle)); !errors.Is(err, context.Canceled) {
		t.Errorf("DecodeParallel() error = %v; want context.Canceled", err)
	}

	entries := Collect(NewBundleReader().Stream(ctx, strings.NewReader(testBundle)))
	if len(entries) == 0 || !errors.Is(entries[len(entries)-1].Err, context.Canceled) {
		t.Errorf("Stream() = %+v; want a cancellation error", entries)
	}
}

func BenchmarkDecodeParallel(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(`{"resourceType":"Bundle","entry":[`)
	for i := 0; i < 500; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"fullUrl":"urn:uuid:%d","resource":{"resourceType":"Patient","active":true}}`, i)
	}
	sb.WriteString(`]}`)
	data := []byte(sb.String())

	r := NewBundleReader()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.DecodeParallel(context.Background(), data); err != nil {
			b.Fatal(err)
		}
	}
}
