package ndjson

// Tests that compare resource trees use testify; assert.Equal reports
// the differing fields.

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/primitive"
	"github.com/gofhir/resources/resource"
)

func TestWriterThenDecodeAll(t *testing.T) {
	var resources []resource.Resource
	for i := 0; i < 25; i++ {
		if i%2 == 0 {
			p := resource.NewPatient()
			p.AddName(datatype.NewHumanName(primitive.MustCode("official"), "", strings.Repeat("x", i+1)))
			resources = append(resources, p)
		} else {
			a := resource.NewAccount()
			a.Name = datatype.Ptr(strings.Repeat("y", i))
			resources = append(resources, a)
		}
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, codec.WithIndent(true))
	for _, res := range resources {
		require.NoError(t, w.Write(res))
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, len(resources), w.Count())
	assert.Equal(t, len(resources), strings.Count(buf.String(), "\n"))

	lines, err := DecodeAll(context.Background(), &buf, WithWorkers(4))
	require.NoError(t, err)
	require.Len(t, lines, len(resources))
	for i, l := range lines {
		require.NoError(t, l.Err)
		assert.Equal(t, i+1, l.Number)
		assert.Equal(t, resources[i], l.Resource)
	}
}

func TestDecodeAllPerLineErrors(t *testing.T) {
	input := strings.Join([]string{
		`{"resourceType":"Patient"}`,
		``,
		`{"resourceType":"Patient","gender":" male"}`,
		`{"resourceType":"Observation"}`,
		`not json`,
		`{"resourceType":"Account","status":"active"}`,
	}, "\n")

	lines, err := DecodeAll(context.Background(), strings.NewReader(input), WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, lines, 5, "blank lines are skipped")

	assert.Equal(t, []int{1, 3, 4, 5, 6}, []int{lines[0].Number, lines[1].Number, lines[2].Number, lines[3].Number, lines[4].Number})
	assert.NoError(t, lines[0].Err)
	assert.True(t, codec.IsKind(lines[1].Err, codec.KindInvalidValue))
	assert.True(t, codec.IsKind(lines[2].Err, codec.KindUnknownResourceType))
	assert.True(t, codec.IsKind(lines[3].Err, codec.KindMalformed))
	assert.NoError(t, lines[4].Err)

	s := Summarize(lines)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Failed)
	assert.Equal(t, map[string]int{"Patient": 1, "Account": 1}, s.ByType)
	assert.Equal(t, map[string]int{"InvalidValue": 1, "UnknownResourceType": 1, "Malformed": 1}, s.ByFailed)
}

func TestDecodeAllStrict(t *testing.T) {
	input := `{"resourceType":"Patient","id":"p1"}`

	lines, err := DecodeAll(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.NoError(t, lines[0].Err)

	lines, err = DecodeAll(context.Background(), strings.NewReader(input), WithCodecOptions(codec.WithStrict(true)))
	require.NoError(t, err)
	assert.True(t, codec.IsKind(lines[0].Err, codec.KindUnknownField))
}

func TestDecodeAllLineTooLong(t *testing.T) {
	input := `{"resourceType":"Patient","birthDate":"` + strings.Repeat("1", 256) + `"}`

	_, err := DecodeAll(context.Background(), strings.NewReader(input), WithMaxLineSize(64))
	assert.Error(t, err)
}

func TestDecodeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DecodeAll(ctx, strings.NewReader(`{"resourceType":"Patient"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeAllEmpty(t *testing.T) {
	lines, err := DecodeAll(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}
