// Package codec encodes and decodes resources as FHIR JSON.
//
// Encoding omits absent optional fields, always writes repeated fields as
// arrays (possibly empty) and is deterministic: the same value always
// produces the same bytes. Decoding is all-or-nothing. It either returns
// a complete value or a *DecodeError and never a partially populated
// resource.
//
//	data, err := codec.EncodePatient(resource.NewPatient())
//	// {"resourceType":"Patient","identifier":[],"name":[],...}
//
//	p, err := codec.DecodePatient(data)
//	var de *codec.DecodeError
//	if errors.As(err, &de) && de.Kind == codec.KindInvalidValue {
//	    // a code or uri in the payload failed validation
//	}
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/pkg/logger"
	"github.com/gofhir/resources/resource"
)

// Codec encodes and decodes resources. A Codec is immutable after New and
// safe for concurrent use.
type Codec struct {
	opts *Options
}

// New creates a Codec.
func New(opts ...Option) *Codec {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Codec{opts: o}
}

// Options returns a copy of the codec's configuration.
func (c *Codec) Options() Options {
	return *c.opts
}

func (c *Codec) log() *logger.Logger {
	if c.opts.Logger != nil {
		return c.opts.Logger
	}
	return logger.Default()
}

func (c *Codec) reader() reader {
	return reader{trusted: c.opts.Trusted}
}

// --- encoding ---

// EncodeAccount encodes a as JSON.
func (c *Codec) EncodeAccount(a *resource.Account) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("encode account: %w", ErrUnsupportedResource)
	}
	return c.marshal(writeAccount(a))
}

// EncodePatient encodes p as JSON.
func (c *Codec) EncodePatient(p *resource.Patient) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("encode patient: %w", ErrUnsupportedResource)
	}
	return c.marshal(writePatient(p))
}

// Encode encodes any resource from the resource package.
func (c *Codec) Encode(res resource.Resource) ([]byte, error) {
	switch r := res.(type) {
	case *resource.Account:
		return c.EncodeAccount(r)
	case *resource.Patient:
		return c.EncodePatient(r)
	default:
		return nil, fmt.Errorf("encode %T: %w", res, ErrUnsupportedResource)
	}
}

func (c *Codec) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.opts.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	// Encoder.Encode terminates every value with a newline.
	out := buf.Bytes()[:buf.Len()-1]
	c.opts.Metrics.RecordEncode(len(out))
	return out, nil
}

// --- decoding ---

// DecodeAccount decodes an Account. The resourceType value is kept as
// found; it is not required to be "Account".
func (c *Codec) DecodeAccount(data []byte) (*resource.Account, error) {
	start := time.Now()
	var w accountJSON
	a, err := decodeWith(c, data, &w, func() (*resource.Account, error) {
		return c.reader().account(&w)
	})
	c.finish(len(data), start, err)
	return a, err
}

// DecodePatient decodes a Patient. The resourceType value is kept as
// found; it is not required to be "Patient".
func (c *Codec) DecodePatient(data []byte) (*resource.Patient, error) {
	start := time.Now()
	var w patientJSON
	p, err := decodeWith(c, data, &w, func() (*resource.Patient, error) {
		return c.reader().patient(&w)
	})
	c.finish(len(data), start, err)
	return p, err
}

// Decode decodes any supported resource, dispatching on its resourceType.
func (c *Codec) Decode(data []byte) (resource.Resource, error) {
	rt, err := SniffResourceType(data)
	if err != nil {
		c.finish(len(data), time.Now(), err)
		return nil, err
	}
	switch rt {
	case resource.TypeAccount:
		return c.DecodeAccount(data)
	case resource.TypePatient:
		return c.DecodePatient(data)
	default:
		err := newDecodeError(KindUnknownResourceType, "resourceType", fmt.Errorf("%w %q", errUnsupportedType, rt))
		c.finish(len(data), time.Now(), err)
		return nil, err
	}
}

// decodeWith unmarshals data into w and converts it with build. D is
// returned only when both steps succeed.
func decodeWith[W, D any](c *Codec, data []byte, w *W, build func() (D, error)) (D, error) {
	var zero D
	if err := c.unmarshal(data, w); err != nil {
		return zero, err
	}
	d, err := build()
	if err != nil {
		return zero, err
	}
	return d, nil
}

func (c *Codec) unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if c.opts.Strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return classify(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		de := newDecodeError(KindMalformed, "", errTrailingData)
		de.Offset = dec.InputOffset()
		return de
	}
	if doc := bytes.TrimSpace(data); len(doc) > 0 && doc[0] == '{' {
		return checkKeys(doc, reflect.TypeOf(v), "", c.opts.Strict)
	}
	return nil
}

func (c *Codec) finish(n int, start time.Time, err error) {
	kind := ""
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			kind = de.Kind.String()
		}
		c.log().Debug("decode failed: %v", err)
	}
	c.opts.Metrics.RecordDecode(n, time.Since(start), kind)
}

// --- standalone data types ---

// EncodeIdentifier encodes a single Identifier.
func (c *Codec) EncodeIdentifier(id datatype.Identifier) ([]byte, error) {
	return c.marshal(writeIdentifier(id))
}

// DecodeIdentifier decodes a single Identifier.
func (c *Codec) DecodeIdentifier(data []byte) (datatype.Identifier, error) {
	var w identifierJSON
	return decodeWith(c, data, &w, func() (datatype.Identifier, error) {
		return c.reader().identifier("", &w)
	})
}

// EncodePeriod encodes a single Period.
func (c *Codec) EncodePeriod(p datatype.Period) ([]byte, error) {
	return c.marshal(writePeriod(p))
}

// DecodePeriod decodes a single Period.
func (c *Codec) DecodePeriod(data []byte) (datatype.Period, error) {
	var w periodJSON
	return decodeWith(c, data, &w, func() (datatype.Period, error) {
		return c.reader().period("", &w)
	})
}

// EncodeHumanName encodes a single HumanName.
func (c *Codec) EncodeHumanName(n datatype.HumanName) ([]byte, error) {
	return c.marshal(writeHumanName(n))
}

// DecodeHumanName decodes a single HumanName.
func (c *Codec) DecodeHumanName(data []byte) (datatype.HumanName, error) {
	var w humanNameJSON
	return decodeWith(c, data, &w, func() (datatype.HumanName, error) {
		return c.reader().humanName("", &w)
	})
}

// --- package-level convenience functions ---

var defaultCodec = New()

// Default returns the codec used by the package-level functions.
func Default() *Codec {
	return defaultCodec
}

// EncodeAccount encodes a with the default codec.
func EncodeAccount(a *resource.Account) ([]byte, error) {
	return defaultCodec.EncodeAccount(a)
}

// EncodePatient encodes p with the default codec.
func EncodePatient(p *resource.Patient) ([]byte, error) {
	return defaultCodec.EncodePatient(p)
}

// Encode encodes res with the default codec.
func Encode(res resource.Resource) ([]byte, error) {
	return defaultCodec.Encode(res)
}

// DecodeAccount decodes an Account with the default codec.
func DecodeAccount(data []byte) (*resource.Account, error) {
	return defaultCodec.DecodeAccount(data)
}

// DecodePatient decodes a Patient with the default codec.
func DecodePatient(data []byte) (*resource.Patient, error) {
	return defaultCodec.DecodePatient(data)
}

// Decode decodes any supported resource with the default codec.
func Decode(data []byte) (resource.Resource, error) {
	return defaultCodec.Decode(data)
}
