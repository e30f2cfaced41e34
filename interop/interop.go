// Package interop converts Patient resources to and from the full R4 model
// in github.com/gofhir/fhir/r4.
//
// Conversion goes through FHIR JSON. Converting to R4 never loses data.
// Converting from R4 drops elements this module does not model (id, meta,
// extensions and the like) and validates codes and uris like any other
// decode.
package interop

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/resource"
)

// ErrNilResource is returned when a nil resource is converted.
var ErrNilResource = errors.New("interop: nil resource")

// PatientToR4 converts p to an r4.Patient.
func PatientToR4(p *resource.Patient) (*r4.Patient, error) {
	if p == nil {
		return nil, ErrNilResource
	}
	return toR4[r4.Patient](p)
}

// PatientFromR4 converts an r4.Patient. opts configure the decoding codec.
func PatientFromR4(p *r4.Patient, opts ...codec.Option) (*resource.Patient, error) {
	if p == nil {
		return nil, ErrNilResource
	}
	data, err := fromR4(p, resource.TypePatient)
	if err != nil {
		return nil, err
	}
	return codec.New(opts...).DecodePatient(data)
}

func toR4[T any](res resource.Resource) (*T, error) {
	data, err := codec.Encode(res)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("interop: converting %s: %w", res.ResourceType(), err)
	}
	return &out, nil
}

// fromR4 marshals v and makes sure the document carries its resourceType.
func fromR4(v any, resourceType string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("interop: converting %s: %w", resourceType, err)
	}
	if _, err := jsonparser.GetString(data, "resourceType"); err == nil {
		return data, nil
	}
	data, err = jsonparser.Set(data, []byte(`"`+resourceType+`"`), "resourceType")
	if err != nil {
		return nil, fmt.Errorf("interop: converting %s: %w", resourceType, err)
	}
	return data, nil
}
