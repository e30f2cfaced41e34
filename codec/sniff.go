package codec

import (
	"bytes"
	"errors"

	"github.com/buger/jsonparser"
)

// SniffResourceType returns the top-level resourceType of a JSON document
// without decoding the rest of it.
func SniffResourceType(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", newDecodeError(KindMalformed, "", errEmptyInput)
	}

	value, typ, offset, err := jsonparser.Get(data, "resourceType")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError), err == nil && typ == jsonparser.Null:
		return "", missing("resourceType")
	case err != nil:
		de := newDecodeError(KindMalformed, "", err)
		de.Offset = int64(offset)
		return "", de
	case typ != jsonparser.String:
		return "", newDecodeError(KindTypeMismatch, "resourceType", errDiscriminator)
	}

	rt, err := jsonparser.ParseString(value)
	if err != nil {
		return "", newDecodeError(KindMalformed, "resourceType", err)
	}
	return rt, nil
}
