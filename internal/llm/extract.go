package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNoJSONObject  = errors.New("no JSON object found in model output")
	ErrAmbiguousJSON = errors.New("model output contains more than one top-level JSON value")
	ErrMalformedJSON = errors.New("model output is not valid JSON")
)

// ExtractJSONObject returns the span between the first '{' and the last '}'
// of text, provided that span holds exactly one JSON object.
// Markdown fences and prose around the object are dropped. Two objects in
// the span are rejected.
func ExtractJSONObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSONObject
	}

	span := []byte(text[start : end+1])

	dec := json.NewDecoder(bytes.NewReader(span))
	var obj json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	// anything but whitespace after the first object
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
	case err == nil:
		return nil, ErrAmbiguousJSON
	default:
		return nil, fmt.Errorf("%w: trailing data after object: %v", ErrMalformedJSON, err)
	}

	return obj, nil
}
