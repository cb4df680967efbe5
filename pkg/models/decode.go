package models

import (
	"encoding/json"
	"errors"
)

// ErrBadShape is returned when a payload does not carry a series list.
var ErrBadShape = errors.New("payload missing series list")

// DecodeRoot parses a serialized root and runs the shape check:
// "series" must be present and be a JSON array. The result is
// normalized so nested lists are never nil.
func DecodeRoot(data []byte) (*Root, error) {
	var probe struct {
		Series []json.RawMessage `json:"series"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Series == nil {
		return nil, ErrBadShape
	}

	var root Root
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	root.Normalize()
	return &root, nil
}

// EncodeRoot serializes a root as pretty-printed JSON with two-space
// indentation, the format used for exports and published snapshots.
func EncodeRoot(root *Root) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}
