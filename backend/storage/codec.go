package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is written into every collection envelope.
const SchemaVersion = 1

// ErrUnsupportedSchema means a stored value was written by a newer release.
var ErrUnsupportedSchema = errors.New("unsupported schema version")

type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

// SaveJSON encodes v inside a versioned envelope and stores it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	raw, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return kv.Set(ctx, key, string(raw))
}

// LoadJSON decodes key into v. A missing key leaves v untouched and returns
// found=false. Values without an envelope are read as legacy bare JSON.
func LoadJSON(ctx context.Context, kv KV, key string, v interface{}) (bool, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	payload, err := unwrap([]byte(raw))
	if err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func unwrap(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, err
	}
	versionRaw, ok := probe["schemaVersion"]
	if !ok {
		return trimmed, nil
	}
	var version int
	if err := json.Unmarshal(versionRaw, &version); err != nil {
		return nil, fmt.Errorf("schemaVersion: %w", err)
	}
	if version > SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
	}
	data, ok := probe["data"]
	if !ok {
		return []byte("null"), nil
	}
	return data, nil
}
