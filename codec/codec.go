// Package codec translates cache entries to and from the string form kept in
// the durable store.
//
// The wire shape is a JSON object {"data": ..., "timestamp": ms, "expiresAt": ms}
// with both instants as Unix milliseconds.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jaysum57/CropGuard-sub000/types"
)

// ErrDecode marks a durable record that cannot be turned back into an entry.
var ErrDecode = errors.New("codec: malformed cache entry")

type record struct {
	Data      json.RawMessage `json:"data"`
	Timestamp *int64          `json:"timestamp"`
	ExpiresAt *int64          `json:"expiresAt"`
}

// Encode wraps payload in a fresh entry written at now and serializes it.
func Encode[T any](payload T, ttl time.Duration, now time.Time) (string, error) {
	return Marshal(types.NewEntry(payload, now, ttl))
}

// Marshal serializes an existing entry.
func Marshal[T any](ent types.Entry[T]) (string, error) {
	data, err := json.Marshal(ent.Data)
	if err != nil {
		return "", fmt.Errorf("codec: marshal payload: %w", err)
	}
	ts := ent.Timestamp.UnixMilli()
	exp := ent.ExpiresAt.UnixMilli()
	out, err := json.Marshal(record{Data: data, Timestamp: &ts, ExpiresAt: &exp})
	if err != nil {
		return "", fmt.Errorf("codec: marshal entry: %w", err)
	}
	return string(out), nil
}

/*
Decode parses a serialized entry.

Every failure wraps ErrDecode:
  - raw is not a JSON object
  - data, timestamp or expiresAt is missing
  - expiresAt is not after timestamp
  - data does not fit T

Callers treat a decode error exactly like a miss.
*/
func Decode[T any](raw string) (types.Entry[T], error) {
	var zero types.Entry[T]

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if rec.Data == nil || rec.Timestamp == nil || rec.ExpiresAt == nil {
		return zero, fmt.Errorf("%w: missing required field", ErrDecode)
	}
	if *rec.ExpiresAt <= *rec.Timestamp {
		return zero, fmt.Errorf("%w: expiresAt %d not after timestamp %d", ErrDecode, *rec.ExpiresAt, *rec.Timestamp)
	}

	var data T
	if err := json.Unmarshal(rec.Data, &data); err != nil {
		return zero, fmt.Errorf("%w: payload: %v", ErrDecode, err)
	}

	return types.Entry[T]{
		Data:      data,
		Timestamp: time.UnixMilli(*rec.Timestamp),
		ExpiresAt: time.UnixMilli(*rec.ExpiresAt),
	}, nil
}
