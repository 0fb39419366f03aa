// Package record models the loosely shaped JSON objects emitted by the Solana CLI
// and the geolocation service as insertion-ordered key/value records.
//
// Values held by a Record are one of: string, json.Number, float64, bool, nil,
// *Record (nested object) or []any (array of the same value kinds).
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Record is a string-keyed map that remembers the order in which keys were first set
type Record struct {
	keys   []string
	values map[string]any
}

// New creates an empty record
func New() *Record {
	return &Record{values: make(map[string]any)}
}

// Of builds a record from alternating key/value arguments.
// It panics when a key is not a string or a value is missing.
func Of(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("record.Of: odd number of arguments")
	}
	r := New()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("record.Of: key %v is not a string", kv[i]))
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// Len returns the number of keys
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the keys in insertion order
func (r *Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Get returns the value stored under key
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// String returns the value under key when it is a string
func (r *Record) String(key string) (string, bool) {
	s, ok := r.values[key].(string)
	return s, ok
}

// Set stores v under key. A new key goes to the end; an existing key keeps its position.
func (r *Record) Set(key string, v any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Delete removes key if present
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	out := &Record{
		keys:   slices.Clone(r.keys),
		values: maps.Clone(r.values),
	}
	if out.values == nil {
		out.values = make(map[string]any)
	}
	for k, v := range out.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// Merge returns a new record holding the fields of r overlaid with the fields of other.
// Keys of r keep their position, keys only present in other are appended in other's order.
func (r *Record) Merge(other *Record) *Record {
	out := r.Clone()
	for _, k := range other.keys {
		out.Set(k, cloneValue(other.values[k]))
	}
	return out
}

// Equal reports whether both records hold the same keys in the same order with equal values
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !slices.Equal(r.keys, other.keys) {
		return false
	}
	for _, k := range r.keys {
		if !valuesEqual(r.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object preserving key order
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order
func (r *Record) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeObject(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func valuesEqual(a, b any) bool {
	switch ta := a.(type) {
	case *Record:
		tb, ok := b.(*Record)
		return ok && ta.Equal(tb)
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !valuesEqual(ta[i], tb[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
