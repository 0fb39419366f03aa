package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for decoding
var (
	ErrNotObject = errors.New("json value is not an object")
	ErrNotArray  = errors.New("json value is not an array")
)

// DecodeObject reads a single JSON object from r
func DecodeObject(r io.Reader) (*Record, error) {
	v, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(*Record)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}
	return rec, nil
}

// DecodeList reads a JSON array of objects from r
func DecodeList(r io.Reader) ([]*Record, error) {
	v, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	return AsList(v)
}

// AsList converts a decoded array value into records
func AsList(v any) ([]*Record, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotArray, v)
	}
	records := make([]*Record, len(items))
	for i, item := range items {
		rec, ok := item.(*Record)
		if !ok {
			return nil, fmt.Errorf("element %d: %w: got %T", i, ErrNotObject, item)
		}
		records[i] = rec
	}
	return records, nil
}

// Decode reads a single JSON document from r. Objects decode as *Record,
// arrays as []any and numbers as json.Number.
func Decode(r io.Reader) (any, error) {
	return decodeDocument(r)
}

func decodeDocument(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level json value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch delim {
	case '{':
		rec := New()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			rec.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return rec, nil
	case '[':
		items := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}
