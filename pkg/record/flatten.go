package record

import "strings"

// DefaultSeparator joins the keys of nested records when flattening
const DefaultSeparator = "_"

// Flatten returns a single-level copy of r. Every nested record is replaced by its
// leaves, each keyed by the chain of keys leading to it joined with sep. Leading
// empty keys in a chain add no separator. Arrays and scalars are kept as they are.
//
// Traversal uses an explicit stack and one shared path of key segments, so memory
// stays linear in the nesting depth.
func Flatten(r *Record, sep string) *Record {
	type frame struct {
		rec   *Record
		next  int
		depth int // number of path segments leading to rec
	}

	out := New()
	var path []string
	stack := []frame{{rec: r}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.rec.keys) {
			stack = stack[:len(stack)-1]
			continue
		}

		key := top.rec.keys[top.next]
		val := top.rec.values[key]
		top.next++
		depth := top.depth

		nested, ok := val.(*Record)
		if !ok {
			out.Set(joinPath(path[:depth], key, sep), val)
			continue
		}

		// a parent with no keys left is never revisited
		if top.next == len(top.rec.keys) {
			stack = stack[:len(stack)-1]
		}
		path = append(path[:depth], key)
		stack = append(stack, frame{rec: nested, depth: depth + 1})
	}
	return out
}

// joinPath builds the flat key of a leaf below prefix
func joinPath(prefix []string, key, sep string) string {
	for len(prefix) > 0 && prefix[0] == "" {
		prefix = prefix[1:]
	}
	if len(prefix) == 0 {
		return key
	}

	var b strings.Builder
	for _, p := range prefix {
		b.WriteString(p)
		b.WriteString(sep)
	}
	b.WriteString(key)
	return b.String()
}

// FlattenAll flattens every record with sep
func FlattenAll(records []*Record, sep string) []*Record {
	out := make([]*Record, len(records))
	for i, r := range records {
		out[i] = Flatten(r, sep)
	}
	return out
}
