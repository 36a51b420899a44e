// File: pkg/options/bag.go
package options

import (
	"reflect"
	"strings"

	json "github.com/json-iterator/go"
)

// codec sorts map keys so identical bags always encode to identical bytes.
var codec = json.ConfigCompatibleWithStandardLibrary

// Bag is a mutable tree of request options. Interior nodes are map[string]any,
// lists are []any, and everything else is stored as given.
//
// A Bag is not safe for concurrent mutation. Builders own their bag exclusively.
type Bag struct {
	data map[string]any
}

// New creates a bag seeded with a deep copy of seed.
func New(seed map[string]any) *Bag {
	b := &Bag{data: make(map[string]any)}
	if seed != nil {
		b.Merge(seed)
	}
	return b
}

// Set writes value at a dot separated path, creating intermediate maps as
// needed. Any non-map value found along the path is replaced by a map.
func (b *Bag) Set(path string, value any) {
	b.SetIn(splitPath(path), value)
}

// Put writes value under a literal top level key. Use it for keys that contain dots.
func (b *Bag) Put(key string, value any) {
	b.data[key] = normalize(value)
}

// SetIn writes value at an explicit sequence of keys.
func (b *Bag) SetIn(keys []string, value any) {
	if len(keys) == 0 {
		return
	}
	node := b.data
	for _, k := range keys[:len(keys)-1] {
		next, ok := node[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[k] = next
		}
		node = next
	}
	node[keys[len(keys)-1]] = normalize(value)
}

// Get returns the value stored at path, or def when any segment is missing.
func (b *Bag) Get(path string, def any) any {
	v, ok := b.lookup(path)
	if !ok {
		return def
	}
	return v
}

// Has reports whether path resolves to a stored value, including an explicit nil.
func (b *Bag) Has(path string) bool {
	_, ok := b.lookup(path)
	return ok
}

// Delete removes the value at path. Missing paths are ignored.
func (b *Bag) Delete(path string) {
	keys := splitPath(path)
	if len(keys) == 0 {
		return
	}
	node := b.data
	for _, k := range keys[:len(keys)-1] {
		next, ok := node[k].(map[string]any)
		if !ok {
			return
		}
		node = next
	}
	delete(node, keys[len(keys)-1])
}

// Append adds values to the list stored at path, creating it when absent.
// A scalar already stored at path becomes the first element of the list.
func (b *Bag) Append(path string, values ...any) {
	var list []any
	switch cur := b.Get(path, nil).(type) {
	case nil:
		list = make([]any, 0, len(values))
	case []any:
		list = cur
	default:
		list = []any{cur}
	}
	for _, v := range values {
		list = append(list, normalize(v))
	}
	b.Set(path, list)
}

// Merge deep merges partial into the bag. Maps merge key by key, lists are
// concatenated, and any other value overwrites what was there.
func (b *Bag) Merge(partial map[string]any) {
	if partial == nil {
		return
	}
	mergeInto(b.data, normalize(partial).(map[string]any))
}

// All returns a deep copy of the whole tree.
func (b *Bag) All() map[string]any {
	return deepCopy(b.data).(map[string]any)
}

// Len returns the number of top level keys.
func (b *Bag) Len() int {
	return len(b.data)
}

// Clone returns an independent copy of the bag.
func (b *Bag) Clone() *Bag {
	return &Bag{data: b.All()}
}

// MarshalJSON encodes the tree with sorted keys.
func (b *Bag) MarshalJSON() ([]byte, error) {
	return codec.Marshal(b.data)
}

// UnmarshalJSON replaces the bag contents with the decoded object.
func (b *Bag) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := codec.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		m = make(map[string]any)
	}
	b.data = m
	return nil
}

func (b *Bag) lookup(path string) (any, bool) {
	keys := splitPath(path)
	if len(keys) == 0 {
		return nil, false
	}
	var cur any = b.data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func mergeInto(dst, src map[string]any) {
	for k, sv := range src {
		dv, exists := dst[k]
		if !exists {
			dst[k] = deepCopy(sv)
			continue
		}
		switch s := sv.(type) {
		case map[string]any:
			if d, ok := dv.(map[string]any); ok {
				mergeInto(d, s)
				continue
			}
		case []any:
			if d, ok := dv.([]any); ok {
				merged := make([]any, 0, len(d)+len(s))
				merged = append(merged, d...)
				merged = append(merged, deepCopy(s).([]any)...)
				dst[k] = merged
				continue
			}
		}
		dst[k] = deepCopy(sv)
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

// normalize converts string keyed maps and slices of any element type into
// map[string]any and []any so merge semantics apply to them. Byte slices,
// structs and scalars pass through untouched.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []byte, string, bool, int, int64, float64:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}
