// File: pkg/options/query.go
package options

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query is an insertion ordered set of URL query parameters.
// Every value is stored in its wire form.
type Query struct {
	keys   []string
	values map[string]string
}

// NewQuery returns an empty parameter set.
func NewQuery() *Query {
	return &Query{values: make(map[string]string)}
}

// Add stores key with value rendered as a string. Booleans become "true" or
// "false", durations become whole milliseconds. Re-adding a key replaces its
// value but keeps its original position.
func (q *Query) Add(key string, value any) {
	if _, exists := q.values[key]; !exists {
		q.keys = append(q.keys, key)
	}
	q.values[key] = stringify(value)
}

// Get returns the stored value for key.
func (q *Query) Get(key string) (string, bool) {
	v, ok := q.values[key]
	return v, ok
}

// Del removes key.
func (q *Query) Del(key string) {
	if _, ok := q.values[key]; !ok {
		return
	}
	delete(q.values, key)
	for i, k := range q.keys {
		if k == key {
			q.keys = append(q.keys[:i], q.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of parameters.
func (q *Query) Len() int {
	return len(q.keys)
}

// Keys returns the parameter names in insertion order.
func (q *Query) Keys() []string {
	out := make([]string, len(q.keys))
	copy(out, q.keys)
	return out
}

// Clone returns an independent copy.
func (q *Query) Clone() *Query {
	c := NewQuery()
	for _, k := range q.keys {
		c.Add(k, q.values[k])
	}
	return c
}

// Encode renders the parameters as key=value pairs joined by '&', escaped for
// use in a query string.
func (q *Query) Encode() string {
	var sb strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(q.values[k]))
	}
	return sb.String()
}

// BuildQueryString appends the parameters to base. The separator is '&' when
// base already carries a query string and '?' otherwise. An empty set returns
// base unchanged.
func (q *Query) BuildQueryString(base string) string {
	if len(q.keys) == 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Duration:
		return strconv.FormatInt(v.Milliseconds(), 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
