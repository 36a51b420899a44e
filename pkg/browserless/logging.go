// File: pkg/browserless/logging.go
package browserless

import "strings"

const maskedValue = "***MASKED***"

var sensitiveKeys = map[string]struct{}{
	"api_key":  {},
	"token":    {},
	"password": {},
	"secret":   {},
}

// MaskSensitive returns a copy of v with the values of sensitive keys
// (api_key, token, password, secret) replaced by a mask. Nested maps and
// lists are walked recursively; v itself is never modified.
func MaskSensitive(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				out[k] = maskedValue
				continue
			}
			out[k] = MaskSensitive(e)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				out[k] = maskedValue
				continue
			}
			out[k] = e
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = MaskSensitive(e)
		}
		return out
	default:
		return v
	}
}
