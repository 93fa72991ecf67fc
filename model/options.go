package model

import (
	"encoding/json"
	"fmt"

	"github.com/formbench/formbench/log"
)

// DecodeOptions normalizes a field's options into an ordered list of
// strings. Options reach the client in three shapes: already decoded
// (fresh user input or a static template), a JSON array string round-tripped
// from the server, or absent entirely. Renderers must never parse the raw
// form themselves; this is the single normalization boundary.
//
// Malformed input degrades to an empty list with a diagnostic, it is never
// an error for the caller.
func DecodeOptions(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []any:
		opts := make([]string, len(v))
		for i, o := range v {
			opts[i] = coerceString(o)
		}
		return opts
	case string:
		if v == "" {
			return []string{}
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			log.Warnf("options.decode: %s", err)
			return []string{}
		}
		arr, ok := parsed.([]any)
		if !ok {
			log.Warnf("options.decode: not an array: %q", v)
			return []string{}
		}
		opts := make([]string, len(arr))
		for i, o := range arr {
			opts[i] = coerceString(o)
		}
		return opts
	default:
		log.Warnf("options.decode: unsupported type %T", raw)
		return []string{}
	}
}

// EncodeOptions renders an option list to its persisted JSON array form.
func EncodeOptions(opts []string) string {
	if opts == nil {
		opts = []string{}
	}
	encoded, err := json.Marshal(opts)
	if err != nil {
		// a []string cannot fail to marshal
		return "[]"
	}
	return string(encoded)
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers; drop the trailing .0 for integral values
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%v", s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
