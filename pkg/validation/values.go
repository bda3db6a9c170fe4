package validation

import (
	"fmt"
	"strings"
)

// Upload describes a file submitted through a file-upload field. Transport
// layers populate it after parsing the multipart body; the bytes themselves
// never reach the form engine.
type Upload struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// IsEmpty reports whether value counts as "not answered": nil, a blank string,
// an empty list, or an upload without a name.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		for _, item := range v {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	case []any:
		for _, item := range v {
			if !IsEmpty(item) {
				return false
			}
		}
		return true
	case Upload:
		return strings.TrimSpace(v.Name) == ""
	case *Upload:
		return v == nil || strings.TrimSpace(v.Name) == ""
	default:
		return false
	}
}

// AsString returns the string form of scalar values. Lists and uploads report
// ok=false.
func AsString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	case int, int32, int64, float32, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// AsStrings flattens single or multi-valued input into a list of strings.
func AsStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := AsString(item); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := AsString(v); ok {
			return []string{s}
		}
		return nil
	}
}
