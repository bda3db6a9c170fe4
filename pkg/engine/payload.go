package engine

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-caseflow/pkg/validation"
)

// Payload is a raw submission: a flat map of field id to string, ordered
// value list ([]string or []any) or validation.Upload.
type Payload map[string]any

// FromValues converts decoded form values. Keys with a single value become
// strings; repeated keys keep their order as a []string.
func FromValues(values url.Values) Payload {
	out := make(Payload, len(values))
	for key, list := range values {
		key = strings.TrimSuffix(key, "[]")
		switch len(list) {
		case 0:
			continue
		case 1:
			out[key] = list[0]
		default:
			out[key] = append([]string(nil), list...)
		}
	}
	return out
}

// Clone returns a copy safe to hand back for redisplay.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		switch typed := v.(type) {
		case []string:
			out[k] = append([]string(nil), typed...)
		case []any:
			out[k] = append([]any(nil), typed...)
		default:
			out[k] = v
		}
	}
	return out
}

// Values is an extracted, trimmed partial update keyed by field id.
type Values map[string]any

// Get implements validation.Reader.
func (v Values) Get(id string) (any, bool) {
	value, ok := v[id]
	return value, ok
}

// layered reads the submission first and the stored case second, so context
// validators see values entered on the same screen.
type layered struct {
	top    Values
	bottom validation.Reader
}

func (l layered) Get(id string) (any, bool) {
	if v, ok := l.top[id]; ok {
		return v, true
	}
	if l.bottom != nil {
		return l.bottom.Get(id)
	}
	return nil, false
}
