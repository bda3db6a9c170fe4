package validation

// ErrorKind names the reason a value was rejected. The zero value means the
// value is valid.
type ErrorKind string

const (
	// None reports a valid value.
	None ErrorKind = ""
	// KindRequired signals an absent or blank value where one is mandatory.
	KindRequired ErrorKind = "required"
	// KindFormatInvalid signals a shape or pattern mismatch (not numeric,
	// malformed email, unknown option).
	KindFormatInvalid ErrorKind = "format-invalid"
	// KindTooLow signals a numeric value below the inclusive lower bound.
	KindTooLow ErrorKind = "too-low"
	// KindTooHigh signals a numeric (or date) value above the inclusive upper
	// bound.
	KindTooHigh ErrorKind = "too-high"
	// KindTooLong signals a character-count (or size) ceiling was exceeded.
	KindTooLong ErrorKind = "too-long"
	// KindUnresolvableReference signals a selection that points at something
	// that no longer exists, such as an address index past the end of the
	// current candidate list.
	KindUnresolvableReference ErrorKind = "unresolvable-reference"
)

// Kinds lists every error kind in a stable order.
var Kinds = []ErrorKind{
	KindRequired,
	KindFormatInvalid,
	KindTooLow,
	KindTooHigh,
	KindTooLong,
	KindUnresolvableReference,
}

// Valid reports whether the kind represents a valid outcome.
func (k ErrorKind) Valid() bool { return k == None }

// Validator checks a single extracted value. Implementations must be pure and
// safe for concurrent use; the same instance is shared across requests.
type Validator interface {
	Validate(value any) ErrorKind
}

// Func adapts a function into a Validator.
type Func func(value any) ErrorKind

// Validate calls the underlying function.
func (fn Func) Validate(value any) ErrorKind {
	return fn(value)
}

// Reader gives read-only access to stored case values. Context validators use
// it to resolve references (for example a candidate list saved by an earlier
// screen).
type Reader interface {
	Get(id string) (any, bool)
}

// ContextValidator is implemented by validators that need to read stored case
// values. Run prefers ValidateIn over Validate when a Reader is available.
type ContextValidator interface {
	Validator
	ValidateIn(value any, r Reader) ErrorKind
}

// Run applies v to value, routing through ValidateIn when v is a
// ContextValidator. A nil validator accepts everything.
func Run(v Validator, value any, r Reader) ErrorKind {
	if v == nil {
		return None
	}
	if cv, ok := v.(ContextValidator); ok && r != nil {
		return cv.ValidateIn(value, r)
	}
	return v.Validate(value)
}

type chain struct {
	validators []Validator
}

// Chain composes validators by sequential application; the first non-valid
// outcome wins. Nil entries are skipped.
func Chain(validators ...Validator) Validator {
	filtered := make([]Validator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	}
	return chain{validators: filtered}
}

func (c chain) Validate(value any) ErrorKind {
	return c.ValidateIn(value, nil)
}

func (c chain) ValidateIn(value any, r Reader) ErrorKind {
	for _, v := range c.validators {
		if kind := Run(v, value, r); kind != None {
			return kind
		}
	}
	return None
}

// MapReader adapts a plain map into a Reader.
type MapReader map[string]any

// Get returns the stored value for id.
func (m MapReader) Get(id string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[id]
	return v, ok
}
