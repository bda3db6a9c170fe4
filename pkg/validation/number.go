package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	plainNumberPattern    = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	groupedNumberPattern  = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	currencySymbolReplace = strings.NewReplacer("£", "", "$", "", "€", "", "GBP", "", "gbp", "")
)

// ParseNumber parses a user-entered number. Surrounding whitespace is trimmed
// and, when currency is true, currency symbols are removed. Thousands
// separators are accepted only in well-formed groups of three digits, so
// "1,234.56" parses while "12,34" is KindFormatInvalid. Non-finite results are
// rejected. Blank input reports KindRequired so callers can decide whether the
// field is optional.
func ParseNumber(raw string, currency bool) (float64, ErrorKind) {
	cleaned := strings.TrimSpace(raw)
	if currency {
		cleaned = strings.TrimSpace(currencySymbolReplace.Replace(cleaned))
	}
	if cleaned == "" {
		return 0, KindRequired
	}

	switch {
	case plainNumberPattern.MatchString(cleaned):
	case groupedNumberPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	default:
		return 0, KindFormatInvalid
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, KindFormatInvalid
	}
	return value, None
}

// Bounds is an inclusive numeric range. Use math.Inf for an open side.
type Bounds struct {
	Min float64
	Max float64
}

// Unbounded accepts every finite value.
var Unbounded = Bounds{Min: math.Inf(-1), Max: math.Inf(1)}

func (b Bounds) check(value float64) ErrorKind {
	if value < b.Min {
		return KindTooLow
	}
	if value > b.Max {
		return KindTooHigh
	}
	return None
}

type numberRule struct {
	bounds   Bounds
	currency bool
	whole    bool
}

// Number accepts blank input or a decimal number within the inclusive bounds.
func Number(min, max float64) Validator {
	return numberRule{bounds: Bounds{Min: min, Max: max}}
}

// WholeNumber accepts blank input or an integer within the inclusive bounds.
func WholeNumber(min, max float64) Validator {
	return numberRule{bounds: Bounds{Min: min, Max: max}, whole: true}
}

// Currency accepts blank input or a money amount (currency symbols and grouped
// thousands allowed) within the inclusive bounds.
func Currency(min, max float64) Validator {
	return numberRule{bounds: Bounds{Min: min, Max: max}, currency: true}
}

func (r numberRule) Validate(value any) ErrorKind {
	if IsEmpty(value) {
		return None
	}
	var parsed float64
	switch v := value.(type) {
	case float64:
		parsed = v
	case int:
		parsed = float64(v)
	case int64:
		parsed = float64(v)
	default:
		raw, ok := AsString(value)
		if !ok {
			return KindFormatInvalid
		}
		var kind ErrorKind
		parsed, kind = ParseNumber(raw, r.currency)
		if kind == KindRequired {
			// a bare symbol such as "£"
			return KindFormatInvalid
		}
		if kind != None {
			return kind
		}
	}
	if math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return KindFormatInvalid
	}
	if r.whole && parsed != math.Trunc(parsed) {
		return KindFormatInvalid
	}
	return r.bounds.check(parsed)
}
