package validation

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Required rejects nil, blank strings, empty lists and unnamed uploads.
var Required Validator = Func(func(value any) ErrorKind {
	if IsEmpty(value) {
		return KindRequired
	}
	return None
})

// MaxLength rejects strings longer than limit characters (runes, not bytes).
// Blank input is accepted.
func MaxLength(limit int) Validator {
	return Func(func(value any) ErrorKind {
		raw, ok := AsString(value)
		if !ok {
			return KindFormatInvalid
		}
		if utf8.RuneCountInString(raw) > limit {
			return KindTooLong
		}
		return None
	})
}

// Pattern rejects non-blank strings that do not match expr.
func Pattern(expr *regexp.Regexp) Validator {
	return Func(func(value any) ErrorKind {
		if IsEmpty(value) {
			return None
		}
		raw, ok := AsString(value)
		if !ok || !expr.MatchString(strings.TrimSpace(raw)) {
			return KindFormatInvalid
		}
		return None
	})
}

var (
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`)
	postcodePattern = regexp.MustCompile(`^(?i)(GIR ?0AA|[A-PR-UWYZ]([0-9]{1,2}|[A-HK-Y][0-9]([0-9ABEHMNPRV-Y])?|[0-9][A-HJKPS-UW]) ?[0-9][ABD-HJLNP-UW-Z]{2})$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{9,14}$`)
	phoneStrip      = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Email accepts blank input or a syntactically valid email address.
var Email = Pattern(emailPattern)

// UKPostcode accepts blank input or a UK postcode, with or without the space.
var UKPostcode = Pattern(postcodePattern)

// PhoneNumber accepts blank input or 9 to 14 digits with an optional leading
// "+"; spaces, dashes and brackets are ignored.
var PhoneNumber Validator = Func(func(value any) ErrorKind {
	if IsEmpty(value) {
		return None
	}
	raw, ok := AsString(value)
	if !ok {
		return KindFormatInvalid
	}
	if !phonePattern.MatchString(phoneStrip.Replace(strings.TrimSpace(raw))) {
		return KindFormatInvalid
	}
	return None
})

// OneOf accepts blank input or values drawn from options. Lists must be made
// up entirely of known options.
func OneOf(options ...string) Validator {
	allowed := make(map[string]struct{}, len(options))
	for _, option := range options {
		allowed[option] = struct{}{}
	}
	return Func(func(value any) ErrorKind {
		for _, item := range AsStrings(value) {
			if strings.TrimSpace(item) == "" {
				continue
			}
			if _, ok := allowed[item]; !ok {
				return KindFormatInvalid
			}
		}
		return None
	})
}

// DateLayout is the canonical wire format for date answers.
const DateLayout = "2006-01-02"

// Date accepts blank input or a YYYY-MM-DD date. A non-zero notAfter makes
// later dates KindTooHigh.
func Date(notAfter time.Time) Validator {
	return Func(func(value any) ErrorKind {
		if IsEmpty(value) {
			return None
		}
		raw, ok := AsString(value)
		if !ok {
			return KindFormatInvalid
		}
		parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
		if err != nil {
			return KindFormatInvalid
		}
		if !notAfter.IsZero() && parsed.After(notAfter) {
			return KindTooHigh
		}
		return None
	})
}

// FileUpload accepts a missing upload or one within maxBytes whose extension
// is in extensions (case-insensitive, with or without the dot). A maxBytes of
// zero disables the size check; no extensions disables the type check.
func FileUpload(maxBytes int64, extensions ...string) Validator {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return Func(func(value any) ErrorKind {
		if IsEmpty(value) {
			return None
		}
		var upload Upload
		switch v := value.(type) {
		case Upload:
			upload = v
		case *Upload:
			upload = *v
		default:
			return KindFormatInvalid
		}
		if len(allowed) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.Name), "."))
			if _, ok := allowed[ext]; !ok {
				return KindFormatInvalid
			}
		}
		if maxBytes > 0 && upload.Size > maxBytes {
			return KindTooLong
		}
		return None
	})
}

type addressIndex struct {
	candidatesKey string
}

// AddressIndex validates a selected index into a candidate list stored on the
// case under candidatesKey (typically the results of an address lookup saved
// by a previous screen). An index outside the list is
// KindUnresolvableReference; a non-integer is KindFormatInvalid.
func AddressIndex(candidatesKey string) ContextValidator {
	return addressIndex{candidatesKey: candidatesKey}
}

func (a addressIndex) Validate(value any) ErrorKind {
	return a.ValidateIn(value, nil)
}

func (a addressIndex) ValidateIn(value any, r Reader) ErrorKind {
	if IsEmpty(value) {
		return None
	}
	raw, ok := AsString(value)
	if !ok {
		return KindFormatInvalid
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return KindFormatInvalid
	}
	count := 0
	if r != nil {
		if stored, ok := r.Get(a.candidatesKey); ok {
			count = candidateCount(stored)
		}
	}
	if idx < 0 || idx >= count {
		return KindUnresolvableReference
	}
	return None
}

func candidateCount(value any) int {
	switch v := value.(type) {
	case []any:
		return len(v)
	case []string:
		return len(v)
	case []map[string]any:
		return len(v)
	case int:
		return v
	default:
		return 0
	}
}
