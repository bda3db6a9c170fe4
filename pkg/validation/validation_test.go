package validation_test

import (
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-caseflow/pkg/validation"
)

func TestParseNumber_Currency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want float64
		kind validation.ErrorKind
	}{
		{name: "symbol and grouping", raw: "£1,234.56", want: 1234.56},
		{name: "surrounding whitespace", raw: "  42  ", want: 42},
		{name: "large grouping", raw: "$1,000,000", want: 1000000},
		{name: "bad grouping", raw: "12,34", kind: validation.KindFormatInvalid},
		{name: "letters", raw: "12abc", kind: validation.KindFormatInvalid},
		{name: "blank", raw: "   ", kind: validation.KindRequired},
		{name: "overflow", raw: strings.Repeat("9", 400), kind: validation.KindFormatInvalid},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, kind := validation.ParseNumber(tc.raw, true)
			if kind != tc.kind {
				t.Fatalf("ParseNumber(%q) kind = %q, want %q", tc.raw, kind, tc.kind)
			}
			if kind == validation.None && got != tc.want {
				t.Fatalf("ParseNumber(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestCurrencyValidator(t *testing.T) {
	t.Parallel()

	v := validation.Currency(0.01, 1_000_000)

	cases := map[string]validation.ErrorKind{
		"£1,234.56": validation.None,
		"12,34":     validation.KindFormatInvalid,
		"0.001":     validation.KindTooLow,
		"2,000,000": validation.KindTooHigh,
		"":          validation.None,
		"£":         validation.KindFormatInvalid,
	}
	for raw, want := range cases {
		if got := v.Validate(raw); got != want {
			t.Errorf("Currency.Validate(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestWholeNumberRejectsFractions(t *testing.T) {
	t.Parallel()

	v := validation.WholeNumber(0, 168)
	if got := v.Validate("37.5"); got != validation.KindFormatInvalid {
		t.Fatalf("expected format-invalid, got %q", got)
	}
	if got := v.Validate("40"); got != validation.None {
		t.Fatalf("expected valid, got %q", got)
	}
	if got := v.Validate("169"); got != validation.KindTooHigh {
		t.Fatalf("expected too-high, got %q", got)
	}
	if got := validation.Number(math.Inf(-1), math.Inf(1)).Validate(3.5); got != validation.None {
		t.Fatalf("expected typed float to pass, got %q", got)
	}
}

func TestRequired(t *testing.T) {
	t.Parallel()

	for _, value := range []any{nil, "", "   ", []string{}, []string{" "}, validation.Upload{}} {
		if got := validation.Required.Validate(value); got != validation.KindRequired {
			t.Errorf("Required(%#v) = %q, want required", value, got)
		}
	}
	for _, value := range []any{"x", []string{"a"}, validation.Upload{Name: "et3.pdf"}} {
		if got := validation.Required.Validate(value); got != validation.None {
			t.Errorf("Required(%#v) = %q, want valid", value, got)
		}
	}
}

func TestChainStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	counting := validation.Func(func(any) validation.ErrorKind {
		calls++
		return validation.None
	})

	v := validation.Chain(validation.Required, counting)
	if got := v.Validate(""); got != validation.KindRequired {
		t.Fatalf("expected required, got %q", got)
	}
	if calls != 0 {
		t.Fatalf("expected chain to stop before second validator, got %d calls", calls)
	}
	if validation.Chain(nil, nil) != nil {
		t.Fatalf("expected empty chain to collapse to nil")
	}
}

func TestFormatValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		v     validation.Validator
		value any
		want  validation.ErrorKind
	}{
		{"email ok", validation.Email, "jo@example.com", validation.None},
		{"email bad", validation.Email, "jo@", validation.KindFormatInvalid},
		{"email blank", validation.Email, "", validation.None},
		{"postcode ok", validation.UKPostcode, "SW1A 1AA", validation.None},
		{"postcode compact", validation.UKPostcode, "sw1a1aa", validation.None},
		{"postcode bad", validation.UKPostcode, "12345", validation.KindFormatInvalid},
		{"phone ok", validation.PhoneNumber, "+44 (0)20 7946-0958", validation.None},
		{"phone plain", validation.PhoneNumber, "020 7946 0958", validation.None},
		{"phone short", validation.PhoneNumber, "1234", validation.KindFormatInvalid},
		{"max length", validation.MaxLength(5), "héllo", validation.None},
		{"too long", validation.MaxLength(5), "héllo!", validation.KindTooLong},
		{"one of", validation.OneOf("Yes", "No"), "Maybe", validation.KindFormatInvalid},
		{"one of list", validation.OneOf("a", "b"), []string{"a", "b"}, validation.None},
		{"pattern", validation.Pattern(regexp.MustCompile(`^R\d{6}/\d{2}/\d{2}$`)), "R123456/78/90", validation.None},
	}
	for _, tc := range tests {
		if got := tc.v.Validate(tc.value); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDateValidator(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	v := validation.Date(now)

	if got := v.Validate("2024-04-30"); got != validation.None {
		t.Fatalf("expected valid, got %q", got)
	}
	if got := v.Validate("2024-05-02"); got != validation.KindTooHigh {
		t.Fatalf("expected too-high, got %q", got)
	}
	if got := v.Validate("30/04/2024"); got != validation.KindFormatInvalid {
		t.Fatalf("expected format-invalid, got %q", got)
	}
}

func TestFileUpload(t *testing.T) {
	t.Parallel()

	v := validation.FileUpload(1024, ".pdf", "docx")
	if got := v.Validate(validation.Upload{Name: "claim.PDF", Size: 10}); got != validation.None {
		t.Fatalf("expected valid, got %q", got)
	}
	if got := v.Validate(validation.Upload{Name: "claim.exe", Size: 10}); got != validation.KindFormatInvalid {
		t.Fatalf("expected format-invalid, got %q", got)
	}
	if got := v.Validate(validation.Upload{Name: "claim.pdf", Size: 4096}); got != validation.KindTooLong {
		t.Fatalf("expected too-long, got %q", got)
	}
}

func TestAddressIndex(t *testing.T) {
	t.Parallel()

	v := validation.AddressIndex("addressCandidates")
	store := validation.MapReader{"addressCandidates": []any{"1 High St", "2 High St"}}

	if got := validation.Run(v, "1", store); got != validation.None {
		t.Fatalf("expected valid, got %q", got)
	}
	if got := validation.Run(v, "2", store); got != validation.KindUnresolvableReference {
		t.Fatalf("expected unresolvable-reference, got %q", got)
	}
	if got := validation.Run(v, "first", store); got != validation.KindFormatInvalid {
		t.Fatalf("expected format-invalid, got %q", got)
	}
	if got := validation.Run(v, "0", nil); got != validation.KindUnresolvableReference {
		t.Fatalf("expected unresolvable-reference without a reader, got %q", got)
	}
}
