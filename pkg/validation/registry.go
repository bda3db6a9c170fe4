package validation

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Factory builds a validator from the arguments of a textual rule. For the
// rule "currency:0.01:1000" the factory receives ["0.01", "1000"].
type Factory func(args []string) (Validator, error)

// Registry resolves textual rule specs (as written in screen definitions) into
// validators. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	now       func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the clock used by date rules such as "date:past".
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry returns a registry with the built-in rules registered.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	r.registerBuiltins()
	return r
}

// Register adds a factory under name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("validation: factory is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("validation: rule name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("validation: rule %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Names returns the registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse resolves a single rule spec ("name" or "name:arg:arg").
func (r *Registry) Parse(spec string) (Validator, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("validation: empty rule")
	}
	name, rest, _ := strings.Cut(spec, ":")
	var args []string
	if rest != "" {
		if name == "pattern" {
			args = []string{rest}
		} else {
			args = strings.Split(rest, ":")
		}
	}

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("validation: unknown rule %q", name)
	}

	v, err := factory(args)
	if err != nil {
		return nil, fmt.Errorf("validation: rule %q: %w", spec, err)
	}
	return v, nil
}

// ParseAll resolves specs in order and chains the result. An empty list
// returns a nil validator.
func (r *Registry) ParseAll(specs []string) (Validator, error) {
	validators := make([]Validator, 0, len(specs))
	for _, spec := range specs {
		v, err := r.Parse(spec)
		if err != nil {
			return nil, err
		}
		validators = append(validators, v)
	}
	return Chain(validators...), nil
}

func (r *Registry) registerBuiltins() {
	fixed := func(v Validator) Factory {
		return func([]string) (Validator, error) { return v, nil }
	}
	r.MustRegister("required", fixed(Required))
	r.MustRegister("email", fixed(Email))
	r.MustRegister("postcode", fixed(UKPostcode))
	r.MustRegister("phone", fixed(PhoneNumber))

	r.MustRegister("maxLength", func(args []string) (Validator, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one argument")
		}
		limit, err := strconv.Atoi(args[0])
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid limit %q", args[0])
		}
		return MaxLength(limit), nil
	})
	r.MustRegister("number", boundedFactory(Number))
	r.MustRegister("wholeNumber", boundedFactory(WholeNumber))
	r.MustRegister("currency", boundedFactory(Currency))
	r.MustRegister("oneOf", func(args []string) (Validator, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected a comma separated option list")
		}
		return OneOf(strings.Split(args[0], ",")...), nil
	})
	r.MustRegister("pattern", func(args []string) (Validator, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected an expression")
		}
		expr, err := regexp.Compile(args[0])
		if err != nil {
			return nil, err
		}
		return Pattern(expr), nil
	})
	r.MustRegister("date", func(args []string) (Validator, error) {
		switch {
		case len(args) == 0:
			return Date(time.Time{}), nil
		case len(args) == 1 && args[0] == "past":
			return Date(r.now()), nil
		default:
			return nil, fmt.Errorf("unsupported arguments %v", args)
		}
	})
	r.MustRegister("file", func(args []string) (Validator, error) {
		var maxBytes int64
		var exts []string
		if len(args) > 0 && args[0] != "" {
			parsed, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid size %q", args[0])
			}
			maxBytes = parsed
		}
		if len(args) > 1 {
			exts = strings.Split(args[1], ",")
		}
		return FileUpload(maxBytes, exts...), nil
	})
	r.MustRegister("addressIndex", func(args []string) (Validator, error) {
		if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
			return nil, fmt.Errorf("expected the candidate list key")
		}
		return AddressIndex(strings.TrimSpace(args[0])), nil
	})
}

func boundedFactory(build func(min, max float64) Validator) Factory {
	return func(args []string) (Validator, error) {
		min, max := math.Inf(-1), math.Inf(1)
		if len(args) > 2 {
			return nil, fmt.Errorf("expected at most two bounds")
		}
		if len(args) > 0 && args[0] != "" {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid minimum %q", args[0])
			}
			min = v
		}
		if len(args) > 1 && args[1] != "" {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid maximum %q", args[1])
			}
			max = v
		}
		if min > max {
			return nil, fmt.Errorf("minimum %v exceeds maximum %v", min, max)
		}
		return build(min, max), nil
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry holding the built-in rules.
func Default() *Registry {
	return defaultRegistry
}
