package render

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingTranslator is passed to the missing handler when no
	// Translator was configured.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrMissingTranslation is returned by Catalog for unknown keys.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// Translator resolves a message key for a locale. Lookup and localisation
// are owned by the caller; the form schema only carries keys.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate delegates to the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// resolved. args carries a {"default": fallback} map as its first entry.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if fallback := defaultFromArgs(args); fallback != "" {
		return fallback
	}
	return key
}

func defaultFromArgs(args []any) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if s, ok := m["default"].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// Localizer binds a translator to a locale.
type Localizer struct {
	Translator Translator
	Locale     string
	OnMissing  MissingTranslationHandler
}

// Text resolves key, falling back to fallback (or the key itself).
func (l Localizer) Text(key, fallback string) string {
	onMissing := l.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(l.Locale, key, fallback, l.Translator, onMissing)
}

// First resolves the first key that the translator knows. When none resolve
// the missing handler receives the last key.
func (l Localizer) First(fallback string, keys ...string) string {
	if l.Translator != nil {
		for _, key := range keys {
			if key = strings.TrimSpace(key); key == "" {
				continue
			}
			if msg, err := l.Translator.Translate(l.Locale, key); err == nil && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
	}
	last := ""
	for i := len(keys) - 1; i >= 0; i-- {
		if strings.TrimSpace(keys[i]) != "" {
			last = keys[i]
			break
		}
	}
	if last == "" {
		return fallback
	}
	return l.Text(last, fallback)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if err == nil {
		err = fmt.Errorf("%w: %s", ErrMissingTranslation, key)
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}
