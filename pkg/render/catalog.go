package render

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var defaultLocales embed.FS

// DefaultLocale is used when a catalog lookup names no locale.
const DefaultLocale = "en"

// Catalog is an in-memory Translator keyed by locale then dotted message key.
// Lookups for a locale without the key fall back to DefaultLocale.
type Catalog map[string]map[string]string

// Translate implements Translator. args, when present, are applied with
// fmt.Sprintf.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range []string{locale, baseLocale(locale), DefaultLocale} {
		if candidate == "" {
			continue
		}
		if msg, ok := c[candidate][key]; ok {
			if len(args) > 0 && strings.Contains(msg, "%") {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

// Locales lists the catalog locales, sorted.
func (c Catalog) Locales() []string {
	out := make([]string, 0, len(c))
	for locale := range c {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Merge overlays other onto c, returning a new catalog.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for _, src := range []Catalog{c, other} {
		for locale, messages := range src {
			if out[locale] == nil {
				out[locale] = make(map[string]string, len(messages))
			}
			for k, v := range messages {
				out[locale][k] = v
			}
		}
	}
	return out
}

func baseLocale(locale string) string {
	if base, _, ok := strings.Cut(locale, "-"); ok {
		return base
	}
	return ""
}

// LoadCatalog reads every *.yaml/*.yml/*.json file in dir of fsys. The file
// name (without extension) is the locale; nested maps flatten to dotted keys.
func LoadCatalog(fsys fs.FS, dir string) (Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("render: read locales %s: %w", dir, err)
	}
	out := make(Catalog)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("render: read %s: %w", name, err)
		}
		// yaml.v3 accepts JSON documents as well
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", name, err)
		}
		locale := strings.TrimSuffix(name, path.Ext(name))
		messages := make(map[string]string)
		flatten("", raw, messages)
		out[locale] = messages
	}
	return out, nil
}

// DefaultCatalog returns the embedded English and Welsh messages.
func DefaultCatalog() Catalog {
	catalog, err := LoadCatalog(defaultLocales, "locales")
	if err != nil {
		panic(err)
	}
	return catalog
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
