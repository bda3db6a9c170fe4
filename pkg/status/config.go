package status

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/hubs.yaml
var defaultHubs embed.FS

// Built-in hub identifiers.
const (
	RespondentReply = "respondentReply"
	CaseDetails     = "caseDetails"
)

// Config is the on-disk hub catalogue.
type Config struct {
	Hubs []HubConfig `yaml:"hubs" json:"hubs"`
}

// HubConfig declares one hub.
type HubConfig struct {
	ID       string            `yaml:"id" json:"id"`
	Derived  string            `yaml:"derived" json:"derived"`
	Sections []string          `yaml:"sections" json:"sections"`
	Defaults map[string]string `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// Validate checks ids, section uniqueness and default tokens.
func (c *Config) Validate() error {
	if len(c.Hubs) == 0 {
		return fmt.Errorf("hubs: at least one hub is required")
	}
	ids := make(map[string]struct{}, len(c.Hubs))
	for _, hub := range c.Hubs {
		if hub.ID == "" {
			return fmt.Errorf("hubs: hub id is required")
		}
		if _, dup := ids[hub.ID]; dup {
			return fmt.Errorf("hubs: duplicate hub %s", hub.ID)
		}
		ids[hub.ID] = struct{}{}
		if len(hub.Sections) == 0 {
			return fmt.Errorf("hubs: hub %s has no sections", hub.ID)
		}
		sections := make(map[string]struct{}, len(hub.Sections))
		for _, section := range hub.Sections {
			if section == "" {
				return fmt.Errorf("hubs: hub %s has an empty section name", hub.ID)
			}
			if _, dup := sections[section]; dup {
				return fmt.Errorf("hubs: hub %s repeats section %s", hub.ID, section)
			}
			if section == hub.Derived {
				return fmt.Errorf("hubs: hub %s lists derived section %s as ordinary", hub.ID, section)
			}
			sections[section] = struct{}{}
		}
		for section, token := range hub.Defaults {
			if _, ok := sections[section]; !ok {
				return fmt.Errorf("hubs: hub %s has a default for unknown section %s", hub.ID, section)
			}
			if _, ok := Parse(token); !ok {
				return fmt.Errorf("hubs: hub %s section %s has unknown default status %q", hub.ID, section, token)
			}
		}
	}
	return nil
}

// FromYAML parses and validates a hub catalogue.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("hubs: invalid yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads a hub catalogue from fsys.
func Load(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("hubs: read %s: %w", path, err)
	}
	return FromYAML(data)
}

// Hub converts a declaration into a Hub.
func (c HubConfig) Hub() Hub {
	hub := Hub{
		ID:       c.ID,
		Sections: append([]string(nil), c.Sections...),
		Derived:  c.Derived,
	}
	if len(c.Defaults) > 0 {
		hub.Defaults = make(map[string]Status, len(c.Defaults))
		for section, token := range c.Defaults {
			if s, ok := Parse(token); ok {
				hub.Defaults[section] = s
			}
		}
	}
	return hub
}

// Catalogue indexes hubs by id.
type Catalogue map[string]Hub

// Catalogue builds the hub index.
func (c *Config) Catalogue() Catalogue {
	out := make(Catalogue, len(c.Hubs))
	for _, hub := range c.Hubs {
		out[hub.ID] = hub.Hub()
	}
	return out
}

// IDs returns the hub ids, sorted.
func (c Catalogue) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Defaults returns the built-in hub catalogue.
func Defaults() Catalogue {
	cfg, err := Load(defaultHubs, "defaults/hubs.yaml")
	if err != nil {
		panic(err)
	}
	return cfg.Catalogue()
}
