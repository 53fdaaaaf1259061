// Package catalog holds the static list of sites shown as stars.
//
// The list is embedded at build time and cannot change while the program runs.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sites.yaml
var embedded string

// ErrInvalidSite is wrapped by every validation failure.
var ErrInvalidSite = errors.New("catalog: invalid site")

// Site is one catalog record. Values are never mutated after loading.
type Site struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Description  string `yaml:"desc"`
	ThumbnailURL string `yaml:"thumb"`
}

// Default returns the embedded catalog.
func Default() ([]Site, error) {
	return Parse(strings.NewReader(embedded))
}

// Parse decodes and validates a YAML list of sites.
func Parse(r io.Reader) ([]Site, error) {
	var sites []Site
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sites); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := Validate(sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// Validate checks every record and rejects duplicate names.
func Validate(sites []Site) error {
	seen := make(map[string]int, len(sites))
	for i, s := range sites {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidSite, i)
		}
		if prev, ok := seen[s.Name]; ok {
			return fmt.Errorf("%w: %q listed at %d and %d", ErrInvalidSite, s.Name, prev, i)
		}
		seen[s.Name] = i

		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidSite, s.Name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q: url %q is not an absolute http(s) url", ErrInvalidSite, s.Name, s.URL)
		}
	}
	return nil
}
