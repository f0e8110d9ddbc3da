package sitegen

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta holds site-wide settings for the generated pages
type Meta struct {
	Title       string `yaml:"title"`
	Tagline     string `yaml:"tagline"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	Footer      string `yaml:"footer"`
	// BaseURL is where the generated site is published; used for feed links
	BaseURL string `yaml:"base_url"`
	// FilesURL prefixes article pdfUrl values, which are relative to the API server
	FilesURL string `yaml:"files_url"`
}

// DefaultMeta returns the settings used when no site file is configured
func DefaultMeta() Meta {
	return Meta{
		Title:       "রাঙ্গামাগ",
		Tagline:     "আধুনিক বাংলা সংবাদপত্র",
		Description: "রাঙ্গামাগ - আধুনিক বাংলা সংবাদপত্র",
		Language:    "bn",
		Footer:      "© রাঙ্গামাগ",
		BaseURL:     "http://localhost:5000/site",
		FilesURL:    "http://localhost:5000",
	}
}

// LoadMeta reads a YAML site file over the defaults. An empty path returns
// the defaults.
func LoadMeta(path string) (Meta, error) {
	meta := DefaultMeta()
	if path == "" {
		return meta, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("read site config: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse site config %s: %w", path, err)
	}

	meta.BaseURL = strings.TrimRight(meta.BaseURL, "/")
	meta.FilesURL = strings.TrimRight(meta.FilesURL, "/")
	return meta, nil
}
