package tracks

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.json
var builtinFS embed.FS

// builtinFiles lists the embedded catalogs in team-selector order.
var builtinFiles = []string{
	"data/development.json",
	"data/design.json",
	"data/product.json",
	"data/qa.json",
}

// Builtin returns the registry of embedded team catalogs. The result is
// built once and shared; callers must treat it as read-only.
var Builtin = sync.OnceValues(func() (*Registry, error) {
	catalogs := make([]*Catalog, 0, len(builtinFiles))
	for _, name := range builtinFiles {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		c, err := ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		catalogs = append(catalogs, c)
	}
	return NewRegistry(DefaultTeam, catalogs...)
})

// ParseJSON parses and validates a JSON catalog definition.
func ParseJSON(data []byte) (*Catalog, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return f.toCatalog()
}

// ParseYAML parses and validates a YAML catalog definition.
func ParseYAML(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return f.toCatalog()
}

// LoadFile reads a single catalog from a .json, .yaml or .yml file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file type: %s", path)
	}
}

// LoadDir returns a copy of r extended with every catalog file found in dir.
// Files that fail to parse are logged and skipped.
func (r *Registry) LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog directory: %w", err)
	}

	var catalogs []*Catalog
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}

		path := filepath.Join(dir, e.Name())
		c, err := LoadFile(path)
		if err != nil {
			slog.Warn("failed to load catalog", "file", path, "error", err)
			continue
		}
		slog.Info("catalog loaded", "team", c.Team(), "tracks", c.Len(), "file", path)
		catalogs = append(catalogs, c)
	}

	return r.With(catalogs...), nil
}

// toCatalog converts the file representation into a validated Catalog.
func (f catalogFile) toCatalog() (*Catalog, error) {
	tracks := make([]Track, 0, len(f.Tracks))
	for _, tf := range f.Tracks {
		if len(tf.Milestones) != MilestoneCount {
			return nil, fmt.Errorf("track %q has %d milestones, want %d", tf.ID, len(tf.Milestones), MilestoneCount)
		}
		t := Track{
			ID:          tf.ID,
			DisplayName: tf.DisplayName,
			Category:    tf.Category,
			Description: tf.Description,
		}
		copy(t.Milestones[:], tf.Milestones)
		tracks = append(tracks, t)
	}
	return NewCatalog(f.Team, tracks)
}
