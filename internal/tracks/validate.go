package tracks

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

const catalogSchemaURL = "schema://catalog.json"

var compiledCatalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse catalog schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(catalogSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(catalogSchemaURL)
})

// validateDocument checks a decoded catalog document (JSON or YAML, decoded
// into generic values) against the catalog JSON Schema.
func validateDocument(doc any) error {
	schema, err := compiledCatalogSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("catalog schema validation failed: %w", err)
	}
	return nil
}

// validateTracks performs the structural checks a catalog must pass.
// Returns a combined error describing all problems found, or nil if valid.
func validateTracks(team string, tracks []Track) error {
	var errs []string

	if strings.TrimSpace(team) == "" {
		errs = append(errs, "team name is empty")
	}
	if len(tracks) == 0 {
		errs = append(errs, "catalog has no tracks")
	}

	ids := make(map[string]bool, len(tracks))
	for i, t := range tracks {
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("track %d has an empty ID", i))
		} else if ids[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate track ID: %q", t.ID))
		}
		ids[t.ID] = true

		if t.Category == "" {
			errs = append(errs, fmt.Sprintf("track %q has no category", t.ID))
		}
		if strings.Contains(t.ID, ",") {
			errs = append(errs, fmt.Sprintf("track ID %q contains a comma", t.ID))
		}
		for level, m := range t.Milestones {
			if m.Summary == "" {
				errs = append(errs, fmt.Sprintf("track %q milestone %d has no summary", t.ID, level+1))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog %q validation failed:\n  %s", team, strings.Join(errs, "\n  "))
	}
	return nil
}
