package autoload

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/compozy/licensegen/engine/license"
)

// CatalogDocument is the layout of a YAML catalog file.
type CatalogDocument struct {
	Licenses []license.EntryConfig `json:"licenses" yaml:"licenses"`
}

// Schema returns the JSON schema describing CatalogDocument, suitable for
// editor validation of YAML catalog files.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	schema := reflector.Reflect(&CatalogDocument{})
	schema.ID = "licensegen-catalog.json"
	schema.Title = "licensegen catalog"
	schema.Description = "License entries read by licensegen from YAML catalog files"
	schema.Extras = map[string]any{"yamlCompatible": true}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog schema: %w", err)
	}
	return data, nil
}
