package catalog

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

var schemaReflector = jsonschema.Reflector{
	DoNotReference: true,
}

// Schema returns the JSON Schema of the catalog file format
func Schema() ([]byte, error) {
	schema := schemaReflector.Reflect(&FileCatalog{})
	schema.Title = "rag-cost price catalog"
	return json.MarshalIndent(schema, "", "  ")
}
