// Package catalog - Catalog file loading
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"rag-cost/internal/errors"
)

// Format is a catalog file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", errors.Newf(errors.TypeInput, "unsupported catalog file extension %q", filepath.Ext(path))
	}
}

// Decode parses data into the file schema. Unknown fields are rejected.
// filename is only used in diagnostics.
func Decode(format Format, data []byte, filename string) (*FileCatalog, error) {
	var f FileCatalog

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Parsing("decode json catalog "+filename, err)
		}

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Parsing("decode yaml catalog "+filename, err)
		}

	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Parsing("decode toml catalog "+filename, err)
		}

	case FormatHCL:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, filename)
		if diags.HasErrors() {
			return nil, errors.Parsing("parse hcl catalog "+filename, diagError(diags))
		}
		if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
			return nil, errors.Parsing("decode hcl catalog "+filename, diagError(diags))
		}

	default:
		return nil, errors.Newf(errors.TypeInput, "unsupported catalog format %q", format)
	}

	return &f, nil
}

// Parse decodes and validates a catalog
func Parse(format Format, data []byte, filename string) (*Catalog, error) {
	f, err := Decode(format, data, filename)
	if err != nil {
		return nil, err
	}
	return f.ToCatalog()
}

// LoadFile reads, decodes and validates a catalog file
func LoadFile(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "read catalog %s", path)
	}
	return Parse(format, data, path)
}

// Encode writes f in the given format. HCL is read-only.
func Encode(format Format, f *FileCatalog) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(f)
	case FormatTOML:
		return toml.Marshal(f)
	default:
		return nil, errors.Newf(errors.TypeInput, "cannot encode catalog as %q", format)
	}
}

func diagError(diags hcl.Diagnostics) error {
	var msgs []string
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if d.Subject != nil {
			line = d.Subject.Start.Line
		}
		msgs = append(msgs, fmt.Sprintf("line %d: %s: %s", line, d.Summary, d.Detail))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
