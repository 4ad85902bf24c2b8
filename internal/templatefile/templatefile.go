// Package templatefile reads agreement templates from YAML, JSON or JSONC
// files and renders their guidance as HTML.
package templatefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"vahq/internal/model"
	"vahq/internal/structure"
)

// Format is the encoding of a template file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json" // JSONC is accepted as well
)

// File is the on-disk shape of a template.
type File struct {
	ID          string                  `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string                  `json:"title" yaml:"title"`
	Category    string                  `json:"category,omitempty" yaml:"category,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Guidance    []model.GuidanceSection `json:"guidance,omitempty" yaml:"guidance,omitempty"`
	Sections    []structure.Section     `json:"sections" yaml:"sections"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported template file extension %q (want .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
	}
}

// Parse decodes a template file. Unknown keys are rejected.
func Parse(data []byte, format Format) (*model.Template, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing yaml template: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing json template: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown template format %q", format)
	}

	return &model.Template{
		ID:          f.ID,
		Title:       f.Title,
		Category:    f.Category,
		Description: f.Description,
		Guidance:    f.Guidance,
		Defaults:    structure.Structure{Sections: f.Sections},
	}, nil
}

// ReadFile reads and parses the template at path.
func ReadFile(path string) (*model.Template, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	t, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Encode writes t in the given format. Timestamps are not part of the file.
func Encode(t *model.Template, format Format) ([]byte, error) {
	f := File{
		ID:          t.ID,
		Title:       t.Title,
		Category:    t.Category,
		Description: t.Description,
		Guidance:    t.Guidance,
		Sections:    t.Defaults.Sections,
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("encoding yaml template: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml template: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json template: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown template format %q", format)
	}
}
