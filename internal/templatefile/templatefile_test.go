package templatefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vahq/internal/model"
	"vahq/internal/structure"
)

const yamlTemplate = `
id: marketing
title: Marketing Agreement
category: marketing
description: Monthly retainer
guidance:
  - heading: Tone
    body: Keep the scope **short**.
sections:
  - id: scope
    title: Scope
    items:
      - id: services
        label: Services
        type: checkbox_group
        options: [Email, Social, Ads]
        value: [Email]
      - id: notes
        label: Notes
        type: long_text
        hidden: true
  - id: terms
    title: Terms
    items:
      - id: start
        label: Start date
        type: date
      - id: agree
        label: I agree
        type: checkbox
`

const jsoncTemplate = `{
  // operator-chosen slug
  "id": "marketing",
  "title": "Marketing Agreement",
  "category": "marketing",
  "description": "Monthly retainer",
  "guidance": [{"heading": "Tone", "body": "Keep the scope **short**."}],
  "sections": [
    {"id": "scope", "title": "Scope", "items": [
      {"id": "services", "label": "Services", "type": "checkbox_group", "options": ["Email", "Social", "Ads"], "value": ["Email"]},
      {"id": "notes", "label": "Notes", "type": "long_text", "hidden": true},
    ]},
    /* second section */
    {"id": "terms", "title": "Terms", "items": [
      {"id": "start", "label": "Start date", "type": "date"},
      {"id": "agree", "label": "I agree", "type": "checkbox"},
    ]},
  ],
}`

func wantTemplate() *model.Template {
	selected := structure.SelectionValue("Email")
	return &model.Template{
		ID:          "marketing",
		Title:       "Marketing Agreement",
		Category:    "marketing",
		Description: "Monthly retainer",
		Guidance:    []model.GuidanceSection{{Heading: "Tone", Body: "Keep the scope **short**."}},
		Defaults: structure.Structure{Sections: []structure.Section{
			{ID: "scope", Title: "Scope", Fields: []structure.Field{
				{ID: "services", Label: "Services", Kind: structure.KindCheckboxGroup, Options: []string{"Email", "Social", "Ads"}, Value: &selected},
				{ID: "notes", Label: "Notes", Kind: structure.KindLongText, Hidden: true},
			}},
			{ID: "terms", Title: "Terms", Fields: []structure.Field{
				{ID: "start", Label: "Start date", Kind: structure.KindDate},
				{ID: "agree", Label: "I agree", Kind: structure.KindCheckbox},
			}},
		}},
	}
}

var cmpStructure = cmp.Comparer(structure.Equal)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml", yamlTemplate, FormatYAML},
		{"jsonc with comments and trailing commas", jsoncTemplate, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)
			if diff := cmp.Diff(wantTemplate(), got, cmpStructure); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			require.NoError(t, structure.Validate(got.Defaults))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"unknown yaml key", "title: T\nsections: []\ncolour: red\n", FormatYAML},
		{"unknown json key", `{"title": "T", "sections": [], "colour": "red"}`, FormatJSON},
		{"malformed json", `{"title": `, FormatJSON},
		{"bad value type", "title: T\nsections:\n  - id: s\n    title: S\n    items:\n      - id: f\n        label: F\n        type: checkbox\n        value: {a: 1}\n", FormatYAML},
		{"unknown format", "title: T", Format("toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.yaml", FormatYAML, false},
		{"dir/a.YML", FormatYAML, false},
		{"a.json", FormatJSON, false},
		{"a.jsonc", FormatJSON, false},
		{"a.txt", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads yaml file", func(t *testing.T) {
		path := filepath.Join(dir, "marketing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yamlTemplate), 0644))

		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Marketing Agreement", got.Title)
	})

	t.Run("error names the file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

		_, err := ReadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.json")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestEncode_ParsesBack(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(wantTemplate(), format)
			require.NoError(t, err)

			got, err := Parse(data, format)
			require.NoError(t, err)
			if diff := cmp.Diff(wantTemplate(), got, cmpStructure); diff != "" {
				t.Errorf("Encode/Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderGuidance(t *testing.T) {
	t.Run("headings and markdown", func(t *testing.T) {
		got, err := RenderGuidance([]model.GuidanceSection{
			{Heading: "Tone & voice", Body: "Keep it **short**."},
			{Heading: "Checklist", Body: "- [x] scope\n- [ ] budget\n"},
		})
		require.NoError(t, err)

		assert.Contains(t, got, "<h2>Tone &amp; voice</h2>")
		assert.Contains(t, got, "<strong>short</strong>")
		assert.Contains(t, got, `type="checkbox"`)
	})

	t.Run("raw html is not passed through", func(t *testing.T) {
		got, err := RenderGuidance([]model.GuidanceSection{{Body: "<script>alert(1)</script>"}})
		require.NoError(t, err)
		assert.False(t, strings.Contains(got, "<script>"), "got %q", got)
	})

	t.Run("no sections", func(t *testing.T) {
		got, err := RenderGuidance(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
