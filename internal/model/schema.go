package model

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// SpecField is one canonical field a caller wants extracted, e.g.
// "Sensor Type" or "Maximum Aperture".
type SpecField struct {
	Name     string `yaml:"name" json:"name"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// SchemaCategory groups the fields for one product category.
type SchemaCategory struct {
	Name   string      `yaml:"name" json:"name"`
	Fields []SpecField `yaml:"fields" json:"fields"`
}

// FieldSchema is the caller-supplied, per-category field schema. Category
// and field order is preserved; the engine treats it as read-only.
type FieldSchema struct {
	Categories []SchemaCategory `yaml:"categories" json:"categories"`
}

// Category returns the named category, or nil if the schema has no entry
// for it.
func (s FieldSchema) Category(name string) *SchemaCategory {
	for i := range s.Categories {
		if strings.EqualFold(s.Categories[i].Name, name) {
			return &s.Categories[i]
		}
	}
	return nil
}

// AllFields returns every field across categories paired with its category
// name, in schema order. Fields repeated across categories appear once per
// category.
func (s FieldSchema) AllFields() []CategorizedField {
	var out []CategorizedField
	for _, c := range s.Categories {
		for _, f := range c.Fields {
			out = append(out, CategorizedField{Field: f, Category: c.Name})
		}
	}
	return out
}

// CategorizedField is a SpecField together with the category it belongs to.
type CategorizedField struct {
	Field    SpecField
	Category string
}

// LoadSchema reads a FieldSchema from a YAML file and validates it.
func LoadSchema(path string) (*FieldSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "schema: read %s", path)
	}

	var schema FieldSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, eris.Wrapf(err, "schema: parse %s", path)
	}

	if len(schema.Categories) == 0 {
		return nil, eris.Errorf("schema: %s defines no categories", path)
	}
	for _, c := range schema.Categories {
		if c.Name == "" {
			return nil, eris.Errorf("schema: %s has a category with no name", path)
		}
		seen := make(map[string]struct{}, len(c.Fields))
		for _, f := range c.Fields {
			if f.Name == "" {
				return nil, eris.Errorf("schema: category %q has a field with no name", c.Name)
			}
			key := strings.ToLower(f.Name)
			if _, dup := seen[key]; dup {
				return nil, eris.Errorf("schema: category %q repeats field %q", c.Name, f.Name)
			}
			seen[key] = struct{}{}
		}
	}

	return &schema, nil
}

// DefaultSchema is the built-in schema used when the caller supplies none.
// It covers the categories the category detector knows about.
func DefaultSchema() FieldSchema {
	return FieldSchema{Categories: []SchemaCategory{
		{Name: "Cameras", Fields: []SpecField{
			{Name: "Sensor Type", Required: true},
			{Name: "Effective Pixels", Required: true},
			{Name: "ISO Range"},
			{Name: "Shutter Speed"},
			{Name: "Video Resolution"},
			{Name: "Autofocus Points"},
			{Name: "Image Stabilization"},
			{Name: "Screen Size"},
			{Name: "Storage Media"},
			{Name: "Battery Life"},
			{Name: "Weather Sealing"},
			{Name: "Connectivity"},
			{Name: "Weight"},
			{Name: "Dimensions"},
		}},
		{Name: "Lenses", Fields: []SpecField{
			{Name: "Focal Length", Required: true},
			{Name: "Maximum Aperture", Required: true},
			{Name: "Minimum Aperture"},
			{Name: "Mount Type"},
			{Name: "Filter Diameter"},
			{Name: "Image Stabilization"},
			{Name: "Minimum Focus Distance"},
			{Name: "Weather Sealing"},
			{Name: "Weight"},
			{Name: "Dimensions"},
		}},
		{Name: "Audio", Fields: []SpecField{
			{Name: "Microphone Type", Required: true},
			{Name: "Polar Pattern"},
			{Name: "Frequency Response"},
			{Name: "Phantom Power"},
			{Name: "Maximum SPL"},
			{Name: "Connector Type"},
			{Name: "Battery Life"},
			{Name: "Weight"},
		}},
		{Name: "Lighting", Fields: []SpecField{
			{Name: "Power Output", Required: true},
			{Name: "Color Temperature"},
			{Name: "CRI"},
			{Name: "Beam Angle"},
			{Name: "Wireless Control"},
			{Name: "Battery Life"},
			{Name: "Mount Type"},
			{Name: "Weight"},
			{Name: "Dimensions"},
		}},
	}}
}
