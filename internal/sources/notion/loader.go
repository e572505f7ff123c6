package notion

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk shape. Absent keys keep the built-in value.
type schemaFile struct {
	Synonyms         map[string][]string `yaml:"synonyms"`
	ActiveStatuses   []string            `yaml:"active_statuses"`
	FilterInactive   *bool               `yaml:"filter_inactive"`
	DefaultStatus    *string             `yaml:"default_status"`
	FallbackCategory *string             `yaml:"fallback_category"`
	DefaultTitle     *string             `yaml:"default_title"`
}

// SchemaLoader reads schema overrides from a YAML file.
type SchemaLoader struct {
	filePath string
}

func NewSchemaLoader(filePath string) *SchemaLoader {
	return &SchemaLoader{filePath: filePath}
}

// Load returns DefaultSchema with the file's values applied on top. An empty
// path yields the defaults.
func (l *SchemaLoader) Load() (Schema, error) {
	schema := DefaultSchema()
	if l.filePath == "" {
		return schema, nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema file: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema yaml: %w", err)
	}

	file.applyTo(&schema)
	return schema, nil
}

func (f schemaFile) applyTo(s *Schema) {
	for logical, names := range f.Synonyms {
		s.Synonyms[strings.ToUpper(logical)] = names
	}
	if f.ActiveStatuses != nil {
		s.ActiveStatuses = f.ActiveStatuses
	}
	if f.FilterInactive != nil {
		s.FilterInactive = *f.FilterInactive
	}
	setString(&s.DefaultStatus, f.DefaultStatus)
	setString(&s.FallbackCategory, f.FallbackCategory)
	setString(&s.DefaultTitle, f.DefaultTitle)
}

func setString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = strings.TrimSpace(*v)
	}
}
