package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads, parses and validates a YAML mapping file.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Parse parses YAML data into a validated Spec.
func Parse(data []byte) (*Spec, error) {
	var spec Spec

	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&spec)

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(spec *Spec) {
	if spec.Version == "" {
		spec.Version = SpecVersion
	}
	if len(spec.Header) == 0 {
		spec.Header = YNABHeader()
	}
	if spec.Memo != nil && spec.Memo.Target == "" {
		spec.Memo.Target = ColumnMemo
	}
}

// Marshal serializes a Spec to YAML.
func Marshal(spec *Spec) ([]byte, error) {
	return yaml.Marshal(spec)
}
