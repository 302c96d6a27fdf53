package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultEntity is the template the create tool stamps when none is chosen.
const DefaultEntity = "rectangle.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}
