package metadata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a workspace declaration from a YAML file.
func LoadFile(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}

	for _, o := range ws.Objects {
		if o == nil {
			return nil, fmt.Errorf("metadata file %s: empty object entry", path)
		}
		if o.NameSingular == "" && o.NamePlural == "" {
			return nil, fmt.Errorf("metadata file %s: object without a name", path)
		}
		for _, f := range o.Fields {
			if f == nil {
				return nil, fmt.Errorf("metadata file %s: %s: empty field entry", path, o.Singular())
			}
			ft, err := ParseFieldType(string(f.Type))
			if err != nil {
				return nil, fmt.Errorf("metadata file %s: %s.%s: %w", path, o.Singular(), f.Name, err)
			}
			f.Type = ft
		}
	}

	return &ws, nil
}
