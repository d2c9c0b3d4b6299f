package cadence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// policyFile is the on-disk shape of a cadence policy override.
type policyFile struct {
	Standard Thresholds `yaml:"standard"`
}

// LoadThresholds reads standard-policy thresholds from a YAML file.
// An empty path returns the defaults. Fields omitted from the file keep
// their default values.
func LoadThresholds(path string) (Thresholds, error) {
	thresholds := DefaultThresholds()
	if path == "" {
		return thresholds, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read cadence policy file: %w", err)
	}

	file := policyFile{Standard: thresholds}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Thresholds{}, fmt.Errorf("parse cadence policy file: %w", err)
	}

	if err := file.Standard.Validate(); err != nil {
		return Thresholds{}, err
	}

	return file.Standard, nil
}
