package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// LoadAPIConfig reads and validates an API definition file. YAML and JSON
// are both accepted, dispatched on the file extension.
func LoadAPIConfig(path string) (*APIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read API definition: %w", err)
	}

	api := &APIConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, api)
	default:
		err = json.Unmarshal(data, api)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse API definition %s: %w", path, err)
	}

	if err := validate.Struct(api); err != nil {
		return nil, fmt.Errorf("invalid API definition %s: %w", path, err)
	}
	return api, nil
}
