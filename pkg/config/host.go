package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/fasttemplate"
	"gopkg.in/yaml.v3"
)

// DefaultAPIFile is the definition file name used when the host config
// does not name one.
const DefaultAPIFile = "api.json"

// Config is the host configuration for the proxy process.
type Config struct {
	// Listen is the proxy listen address.
	Listen string `json:"listen" yaml:"listen"`

	// AdminListen is the admin API listen address. Empty disables the
	// admin API.
	AdminListen string `json:"adminListen" yaml:"adminListen"`

	// APIFile is the API definition file. Relative paths and path tokens
	// resolve against the directory of the host config file.
	APIFile string `json:"apiFile" yaml:"apiFile"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// LogFormat is text or json.
	LogFormat string `json:"logFormat" yaml:"logFormat"`

	// path of the loaded config file; empty for Default().
	path string
}

// Default returns the configuration used when no host config file is
// given. Paths resolve against the working directory.
func Default() *Config {
	return &Config{
		Listen:  ":8432",
		APIFile: DefaultAPIFile,
	}
}

// Load reads a host config file (YAML or JSON, by extension) and applies
// defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.path = abs
	if cfg.APIFile == "" {
		cfg.APIFile = DefaultAPIFile
	}
	return cfg, nil
}

// Path returns the host config file path, or empty for Default().
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory other paths resolve against: the host config
// file's directory, or the working directory when no file was loaded.
func (c *Config) Dir() string {
	if c.path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return filepath.Dir(c.path)
}

// ExpandTokens substitutes path tokens in p. The {config_dir} token
// expands to Dir(); unknown tokens are kept verbatim.
func (c *Config) ExpandTokens(p string) string {
	if !strings.Contains(p, "{") {
		return p
	}
	t, err := fasttemplate.NewTemplate(p, "{", "}")
	if err != nil {
		return p
	}
	return t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if tag == "config_dir" {
			return w.Write([]byte(c.Dir()))
		}
		return w.Write([]byte("{" + tag + "}"))
	})
}

// ExpandPath substitutes path tokens in p and resolves it to an absolute
// path; a relative result is joined onto Dir().
func (c *Config) ExpandPath(p string) string {
	p = c.ExpandTokens(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.Dir(), p)
	}
	return filepath.Clean(p)
}
