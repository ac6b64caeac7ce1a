package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/gocrane/canary-metrics/pkg/known"
)

const (
	DefaultServerAddress = ":8090"
	DefaultStoragePath   = "./data/metric-sets.db"
	DefaultQueryLimit    = 4
)

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Storage  StorageConfig   `yaml:"storage"`
	Query    QueryConfig     `yaml:"query"`
	Accounts []AccountConfig `yaml:"accounts"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type StorageConfig struct {
	// Path of the SQLite file holding stored metric set lists.
	Path string `yaml:"path"`
}

type QueryConfig struct {
	// Limit bounds how many metrics are fetched concurrently by one request.
	Limit int `yaml:"limit"`
}

// AccountConfig configures one named account of a monitoring backend.
type AccountConfig struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Project string `yaml:"project"`
	// JSONPath points to a service account key file. Application default
	// credentials are used when empty.
	JSONPath string `yaml:"jsonPath"`
	// Endpoint overrides the monitoring API endpoint.
	Endpoint string `yaml:"endpoint"`
}

// Default returns a Config with every default applied and no accounts.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads the YAML file at path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) SetDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.Query.Limit <= 0 {
		c.Query.Limit = DefaultQueryLimit
	}
	for i := range c.Accounts {
		if c.Accounts[i].Type == "" {
			c.Accounts[i].Type = known.StackdriverServiceType
		}
	}
}

func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.Name == "" {
			return fmt.Errorf("accounts[%d]: name is required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("accounts[%d]: duplicate account name %s", i, a.Name)
		}
		seen[a.Name] = true

		switch a.Type {
		case known.StackdriverServiceType:
			if a.Project == "" {
				return fmt.Errorf("account %s: project is required for %s accounts", a.Name, a.Type)
			}
		default:
			return fmt.Errorf("account %s: unsupported type %q", a.Name, a.Type)
		}
	}
	return nil
}

// AccountsOfType returns the configured accounts of one backend type.
func (c *Config) AccountsOfType(typ string) []AccountConfig {
	var out []AccountConfig
	for _, a := range c.Accounts {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}
