package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/hierfs/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultFsName   = "hierfs"
	DefaultName     = "hierfs"
	DefaultRootName = "/"
	DefaultLogLvl   = util.InfoLevel

	// DefaultAttrTimeout is the attribute cache timeout in seconds
	DefaultAttrTimeout = 1.0

	// DefaultEntryTimeout is the directory entry cache timeout in seconds
	DefaultEntryTimeout = 1.0

	// DefaultHTTPTimeout bounds http content sources in seconds
	DefaultHTTPTimeout = 30.0
)

// PrincipalConfig declares a principal to register at startup
type PrincipalConfig struct {
	Name       string  `yaml:"name" json:"name"`
	Credential string  `yaml:"credential,omitempty" json:"credential,omitempty"`
	Admin      bool    `yaml:"admin,omitempty" json:"admin,omitempty"`
	UID        *uint32 `yaml:"uid,omitempty" json:"uid,omitempty"` // Host uid mapped to this principal on the FUSE mount
}

// Config contains runtime configuration values for hierfs.
type Config struct {
	MountOptions
	LogLvl   util.LogLevel
	RootName string // Name rendered for the root directory (Default "/")

	// Principals registered when the filesystem is created
	Principals []PrincipalConfig
	// DefaultPrincipal names the principal used for FUSE callers whose uid is
	// not mapped. Empty denies unmapped callers.
	DefaultPrincipal string

	HTTPTimeout  float64 // Timeout for http content sources in seconds (Default 30)
	AttrTimeout  float64 // Attribute cache timeout in seconds (Default 1.0)
	EntryTimeout float64 // Directory entry cache timeout in seconds (Default 1.0)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is a verbosity between 1 (error) and 5 (trace), clamped on merge
	LogLvl           *int              `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Debug            *bool             `yaml:"debug,omitempty" json:"debug,omitempty"`
	FsName           *string           `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name             *string           `yaml:"name,omitempty" json:"name,omitempty"`
	RootName         *string           `yaml:"root_name,omitempty" json:"root_name,omitempty"`
	Principals       []PrincipalConfig `yaml:"principals,omitempty" json:"principals,omitempty"`
	DefaultPrincipal *string           `yaml:"default_uid_principal,omitempty" json:"default_uid_principal,omitempty"`
	HTTPTimeout      *float64          `yaml:"http_timeout,omitempty" json:"http_timeout,omitempty"`
	AttrTimeout      *float64          `yaml:"attr_timeout,omitempty" json:"attr_timeout,omitempty"`
	EntryTimeout     *float64          `yaml:"entry_timeout,omitempty" json:"entry_timeout,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:       DefaultLogLvl,
		RootName:     DefaultRootName,
		HTTPTimeout:  DefaultHTTPTimeout,
		AttrTimeout:  DefaultAttrTimeout,
		EntryTimeout: DefaultEntryTimeout,
	}
}

// NewConfig returns the defaults with override applied; a nil override
// yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = util.LevelFromVerbosity(*override.LogLvl)
	}
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.RootName != nil {
		c.RootName = *override.RootName
	}
	if override.Principals != nil {
		c.Principals = append([]PrincipalConfig(nil), override.Principals...)
	}
	if override.DefaultPrincipal != nil {
		c.DefaultPrincipal = *override.DefaultPrincipal
	}
	if override.HTTPTimeout != nil {
		c.HTTPTimeout = *override.HTTPTimeout
	}
	if override.AttrTimeout != nil {
		c.AttrTimeout = *override.AttrTimeout
	}
	if override.EntryTimeout != nil {
		c.EntryTimeout = *override.EntryTimeout
	}
}

// Validate checks cross-field constraints of the principal declarations
func (c *Config) Validate() error {
	names := make(map[string]struct{}, len(c.Principals))
	uids := make(map[uint32]string)
	for i, p := range c.Principals {
		if p.Name == "" {
			return perrors.Newf(perrors.CodeInvalidConfig, "principal %d has no name", i)
		}
		if _, dup := names[p.Name]; dup {
			return perrors.Newf(perrors.CodeInvalidConfig, "principal %q declared twice", p.Name)
		}
		names[p.Name] = struct{}{}
		if p.UID == nil {
			continue
		}
		if other, dup := uids[*p.UID]; dup {
			return perrors.Newf(perrors.CodeInvalidConfig, "uid %d mapped to both %q and %q", *p.UID, other, p.Name)
		}
		uids[*p.UID] = p.Name
	}
	if c.DefaultPrincipal != "" {
		if _, ok := names[c.DefaultPrincipal]; !ok {
			return perrors.Newf(perrors.CodeInvalidConfig, "default principal %q is not declared", c.DefaultPrincipal)
		}
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults
// and validating the result.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
