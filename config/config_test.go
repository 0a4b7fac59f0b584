package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	perrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/hierfs/internal/util"
)

// TestNewConfig_WithNilOverride tests that NewConfig creates a config with all default values
// when no override is provided.
func TestNewConfig_WithNilOverride(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(nil)

	require.NotNil(t, cfg)
	assert.Equal(t, createDefaultCfg(), cfg, "must use default values when no config provided")
}

func TestNewConfig_WithAllOverride(t *testing.T) {
	t.Parallel()

	override := createOverride()
	override.LogLvl = util.Pointer(TraceVerbose)
	cfg := NewConfig(override)

	expCfg := &Config{
		MountOptions: MountOptions{
			Debug:  true,
			FsName: "test_fs",
			Name:   "test_name",
		},
		LogLvl:           util.TraceLevel,
		RootName:         "root",
		Principals:       override.Principals,
		DefaultPrincipal: "user1",
		HTTPTimeout:      *override.HTTPTimeout,
		AttrTimeout:      *override.AttrTimeout,
		EntryTimeout:     *override.EntryTimeout,
	}
	require.NotNil(t, cfg)
	assert.Equal(t, expCfg, cfg, "must override all provided fields")
}

func TestConfig_Merge_LogLvlConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		verboseValue  int
		expectedLevel util.LogLevel
	}{
		{"verbose_1_error", 1, util.ErrorLevel},
		{"verbose_2_warn", 2, util.WarnLevel},
		{"verbose_3_info", 3, util.InfoLevel},
		{"verbose_4_debug", 4, util.DebugLevel},
		{"verbose_5_trace", 5, util.TraceLevel},
		{"verbose_0_clamped_to_1", 0, util.ErrorLevel},
		{"verbose_100_clamped_to_5", 100, util.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override := &ConfigOverride{
				LogLvl: &tt.verboseValue,
			}

			cfg := NewConfig(override)

			assert.Equal(t, tt.expectedLevel, cfg.LogLvl,
				"CLI verbose %d should map to util.LogLevel %v", tt.verboseValue, tt.expectedLevel)
		})
	}
}

func TestConfig_Merge_NilOverrideVals(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(&ConfigOverride{})

	require.NotNil(t, cfg)
	assert.Equal(t, createDefaultCfg(), cfg, "must use default values for nil override fields")
}

func TestConfig_Merge_PartialOverride(t *testing.T) {
	t.Parallel()

	override := &ConfigOverride{
		FsName:      util.Pointer("test_fs"),
		HTTPTimeout: util.Pointer(DefaultHTTPTimeout + 1),
	}
	cfg := NewConfig(override)

	expCfg := createDefaultCfg()
	expCfg.FsName = "test_fs"
	expCfg.HTTPTimeout = DefaultHTTPTimeout + 1

	require.NotNil(t, cfg)
	assert.Equal(t, expCfg, cfg, "must override all provided fields and leave rest default")
}

func TestConfig_Merge_PrincipalsAreCopied(t *testing.T) {
	t.Parallel()

	override := &ConfigOverride{
		Principals: []PrincipalConfig{{Name: "user1"}},
	}
	cfg := NewConfig(override)
	override.Principals[0].Name = "mutated"

	assert.Equal(t, "user1", cfg.Principals[0].Name)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg: Config{
				Principals: []PrincipalConfig{
					{Name: "user1", UID: util.Pointer(uint32(1000))},
					{Name: "admin", Admin: true, UID: util.Pointer(uint32(0))},
					{Name: "user2"},
				},
				DefaultPrincipal: "user2",
			},
		},
		{
			name:    "missing name",
			cfg:     Config{Principals: []PrincipalConfig{{Credential: "123"}}},
			wantErr: "has no name",
		},
		{
			name:    "duplicate name",
			cfg:     Config{Principals: []PrincipalConfig{{Name: "a"}, {Name: "a"}}},
			wantErr: "declared twice",
		},
		{
			name: "duplicate uid",
			cfg: Config{Principals: []PrincipalConfig{
				{Name: "a", UID: util.Pointer(uint32(5))},
				{Name: "b", UID: util.Pointer(uint32(5))},
			}},
			wantErr: "uid 5",
		},
		{
			name:    "unknown default principal",
			cfg:     Config{DefaultPrincipal: "ghost"},
			wantErr: "not declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, perrors.CodeInvalidConfig, perrors.GetCode(err))
		})
	}
}

func TestLoadConfigOverrideFile_Valid(t *testing.T) {
	t.Parallel()

	type tc struct {
		ext   string
		build func() (*ConfigOverride, []byte)
	}

	cases := []tc{
		{
			ext: ".yaml",
			build: func() (*ConfigOverride, []byte) {
				o := createOverride()
				b, err := yaml.Marshal(o)
				require.NoError(t, err)
				return o, b
			},
		},
		{
			ext: ".yml",
			build: func() (*ConfigOverride, []byte) {
				o := createOverride()
				b, err := yaml.Marshal(o)
				require.NoError(t, err)
				return o, b
			},
		},
		{
			ext: ".json",
			build: func() (*ConfigOverride, []byte) {
				o := createOverride()
				b, err := json.Marshal(o)
				require.NoError(t, err)
				return o, b
			},
		},
	}

	for _, c := range cases {
		name := "valid" + c.ext
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			override, data := c.build()
			dir := t.TempDir()
			path := filepath.Join(dir, "override"+c.ext)
			require.NoError(t, os.WriteFile(path, data, 0o600))

			loaded, err := LoadConfigOverrideFile(path)

			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, *override, *loaded)
		})
	}
}

func TestLoadConfigOverrideFile_HandWrittenYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
log_level: 4
fs_name: demo
principals:
  - name: user1
    credential: "123"
    uid: 1000
  - name: admin
    credential: "1111"
    admin: true
default_uid_principal: user1
`)
	path := filepath.Join(t.TempDir(), "hierfs.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := NewConfigFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, util.DebugLevel, cfg.LogLvl)
	assert.Equal(t, "demo", cfg.FsName)
	assert.Equal(t, DefaultName, cfg.Name)
	require.Len(t, cfg.Principals, 2)
	assert.Equal(t, uint32(1000), *cfg.Principals[0].UID)
	assert.True(t, cfg.Principals[1].Admin)
	assert.Nil(t, cfg.Principals[1].UID)
	assert.Equal(t, "user1", cfg.DefaultPrincipal)
}

// TestLoadConfigOverrideFile_NonExistentFile tests error handling
// when trying to load a file that doesn't exist.
func TestLoadConfigOverrideFile_NonExistentFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does_not_exist.yaml")

	_, err := LoadConfigOverrideFile(path)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err), "expected not exist error, got %v", err)
}

// TestLoadConfigOverrideFile_UnsupportedExtension tests error handling
// for file extensions that aren't supported (.txt, .xml, etc).
func TestLoadConfigOverrideFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "override.txt")
	require.NoError(t, os.WriteFile(path, []byte("fs_name: x"), 0o600))

	_, err := LoadConfigOverrideFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config file extension")
}

func TestNewConfigFromFile_FileError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := NewConfigFromFile(path)
	require.Error(t, err)
}

func TestNewConfigFromFile_InvalidPrincipals(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"principals":[{"name":"a"},{"name":"a"}]}`), 0o600))

	_, err := NewConfigFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")
}

func createDefaultCfg() *Config {
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

// createOverride makes a ConfigOverride with all non-default values
func createOverride() *ConfigOverride {
	testLogVerbose := TraceVerbose
	if DefaultLogLvl == util.TraceLevel {
		testLogVerbose = DebugVerbose
	}
	return &ConfigOverride{
		LogLvl:   util.Pointer(testLogVerbose),
		Debug:    util.Pointer(true),
		FsName:   util.Pointer("test_fs"),
		Name:     util.Pointer("test_name"),
		RootName: util.Pointer("root"),
		Principals: []PrincipalConfig{
			{Name: "user1", Credential: "123", UID: util.Pointer(uint32(1000))},
			{Name: "admin", Credential: "1111", Admin: true},
		},
		DefaultPrincipal: util.Pointer("user1"),
		HTTPTimeout:      util.Pointer(DefaultHTTPTimeout + 1),
		AttrTimeout:      util.Pointer(float64(DefaultAttrTimeout + 1)),
		EntryTimeout:     util.Pointer(float64(DefaultEntryTimeout + 1)),
	}
}
