package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/gridsense/errors"
)

// EnvPrefix prefixes every environment override, e.g. GRIDSENSE_GRID_WIDTH.
const EnvPrefix = "GRIDSENSE"

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records, per dotted key, the file that last set it during
// loading. Keys absent here come from defaults or the environment.
var ConfigSources = map[string]SourceInfo{}

// Load reads the gridsense configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access.
// Commands bind their flags to it before calling Load.
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults, ignoring other files and the environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := newDefaultsViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// newDefaultsViper holds the defaults and nothing else.
func newDefaultsViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

// UserConfigPath is ~/.gridsense/am.toml, or "" when there is no home.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gridsense", "am.toml")
}

// findProjectConfig searches for am.toml by walking up from the working
// directory. Returns "" when none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		amPath := filepath.Join(dir, "am.toml")
		if _, err := os.Stat(amPath); err == nil {
			return amPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges configuration files in precedence order
// (lowest to highest): user < project. Files land in viper's config layer,
// so environment variables and bound flags still override them.
func mergeConfigFiles(v *viper.Viper) {
	candidates := []struct {
		path   string
		source ConfigSource
	}{
		{UserConfigPath(), SourceUser},
		{findProjectConfig(), SourceProject},
	}

	for _, c := range candidates {
		if c.path == "" {
			continue
		}
		if _, err := os.Stat(c.path); err != nil {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(c.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range fileViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: c.source, Path: c.path}
		}
	}
}

// envName is the environment variable that overrides key.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}

// IsSet reports whether key has a value from any source, defaults included.
func IsSet(key string) bool {
	return initViper().IsSet(key)
}
