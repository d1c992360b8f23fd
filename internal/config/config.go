// Package config loads storekeeper settings from config.yaml, an optional
// .env file and STOREKEEPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storekeeper/internal/paths"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvPrefix prefixes every environment override, e.g. STOREKEEPER_LOG_LEVEL.
	EnvPrefix = "STOREKEEPER"

	// DefaultEnvFile is read from the working directory when present.
	DefaultEnvFile = ".env"
)

// Config keys.
const (
	KeyDataDir   = "data_dir"
	KeyDBFile    = "db_file"
	KeyImageDir  = "image_dir"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

const defaultConfigHeader = `# storekeeper configuration
#
# data_dir is optional; --data-dir and STOREKEEPER_DATA_DIR also set it.
# Every other key can be overridden with STOREKEEPER_<KEY>.

`

// Options carries the command-line overrides. Empty fields fall through to
// the config file, the environment and the defaults.
type Options struct {
	ConfigDir string
	DataDir   string
	LogLevel  string
	EnvFile   string
}

// Load resolves the config directory, creates it with a default config.yaml
// on first run, and returns the validated configuration.
func Load(opts Options) (types.Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return types.Config{}, err
	}

	configDir, err := paths.ResolveConfigDir(opts.ConfigDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v, err := newViper(configDir)
	if err != nil {
		return types.Config{}, err
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigDir = configDir

	cfg.DataDir, err = paths.ResolveDataDir(opts.DataDir, cfg.DataDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// newViper reads config.yaml from configDir. data_dir is deliberately left
// unbound from the environment: paths.ResolveDataDir ranks the file value
// above STOREKEEPER_DATA_DIR.
func newViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyDBFile, types.DefaultDBFile)
	v.SetDefault(KeyImageDir, types.DefaultImageDir)
	v.SetDefault(KeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(KeyLogFormat, types.DefaultLogFormat)
	v.SetDefault(KeyDataDir, "")

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{KeyDBFile, KeyImageDir, KeyLogLevel, KeyLogFormat} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// loadEnvFile applies KEY=value pairs from path to the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func loadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile writes config.yaml with the default values if the
// file does not exist yet.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(types.Config{
		DBFile:    types.DefaultDBFile,
		ImageDir:  types.DefaultImageDir,
		LogLevel:  types.DefaultLogLevel,
		LogFormat: types.DefaultLogFormat,
	})
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultConfigHeader), data...), 0o644)
}

// FilePath returns the config.yaml location inside configDir.
func FilePath(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}
