package types

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config holds the settings storekeeper reads from config.yaml, the
// environment and command-line flags.
type Config struct {
	DataDir   string `mapstructure:"data_dir" yaml:"data_dir,omitempty" validate:"required"`
	DBFile    string `mapstructure:"db_file" yaml:"db_file" validate:"required"`
	ImageDir  string `mapstructure:"image_dir" yaml:"image_dir,omitempty"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// ConfigDir is where config.yaml was read from. It is not itself a
	// config key.
	ConfigDir string `mapstructure:"-" yaml:"-"`
}

// Defaults used when a key is absent from every config source.
const (
	DefaultDBFile    = "storekeeper.db"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultImageDir  = "images"
)

// Config validation errors.
var (
	ErrDataDirEmpty     = errors.New("data directory must not be empty")
	ErrDBFileEmpty      = errors.New("database file must not be empty")
	ErrLogLevelUnknown  = errors.New("unknown log level")
	ErrLogFormatUnknown = errors.New("unknown log format")
)

var configValidator = validator.New()

// Validate checks that the Config is well-formed. It returns one of the
// sentinel errors above, wrapped with the offending value.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "DataDir":
		return ErrDataDirEmpty
	case "DBFile":
		return ErrDBFileEmpty
	case "LogLevel":
		return fmt.Errorf("%w: %q", ErrLogLevelUnknown, c.LogLevel)
	case "LogFormat":
		return fmt.Errorf("%w: %q", ErrLogFormatUnknown, c.LogFormat)
	default:
		return fmt.Errorf("invalid config field %s: %s", fe.Field(), fe.Tag())
	}
}

// DBPath returns the database file location. An absolute DBFile is used
// as is; otherwise it is joined to DataDir.
func (c Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

// ImagePath returns the directory holding managed image copies.
func (c Config) ImagePath() string {
	dir := c.ImageDir
	if dir == "" {
		dir = DefaultImageDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.DataDir, dir)
}
