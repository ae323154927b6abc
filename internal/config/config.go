package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppName names the config directory and the lock/probe prefixes.
const AppName = "directory-bridge"

// EnvPrefix is the prefix of every environment override, e.g.
// DIRBRIDGE_TRANSPORT_TYPE=http.
const EnvPrefix = "DIRBRIDGE"

// Config holds all configurable values for the bridge.
//
// Configuration sources (in order of precedence):
//  1. CLI flags
//  2. Environment variables (DIRBRIDGE_*)
//  3. Configuration file (YAML)
//  4. Default values
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Transport   TransportConfig   `mapstructure:"transport" yaml:"transport"`
	Dialog      DialogConfig      `mapstructure:"dialog" yaml:"dialog"`
	Enumeration EnumerationConfig `mapstructure:"enumeration" yaml:"enumeration"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR"`

	// Format specifies the log output format
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json"`

	// Output is stdout, stderr, or a file path
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// TransportConfig selects how method calls reach the bridge.
type TransportConfig struct {
	Type string     `mapstructure:"type" yaml:"type" validate:"required,oneof=stdio http"`
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`
}

// HTTPConfig is only used when Transport.Type is "http".
type HTTPConfig struct {
	Host             string        `mapstructure:"host" yaml:"host" validate:"required"`
	Port             int           `mapstructure:"port" yaml:"port" validate:"min=1024,max=65535"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gt=0"`
	MaxRequestSizeMB int           `mapstructure:"max_request_size_mb" yaml:"max_request_size_mb" validate:"min=1,max=100"`
}

// Addr returns host:port.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// DialogConfig controls the directory picker.
type DialogConfig struct {
	Title string `mapstructure:"title" yaml:"title" validate:"required"`

	// Command is a chooser command line tried before zenity, kdialog and yad.
	Command string `mapstructure:"command" yaml:"command"`

	// UsePortal enables the full desktop-portal handshake when sandboxed.
	// When false the portal is only detected.
	UsePortal bool `mapstructure:"use_portal" yaml:"use_portal"`

	// LockTimeout bounds the wait for another open picker to close.
	LockTimeout time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout" validate:"gt=0"`

	// Timeout bounds how long a dialog may stay open. 0 waits forever.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
}

// EnumerationConfig controls getDirectoryDetails.
type EnumerationConfig struct {
	// Strict fails the whole call when any entry cannot be stat'ed.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// ServerConfig contains process-wide settings.
type ServerConfig struct {
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// Load loads configuration from flags, environment, file and defaults.
//
// flags maps config keys (e.g. "logging.level") to CLI flags. Nil flags and
// flags the user did not set are ignored by viper's precedence rules.
func Load(configPath string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with defaults, environment variables and
// config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Defaults are registered with viper so AutomaticEnv can see every key.
	setViperDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file
// at the default location is fine; a missing explicit file is not.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns $XDG_CONFIG_HOME/directory-bridge, falling back to
// ~/.config/directory-bridge and finally the current directory.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", AppName)
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
