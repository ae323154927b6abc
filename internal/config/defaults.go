package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLogLevel         = "INFO"
	DefaultLogFormat        = "text"
	DefaultLogOutput        = "stderr"
	DefaultTransport        = "stdio"
	DefaultHTTPHost         = "127.0.0.1"
	DefaultHTTPPort         = 8080
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultMaxRequestSizeMB = 50
	DefaultDialogTitle      = "Select Directory"
	DefaultLockTimeout      = 5 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any unspecified configuration fields.
// Zero values are replaced; explicit values are preserved. Dialog.Timeout and
// the boolean switches have meaningful zero values and are left alone.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTransportDefaults(&cfg.Transport)
	applyDialogDefaults(&cfg.Dialog)
	applyServerDefaults(&cfg.Server)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = DefaultLogLevel
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = DefaultLogFormat
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Output == "" {
		cfg.Output = DefaultLogOutput
	}
}

func applyTransportDefaults(cfg *TransportConfig) {
	if cfg.Type == "" {
		cfg.Type = DefaultTransport
	}
	cfg.Type = strings.ToLower(cfg.Type)

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = DefaultHTTPHost
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = DefaultHTTPPort
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = DefaultHTTPTimeout
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = DefaultHTTPTimeout
	}
	if cfg.HTTP.MaxRequestSizeMB == 0 {
		cfg.HTTP.MaxRequestSizeMB = DefaultMaxRequestSizeMB
	}
}

func applyDialogDefaults(cfg *DialogConfig) {
	if cfg.Title == "" {
		cfg.Title = DefaultDialogTitle
	}
	if cfg.LockTimeout == 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
}

// applyServerDefaults sets server defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// setViperDefaults mirrors ApplyDefaults as viper defaults.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.output", DefaultLogOutput)
	v.SetDefault("transport.type", DefaultTransport)
	v.SetDefault("transport.http.host", DefaultHTTPHost)
	v.SetDefault("transport.http.port", DefaultHTTPPort)
	v.SetDefault("transport.http.read_timeout", DefaultHTTPTimeout)
	v.SetDefault("transport.http.write_timeout", DefaultHTTPTimeout)
	v.SetDefault("transport.http.max_request_size_mb", DefaultMaxRequestSizeMB)
	v.SetDefault("dialog.title", DefaultDialogTitle)
	v.SetDefault("dialog.command", "")
	v.SetDefault("dialog.use_portal", false)
	v.SetDefault("dialog.lock_timeout", DefaultLockTimeout)
	v.SetDefault("dialog.timeout", time.Duration(0))
	v.SetDefault("enumeration.strict", false)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
}
