package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// defaultConfigPath is the filename used when GATEPOINT_CONFIG is unset.
const defaultConfigPath = "config.json"

// configPath returns the configuration file location.
func configPath() string {
	if p := os.Getenv("GATEPOINT_CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

// defaultConfig is written to disk the first time the access point starts
// without a configuration file.  Network credentials and the server URL must
// be edited before the device is useful.
func defaultConfig() Config {
	return Config{
		Network: NetworkConfig{
			SSID:       "SSID",
			Passphrase: "changeme",
			Interface:  "wlan0",
		},
		ServerURL:             "http://192.168.1.10:3000/attendance",
		RequestTimeoutSeconds: 10,
		Reader: ReaderConfig{
			ResetPin:      25,
			IRQPin:        24,
			PollTimeoutMS: 100,
		},
		Indicators: IndicatorConfig{
			SuccessPin: 13,
			FailurePin: 14,
		},
		LogLevel:  "info",
		Recorders: []RecorderConfig{{Type: "journal", Path: "scans.log"}},
	}
}

// ConfigManager wraps the loaded configuration.  It is read once at startup
// by the scan loop; there is no runtime reconfiguration.
type ConfigManager struct {
	path string
	cfg  Config
}

// NewConfigManager returns a manager reading from path.
func NewConfigManager(path string) *ConfigManager {
	return &ConfigManager{path: path}
}

// Load reads configuration from disk.  If the file does not exist, the default
// configuration is persisted and used.  The result is validated either way.
func (cm *ConfigManager) Load() error {
	data, err := os.ReadFile(cm.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("unable to read config: %w", err)
		}
		cm.cfg = defaultConfig()
		if err := cm.Save(); err != nil {
			return err
		}
		return cm.cfg.validate()
	}
	cfg := defaultConfig()
	cfg.Recorders = nil
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("invalid %s: %w", cm.path, err)
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid %s: %w", cm.path, err)
	}
	cm.cfg = cfg
	return nil
}

// Save writes the configuration to disk through a temporary file.
func (cm *ConfigManager) Save() error {
	bytes, err := json.MarshalIndent(cm.cfg, "", "  ")
	if err != nil {
		return err
	}
	tmpPath := cm.path + ".tmp"
	if err := os.WriteFile(tmpPath, bytes, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, cm.path)
}

// Get returns a copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	return cm.cfg
}

func (c Config) validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url %q must be an absolute http(s) URL", c.ServerURL)
	}
	if c.Indicators.SuccessPin == c.Indicators.FailurePin {
		return errors.New("indicators: success_pin and failure_pin must differ")
	}
	for _, r := range c.Recorders {
		if r.Path == "" {
			return fmt.Errorf("recorder %q: path is required", r.Type)
		}
	}
	return nil
}

// RequestTimeout bounds one verdict exchange.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PollTimeout is how long a single presence request may wait for a tag.
func (c Config) PollTimeout() time.Duration {
	if c.Reader.PollTimeoutMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.Reader.PollTimeoutMS) * time.Millisecond
}

// Level maps log_level onto slog.  Unknown values fall back to info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
