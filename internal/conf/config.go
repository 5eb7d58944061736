// config.go: loads and holds the application settings
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled  bool   `yaml:"enabled"`  // true to enable file logging
	Path     string `yaml:"path"`     // path to log file
	MaxSize  int64  `yaml:"maxsize"`  // max log file size in bytes before rotation
	Rotation string `yaml:"rotation"` // rotation policy: daily, weekly or size
}

// Log rotation types
const (
	RotationDaily  = "daily"
	RotationWeekly = "weekly"
	RotationSize   = "size"
)

// MainConfig contains general application settings
type MainConfig struct {
	Name string    `yaml:"name"` // instance name, used in logs
	Log  LogConfig `yaml:"log"`  // main log configuration
}

// ServerConfig contains the HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"` // interface to bind to
	Port string `yaml:"port"` // port to listen on
}

// SQLiteConfig contains SQLite output settings
type SQLiteConfig struct {
	Enabled bool   `yaml:"enabled"` // true to enable SQLite storage
	Path    string `yaml:"path"`    // path to SQLite database file
}

// MySQLConfig contains MySQL output settings
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`  // true to enable MySQL storage
	Username string `yaml:"username"` // MySQL username
	Password string `yaml:"password"` // MySQL password
	Database string `yaml:"database"` // MySQL database name
	Host     string `yaml:"host"`     // MySQL server host
	Port     string `yaml:"port"`     // MySQL server port
}

// OutputConfig wraps the available storage backends
type OutputConfig struct {
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

// VisionConfig contains the external vision model settings
type VisionConfig struct {
	Provider      string        `yaml:"provider"`      // vision provider, currently only "gemini"
	APIKey        string        `yaml:"apikey"`        // API key for the vision service
	Model         string        `yaml:"model"`         // model identifier, e.g. gemini-1.5-flash
	BaseURL       string        `yaml:"baseurl"`       // API base URL, overridable for testing
	Timeout       time.Duration `yaml:"timeout"`       // per-request timeout
	RateLimitMS   int           `yaml:"ratelimitms"`   // minimum milliseconds between requests
	MaxUploadSize int64         `yaml:"maxuploadsize"` // maximum accepted image size in bytes
}

// Settings contains all configuration options for the WildSnap server
type Settings struct {
	Debug bool `yaml:"debug"` // true to enable debug level logging

	Main   MainConfig   `yaml:"main"`
	Server ServerConfig `yaml:"server"`
	Output OutputConfig `yaml:"output"`
	Vision VisionConfig `yaml:"vision"`

	Version   string `yaml:"-"` // build version, set at link time
	BuildDate string `yaml:"-"` // build date, set at link time
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Environment variables take the form WILDSNAP_VISION_APIKEY etc.
	viper.SetEnvPrefix("wildsnap")
	viper.AutomaticEnv()

	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create one with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes a default config file to the first default config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := viper.SafeWriteConfigAs(configPath); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns the list of paths where the config file is searched.
// The current working directory is always checked first.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user config directory: %w", err)
	}

	return []string{
		".",
		filepath.Join(configDir, "wildsnap"),
		filepath.Join(homeDir, ".config", "wildsnap"),
	}, nil
}

// Setting returns the current settings instance, loading it if required.
func Setting() *Settings {
	settingsMutex.RLock()
	instance := settingsInstance
	settingsMutex.RUnlock()

	if instance == nil {
		if _, err := Load(); err != nil {
			return nil
		}
		settingsMutex.RLock()
		instance = settingsInstance
		settingsMutex.RUnlock()
	}
	return instance
}

// GetSettings returns the current settings instance without triggering a load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SetTestSettings replaces the settings instance, used by tests only.
func SetTestSettings(settings *Settings) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	settingsInstance = settings
}
