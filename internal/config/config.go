// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
	ConfigDirName  = "ecsdash"
	EnvPrefix      = "ECSDASH"
)

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0s"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gte=0s"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"gte=1s"`
}

type BucketsConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=aws gcp"`
	Cap      int    `mapstructure:"cap" validate:"gte=1,lte=100"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
	Service  string `mapstructure:"service"`
}

type GCPConfig struct {
	Project  string `mapstructure:"project"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

type AppConfig struct {
	Environment string `mapstructure:"environment"`
	Developer   string `mapstructure:"developer"`
	Hostname    string `mapstructure:"hostname"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Buckets BucketsConfig `mapstructure:"buckets"`
	AWS     *AWSConfig    `mapstructure:"aws"`
	GCP     *GCPConfig    `mapstructure:"gcp"`
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
}

// Keys that may be changed through 'ecsdash config set'
var settableKeys = map[string]bool{
	"server.address":          true,
	"server.read_timeout":     true,
	"server.write_timeout":    true,
	"server.idle_timeout":     true,
	"server.refresh_interval": true,
	"buckets.provider":        true,
	"buckets.cap":             true,
	"aws.region":              true,
	"aws.endpoint":            true,
	"aws.service":             true,
	"gcp.project":             true,
	"gcp.endpoint":            true,
	"app.environment":         true,
	"app.developer":           true,
	"log.level":               true,
	"log.format":              true,
}

// ConfigManager keeps the persisted file settings separate from the effective
// view (defaults < file < environment) so that 'config set' never writes env overrides back
type ConfigManager struct {
	file       *viper.Viper
	configPath string
	validate   *validator.Validate
}

// Creates a manager reading from the default location ($HOME/.config/ecsdash/config.yaml)
func NewConfigManager() (*ConfigManager, error) {
	path, err := defaultConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerWithPath(path)
}

func NewConfigManagerWithPath(configPath string) (*ConfigManager, error) {
	file := newFileViper(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error checking config file: %w", err)
	}

	return &ConfigManager{
		file:       file,
		configPath: configPath,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func defaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, ConfigFileName+"."+ConfigFileType), nil
}

func newFileViper(configPath string) *viper.Viper {
	file := viper.New()
	file.SetConfigType(ConfigFileType)
	file.SetConfigFile(configPath)
	return file
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.refresh_interval", 30*time.Second)
	v.SetDefault("buckets.provider", "aws")
	v.SetDefault("buckets.cap", 10)
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.service", "ECS Fargate")
	v.SetDefault("gcp.project", "")
	v.SetDefault("gcp.endpoint", "")
	v.SetDefault("app.environment", "production")
	v.SetDefault("app.developer", "")
	v.SetDefault("app.hostname", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Builds the layered view over the given file settings
func effective(settings map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Standard container variables are honoured when no ECSDASH_* override is present
	_ = v.BindEnv("aws.region", EnvPrefix+"_AWS_REGION", "AWS_REGION", "AWS_DEFAULT_REGION")
	_ = v.BindEnv("app.hostname", EnvPrefix+"_APP_HOSTNAME", "HOSTNAME")

	if err := v.MergeConfigMap(settings); err != nil {
		return nil, fmt.Errorf("error merging config file settings: %w", err)
	}
	return v, nil
}

// Path of the backing config file
func (m *ConfigManager) Path() string {
	return m.configPath
}

// Decodes and validates the effective configuration
func (m *ConfigManager) LoadConfig() (*Config, error) {
	return m.decode(m.file.AllSettings())
}

func (m *ConfigManager) decode(settings map[string]interface{}) (*Config, error) {
	v, err := effective(settings)
	if err != nil {
		return nil, err
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}

	// Sections without a usable value are treated as not configured
	if cfg.AWS != nil && cfg.AWS.Region == "" {
		cfg.AWS = nil
	}
	if cfg.GCP != nil && cfg.GCP.Project == "" {
		cfg.GCP = nil
	}

	if err := m.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Persists a single key to the config file. The file must still produce a valid configuration afterwards
func (m *ConfigManager) SetValue(key, value string) error {
	key = strings.ToLower(key)
	if !settableKeys[key] {
		return fmt.Errorf("unknown config key: %s. Supported keys: %s", key, strings.Join(SupportedKeys(), ", "))
	}

	settings := m.file.AllSettings()
	setNested(settings, strings.Split(key, "."), value)

	if _, err := m.decode(settings); err != nil {
		return err
	}
	return m.replaceFile(settings)
}

// Returns the effective value for a key and whether it is set to anything non-empty
func (m *ConfigManager) GetValue(key string) (interface{}, bool) {
	key = strings.ToLower(key)
	v, err := effective(m.file.AllSettings())
	if err != nil || !v.IsSet(key) {
		return nil, false
	}
	value := v.Get(key)
	if s, ok := value.(string); ok && s == "" {
		return nil, false
	}
	return value, true
}

// Removes a key from the config file. Returns false if the file did not contain it
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	key = strings.ToLower(key)

	settings := m.file.AllSettings()
	if !deleteNested(settings, strings.Split(key, ".")) {
		return false, nil
	}
	if err := m.replaceFile(settings); err != nil {
		return false, err
	}
	return true, nil
}

// Returns the settings stored in the config file (not the defaults)
func (m *ConfigManager) GetAllSettings() map[string]interface{} {
	return m.file.AllSettings()
}

// Returns the sorted list of keys accepted by SetValue
func SupportedKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *ConfigManager) replaceFile(settings map[string]interface{}) error {
	file := newFileViper(m.configPath)
	if err := file.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("error rebuilding configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := file.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	m.file = file
	return nil
}

func setNested(settings map[string]interface{}, path []string, value interface{}) {
	if len(path) == 1 {
		settings[path[0]] = value
		return
	}
	child, ok := settings[path[0]].(map[string]interface{})
	if !ok {
		child = make(map[string]interface{})
		settings[path[0]] = child
	}
	setNested(child, path[1:], value)
}

func deleteNested(settings map[string]interface{}, path []string) bool {
	if len(path) == 1 {
		if _, ok := settings[path[0]]; !ok {
			return false
		}
		delete(settings, path[0])
		return true
	}
	child, ok := settings[path[0]].(map[string]interface{})
	if !ok {
		return false
	}
	if !deleteNested(child, path[1:]) {
		return false
	}
	if len(child) == 0 {
		delete(settings, path[0])
	}
	return true
}
