package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("gridlight version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Federated FederatedConfig `mapstructure:"federated"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Probe     ProbeConfig     `mapstructure:"probe"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig describes the GridLight backend session API.
type APIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ClientType string `mapstructure:"client_type"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// FederatedConfig describes the federated identity provider and the
// profile document store that sits next to it.
type FederatedConfig struct {
	IssuerURL       string   `mapstructure:"issuer_url"`
	ClientID        string   `mapstructure:"client_id"`
	ClientSecret    string   `mapstructure:"client_secret"`
	RedirectURL     string   `mapstructure:"redirect_url"`
	Scopes          []string `mapstructure:"scopes"`
	ProfileStoreURL string   `mapstructure:"profile_store_url"`
}

type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// ProbeConfig configures the reachability check performed before any
// network-bound operation.
type ProbeConfig struct {
	Address    string `mapstructure:"address"`
	TimeoutMS  int    `mapstructure:"timeout_ms"`
	ForceState string `mapstructure:"force_state"` // "", "online" or "offline"
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.String("api.base_url", "", "Base URL of the GridLight backend API")
	pflag.String("storage.dir", "", "Directory for the local credential store")
	pflag.Bool("offline", false, "Force offline mode (skip all network calls)")
	// Note: no pflag.Parse() here as it's called in main.go
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("GRIDLIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".gridlight"))
	}

	// A missing config file is fine, env vars and flags still apply
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if viper.GetBool("offline") {
		config.Probe.ForceState = "offline"
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required, please adjust the config or pass --api.base_url or GRIDLIGHT_API_BASE_URL environment variable")
	}

	if config.Storage.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory for storage dir: %w", err)
		}
		config.Storage.Dir = filepath.Join(home, ".gridlight")
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("api.client_type", "cli")
	viper.SetDefault("api.timeout_sec", 30)
	viper.SetDefault("probe.address", "1.1.1.1:443")
	viper.SetDefault("probe.timeout_ms", 1500)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.disable_stacktrace", true)
	viper.SetDefault("federated.scopes", []string{"openid", "email", "profile"})
}
