package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// DataDir is where fetched and ingested datasets live.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// PlotsDir is where rendered figures are written.
	PlotsDir string `mapstructure:"plots_dir" yaml:"plots_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Kaggle credentials. When left empty they resolve from
	// KAGGLE_USERNAME / KAGGLE_KEY (a .env file is honored) or from
	// ~/.kaggle/kaggle.json, where the Kaggle CLI keeps them.
	KaggleUsername string `mapstructure:"kaggle_username" yaml:"kaggle_username"`
	KaggleKey      string `mapstructure:"kaggle_key" yaml:"kaggle_key"`

	// ReferenceYear anchors establishment-age derivation.
	ReferenceYear int `mapstructure:"reference_year" yaml:"reference_year"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.saleslens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".saleslens")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// A .env in the working directory may carry Kaggle credentials.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SALESLENS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", "datasets")
	v.SetDefault("plots_dir", "plots")
	v.SetDefault("log_level", "info")
	v.SetDefault("reference_year", 2024)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".saleslens")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	resolveKaggleCredentials(&c)
	return &c, nil
}

func resolveKaggleCredentials(c *Global) {
	if c.KaggleUsername == "" {
		c.KaggleUsername = os.Getenv("KAGGLE_USERNAME")
	}
	if c.KaggleKey == "" {
		c.KaggleKey = os.Getenv("KAGGLE_KEY")
	}
	if c.KaggleUsername != "" && c.KaggleKey != "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	b, err := os.ReadFile(filepath.Join(home, ".kaggle", "kaggle.json"))
	if err != nil {
		return
	}
	var creds struct {
		Username string `json:"username"`
		Key      string `json:"key"`
	}
	if err := json.Unmarshal(b, &creds); err != nil {
		return
	}
	if c.KaggleUsername == "" {
		c.KaggleUsername = creds.Username
	}
	if c.KaggleKey == "" {
		c.KaggleKey = creds.Key
	}
}
