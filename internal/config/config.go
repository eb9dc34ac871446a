package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        int    `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	Environment string `mapstructure:"environment"`
	ModelDir    string `mapstructure:"model_dir"`
	ModelURL    string `mapstructure:"model_url"`
	ModelFile   string `mapstructure:"model_file"`
}

var config *Config

// LoadConfig merges defaults, an optional .env file, environment variables
// and bound flags into the process-wide config. Called once from the root
// command before any subcommand runs.
func LoadConfig() error {
	if config != nil {
		return fmt.Errorf("config already loaded")
	}

	if envFile := viper.GetString("env_file"); envFile != "" {
		if _, err := os.Stat(envFile); err != nil {
			return fmt.Errorf("failed to stat env file: %w", err)
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	viper.SetDefault("port", DefaultPort)
	viper.SetDefault("host", DefaultHost)
	viper.SetDefault("environment", DefaultEnvironment)
	viper.SetDefault("model_dir", DefaultModelDir)
	viper.SetDefault("model_file", DefaultModelFile)

	config = &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	if config.ModelDir == "" {
		return ErrModelDirNotSet
	}

	return nil
}

func GetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

func MustGetConfig() *Config {
	return GetConfig()
}

// Reset discards the loaded config so tests can load a fresh one.
func Reset() {
	config = nil
}
