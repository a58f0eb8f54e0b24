package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Goals   GoalsConfig   `mapstructure:"goals"`
}

// JWTConfig holds token signing parameters. SecretKey is expected to be
// injected through the environment, not the YAML file.
type JWTConfig struct {
	SecretKey         string        `mapstructure:"secretKey"`
	Issuer            string        `mapstructure:"issuer"`
	Audience          string        `mapstructure:"audience"`
	AccessExpiry      time.Duration `mapstructure:"accessExpiry"`
	RefreshExpiryDays int           `mapstructure:"refreshExpiryDays"`
}

// GatewayConfig configures the hosted OpenAI-compatible AI gateway.
type GatewayConfig struct {
	BaseURL     string  `mapstructure:"baseURL"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"maxTokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// GoalsConfig carries the dashboard's fixed macro targets in grams.
// These intentionally do not derive from the user's calorie goal.
type GoalsConfig struct {
	ProteinGrams float64 `mapstructure:"proteinGrams"`
	CarbsGrams   float64 `mapstructure:"carbsGrams"`
	FatsGrams    float64 `mapstructure:"fatsGrams"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Secrets come from the environment, never the YAML file
	if err = v.BindEnv("jwt.secretKey", "JWT_SECRET_KEY"); err != nil {
		return Config{}, fmt.Errorf("failed to bind jwt secret env: %s", err)
	}
	if err = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD"); err != nil {
		return Config{}, fmt.Errorf("failed to bind postgres password env: %s", err)
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
