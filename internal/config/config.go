package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// Interchange identity stamped on every generated 837P.
	SubmitterID    string `mapstructure:"SUBMITTER_ID"`
	SubmitterName  string `mapstructure:"SUBMITTER_NAME"`
	ReceiverID     string `mapstructure:"RECEIVER_ID"`
	ReceiverName   string `mapstructure:"RECEIVER_NAME"`
	UsageIndicator string `mapstructure:"USAGE_INDICATOR"`

	// GS06 zero-pad width. The standard allows up to 9 digits; the
	// downstream control-number reconciliation expects 6.
	GSControlWidth int `mapstructure:"GS_CONTROL_WIDTH"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("USAGE_INDICATOR", "T")
	v.SetDefault("GS_CONTROL_WIDTH", 6)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("SUBMITTER_ID")
	v.BindEnv("SUBMITTER_NAME")
	v.BindEnv("RECEIVER_ID")
	v.BindEnv("RECEIVER_NAME")
	v.BindEnv("USAGE_INDICATOR")
	v.BindEnv("GS_CONTROL_WIDTH")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: authentication is bypassed; do NOT use this configuration in production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside
// development a JWT secret is required so real authentication is
// enforced, and the interchange identity must be complete: a claim
// generated without submitter/receiver IDs is rejected by every
// clearinghouse before adjudication.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV is %q; refusing to start without authentication", c.Env)
	}
	if c.SubmitterID == "" || c.SubmitterName == "" {
		return fmt.Errorf("SUBMITTER_ID and SUBMITTER_NAME are required")
	}
	if c.ReceiverID == "" || c.ReceiverName == "" {
		return fmt.Errorf("RECEIVER_ID and RECEIVER_NAME are required")
	}
	if c.UsageIndicator != "P" && c.UsageIndicator != "T" {
		return fmt.Errorf("USAGE_INDICATOR must be \"P\" (production) or \"T\" (test), got %q", c.UsageIndicator)
	}
	if c.IsProduction() && c.UsageIndicator != "P" {
		return fmt.Errorf("USAGE_INDICATOR must be \"P\" in production, got %q", c.UsageIndicator)
	}
	if c.GSControlWidth < 1 || c.GSControlWidth > 9 {
		return fmt.Errorf("GS_CONTROL_WIDTH must be between 1 and 9, got %d", c.GSControlWidth)
	}
	return nil
}
