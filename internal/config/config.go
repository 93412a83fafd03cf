// Package config loads fastlane's runtime configuration the way the
// teacher repo's pkg/config does: a viper-backed, environment-overridable
// YAML file, optionally seeded from a .env via godotenv for local
// development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// NetworkConfig describes the HTTP gateway's listen address.
type NetworkConfig struct {
	ListenAddress string `mapstructure:"listen_address" json:"listen_address"`
}

// LoggingConfig controls the package-wide logrus configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"` // "text" or "json"
}

// MetricsConfig controls the prometheus registration namespace and whether
// the gateway exposes a /metrics endpoint at all.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" json:"namespace"`
	Enabled   bool   `mapstructure:"enabled" json:"enabled"`
}

// ClockConfig holds a slot duration setting. Neither binary reads it: both
// build engine.NewWallClock, whose 400ms slot duration is fixed.
type ClockConfig struct {
	SlotDuration time.Duration `mapstructure:"slot_duration" json:"slot_duration"`
}

// AuctionDefaultsConfig holds default AuctionParameters values. No code
// reads them; InitializeCustodian proposes no auction config.
type AuctionDefaultsConfig struct {
	DurationSlots        uint64 `mapstructure:"duration_slots" json:"duration_slots"`
	GracePeriodSlots     uint64 `mapstructure:"grace_period_slots" json:"grace_period_slots"`
	PenaltyPeriodSlots   uint64 `mapstructure:"penalty_period_slots" json:"penalty_period_slots"`
	InitialPenaltyBps    uint32 `mapstructure:"initial_penalty_bps" json:"initial_penalty_bps"`
	UserPenaltyRewardBps uint32 `mapstructure:"user_penalty_reward_bps" json:"user_penalty_reward_bps"`
	MinOfferDeltaBps     uint32 `mapstructure:"min_offer_delta_bps" json:"min_offer_delta_bps"`
	SecurityDepositBase  uint64 `mapstructure:"security_deposit_base" json:"security_deposit_base"`
	SecurityDepositBps   uint32 `mapstructure:"security_deposit_bps" json:"security_deposit_bps"`
}

// Config is the top-level configuration tree for both cmd/fastlane and
// cmd/fastlaned.
type Config struct {
	Network         NetworkConfig         `mapstructure:"network" json:"network"`
	Logging         LoggingConfig         `mapstructure:"logging" json:"logging"`
	Metrics         MetricsConfig         `mapstructure:"metrics" json:"metrics"`
	Clock           ClockConfig           `mapstructure:"clock" json:"clock"`
	AuctionDefaults AuctionDefaultsConfig `mapstructure:"auction_defaults" json:"auction_defaults"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("network.listen_address", ":8089")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("metrics.namespace", "fastlane")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("clock.slot_duration", 400*time.Millisecond)
	v.SetDefault("auction_defaults.duration_slots", 2)
	v.SetDefault("auction_defaults.grace_period_slots", 5)
	v.SetDefault("auction_defaults.penalty_period_slots", 10)
	v.SetDefault("auction_defaults.initial_penalty_bps", 100_000)
	v.SetDefault("auction_defaults.user_penalty_reward_bps", 200_000)
	v.SetDefault("auction_defaults.min_offer_delta_bps", 5_000)
	v.SetDefault("auction_defaults.security_deposit_base", 0)
	v.SetDefault("auction_defaults.security_deposit_bps", 5_000)
}

// Load reads config/<env>.yaml (optionally overridden by ./.env) and any
// FASTLANE_-prefixed environment variables, merging them over the built-in
// defaults.
func Load(env string) (*Config, error) {
	_ = godotenv.Load() // optional local .env; absence is not an error

	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("FASTLANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
