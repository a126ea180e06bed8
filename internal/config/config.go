package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Playback PlaybackConfig
	Engine   EngineConfig
	Claims   ClaimsConfig
	Debug    DebugConfig
}

// PlaybackConfig controls the demo feed.
type PlaybackConfig struct {
	Scenario string
	TickMs   int
	Autoplay bool
}

// EngineConfig tunes the caller-owned engine state.
type EngineConfig struct {
	StickinessThreshold int
}

// ClaimsConfig overrides parts of the scenario's declared claim set. Empty
// slices mean "use the scenario's own claims".
type ClaimsConfig struct {
	IngressKinds         []string
	EgressKinds          []string
	AllowedEgressDomains []string
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	LogFile string
}

// Load reads configuration from file and env. Env var overrides use prefix APERTURE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("playback.scenario", "consent-gate")
	v.SetDefault("playback.tick_ms", 700)
	v.SetDefault("playback.autoplay", true)
	v.SetDefault("engine.stickiness_threshold", 2)
	v.SetDefault("debug.log_file", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("APERTURE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "aperture"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("APERTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config is fine; anything else, including a file
		// that was found but does not parse, must surface.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Playback: PlaybackConfig{
			Scenario: v.GetString("playback.scenario"),
			TickMs:   v.GetInt("playback.tick_ms"),
			Autoplay: v.GetBool("playback.autoplay"),
		},
		Engine: EngineConfig{
			StickinessThreshold: v.GetInt("engine.stickiness_threshold"),
		},
		Claims: ClaimsConfig{
			IngressKinds:         v.GetStringSlice("claims.ingress_kinds"),
			EgressKinds:          v.GetStringSlice("claims.egress_kinds"),
			AllowedEgressDomains: v.GetStringSlice("claims.allowed_egress_domains"),
		},
		Debug: DebugConfig{
			LogFile: v.GetString("debug.log_file"),
		},
	}

	if cfg.Playback.TickMs < 50 {
		cfg.Playback.TickMs = 50
	}
	if cfg.Engine.StickinessThreshold < 1 {
		cfg.Engine.StickinessThreshold = 1
	}
	return cfg, nil
}
