package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/vsariola/chime"
)

// Config holds all configuration of the chime tool
type Config struct {
	Sound SoundConfig
	Log   LogConfig
}

// SoundConfig holds audio output configuration
type SoundConfig struct {
	Enabled    bool
	Policy     chime.Policy
	SampleRate int
	BufferSize time.Duration
	Volume     float64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level zerolog.Level
}

// Load reads the configuration from the file at path, or from chime.yaml in
// the working directory if path is empty and such a file exists. Environment
// variables prefixed with CHIME_ override file values, e.g.
// CHIME_SOUND_ENABLED=false.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("sound.enabled", true)
	v.SetDefault("sound.policy", "best-effort")
	v.SetDefault("sound.sample_rate", chime.DefaultSampleRate)
	v.SetDefault("sound.buffer_size", "50ms")
	v.SetDefault("sound.volume", 1.0)
	v.SetDefault("log.level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %v: %w", path, err)
		}
	} else {
		v.SetConfigName("chime")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("could not read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CHIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	var err error
	config.Sound.Enabled = v.GetBool("sound.enabled")
	if config.Sound.Policy, err = chime.ParsePolicy(v.GetString("sound.policy")); err != nil {
		return nil, fmt.Errorf("sound.policy: %w", err)
	}
	config.Sound.SampleRate = v.GetInt("sound.sample_rate")
	if config.Sound.SampleRate <= 0 {
		return nil, fmt.Errorf("sound.sample_rate must be positive, got %v", config.Sound.SampleRate)
	}
	config.Sound.BufferSize = v.GetDuration("sound.buffer_size")
	if config.Sound.BufferSize < 0 {
		return nil, fmt.Errorf("sound.buffer_size cannot be negative, got %v", config.Sound.BufferSize)
	}
	config.Sound.Volume = v.GetFloat64("sound.volume")
	if config.Sound.Volume < 0 || config.Sound.Volume > 1 {
		return nil, fmt.Errorf("sound.volume must be within [0, 1], got %v", config.Sound.Volume)
	}
	if config.Log.Level, err = zerolog.ParseLevel(v.GetString("log.level")); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	return &config, nil
}
