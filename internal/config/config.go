package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores runtime configuration for the speech service.
type Config struct {
	API     APIConfig
	Audio   AudioConfig
	Session SessionConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL     string `env:"ATTENDI_API_BASE_URL" envDefault:"https://api.attendi.nl"`
	APIKey      string `env:"ATTENDI_API_KEY"`
	CustomerKey string `env:"ATTENDI_CUSTOMER_KEY"`
	UserID      string `env:"ATTENDI_USER_ID"`
	UnitID      string `env:"ATTENDI_UNIT_ID"`
}

type AudioConfig struct {
	RecorderCommand string `env:"ATTENDI_FFMPEG_COMMAND" envDefault:"ffmpeg"`
	InputFormat     string `env:"ATTENDI_AUDIO_INPUT_FORMAT" envDefault:"pulse"`
	InputDevice     string `env:"ATTENDI_AUDIO_INPUT_DEVICE" envDefault:"default"`
	SampleRate      int    `env:"ATTENDI_SAMPLE_RATE" envDefault:"16000"`
	Channels        int    `env:"ATTENDI_CHANNELS" envDefault:"1"`
}

type SessionConfig struct {
	Model             string        `env:"ATTENDI_MODEL" envDefault:"ResidentialCare"`
	VoiceEditing      bool          `env:"ATTENDI_VOICE_EDITING" envDefault:"false"`
	SamplesPerFrame   int           `env:"ATTENDI_SAMPLES_PER_FRAME" envDefault:"4224"`
	MaxRetries        int           `env:"ATTENDI_CONNECT_MAX_RETRIES" envDefault:"1"`
	ConnectTimeout    time.Duration `env:"ATTENDI_CONNECT_TIMEOUT" envDefault:"20s"`
	DisconnectTimeout time.Duration `env:"ATTENDI_DISCONNECT_TIMEOUT" envDefault:"5s"`
}

type LogConfig struct {
	Level  string `env:"ATTENDI_LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"ATTENDI_LOG_PRETTY" envDefault:"false"`
}

// Load resolves configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("environment variables are invalid: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the service cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("ATTENDI_API_BASE_URL must not be empty")
	}
	if strings.TrimSpace(c.API.APIKey) == "" {
		return fmt.Errorf("ATTENDI_API_KEY is required")
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("ATTENDI_SAMPLE_RATE must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Channels <= 0 {
		return fmt.Errorf("ATTENDI_CHANNELS must be positive, got %d", c.Audio.Channels)
	}
	if c.Session.SamplesPerFrame <= 0 {
		return fmt.Errorf("ATTENDI_SAMPLES_PER_FRAME must be positive, got %d", c.Session.SamplesPerFrame)
	}
	if c.Session.ConnectTimeout <= 0 {
		return fmt.Errorf("ATTENDI_CONNECT_TIMEOUT must be positive, got %s", c.Session.ConnectTimeout)
	}
	if c.Session.DisconnectTimeout <= 0 {
		return fmt.Errorf("ATTENDI_DISCONNECT_TIMEOUT must be positive, got %s", c.Session.DisconnectTimeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("ATTENDI_LOG_LEVEL %q is not a zerolog level", c.Log.Level)
	}
	return nil
}
