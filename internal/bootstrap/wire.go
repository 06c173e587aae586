package bootstrap

import (
	"github.com/rs/zerolog"

	"github.com/attenditechnology/attendi-speech-go/internal/audio"
	"github.com/attenditechnology/attendi-speech-go/internal/config"
	"github.com/attenditechnology/attendi-speech-go/internal/ports"
	"github.com/attenditechnology/attendi-speech-go/internal/providers/attendi"
	"github.com/attenditechnology/attendi-speech-go/internal/session"
	"github.com/attenditechnology/attendi-speech-go/internal/usecase"
	"github.com/attenditechnology/attendi-speech-go/internal/wire"
)

// Services is the assembled runtime graph.
type Services struct {
	Recorder *usecase.Recorder
	Config   config.Config
}

// Build wires all backend dependencies for the current runtime. Every
// recording gets a fresh session talking through its own channel, so the
// factory constructs the channel per call instead of sharing one.
func Build(events ports.EventSink, logger zerolog.Logger) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	return BuildWith(cfg, events, logger), nil
}

// BuildWith assembles the runtime graph from an already-validated config.
func BuildWith(cfg config.Config, events ports.EventSink, logger zerolog.Logger) Services {
	auth := attendi.NewAuthClient(attendi.AuthConfig{
		APIBaseURL:  cfg.API.BaseURL,
		APIKey:      cfg.API.APIKey,
		CustomerKey: cfg.API.CustomerKey,
		UserID:      cfg.API.UserID,
		UnitID:      cfg.API.UnitID,
	})
	decoder := wire.NewDecoder()

	// ATTENDI_CONNECT_MAX_RETRIES=0 means no retries; the session reserves
	// zero for its own default.
	maxRetries := cfg.Session.MaxRetries
	if maxRetries == 0 {
		maxRetries = -1
	}

	newSession := func(listener ports.SessionListener) usecase.StreamingSession {
		channel := attendi.NewWebSocketChannel(attendi.ChannelConfig{APIBaseURL: cfg.API.BaseURL})
		return session.NewSession(channel, auth, decoder, listener, logger, session.Config{
			Model:             cfg.Session.Model,
			VoiceEditing:      cfg.Session.VoiceEditing,
			MaxRetries:        maxRetries,
			ConnectTimeout:    cfg.Session.ConnectTimeout,
			DisconnectTimeout: cfg.Session.DisconnectTimeout,
		})
	}

	recorder := usecase.NewRecorder(
		audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand),
		newSession,
		events,
		logger,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			SamplesPerFrame: cfg.Session.SamplesPerFrame,
		},
	)

	return Services{Recorder: recorder, Config: cfg}
}
