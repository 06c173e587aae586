package session

import "time"

// State models the streaming connection lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosing    State = "closing"
	StateClosed     State = "closed"
	StateFailed     State = "failed"
)

const (
	DefaultConnectTimeout         = 20 * time.Second
	DefaultDisconnectTimeout      = 5 * time.Second
	DefaultDisconnectPollInterval = 50 * time.Millisecond
	DefaultMaxRetries             = 1
)

// Config controls one streaming session. Zero values select the defaults.
type Config struct {
	// Model names the backend speech model for the configuration message.
	Model string

	// ReportID and SessionID identify this dictation; fresh UUIDs are
	// generated when left empty.
	ReportID  string
	SessionID string

	// VoiceEditing enables the backend's voice editing feature.
	VoiceEditing bool

	// Token is a pre-supplied bearer token. When empty and an authenticator
	// is configured, a token is fetched on every connection attempt.
	Token string

	// MaxRetries is the connection retry budget after the first attempt.
	// Zero selects DefaultMaxRetries; a negative value disables retrying.
	MaxRetries int

	ConnectTimeout         time.Duration
	DisconnectTimeout      time.Duration
	DisconnectPollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.DisconnectTimeout <= 0 {
		c.DisconnectTimeout = DefaultDisconnectTimeout
	}
	if c.DisconnectPollInterval <= 0 {
		c.DisconnectPollInterval = DefaultDisconnectPollInterval
	}
	return c
}
