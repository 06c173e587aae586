package ports

import (
	"context"

	"github.com/attenditechnology/attendi-speech-go/internal/domain"
	"github.com/attenditechnology/attendi-speech-go/internal/transcribe"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// SampleSource is a live stream of signed 16-bit audio sample batches.
// ReadBatch returns io.EOF once the source is exhausted or stopped.
type SampleSource interface {
	ReadBatch() ([]int16, error)
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (SampleSource, error)
}

// Standard channel close codes. Values above 4000 are application-defined.
const (
	CloseCodeNormal      = 1000
	CloseCodeForcedClose = 4001
)

// ChannelListener receives transport callbacks from a channel. Callbacks are
// invoked from the channel's read goroutine, one at a time.
type ChannelListener interface {
	OnOpen()
	OnMessage(text string)
	OnError(err error)
	OnClose(code int, reason string)
}

// Channel is a bidirectional message channel to the transcription backend.
// Connect blocks until the channel is established or fails; afterwards the
// listener observes inbound traffic until OnClose or OnError. SendText and
// SendBinary report false instead of failing when no channel is open.
type Channel interface {
	Connect(ctx context.Context, token string, listener ChannelListener) error
	SendText(text string) bool
	SendBinary(payload []byte) bool
	Disconnect(code int, reason string) error
}

// Authenticator fetches a bearer token for the streaming backend.
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// ActionDecoder decodes one inbound text message into its edit actions.
type ActionDecoder interface {
	Decode(raw string) ([]transcribe.Action, error)
}

// SessionListener receives streaming session lifecycle events. Errors that
// arise asynchronously (transport failures, abnormal closes, decode
// failures) are delivered through OnSessionError, never panicked or thrown
// across goroutines.
type SessionListener interface {
	OnSessionOpen()
	OnActions(actions []transcribe.Action)
	OnSessionClose()
	OnSessionError(err error)
}

// EventSink emits recorder state and document updates to the host.
type EventSink interface {
	RecorderStateChanged(state domain.RecorderState, reason domain.RecorderStateReason)
	DocumentUpdated(doc transcribe.Document)
	RecorderError(code domain.ErrorCode, detail string)
}
