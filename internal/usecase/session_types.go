package usecase

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/attenditechnology/attendi-speech-go/internal/audio"
	"github.com/attenditechnology/attendi-speech-go/internal/domain"
	"github.com/attenditechnology/attendi-speech-go/internal/ports"
	"github.com/attenditechnology/attendi-speech-go/internal/transcribe"
)

// activeRecording holds the moving parts of one recording. It is also the
// session listener: inbound action batches are folded into the transcription
// stream from the session's callback goroutine, serialized by streamMu.
type activeRecording struct {
	cancel  func()
	source  ports.SampleSource
	session StreamingSession
	chunker *audio.Chunker
	events  ports.EventSink
	logger  zerolog.Logger

	stateMu sync.Mutex
	state   domain.RecorderState

	streamMu sync.Mutex
	stream   transcribe.Stream

	pumpDone chan struct{}
}

// attachSource publishes the capture source to the callback goroutines.
func (a *activeRecording) attachSource(source ports.SampleSource) {
	a.stateMu.Lock()
	a.source = source
	a.stateMu.Unlock()
}

func (a *activeRecording) getSource() ports.SampleSource {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.source
}

// stopSource stops capture when a source is attached, tolerating calls
// before capture has started.
func (a *activeRecording) stopSource() error {
	source := a.getSource()
	if source == nil {
		return nil
	}
	return source.Stop()
}

func (a *activeRecording) setState(state domain.RecorderState) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.state = state
}

func (a *activeRecording) getState() domain.RecorderState {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state
}

func (a *activeRecording) snapshotStream() transcribe.Stream {
	a.streamMu.Lock()
	defer a.streamMu.Unlock()
	return a.stream
}

func (a *activeRecording) rewindStream(apply func(transcribe.Stream) (transcribe.Stream, error)) (transcribe.Document, error) {
	a.streamMu.Lock()
	defer a.streamMu.Unlock()

	next, err := apply(a.stream)
	if err != nil {
		return transcribe.Document{}, err
	}
	a.stream = next
	return next.Document, nil
}

// OnSessionOpen implements ports.SessionListener.
func (a *activeRecording) OnSessionOpen() {
	a.logger.Debug().Msg("streaming session open")
}

// OnActions folds one decoded action batch into the transcription stream.
// An inconsistent batch is a protocol bug upstream; it is surfaced
// immediately instead of silently corrupting the undo history.
func (a *activeRecording) OnActions(actions []transcribe.Action) {
	a.streamMu.Lock()
	next, err := a.stream.ReceiveActions(actions)
	if err == nil {
		a.stream = next
	}
	a.streamMu.Unlock()

	if err != nil {
		a.logger.Error().Err(err).Msg("action batch rejected")
		a.events.RecorderError(domain.ErrorCodeTranscribe, err.Error())
		return
	}
	a.events.DocumentUpdated(next.Document)
}

// OnSessionClose implements ports.SessionListener.
func (a *activeRecording) OnSessionClose() {
	a.logger.Debug().Msg("streaming session closed")
}

// OnSessionError surfaces connection and decode failures. A decode failure
// has already torn the channel down; recording audio stops with it.
func (a *activeRecording) OnSessionError(err error) {
	var decodeErr *domain.DecodeError
	if errors.As(err, &decodeErr) {
		_ = a.stopSource()
		a.events.RecorderError(domain.ErrorCodeDecode, err.Error())
		a.events.RecorderStateChanged(domain.RecorderStateError, domain.RecorderReasonDecodeFailed)
		return
	}
	a.events.RecorderError(domain.ErrorCodeConnection, err.Error())
}
