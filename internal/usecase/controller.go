package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/attenditechnology/attendi-speech-go/internal/audio"
	"github.com/attenditechnology/attendi-speech-go/internal/domain"
	"github.com/attenditechnology/attendi-speech-go/internal/ports"
	"github.com/attenditechnology/attendi-speech-go/internal/transcribe"
)

var ErrNoActiveRecording = errors.New("no active recording")

// StreamingSession is the slice of the session API the recorder drives.
type StreamingSession interface {
	Connect(ctx context.Context) error
	SendAudio(payload []byte) bool
	Disconnect(ctx context.Context) error
	IsOpen() bool
}

// SessionFactory builds a fresh streaming session delivering its events to
// the given listener. Sessions are one-shot; every recording gets its own.
type SessionFactory func(listener ports.SessionListener) StreamingSession

// Config controls recording behavior.
type Config struct {
	Audio           ports.AudioConfig
	SamplesPerFrame int
}

// Recorder orchestrates one microphone recording at a time: it connects a
// streaming session, pumps chunked audio into it and folds the returned
// actions into an undoable transcription stream.
type Recorder struct {
	capture    ports.AudioCapture
	newSession SessionFactory
	events     ports.EventSink
	logger     zerolog.Logger
	cfg        Config

	mu      sync.Mutex
	current *activeRecording
}

func NewRecorder(
	capture ports.AudioCapture,
	newSession SessionFactory,
	events ports.EventSink,
	logger zerolog.Logger,
	cfg Config,
) *Recorder {
	if cfg.SamplesPerFrame <= 0 {
		cfg.SamplesPerFrame = audio.DefaultSamplesPerFrame
	}
	return &Recorder{
		capture:    capture,
		newSession: newSession,
		events:     events,
		logger:     logger,
		cfg:        cfg,
	}
}

// Start begins a new recording, stopping any previous one first.
func (r *Recorder) Start(ctx context.Context) error {
	var previous *activeRecording

	r.mu.Lock()
	if r.current != nil {
		previous = r.current
		r.current = nil
	}
	r.mu.Unlock()

	if previous != nil {
		r.discardRecording(previous)
	}

	recordingCtx, cancel := context.WithCancel(ctx)
	active := &activeRecording{
		cancel:   cancel,
		events:   r.events,
		logger:   r.logger,
		state:    domain.RecorderStateRecording,
		stream:   transcribe.NewStream(),
		pumpDone: make(chan struct{}),
	}

	sess := r.newSession(active)
	active.session = sess

	if err := sess.Connect(recordingCtx); err != nil {
		cancel()
		r.events.RecorderError(domain.ErrorCodeConnection, err.Error())
		r.events.RecorderStateChanged(domain.RecorderStateError, domain.RecorderReasonConnectFailed)
		return err
	}

	source, err := r.capture.Start(recordingCtx, r.cfg.Audio)
	if err != nil {
		_ = sess.Disconnect(recordingCtx)
		cancel()
		r.events.RecorderError(domain.ErrorCodeAudioCapture, err.Error())
		return err
	}
	active.attachSource(source)
	active.chunker = audio.NewChunker(r.cfg.SamplesPerFrame, sess.IsOpen)

	r.mu.Lock()
	r.current = active
	r.mu.Unlock()

	go pumpAudio(active, r.events)

	reason := domain.RecorderReasonSessionOpened
	if previous != nil {
		reason = domain.RecorderReasonSessionRestarted
	}
	r.events.RecorderStateChanged(domain.RecorderStateRecording, reason)
	return nil
}

// Stop ends the active recording: remaining buffered audio is flushed, the
// close handshake runs, and the final transcription stream is returned.
func (r *Recorder) Stop(ctx context.Context) (transcribe.Stream, error) {
	active, err := r.getCurrent()
	if err != nil {
		return transcribe.Stream{}, err
	}

	active.setState(domain.RecorderStateStopping)
	r.events.RecorderStateChanged(domain.RecorderStateStopping, domain.RecorderReasonFlushingAudio)

	if err := active.stopSource(); err != nil {
		r.events.RecorderError(domain.ErrorCodeAudioCapture, "failed to stop audio capture cleanly")
	}
	<-active.pumpDone

	// The pump has exited; the chunker is ours now. The final frame is sent
	// whatever its size, zero-length included.
	active.session.SendAudio(active.chunker.Flush())

	disconnectErr := active.session.Disconnect(ctx)
	if disconnectErr != nil {
		r.events.RecorderError(domain.ErrorCodeConnection, disconnectErr.Error())
	}

	result := active.snapshotStream()
	r.finishRecording(active, domain.RecorderStateIdle, domain.RecorderReasonSessionClosed)
	return result, disconnectErr
}

// Abort cancels and discards the active recording without a final flush.
func (r *Recorder) Abort() error {
	active, err := r.getCurrent()
	if err != nil {
		return err
	}

	r.discardRecording(active)
	r.finishRecording(active, domain.RecorderStateIdle, domain.RecorderReasonSessionDiscarded)
	return nil
}

// Undo reverts up to n operations on the active transcription stream and
// returns the updated document.
func (r *Recorder) Undo(n int) (transcribe.Document, error) {
	return r.rewind(n, func(s transcribe.Stream) (transcribe.Stream, error) { return s.Undo(n) })
}

// Redo re-applies up to n undone operations on the active stream.
func (r *Recorder) Redo(n int) (transcribe.Document, error) {
	return r.rewind(n, func(s transcribe.Stream) (transcribe.Stream, error) { return s.Redo(n) })
}

func (r *Recorder) rewind(n int, apply func(transcribe.Stream) (transcribe.Stream, error)) (transcribe.Document, error) {
	active, err := r.getCurrent()
	if err != nil {
		return transcribe.Document{}, err
	}

	doc, err := active.rewindStream(apply)
	if err != nil {
		r.events.RecorderError(domain.ErrorCodeTranscribe, err.Error())
		return transcribe.Document{}, err
	}
	r.events.DocumentUpdated(doc)
	return doc, nil
}

// Status returns the current recorder status.
func (r *Recorder) Status() domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return domain.Status{State: domain.RecorderStateIdle, Active: false}
	}
	state := r.current.getState()
	return domain.Status{State: state, Active: state != domain.RecorderStateIdle}
}

func (r *Recorder) getCurrent() (*activeRecording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, ErrNoActiveRecording
	}
	return r.current, nil
}

func (r *Recorder) discardRecording(active *activeRecording) {
	active.cancel()
	pumping := active.getSource() != nil
	_ = active.stopSource()
	_ = active.session.Disconnect(context.Background())
	if pumping {
		<-active.pumpDone
	}
}

func (r *Recorder) finishRecording(active *activeRecording, state domain.RecorderState, reason domain.RecorderStateReason) {
	active.cancel()
	active.setState(state)

	r.mu.Lock()
	if r.current == active {
		r.current = nil
	}
	r.mu.Unlock()

	r.events.RecorderStateChanged(state, reason)
}
