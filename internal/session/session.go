// Package session implements the streaming connection state machine: connect
// with retry and re-authentication, decoded inbound action delivery, and the
// ordered, timeout-bounded close handshake.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/attenditechnology/attendi-speech-go/internal/domain"
	"github.com/attenditechnology/attendi-speech-go/internal/ports"
	"github.com/attenditechnology/attendi-speech-go/internal/wire"
)

// Session drives one streaming connection over an abstract channel.
//
// Connect and Disconnect are synchronous and return their errors directly;
// everything that happens after the channel is established (inbound actions,
// transport failures, abnormal closes, decode failures) reaches the caller
// through its SessionListener.
type Session struct {
	channel  ports.Channel
	auth     ports.Authenticator
	decoder  ports.ActionDecoder
	listener ports.SessionListener
	logger   zerolog.Logger
	cfg      Config

	mu           sync.Mutex
	state        State
	remoteClosed bool

	connectCancel context.CancelFunc
	connectDone   chan struct{}
}

// NewSession assembles a session. auth may be nil when cfg.Token is
// pre-supplied or the backend needs no authentication.
func NewSession(
	channel ports.Channel,
	auth ports.Authenticator,
	decoder ports.ActionDecoder,
	listener ports.SessionListener,
	logger zerolog.Logger,
	cfg Config,
) *Session {
	cfg = cfg.withDefaults()
	if cfg.ReportID == "" {
		cfg.ReportID = uuid.NewString()
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	return &Session{
		channel:  channel,
		auth:     auth,
		decoder:  decoder,
		listener: listener,
		logger:   logger.With().Str("sessionId", cfg.SessionID).Logger(),
		cfg:      cfg,
		state:    StateIdle,
	}
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsOpen reports whether the session currently accepts audio.
func (s *Session) IsOpen() bool {
	return s.State() == StateOpen
}

// Connect establishes the channel, sends the configuration message and
// transitions to Open, retrying within the configured budget and fetching a
// fresh token per attempt. Only one connect may be in flight: a concurrent
// call cancels and awaits the previous attempt before starting.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	for s.connectDone != nil {
		cancel, done := s.connectCancel, s.connectDone
		s.mu.Unlock()
		cancel()
		<-done
		s.mu.Lock()
	}
	attemptCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.connectCancel = cancel
	s.connectDone = done
	s.state = StateConnecting
	s.remoteClosed = false
	s.mu.Unlock()

	err := s.connectWithRetry(attemptCtx)

	s.mu.Lock()
	s.connectCancel = nil
	s.connectDone = nil
	if err != nil {
		s.state = StateFailed
	} else {
		s.state = StateOpen
	}
	s.mu.Unlock()
	cancel()
	close(done)

	if err != nil {
		return err
	}
	s.listener.OnSessionOpen()
	return nil
}

func (s *Session) connectWithRetry(ctx context.Context) error {
	var lastErr *domain.ConnectionError

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return domain.NewConnectionError(domain.ConnectionFailedToConnect, ctx.Err())
		}
		if attempt > 0 {
			s.logger.Warn().Int("attempt", attempt).Err(lastErr).Msg("retrying connection")
		}

		err := s.connectOnce(ctx)
		if err == nil {
			return nil
		}
		if !errors.As(err, &lastErr) {
			lastErr = domain.NewConnectionError(domain.ConnectionUnknown, err)
		}
	}

	// A final timeout keeps its kind; everything else reports exhaustion.
	if lastErr.Kind == domain.ConnectionConnectTimeout {
		return lastErr
	}
	return domain.NewConnectionError(domain.ConnectionFailedToConnect, lastErr.Cause)
}

func (s *Session) connectOnce(ctx context.Context) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()

	token := s.cfg.Token
	if s.auth != nil {
		// Re-authenticate every attempt; a token from a failed attempt may
		// have expired.
		fresh, err := s.auth.Authenticate(attemptCtx)
		if err != nil {
			return s.classifyConnectErr(attemptCtx, ctx, err)
		}
		token = fresh
	}

	if err := s.channel.Connect(attemptCtx, token, channelCallbacks{s}); err != nil {
		return s.classifyConnectErr(attemptCtx, ctx, err)
	}

	// The caller gave up mid-dial; release the channel we just opened.
	if ctx.Err() != nil {
		_ = s.channel.Disconnect(ports.CloseCodeNormal, "connect cancelled")
		return domain.NewConnectionError(domain.ConnectionFailedToConnect, ctx.Err())
	}

	frame, err := wire.EncodeConfiguration(s.cfg.Model, s.cfg.ReportID, s.cfg.SessionID, s.cfg.VoiceEditing)
	if err == nil && !s.channel.SendText(frame) {
		err = errors.New("configuration message rejected by channel")
	}
	if err != nil {
		_ = s.channel.Disconnect(ports.CloseCodeNormal, "configuration failed")
		return domain.NewConnectionError(domain.ConnectionUnknown, err)
	}

	s.logger.Debug().Str("model", s.cfg.Model).Msg("session configured")
	return nil
}

func (s *Session) classifyConnectErr(attemptCtx context.Context, parent context.Context, err error) error {
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return domain.NewConnectionError(domain.ConnectionConnectTimeout, err)
	}
	return domain.NewConnectionError(domain.ConnectionUnknown, err)
}

// SendAudio transmits one binary audio frame. It reports false without
// error when the session is not open.
func (s *Session) SendAudio(payload []byte) bool {
	if !s.IsOpen() {
		return false
	}
	return s.channel.SendBinary(payload)
}

// SendText transmits one text frame while the session is open.
func (s *Session) SendText(text string) bool {
	if !s.IsOpen() {
		return false
	}
	return s.channel.SendText(text)
}

// Disconnect runs the ordered close handshake: it sends the end-of-stream
// message, then waits up to the disconnect timeout for the remote side to
// close the channel. On timeout the channel is force-closed with an
// application close code and a DisconnectTimeout error is returned.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosing
	s.mu.Unlock()

	s.channel.SendText(wire.EndOfAudioStream)

	deadline := time.Now().Add(s.cfg.DisconnectTimeout)
	for {
		s.mu.Lock()
		closed := s.remoteClosed
		s.mu.Unlock()
		if closed {
			s.setState(StateClosed)
			return nil
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			break
		}
		select {
		case <-time.After(s.cfg.DisconnectPollInterval):
		case <-ctx.Done():
		}
	}

	s.logger.Warn().Msg("remote did not close in time; force closing channel")
	_ = s.channel.Disconnect(ports.CloseCodeForcedClose, "disconnect timeout")
	s.setState(StateClosed)
	return domain.NewConnectionError(domain.ConnectionDisconnectTimeout, ctx.Err())
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// channelCallbacks adapts the session to the channel listener interface
// without exporting the callbacks on Session itself.
type channelCallbacks struct {
	session *Session
}

func (c channelCallbacks) OnOpen() {
	c.session.logger.Debug().Msg("channel open")
}

func (c channelCallbacks) OnMessage(text string) {
	c.session.handleMessage(text)
}

func (c channelCallbacks) OnError(err error) {
	c.session.handleTransportError(err)
}

func (c channelCallbacks) OnClose(code int, reason string) {
	c.session.handleClose(code, reason)
}

func (s *Session) handleMessage(text string) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	// Actions may still arrive while the close handshake is in flight.
	if state != StateOpen && state != StateClosing && state != StateConnecting {
		return
	}

	actions, err := s.decoder.Decode(text)
	if err != nil {
		// A message we cannot decode poisons the whole stream; tear the
		// session down instead of guessing.
		s.logger.Error().Err(err).Msg("inbound message failed to decode; stopping session")
		_ = s.channel.Disconnect(ports.CloseCodeForcedClose, "decode failure")
		s.setState(StateClosed)
		s.listener.OnSessionError(&domain.DecodeError{Cause: err})
		return
	}
	if len(actions) == 0 {
		return
	}
	s.listener.OnActions(actions)
}

func (s *Session) handleTransportError(err error) {
	s.mu.Lock()
	state := s.state
	if state == StateOpen || state == StateClosing {
		s.state = StateFailed
	}
	s.mu.Unlock()

	if state == StateOpen || state == StateClosing {
		s.listener.OnSessionError(domain.NewConnectionError(domain.ConnectionUnknown, err))
	}
}

func (s *Session) handleClose(code int, reason string) {
	s.mu.Lock()
	previous := s.state
	s.remoteClosed = true
	if previous == StateOpen || previous == StateClosing {
		s.state = StateClosed
	}
	s.mu.Unlock()

	if previous != StateOpen && previous != StateClosing {
		return
	}
	if code != ports.CloseCodeNormal {
		s.logger.Warn().Int("code", code).Str("reason", reason).Msg("channel closed abnormally")
		s.listener.OnSessionError(domain.NewConnectionError(domain.ConnectionClosedAbnormally, nil))
		return
	}
	s.listener.OnSessionClose()
}
