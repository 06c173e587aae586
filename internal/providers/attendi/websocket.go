// Package attendi implements the backend-facing collaborators: the websocket
// channel and the HTTP authentication client.
package attendi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/attenditechnology/attendi-speech-go/internal/ports"
)

// ChannelConfig controls the websocket transport.
type ChannelConfig struct {
	// APIBaseURL is the backend base URL; http(s) schemes are rewritten to
	// ws(s).
	APIBaseURL string

	HandshakeTimeout time.Duration
}

// WebSocketChannel implements ports.Channel over a gorilla websocket
// connection. A channel instance carries at most one live connection; the
// session reconnect logic dials a fresh one per attempt.
type WebSocketChannel struct {
	cfg ChannelConfig

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func NewWebSocketChannel(cfg ChannelConfig) *WebSocketChannel {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	return &WebSocketChannel{cfg: cfg}
}

func (c *WebSocketChannel) Connect(ctx context.Context, token string, listener ports.ChannelListener) error {
	wsURL, err := buildStreamURL(c.cfg.APIBaseURL)
	if err != nil {
		return err
	}

	headers := http.Header{}
	if token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return fmt.Errorf("failed to connect to transcription websocket: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.closed = false
	c.mu.Unlock()

	listener.OnOpen()
	go c.readLoop(conn, listener)
	return nil
}

func (c *WebSocketChannel) readLoop(conn *websocket.Conn, listener ports.ChannelListener) {
	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			c.dropConn(conn)

			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				listener.OnClose(closeErr.Code, closeErr.Text)
				return
			}
			if c.wasClosedLocally() {
				listener.OnClose(ports.CloseCodeNormal, "closed locally")
				return
			}
			listener.OnError(fmt.Errorf("failed to read from websocket: %w", err))
			return
		}
		if messageType == websocket.TextMessage {
			listener.OnMessage(string(payload))
		}
	}
}

// SendText writes one text frame, reporting false when no connection is open
// or the write fails.
func (c *WebSocketChannel) SendText(text string) bool {
	return c.write(websocket.TextMessage, []byte(text))
}

// SendBinary writes one binary frame with the same no-throw semantics.
func (c *WebSocketChannel) SendBinary(payload []byte) bool {
	return c.write(websocket.BinaryMessage, payload)
}

func (c *WebSocketChannel) write(messageType int, payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return false
	}
	return c.conn.WriteMessage(messageType, payload) == nil
}

// Disconnect sends a close frame with the given code and tears the
// connection down.
func (c *WebSocketChannel) Disconnect(code int, reason string) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.closed = true
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	frame := websocket.FormatCloseMessage(code, reason)
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, frame, deadline)
	return conn.Close()
}

func (c *WebSocketChannel) dropConn(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *WebSocketChannel) wasClosedLocally() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func buildStreamURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errors.New("transcription API base URL is not configured")
	}

	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	streamURL, err := url.Parse(base + "/speech/transcribe/stream")
	if err != nil {
		return "", fmt.Errorf("invalid transcription API base URL: %w", err)
	}
	return streamURL.String(), nil
}
