package attendi

import (
	"context"
	"strings"
	"testing"
)

func TestBuildStreamURLRewritesScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "https becomes wss", base: "https://api.attendi.nl/v1", want: "wss://api.attendi.nl/v1/speech/transcribe/stream"},
		{name: "http becomes ws", base: "http://localhost:8080/v1/", want: "ws://localhost:8080/v1/speech/transcribe/stream"},
		{name: "ws passes through", base: "wss://api.attendi.nl", want: "wss://api.attendi.nl/speech/transcribe/stream"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildStreamURL(tt.base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected url: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildStreamURLRequiresBase(t *testing.T) {
	t.Parallel()

	if _, err := buildStreamURL("   "); err == nil {
		t.Fatalf("expected missing base url error")
	}
}

func TestSendWithoutConnectionReportsFalse(t *testing.T) {
	t.Parallel()

	channel := NewWebSocketChannel(ChannelConfig{APIBaseURL: "https://api.attendi.nl"})

	if channel.SendText("hello") {
		t.Fatalf("expected text send to fail without a connection")
	}
	if channel.SendBinary([]byte{1, 2}) {
		t.Fatalf("expected binary send to fail without a connection")
	}
}

func TestDisconnectWithoutConnectionIsNoop(t *testing.T) {
	t.Parallel()

	channel := NewWebSocketChannel(ChannelConfig{APIBaseURL: "https://api.attendi.nl"})
	if err := channel.Disconnect(1000, "done"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewWebSocketChannelDefaultsHandshakeTimeout(t *testing.T) {
	t.Parallel()

	channel := NewWebSocketChannel(ChannelConfig{APIBaseURL: "https://api.attendi.nl"})
	if channel.cfg.HandshakeTimeout <= 0 {
		t.Fatalf("expected a handshake timeout default")
	}
}

func TestConnectRejectsMissingBaseURL(t *testing.T) {
	t.Parallel()

	channel := NewWebSocketChannel(ChannelConfig{})
	err := channel.Connect(context.Background(), "token", nopListener{})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

type nopListener struct{}

func (nopListener) OnOpen()             {}
func (nopListener) OnMessage(string)    {}
func (nopListener) OnError(error)       {}
func (nopListener) OnClose(int, string) {}
