package domain

import "fmt"

// ConnectionErrorKind classifies failures of the streaming connection.
type ConnectionErrorKind string

const (
	ConnectionFailedToConnect   ConnectionErrorKind = "failed_to_connect"
	ConnectionClosedAbnormally  ConnectionErrorKind = "closed_abnormally"
	ConnectionConnectTimeout    ConnectionErrorKind = "connect_timeout"
	ConnectionDisconnectTimeout ConnectionErrorKind = "disconnect_timeout"
	ConnectionUnknown           ConnectionErrorKind = "unknown"
)

// ConnectionError reports a streaming connection failure with its underlying
// cause attached when one exists.
type ConnectionError struct {
	Kind  ConnectionErrorKind
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("connection error: %s", e.Kind)
	}
	return fmt.Sprintf("connection error: %s: %v", e.Kind, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// NewConnectionError wraps a cause with a connection error kind.
func NewConnectionError(kind ConnectionErrorKind, cause error) *ConnectionError {
	return &ConnectionError{Kind: kind, Cause: cause}
}

// DecodeError reports a malformed inbound message. A decode failure stops
// the active session; it is never retried.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }
