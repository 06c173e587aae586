package domain

// RecorderState models the recording lifecycle.
type RecorderState string

const (
	RecorderStateIdle      RecorderState = "idle"
	RecorderStateRecording RecorderState = "recording"
	RecorderStateStopping  RecorderState = "stopping"
	RecorderStateError     RecorderState = "error"
)

// RecorderStateReason provides a structured reason for state transitions.
type RecorderStateReason string

const (
	RecorderReasonSessionOpened    RecorderStateReason = "session_opened"
	RecorderReasonSessionRestarted RecorderStateReason = "session_restarted"
	RecorderReasonFlushingAudio    RecorderStateReason = "flushing_audio"
	RecorderReasonSessionClosed    RecorderStateReason = "session_closed"
	RecorderReasonSessionDiscarded RecorderStateReason = "session_discarded"
	RecorderReasonConnectFailed    RecorderStateReason = "connect_failed"
	RecorderReasonStreamFailed     RecorderStateReason = "stream_failed"
	RecorderReasonDecodeFailed     RecorderStateReason = "decode_failed"
)

// ErrorCode identifies backend error categories surfaced to the host.
type ErrorCode string

const (
	ErrorCodeAudioCapture ErrorCode = "audio_capture"
	ErrorCodeAudioStream  ErrorCode = "audio_stream"
	ErrorCodeConnection   ErrorCode = "connection"
	ErrorCodeDecode       ErrorCode = "decode"
	ErrorCodeTranscribe   ErrorCode = "transcribe"
)

// Status summarizes the current recorder status.
type Status struct {
	State   RecorderState `json:"state"`
	Active  bool          `json:"active"`
	Message string        `json:"message,omitempty"`
}
