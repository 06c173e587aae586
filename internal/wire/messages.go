package wire

import "encoding/json"

// ConfigurationMessage is sent once, immediately after the channel opens.
type ConfigurationMessage struct {
	Type      string   `json:"type"`
	Model     string   `json:"model"`
	ReportID  string   `json:"reportId"`
	SessionID string   `json:"sessionId"`
	Features  Features `json:"features"`
}

// Features toggles optional backend behavior for the session.
type Features struct {
	VoiceEditing VoiceEditing `json:"voiceEditing"`
}

type VoiceEditing struct {
	IsEnabled bool `json:"isEnabled"`
}

// EncodeConfiguration builds the configuration text frame.
func EncodeConfiguration(model string, reportID string, sessionID string, voiceEditing bool) (string, error) {
	message := ConfigurationMessage{
		Type:      "configuration",
		Model:     model,
		ReportID:  reportID,
		SessionID: sessionID,
		Features:  Features{VoiceEditing: VoiceEditing{IsEnabled: voiceEditing}},
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// EndOfAudioStream is the close message that starts the ordered shutdown
// handshake.
const EndOfAudioStream = `{"type":"endOfAudioStream"}`
