// Package wire implements the JSON message protocol spoken with the
// transcription backend: decoding inbound action batches and encoding the
// outbound configuration and close messages.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/attenditechnology/attendi-speech-go/internal/transcribe"
)

const (
	actionTypeAddAnnotation    = "add_annotation"
	actionTypeUpdateAnnotation = "update_annotation"
	actionTypeRemoveAnnotation = "remove_annotation"
	actionTypeReplaceText      = "replace_text"
)

const (
	annotationTypeTentative = "transcription_tentative"
	annotationTypeIntent    = "intent"
	annotationTypeEntity    = "entity"
)

// actionEnvelope matches one element of the inbound actions array. Unknown
// fields are ignored for forward compatibility.
type actionEnvelope struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Index      int             `json:"index"`
	Parameters json.RawMessage `json:"parameters"`
}

type actionBatch struct {
	Actions []actionEnvelope `json:"actions"`
}

type annotationParameters struct {
	ID                  string `json:"id"`
	StartCharacterIndex int    `json:"startCharacterIndex"`
	EndCharacterIndex   int    `json:"endCharacterIndex"`
	Type                string `json:"type"`
	Status              string `json:"status"`
	EntityType          string `json:"entityType"`
	Text                string `json:"text"`
}

type replaceTextParameters struct {
	StartCharacterIndex int    `json:"startCharacterIndex"`
	EndCharacterIndex   int    `json:"endCharacterIndex"`
	Text                string `json:"text"`
}

type removeAnnotationParameters struct {
	ID string `json:"id"`
}

// Decoder decodes inbound text frames into edit actions.
type Decoder struct{}

func NewDecoder() Decoder { return Decoder{} }

// Decode parses one inbound message. Malformed JSON, a missing parameters
// object, or an unrecognized action type all fail the decode; an action we
// cannot represent must stop the session rather than be dropped silently.
func (Decoder) Decode(raw string) ([]transcribe.Action, error) {
	var batch actionBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil, fmt.Errorf("malformed action message: %w", err)
	}

	actions := make([]transcribe.Action, 0, len(batch.Actions))
	for i, envelope := range batch.Actions {
		action, err := decodeAction(envelope)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func decodeAction(envelope actionEnvelope) (transcribe.Action, error) {
	data := transcribe.ActionData{ID: envelope.ID, Index: envelope.Index}

	switch envelope.Type {
	case actionTypeReplaceText:
		var params replaceTextParameters
		if err := unmarshalParameters(envelope.Parameters, &params); err != nil {
			return nil, err
		}
		return transcribe.ReplaceText{
			ActionData: data,
			Start:      params.StartCharacterIndex,
			End:        params.EndCharacterIndex,
			Text:       params.Text,
		}, nil

	case actionTypeAddAnnotation:
		annotation, err := decodeAnnotation(envelope.Parameters)
		if err != nil {
			return nil, err
		}
		return transcribe.AddAnnotation{ActionData: data, Annotation: annotation}, nil

	case actionTypeUpdateAnnotation:
		annotation, err := decodeAnnotation(envelope.Parameters)
		if err != nil {
			return nil, err
		}
		return transcribe.UpdateAnnotation{ActionData: data, Annotation: annotation}, nil

	case actionTypeRemoveAnnotation:
		var params removeAnnotationParameters
		if err := unmarshalParameters(envelope.Parameters, &params); err != nil {
			return nil, err
		}
		if params.ID == "" {
			return nil, fmt.Errorf("remove_annotation without annotation id")
		}
		return transcribe.RemoveAnnotation{ActionData: data, AnnotationID: params.ID}, nil

	default:
		return nil, fmt.Errorf("unrecognized action type %q", envelope.Type)
	}
}

func decodeAnnotation(raw json.RawMessage) (transcribe.Annotation, error) {
	var params annotationParameters
	if err := unmarshalParameters(raw, &params); err != nil {
		return transcribe.Annotation{}, err
	}
	if params.ID == "" {
		return transcribe.Annotation{}, fmt.Errorf("annotation without id")
	}

	annotation := transcribe.Annotation{
		ID:    params.ID,
		Start: params.StartCharacterIndex,
		End:   params.EndCharacterIndex,
	}

	switch params.Type {
	case annotationTypeTentative:
		annotation.Type = transcribe.AnnotationTranscriptionTentative
	case annotationTypeIntent:
		annotation.Type = transcribe.AnnotationIntent
		annotation.IntentStatus = params.Status
	case annotationTypeEntity:
		annotation.Type = transcribe.AnnotationEntity
		annotation.EntityType = params.EntityType
		annotation.EntityText = params.Text
	default:
		return transcribe.Annotation{}, fmt.Errorf("unrecognized annotation type %q", params.Type)
	}
	return annotation, nil
}

func unmarshalParameters(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing action parameters")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("malformed action parameters: %w", err)
	}
	return nil
}
