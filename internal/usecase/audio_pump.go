package usecase

import (
	"errors"
	"fmt"
	"io"

	"github.com/attenditechnology/attendi-speech-go/internal/domain"
	"github.com/attenditechnology/attendi-speech-go/internal/ports"
)

// pumpAudio drains the capture source into the streaming session, one encoded
// frame at a time. It runs until the source is exhausted or a send fails, and
// signals pumpDone so Stop can take over the chunker remainder.
func pumpAudio(active *activeRecording, events ports.EventSink) {
	defer close(active.pumpDone)

	source := active.getSource()
	for {
		samples, err := source.ReadBatch()
		if len(samples) > 0 {
			for _, frame := range active.chunker.Push(samples) {
				if !active.session.SendAudio(frame) {
					events.RecorderError(domain.ErrorCodeAudioStream, "failed to stream audio frame")
					return
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				events.RecorderError(domain.ErrorCodeAudioCapture, fmt.Sprintf("audio capture error: %v", err))
			}
			return
		}
	}
}
