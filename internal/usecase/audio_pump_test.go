package usecase

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/attenditechnology/attendi-speech-go/internal/audio"
	"github.com/attenditechnology/attendi-speech-go/internal/domain"
	"github.com/attenditechnology/attendi-speech-go/internal/ports"
	"github.com/attenditechnology/attendi-speech-go/internal/transcribe"
)

func newPumpRecording(source ports.SampleSource, session *fakeStreamingSession, events *fakeEventSink) *activeRecording {
	active := &activeRecording{
		cancel:   func() {},
		session:  session,
		chunker:  audio.NewChunker(2, session.IsOpen),
		events:   events,
		logger:   zerolog.Nop(),
		stream:   transcribe.NewStream(),
		pumpDone: make(chan struct{}),
	}
	active.attachSource(source)
	return active
}

func TestPumpAudioSendsFullFramesOnly(t *testing.T) {
	t.Parallel()

	session := newFakeStreamingSession()
	session.open = true
	source := &fakeSource{batches: [][]int16{{1, 2, 3}, {4}}}
	events := &fakeEventSink{}
	active := newPumpRecording(source, session, events)

	pumpAudio(active, events)
	<-active.pumpDone

	frames := session.snapshotFrames()
	if len(frames) != 2 {
		t.Fatalf("expected 2 full frames, got %d", len(frames))
	}
	for i, frame := range frames {
		if len(frame) != 4 {
			t.Fatalf("frame %d has %d bytes, want 4", i, len(frame))
		}
	}
	if got := active.chunker.Buffered(); got != 0 {
		t.Fatalf("expected no buffered remainder, got %d samples", got)
	}
}

func TestPumpAudioReportsSendFailure(t *testing.T) {
	t.Parallel()

	session := newFakeStreamingSession()
	session.open = true
	session.failSends = true
	source := &fakeSource{batches: [][]int16{{1, 2}}}
	events := &fakeEventSink{}
	active := newPumpRecording(source, session, events)

	pumpAudio(active, events)

	errs := events.snapshotErrors()
	if len(errs) == 0 || errs[0].code != domain.ErrorCodeAudioStream {
		t.Fatalf("expected audio stream error, got %+v", errs)
	}
}

func TestPumpAudioReportsCaptureFailure(t *testing.T) {
	t.Parallel()

	session := newFakeStreamingSession()
	session.open = true
	source := &errorSource{err: errors.New("device gone")}
	events := &fakeEventSink{}
	active := newPumpRecording(source, session, events)

	pumpAudio(active, events)

	errs := events.snapshotErrors()
	if len(errs) == 0 || errs[0].code != domain.ErrorCodeAudioCapture {
		t.Fatalf("expected audio capture error, got %+v", errs)
	}
}

func TestPumpAudioEndsQuietlyOnEOF(t *testing.T) {
	t.Parallel()

	session := newFakeStreamingSession()
	session.open = true
	source := &fakeSource{}
	events := &fakeEventSink{}
	active := newPumpRecording(source, session, events)

	pumpAudio(active, events)

	if errs := events.snapshotErrors(); len(errs) != 0 {
		t.Fatalf("expected no error events, got %+v", errs)
	}
}

type errorSource struct {
	err error
}

func (s *errorSource) ReadBatch() ([]int16, error) { return nil, s.err }
func (s *errorSource) Stop() error                 { return nil }
