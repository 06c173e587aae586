package transcribe

import (
	"reflect"
	"testing"
)

// mixedActions reproduces a short dictation: text arrives, a tentative
// annotation and an entity are added, then the entity is withdrawn.
func mixedActions() []Action {
	return []Action{
		ReplaceText{ActionData: ActionData{ID: "a1", Index: 0}, Start: 0, End: 0, Text: "Attendi"},
		AddAnnotation{
			ActionData: ActionData{ID: "a2", Index: 1},
			Annotation: Annotation{ID: "1A", Start: 0, End: 0, Type: AnnotationTranscriptionTentative},
		},
		AddAnnotation{
			ActionData: ActionData{ID: "a3", Index: 2},
			Annotation: Annotation{ID: "2A", Start: 0, End: 0, Type: AnnotationEntity, EntityType: "NAME", EntityText: "Entity"},
		},
		RemoveAnnotation{ActionData: ActionData{ID: "a4", Index: 3}, AnnotationID: "2A"},
	}
}

func receiveAll(t *testing.T, actions []Action) Stream {
	t.Helper()

	stream, err := NewStream().ReceiveActions(actions)
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	return stream
}

func equalDocuments(a Document, b Document) bool {
	if a.Text != b.Text || len(a.Annotations) != len(b.Annotations) {
		return false
	}
	for i := range a.Annotations {
		if a.Annotations[i] != b.Annotations[i] {
			return false
		}
	}
	return true
}

func equalOperations(a []UndoableOperation, b []UndoableOperation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalStreams(a Stream, b Stream) bool {
	return equalDocuments(a.Document, b.Document) &&
		equalOperations(a.OperationHistory, b.OperationHistory) &&
		equalOperations(a.UndoneOperations, b.UndoneOperations)
}

func TestStreamReceiveMixedActions(t *testing.T) {
	t.Parallel()

	stream := receiveAll(t, mixedActions())

	if stream.Document.Text != "Attendi" {
		t.Fatalf("unexpected text: %q", stream.Document.Text)
	}
	if len(stream.Document.Annotations) != 1 || stream.Document.Annotations[0].ID != "1A" {
		t.Fatalf("unexpected annotations: %+v", stream.Document.Annotations)
	}
	if len(stream.OperationHistory) != 4 {
		t.Fatalf("unexpected history length: %d", len(stream.OperationHistory))
	}
	if len(stream.UndoneOperations) != 0 {
		t.Fatalf("unexpected undone operations: %d", len(stream.UndoneOperations))
	}
}

func TestStreamReceiveDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	initial := NewStream()
	if _, err := initial.ReceiveActions(mixedActions()); err != nil {
		t.Fatalf("receive failed: %v", err)
	}

	if initial.Document.Text != "" || len(initial.OperationHistory) != 0 {
		t.Fatalf("receiver was mutated: %+v", initial)
	}
}

func TestStreamUndoRedoRoundTrip(t *testing.T) {
	t.Parallel()

	actions := mixedActions()
	stream := receiveAll(t, actions)

	for k := 0; k <= len(actions); k++ {
		undone, err := stream.Undo(k)
		if err != nil {
			t.Fatalf("undo(%d) failed: %v", k, err)
		}
		redone, err := undone.Redo(k)
		if err != nil {
			t.Fatalf("redo(%d) failed: %v", k, err)
		}
		if !equalStreams(redone, stream) {
			t.Fatalf("undo(%d)/redo(%d) did not round trip: got %+v, want %+v", k, k, redone, stream)
		}
	}
}

func TestStreamFullUndoRestoresInitialDocument(t *testing.T) {
	t.Parallel()

	actions := mixedActions()
	stream := receiveAll(t, actions)

	undone, err := stream.Undo(len(actions))
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if undone.Document.Text != "" || len(undone.Document.Annotations) != 0 {
		t.Fatalf("expected empty document, got %+v", undone.Document)
	}
	if len(undone.OperationHistory) != 0 {
		t.Fatalf("expected empty history, got %d", len(undone.OperationHistory))
	}
	if len(undone.UndoneOperations) != len(actions) {
		t.Fatalf("expected %d undone operations, got %d", len(actions), len(undone.UndoneOperations))
	}
}

func TestStreamUndoRedoClamp(t *testing.T) {
	t.Parallel()

	actions := mixedActions()
	stream := receiveAll(t, actions)

	exact, err := stream.Undo(len(actions))
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	over, err := stream.Undo(len(actions) + 100)
	if err != nil {
		t.Fatalf("oversized undo failed: %v", err)
	}
	if !equalStreams(exact, over) {
		t.Fatalf("oversized undo diverged from exact undo")
	}

	redoneExact, err := exact.Redo(len(actions))
	if err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	redoneOver, err := over.Redo(len(actions) + 100)
	if err != nil {
		t.Fatalf("oversized redo failed: %v", err)
	}
	if !equalStreams(redoneExact, redoneOver) {
		t.Fatalf("oversized redo diverged from exact redo")
	}
	if !equalStreams(redoneExact, stream) {
		t.Fatalf("full undo/redo did not restore the stream")
	}
}

func TestStreamUndoAppliesTwoInverseActionsForUpdate(t *testing.T) {
	t.Parallel()

	original := Annotation{ID: "1A", Start: 0, End: 3, Type: AnnotationTranscriptionTentative}
	stream := receiveAll(t, []Action{
		ReplaceText{ActionData: ActionData{ID: "a1", Index: 0}, Start: 0, End: 0, Text: "abc"},
		AddAnnotation{ActionData: ActionData{ID: "a2", Index: 1}, Annotation: original},
		UpdateAnnotation{
			ActionData: ActionData{ID: "a3", Index: 2},
			Annotation: Annotation{ID: "1A", Start: 0, End: 3, Type: AnnotationIntent, IntentStatus: "recognized"},
		},
	})

	undone, err := stream.Undo(1)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if len(undone.Document.Annotations) != 1 || undone.Document.Annotations[0] != original {
		t.Fatalf("undo did not restore the pre-update annotation: %+v", undone.Document.Annotations)
	}
}

func TestStreamReceiveKeepsRedoHistory(t *testing.T) {
	t.Parallel()

	stream := receiveAll(t, mixedActions())

	undone, err := stream.Undo(2)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	more, err := undone.ReceiveActions([]Action{
		ReplaceText{ActionData: ActionData{ID: "a5", Index: 4}, Start: 0, End: 0, Text: "Dr. "},
	})
	if err != nil {
		t.Fatalf("receive after undo failed: %v", err)
	}

	if len(more.UndoneOperations) != 2 {
		t.Fatalf("receiving new actions must keep the redo stack, got %d undone", len(more.UndoneOperations))
	}
	if len(more.OperationHistory) != 3 {
		t.Fatalf("unexpected history length: %d", len(more.OperationHistory))
	}
	if more.Document.Text != "Dr. Attendi" {
		t.Fatalf("unexpected text: %q", more.Document.Text)
	}
}

func TestStreamUndoZeroIsIdentity(t *testing.T) {
	t.Parallel()

	stream := receiveAll(t, mixedActions())

	same, err := stream.Undo(0)
	if err != nil {
		t.Fatalf("undo(0) failed: %v", err)
	}
	if !equalStreams(same, stream) {
		t.Fatalf("undo(0) changed the stream")
	}

	same, err = stream.Redo(0)
	if err != nil {
		t.Fatalf("redo(0) failed: %v", err)
	}
	if !equalStreams(same, stream) {
		t.Fatalf("redo(0) changed the stream")
	}
}
