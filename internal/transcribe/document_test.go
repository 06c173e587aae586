package transcribe

import (
	"errors"
	"reflect"
	"testing"
)

func TestApplyReplaceTextSplicesRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		action ReplaceText
		want   string
	}{
		{
			name:   "insert into empty document",
			text:   "",
			action: ReplaceText{Start: 0, End: 0, Text: "Attendi"},
			want:   "Attendi",
		},
		{
			name:   "append at end",
			text:   "Attendi",
			action: ReplaceText{Start: 7, End: 7, Text: " luister"},
			want:   "Attendi luister",
		},
		{
			name:   "replace middle range",
			text:   "patient is stable",
			action: ReplaceText{Start: 11, End: 17, Text: "awake"},
			want:   "patient is awake",
		},
		{
			name:   "delete range",
			text:   "hello there",
			action: ReplaceText{Start: 5, End: 11, Text: ""},
			want:   "hello",
		},
		{
			name:   "multibyte characters count as one",
			text:   "señor",
			action: ReplaceText{Start: 2, End: 3, Text: "ño"},
			want:   "señor"[:2] + "ño" + "or",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Apply(Document{Text: tt.text}, tt.action)
			if err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if got.Text != tt.want {
				t.Fatalf("unexpected text: got %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestApplyReplaceTextRejectsInvalidRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action ReplaceText
	}{
		{name: "negative start", action: ReplaceText{Start: -1, End: 0, Text: "x"}},
		{name: "start past end", action: ReplaceText{Start: 3, End: 1, Text: "x"}},
		{name: "end past text", action: ReplaceText{Start: 0, End: 10, Text: "x"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Apply(Document{Text: "abc"}, tt.action)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestApplyAddAnnotationAppends(t *testing.T) {
	t.Parallel()

	doc := Document{Text: "Attendi"}
	first := Annotation{ID: "1A", Start: 0, End: 7, Type: AnnotationTranscriptionTentative}
	second := Annotation{ID: "2A", Start: 0, End: 0, Type: AnnotationEntity, EntityType: "NAME", EntityText: "Entity"}

	doc, err := Apply(doc, AddAnnotation{Annotation: first})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	doc, err = Apply(doc, AddAnnotation{Annotation: second})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	want := []Annotation{first, second}
	if !reflect.DeepEqual(doc.Annotations, want) {
		t.Fatalf("unexpected annotations: got %+v, want %+v", doc.Annotations, want)
	}
}

func TestApplyAddAnnotationRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	_, err := Apply(Document{}, AddAnnotation{Annotation: Annotation{ID: "1A", Start: 5, End: 2}})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestApplyRemoveAnnotationFiltersByID(t *testing.T) {
	t.Parallel()

	doc := Document{Annotations: []Annotation{
		{ID: "1A", Type: AnnotationTranscriptionTentative},
		{ID: "2A", Type: AnnotationEntity},
		{ID: "3A", Type: AnnotationIntent},
	}}

	got, err := Apply(doc, RemoveAnnotation{AnnotationID: "2A"})
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if len(got.Annotations) != 2 || got.Annotations[0].ID != "1A" || got.Annotations[1].ID != "3A" {
		t.Fatalf("unexpected annotations after remove: %+v", got.Annotations)
	}
	if len(doc.Annotations) != 3 {
		t.Fatalf("source document was mutated: %+v", doc.Annotations)
	}
}

func TestApplyRemoveAnnotationFailsForUnknownID(t *testing.T) {
	t.Parallel()

	_, err := Apply(Document{}, RemoveAnnotation{AnnotationID: "missing"})
	if !errors.Is(err, ErrInconsistentState) {
		t.Fatalf("expected ErrInconsistentState, got %v", err)
	}
}

func TestApplyUpdateAnnotationReplacesWholesale(t *testing.T) {
	t.Parallel()

	doc := Document{Annotations: []Annotation{
		{ID: "1A", Start: 0, End: 3, Type: AnnotationTranscriptionTentative},
		{ID: "2A", Start: 4, End: 8, Type: AnnotationEntity, EntityType: "NAME", EntityText: "old"},
	}}

	updated := Annotation{ID: "1A", Start: 0, End: 5, Type: AnnotationIntent, IntentStatus: "recognized"}
	got, err := Apply(doc, UpdateAnnotation{Annotation: updated})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	want := []Annotation{doc.Annotations[1], updated}
	if !reflect.DeepEqual(got.Annotations, want) {
		t.Fatalf("unexpected annotations after update: got %+v, want %+v", got.Annotations, want)
	}
}

func TestApplyUpdateAnnotationFailsForUnknownID(t *testing.T) {
	t.Parallel()

	_, err := Apply(Document{}, UpdateAnnotation{Annotation: Annotation{ID: "missing"}})
	if !errors.Is(err, ErrInconsistentState) {
		t.Fatalf("expected ErrInconsistentState, got %v", err)
	}
}
