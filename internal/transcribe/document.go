package transcribe

import (
	"errors"
	"fmt"
)

// AnnotationType discriminates the annotation kinds produced by the backend.
type AnnotationType string

const (
	AnnotationTranscriptionTentative AnnotationType = "transcription_tentative"
	AnnotationIntent                 AnnotationType = "intent"
	AnnotationEntity                 AnnotationType = "entity"
)

// Annotation is a tagged character range in the document. Annotations are
// immutable once added; updates replace them wholesale. IntentStatus is set
// for intent annotations, EntityType/EntityText for entity annotations.
type Annotation struct {
	ID    string
	Start int
	End   int
	Type  AnnotationType

	IntentStatus string
	EntityType   string
	EntityText   string
}

// Document is the text plus its annotations in insertion order. Annotation
// ranges are not re-validated when later text edits change the text length;
// consumers clamp stale ranges at render time.
type Document struct {
	Text        string
	Annotations []Annotation
}

var (
	// ErrInconsistentState reports an action referencing an annotation id
	// that is not present in the document. It indicates a protocol or
	// ordering bug upstream, not a user-recoverable condition.
	ErrInconsistentState = errors.New("transcribe: inconsistent document state")

	// ErrInvalidRange reports a character range outside the document text
	// or with start past end.
	ErrInvalidRange = errors.New("transcribe: invalid character range")
)

// Apply returns the document produced by one action. The receiver is never
// mutated; the annotation slice is copied before any change.
func Apply(doc Document, action Action) (Document, error) {
	switch a := action.(type) {
	case ReplaceText:
		return applyReplaceText(doc, a)
	case AddAnnotation:
		return applyAddAnnotation(doc, a)
	case RemoveAnnotation:
		return applyRemoveAnnotation(doc, a)
	case UpdateAnnotation:
		return applyUpdateAnnotation(doc, a)
	default:
		return Document{}, fmt.Errorf("transcribe: unknown action type %T", action)
	}
}

func applyReplaceText(doc Document, a ReplaceText) (Document, error) {
	runes := []rune(doc.Text)
	if a.Start < 0 || a.Start > a.End || a.End > len(runes) {
		return Document{}, fmt.Errorf("%w: replace [%d, %d) in text of length %d", ErrInvalidRange, a.Start, a.End, len(runes))
	}

	spliced := make([]rune, 0, len(runes)-(a.End-a.Start)+len([]rune(a.Text)))
	spliced = append(spliced, runes[:a.Start]...)
	spliced = append(spliced, []rune(a.Text)...)
	spliced = append(spliced, runes[a.End:]...)

	doc.Text = string(spliced)
	return doc, nil
}

func applyAddAnnotation(doc Document, a AddAnnotation) (Document, error) {
	if err := validateAnnotation(a.Annotation); err != nil {
		return Document{}, err
	}

	annotations := make([]Annotation, 0, len(doc.Annotations)+1)
	annotations = append(annotations, doc.Annotations...)
	annotations = append(annotations, a.Annotation)

	doc.Annotations = annotations
	return doc, nil
}

func applyRemoveAnnotation(doc Document, a RemoveAnnotation) (Document, error) {
	index := annotationIndex(doc, a.AnnotationID)
	if index < 0 {
		return Document{}, fmt.Errorf("%w: remove of unknown annotation %q", ErrInconsistentState, a.AnnotationID)
	}

	annotations := make([]Annotation, 0, len(doc.Annotations)-1)
	annotations = append(annotations, doc.Annotations[:index]...)
	annotations = append(annotations, doc.Annotations[index+1:]...)

	doc.Annotations = annotations
	return doc, nil
}

func applyUpdateAnnotation(doc Document, a UpdateAnnotation) (Document, error) {
	if err := validateAnnotation(a.Annotation); err != nil {
		return Document{}, err
	}

	index := annotationIndex(doc, a.Annotation.ID)
	if index < 0 {
		return Document{}, fmt.Errorf("%w: update of unknown annotation %q", ErrInconsistentState, a.Annotation.ID)
	}

	// An update removes the old annotation and appends the replacement,
	// mirroring its remove-then-add inverse so undo/redo reconstructs the
	// same sequence order.
	annotations := make([]Annotation, 0, len(doc.Annotations))
	annotations = append(annotations, doc.Annotations[:index]...)
	annotations = append(annotations, doc.Annotations[index+1:]...)
	annotations = append(annotations, a.Annotation)

	doc.Annotations = annotations
	return doc, nil
}

func validateAnnotation(annotation Annotation) error {
	if annotation.Start < 0 || annotation.Start > annotation.End {
		return fmt.Errorf("%w: annotation %q range [%d, %d)", ErrInvalidRange, annotation.ID, annotation.Start, annotation.End)
	}
	return nil
}

func annotationIndex(doc Document, id string) int {
	for i, annotation := range doc.Annotations {
		if annotation.ID == id {
			return i
		}
	}
	return -1
}

func findAnnotation(doc Document, id string) (Annotation, bool) {
	index := annotationIndex(doc, id)
	if index < 0 {
		return Annotation{}, false
	}
	return doc.Annotations[index], true
}
