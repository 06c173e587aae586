package transcribe

import "fmt"

// Invert computes the inverse of an action against the document state as it
// exists immediately before the action is applied. It is pure: the document
// is only consulted, never changed. The inverse actions reuse the original
// action's id and index so that undone edits keep their server identity.
func Invert(doc Document, action Action) (UndoableOperation, error) {
	switch a := action.(type) {
	case ReplaceText:
		runes := []rune(doc.Text)
		if a.Start < 0 || a.Start > a.End || a.End > len(runes) {
			return UndoableOperation{}, fmt.Errorf("%w: replace [%d, %d) in text of length %d", ErrInvalidRange, a.Start, a.End, len(runes))
		}
		replaced := string(runes[a.Start:a.End])
		// The inverse targets the range the new text occupies and puts the
		// replaced text back.
		inverse := ReplaceText{
			ActionData: a.ActionData,
			Start:      a.Start,
			End:        a.Start + len([]rune(a.Text)),
			Text:       replaced,
		}
		return UndoableOperation{Original: a, Inverse: []Action{inverse}}, nil

	case AddAnnotation:
		inverse := RemoveAnnotation{ActionData: a.ActionData, AnnotationID: a.Annotation.ID}
		return UndoableOperation{Original: a, Inverse: []Action{inverse}}, nil

	case RemoveAnnotation:
		annotation, ok := findAnnotation(doc, a.AnnotationID)
		if !ok {
			return UndoableOperation{}, fmt.Errorf("%w: inverse of remove references unknown annotation %q", ErrInconsistentState, a.AnnotationID)
		}
		inverse := AddAnnotation{ActionData: a.ActionData, Annotation: annotation}
		return UndoableOperation{Original: a, Inverse: []Action{inverse}}, nil

	case UpdateAnnotation:
		previous, ok := findAnnotation(doc, a.Annotation.ID)
		if !ok {
			return UndoableOperation{}, fmt.Errorf("%w: inverse of update references unknown annotation %q", ErrInconsistentState, a.Annotation.ID)
		}
		// Reverting an update first erases the updated annotation, then
		// restores the pre-update one.
		inverse := []Action{
			RemoveAnnotation{ActionData: a.ActionData, AnnotationID: a.Annotation.ID},
			AddAnnotation{ActionData: a.ActionData, Annotation: previous},
		}
		return UndoableOperation{Original: a, Inverse: inverse}, nil

	default:
		return UndoableOperation{}, fmt.Errorf("transcribe: unknown action type %T", action)
	}
}
