package transcribe

// ActionData carries the server-assigned identity of an action: a unique id
// and a monotonically increasing sequence index.
type ActionData struct {
	ID    string
	Index int
}

// Data returns the action's identity. Embedding ActionData in a concrete
// action satisfies the Action interface's Data method.
func (d ActionData) Data() ActionData { return d }

// Action is one atomic edit instruction from the transcription backend.
// The set of implementations is closed; consumers switch exhaustively.
type Action interface {
	Data() ActionData
	isAction()
}

// AddAnnotation appends a new annotation to the document.
type AddAnnotation struct {
	ActionData
	Annotation Annotation
}

// RemoveAnnotation removes the annotation with the given id.
type RemoveAnnotation struct {
	ActionData
	AnnotationID string
}

// UpdateAnnotation replaces the annotation holding the same id wholesale.
type UpdateAnnotation struct {
	ActionData
	Annotation Annotation
}

// ReplaceText replaces the half-open character range [Start, End) with Text.
type ReplaceText struct {
	ActionData
	Start int
	End   int
	Text  string
}

func (AddAnnotation) isAction()    {}
func (RemoveAnnotation) isAction() {}
func (UpdateAnnotation) isAction() {}
func (ReplaceText) isAction()      {}

// UndoableOperation pairs an applied action with its precomputed inverse.
// The inverse holds one action for Add/Remove/ReplaceText and two for Update
// (remove the updated annotation, then re-add the original).
type UndoableOperation struct {
	Original Action
	Inverse  []Action
}
