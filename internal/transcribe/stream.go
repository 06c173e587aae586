package transcribe

// Stream is the undoable view over a transcription session: the current
// document, the log of applied operations, and the stack of undone operations
// available for redo. Every action ever received lives in exactly one of the
// two lists.
//
// Stream is a value type: ReceiveActions, Undo and Redo return a new stream
// and never mutate the receiver. Callers serialize access themselves; a
// stream is owned by a single session pipeline.
type Stream struct {
	Document         Document
	OperationHistory []UndoableOperation
	UndoneOperations []UndoableOperation
}

// NewStream returns an empty stream. A fresh stream is created when a
// session opens and discarded when the session ends or resets.
func NewStream() Stream {
	return Stream{}
}

// ReceiveActions applies a batch of actions in order. Each action's inverse
// is computed against the progressively updated document before the action is
// applied, and the resulting operation is appended to the history.
//
// Receiving new actions does not clear the undone stack: server-driven edits
// grow the history from its current tip and any redo history stays available.
func (s Stream) ReceiveActions(actions []Action) (Stream, error) {
	doc := s.Document
	history := copyOperations(s.OperationHistory, len(actions))

	for _, action := range actions {
		op, err := Invert(doc, action)
		if err != nil {
			return Stream{}, err
		}
		doc, err = Apply(doc, action)
		if err != nil {
			return Stream{}, err
		}
		history = append(history, op)
	}

	s.Document = doc
	s.OperationHistory = history
	return s, nil
}

// Undo reverts up to n most recent operations, most recent first, moving each
// onto the undone stack. An n beyond the available history is clamped: the
// stream unwinds to its initial document and no error is returned.
func (s Stream) Undo(n int) (Stream, error) {
	if n > len(s.OperationHistory) {
		n = len(s.OperationHistory)
	}
	if n <= 0 {
		return s, nil
	}

	doc := s.Document
	history := copyOperations(s.OperationHistory, 0)
	undone := copyOperations(s.UndoneOperations, n)

	for i := 0; i < n; i++ {
		op := history[len(history)-1]
		history = history[:len(history)-1]

		for _, inverse := range op.Inverse {
			var err error
			doc, err = Apply(doc, inverse)
			if err != nil {
				return Stream{}, err
			}
		}
		undone = append(undone, op)
	}

	s.Document = doc
	s.OperationHistory = history
	s.UndoneOperations = undone
	return s, nil
}

// Redo re-applies up to n undone operations, last undone first, moving each
// back onto the history. An n beyond the undone stack is clamped; redoing
// past the most advanced state leaves the stream unchanged beyond that point.
func (s Stream) Redo(n int) (Stream, error) {
	if n > len(s.UndoneOperations) {
		n = len(s.UndoneOperations)
	}
	if n <= 0 {
		return s, nil
	}

	doc := s.Document
	history := copyOperations(s.OperationHistory, n)
	undone := copyOperations(s.UndoneOperations, 0)

	for i := 0; i < n; i++ {
		op := undone[len(undone)-1]
		undone = undone[:len(undone)-1]

		var err error
		doc, err = Apply(doc, op.Original)
		if err != nil {
			return Stream{}, err
		}
		history = append(history, op)
	}

	s.Document = doc
	s.OperationHistory = history
	s.UndoneOperations = undone
	return s, nil
}

func copyOperations(ops []UndoableOperation, extra int) []UndoableOperation {
	copied := make([]UndoableOperation, len(ops), len(ops)+extra)
	copy(copied, ops)
	return copied
}
