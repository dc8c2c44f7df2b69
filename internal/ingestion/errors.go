package ingestion

import (
	"errors"
	"fmt"
)

// ErrDocumentUnreadable is matched by every UnreadableError via errors.Is.
var ErrDocumentUnreadable = errors.New("document unreadable")

// UnreadableError reports a document that could not be opened or decoded at all.
// It is the only hard failure of the parsing pipeline.
type UnreadableError struct {
	Message string
	Cause   error
}

func (e *UnreadableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document unreadable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document unreadable: %s", e.Message)
}

func (e *UnreadableError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrDocumentUnreadable) match any UnreadableError.
func (e *UnreadableError) Is(target error) bool {
	return target == ErrDocumentUnreadable
}
