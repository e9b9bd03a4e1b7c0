package extract

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extraction failures.
type ErrorKind int

const (
	// Unreadable means the byte stream could not be parsed as the
	// declared media kind. Missing GPS data is never Unreadable; it is
	// represented as a MetadataStatus on a successfully produced record.
	Unreadable ErrorKind = iota
)

// ExtractionError reports a failure to extract metadata from one media
// file. It is fatal to that single ingest only.
type ExtractionError struct {
	Kind ErrorKind
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: unreadable as declared kind: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("extract %s: unreadable as declared kind", e.Name)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsUnreadable reports whether err is an ExtractionError of kind Unreadable.
func IsUnreadable(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee) && ee.Kind == Unreadable
}
