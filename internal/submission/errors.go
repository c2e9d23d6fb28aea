package submission

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrDateParse           = errors.New("malformed publication date")
	ErrFormParse           = errors.New("malformed form data")
	ErrGatewayCreate       = errors.New("article store refused the article")
	// ErrClientAbort marks a submission the client walked away from. It is never shown to anyone.
	ErrClientAbort = errors.New("client aborted the submission")

	// ErrTerminal is returned for events that arrive after the submission finished.
	ErrTerminal = errors.New("submission already finished")
)

type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s: %q does not match dd.mm.yyyy", ErrDateParse, e.Value)
}

func (e *DateParseError) Unwrap() []error {
	return []error{ErrDateParse, e.Err}
}
