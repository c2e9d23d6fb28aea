package submission

import "fmt"

// Event is one step of a submission as reported by the form parser.
type Event interface {
	event()
	String() string
}

type FieldEvent struct {
	Name  string
	Value string
}

type FileBeginEvent struct {
	FieldName string
	Filename  string
	MediaType string
}

type FileCompleteEvent struct {
	Size int64
}

type AbortEvent struct{}

type ParseErrorEvent struct {
	Err error
}

type EndEvent struct{}

func (FieldEvent) event()        {}
func (FileBeginEvent) event()    {}
func (FileCompleteEvent) event() {}
func (AbortEvent) event()        {}
func (ParseErrorEvent) event()   {}
func (EndEvent) event()          {}

func (e FieldEvent) String() string { return fmt.Sprintf("field(%s)", e.Name) }
func (e FileBeginEvent) String() string {
	return fmt.Sprintf("file-begin(%s, %s)", e.Filename, e.MediaType)
}
func (e FileCompleteEvent) String() string { return fmt.Sprintf("file-complete(%d)", e.Size) }
func (AbortEvent) String() string          { return "abort" }
func (e ParseErrorEvent) String() string   { return fmt.Sprintf("parse-error(%v)", e.Err) }
func (EndEvent) String() string            { return "end" }
