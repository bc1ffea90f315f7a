package budget

import "fmt"

// MalformedRecordError reports a record that cannot be parsed into its
// required fields.
type MalformedRecordError struct {
	Source string // file name or collector name
	Line   int    // 1-based line or record number, 0 if unknown
	Field  string
	Value  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed record %s:%d: field %q", e.Source, e.Line, e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" has invalid value %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// InconsistentSnapshotError reports a snapshot handed to Reconcile with a
// required field missing.
type InconsistentSnapshotError struct {
	Origin Origin
	Index  int // position in the input of that origin
	Field  string
}

func (e *InconsistentSnapshotError) Error() string {
	return fmt.Sprintf("inconsistent %s snapshot #%d: missing %s", e.Origin, e.Index, e.Field)
}

// NotFoundError reports a missing backing file. It unwraps to fs.ErrNotExist.
//
// Callers decide explicitly whether an absent source means "empty" or is fatal.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %v", e.Path, e.Err) }

func (e *NotFoundError) Unwrap() error { return e.Err }
