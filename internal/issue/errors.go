package issue

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSkip marks an event that is not an actionable plugin submission.
	ErrSkip = errors.New("not an actionable plugin submission")

	// ErrMalformedSubmission marks an issue that claims to be a submission but
	// lacks one or more required fields.
	ErrMalformedSubmission = errors.New("malformed plugin submission")
)

// SkipError carries the reason an event was skipped
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrSkip) hold for every SkipError
func (*SkipError) Is(target error) bool {
	return target == ErrSkip
}

func skipf(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// MalformedSubmissionError lists the required fields an issue body is missing.
// Each entry is the field name followed by the heading it was expected under.
type MalformedSubmissionError struct {
	Missing []string
}

func (e *MalformedSubmissionError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrMalformedSubmission, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrMalformedSubmission) hold for every MalformedSubmissionError
func (*MalformedSubmissionError) Is(target error) bool {
	return target == ErrMalformedSubmission
}
