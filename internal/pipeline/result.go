package pipeline

import "github.com/muicebot/plugin-index/internal/issue"

// Status is the outcome of one pipeline run
type Status string

const (
	// StatusOK means the plugin was verified and published
	StatusOK Status = "OK"

	// StatusSkipped means the event was not a plugin submission
	StatusSkipped Status = "Skipped"

	// StatusFailed means the run aborted
	StatusFailed Status = "Failed"
)

// Result reports how a run ended
type Result struct {
	// Status is the run outcome
	Status Status

	// Reason explains a skip or failure
	Reason string

	// Submission is the extracted submission, nil when extraction never succeeded
	Submission *issue.Submission

	// Err is the cause of a failed run
	Err error
}

func skipped(reason string) *Result {
	return &Result{Status: StatusSkipped, Reason: reason}
}

func failed(sub *issue.Submission, err error) *Result {
	return &Result{Status: StatusFailed, Reason: err.Error(), Submission: sub, Err: err}
}
