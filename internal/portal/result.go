package portal

import (
	"errors"

	"course-portal/internal/client"
	domain "course-portal/internal/domain/registration"
)

// Result is the outcome of a user-facing portal operation. Failures are
// reported here rather than as Go errors so callers can render them directly.
type Result struct {
	Success bool
	Error   string
	Kind    domain.ErrorKind
	Missing []int
}

// Err adapts a failed Result for callers that prefer error values.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &domain.Error{
		Kind:    r.Kind,
		Message: r.Error,
		Status:  domain.StatusFor(r.Kind),
		Missing: r.Missing,
	}
}

func ok() Result {
	return Result{Success: true}
}

func superseded() Result {
	return Result{Error: "superseded by reset", Kind: domain.KindSuperseded}
}

// failure converts a collaborator error into a failed Result, using fallback
// when the error carries no message of its own.
func failure(err error, fallback string) Result {
	msg := client.MessageOf(err)
	if msg == "" {
		msg = fallback
	}
	return Result{
		Error:   msg,
		Kind:    client.KindOf(err),
		Missing: missingOf(err),
	}
}

func missingOf(err error) []int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Missing
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Missing
	}
	return nil
}

// MessageType tags a transient status line.
type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageError   MessageType = "error"
)

// Message is a transient status line shown to the student.
type Message struct {
	Text string
	Type MessageType
}

// Empty reports whether there is nothing to show.
func (m Message) Empty() bool {
	return m.Text == ""
}
