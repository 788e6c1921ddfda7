package gateway

import (
	"errors"
	"fmt"

	"simchecker/internal/grading"
)

var (
	ErrMissingFiles = errors.New("answer key and student submission are required")
	ErrTimeout      = errors.New("analysis request timed out")
	ErrUnavailable  = errors.New("analysis backend unreachable")
)

const (
	MsgMissingFiles = "Please upload both answer key and student submission"
	MsgTimeout      = "Request timed out. Please try again or check if the server is running."
	MsgUnavailable  = "Cannot connect to the server. Please make sure the backend is running."
	MsgSubmitFailed = "Error submitting files. Please try again."
	MsgUnexpected   = "An unexpected error occurred. Please try again."
	MsgThreshold    = "Similarity threshold must be a whole number between 0 and 100"
)

// BackendError is a response with a non-2xx status. Detail is the message to
// show, empty when the backend sent none.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("analysis backend returned status %d", e.Status)
	}
	return fmt.Sprintf("analysis backend returned status %d: %s", e.Status, e.Detail)
}

// UserMessage turns an Analyze error into the banner text shown in the form.
func UserMessage(err error) string {
	var be *BackendError
	switch {
	case errors.Is(err, ErrMissingFiles):
		return MsgMissingFiles
	case errors.Is(err, grading.ErrInvalidThreshold):
		return MsgThreshold
	case errors.Is(err, ErrTimeout):
		return MsgTimeout
	case errors.Is(err, ErrUnavailable):
		return MsgUnavailable
	case errors.As(err, &be):
		if be.Detail != "" {
			return be.Detail
		}
		return MsgSubmitFailed
	default:
		return MsgUnexpected
	}
}
