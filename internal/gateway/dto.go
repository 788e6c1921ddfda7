package gateway

import (
	"encoding/json"
	"io"
)

const (
	FieldAnswerKey         = "answer_key"
	FieldStudentSubmission = "student_submission"
	FieldConfig            = "config"
)

// Upload is one file picked in the form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Submission is the input of a single analyze call.
type Submission struct {
	AnswerKey         *Upload
	StudentSubmission *Upload
	ThresholdPercent  int
}

// errorEnvelope is the backend's error body, {"detail": string | object}.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}
