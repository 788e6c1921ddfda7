package storage

import "time"

// Submission is the summary kept for every analyzed submission. The full
// feedback never leaves the session slot.
type Submission struct {
	ID              int64     `json:"id"`
	Student         string    `json:"student"`
	Grade           string    `json:"grade"`
	SimilarityScore float64   `json:"similarity_score"`
	Passed          bool      `json:"passed"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

type Stats struct {
	TotalSubmissions int     `json:"total_submissions"`
	AverageScore     float64 `json:"average_score"`
	PassRate         float64 `json:"pass_rate"`
}
