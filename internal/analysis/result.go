package analysis

// Result is the normalized outcome of one analyzed submission.
type Result struct {
	StudentName        string             `json:"student_name"`
	SimilarityScore    float64            `json:"similarity_score"`
	Grade              string             `json:"grade"`
	Feedback           []string           `json:"feedback"`
	HighlightedMatches HighlightedMatches `json:"highlighted_matches"`
}

type HighlightedMatches struct {
	MatchedConcepts []string `json:"matched_concepts"`
	MissedConcepts  []string `json:"missed_concepts"`
}

// Percent is the similarity score on a 0..100 scale.
func (r *Result) Percent() float64 {
	return r.SimilarityScore * 100
}

// MajorityMatched reports whether strictly more concepts were matched than missed.
func (r *Result) MajorityMatched() bool {
	return len(r.HighlightedMatches.MatchedConcepts) > len(r.HighlightedMatches.MissedConcepts)
}
