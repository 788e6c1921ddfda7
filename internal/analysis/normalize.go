package analysis

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Envelope is the analyze response as sent by the backend. Nothing in it is
// trusted until Normalize has run.
type Envelope struct {
	SimilarityScore    json.RawMessage `json:"similarity_score"`
	Grade              json.RawMessage `json:"grade"`
	Feedback           json.RawMessage `json:"feedback"`
	HighlightedMatches json.RawMessage `json:"highlighted_matches"`
}

type matchesEnvelope struct {
	MatchedConcepts json.RawMessage `json:"matched_concepts"`
	MissedConcepts  json.RawMessage `json:"missed_concepts"`
}

// Normalize coerces env into a Result. studentName comes from the uploaded
// file, never from the backend.
func Normalize(studentName string, env Envelope) *Result {
	res := &Result{
		StudentName:     studentName,
		SimilarityScore: number(env.SimilarityScore),
		Grade:           text(env.Grade),
		Feedback:        feedback(env.Feedback),
		HighlightedMatches: HighlightedMatches{
			MatchedConcepts: []string{},
			MissedConcepts:  []string{},
		},
	}

	var m matchesEnvelope
	if isObject(env.HighlightedMatches) && json.Unmarshal(env.HighlightedMatches, &m) == nil {
		res.HighlightedMatches.MatchedConcepts = list(m.MatchedConcepts)
		res.HighlightedMatches.MissedConcepts = list(m.MissedConcepts)
	}
	return res
}

func number(raw json.RawMessage) float64 {
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}

// text returns a JSON string as is and any other non-null value as its JSON text.
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// list keeps a JSON array in order. Anything else yields an empty list.
func list(raw json.RawMessage) []string {
	var items []json.RawMessage
	if !isArray(raw) || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, text(item))
	}
	return out
}

// feedback wraps a bare value into a single entry, dropping falsy ones.
func feedback(raw json.RawMessage) []string {
	if isArray(raw) {
		return list(raw)
	}
	if falsy(raw) {
		return []string{}
	}
	return []string{text(raw)}
}

func falsy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil && f == 0 {
		return true
	}
	return false
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
