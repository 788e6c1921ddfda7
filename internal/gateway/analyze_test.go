package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simchecker/internal/grading"
)

func upload(name, content string) *Upload {
	return &Upload{Filename: name, Content: strings.NewReader(content)}
}

func submission(threshold int) Submission {
	return Submission{
		AnswerKey:         upload("key.txt", "photosynthesis converts light"),
		StudentSubmission: upload("alice.txt", "plants use light"),
		ThresholdPercent:  threshold,
	}
}

func TestAnalyzeSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		key, keyHeader, err := r.FormFile(FieldAnswerKey)
		require.NoError(t, err)
		defer key.Close()
		keyBody, _ := io.ReadAll(key)
		assert.Equal(t, "key.txt", keyHeader.Filename)
		assert.Equal(t, "photosynthesis converts light", string(keyBody))

		sub, subHeader, err := r.FormFile(FieldStudentSubmission)
		require.NoError(t, err)
		defer sub.Close()
		assert.Equal(t, "alice.txt", subHeader.Filename)

		assert.JSONEq(t,
			`{"similarity_threshold":0.7,"grade_ranges":{"A":90,"B":80,"C":70,"D":60,"F":0}}`,
			r.FormValue(FieldConfig))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"student_name": "from-backend.txt",
			"similarity_score": 0.853,
			"grade": "B",
			"feedback": "ok",
			"highlighted_matches": {"matched_concepts": ["x", "y"], "missed_concepts": []}
		}`)
	}))
	defer server.Close()

	gw := NewGateway(server.URL+"/api/analyze", time.Second)
	res, err := gw.Analyze(context.Background(), submission(70))
	require.NoError(t, err)

	assert.Equal(t, "alice.txt", res.StudentName)
	assert.InDelta(t, 0.853, res.SimilarityScore, 1e-9)
	assert.Equal(t, "B", res.Grade)
	assert.Equal(t, []string{"ok"}, res.Feedback)
	assert.Equal(t, []string{"x", "y"}, res.HighlightedMatches.MatchedConcepts)
	assert.Empty(t, res.HighlightedMatches.MissedConcepts)
}

func TestAnalyzeThresholdFraction(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.FormValue(FieldConfig))
		_, _ = io.WriteString(w, `{"similarity_score": 0.5, "grade": "F", "feedback": []}`)
	}))
	defer server.Close()

	gw := NewGateway(server.URL, time.Second)
	for pct := grading.MinThreshold; pct <= grading.MaxThreshold; pct += grading.ThresholdStep {
		_, err := gw.Analyze(context.Background(), submission(pct))
		require.NoError(t, err)

		var cfg grading.Config
		require.NoError(t, json.Unmarshal([]byte(got.Load().(string)), &cfg))
		assert.Equal(t, float64(pct)/100, cfg.SimilarityThreshold, "threshold %d", pct)
	}
}

func TestAnalyzeMissingFilesSendsNothing(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	gw := NewGateway(server.URL, time.Second)
	cases := []Submission{
		{ThresholdPercent: 70},
		{AnswerKey: upload("key.txt", "k"), ThresholdPercent: 70},
		{StudentSubmission: upload("s.txt", "s"), ThresholdPercent: 70},
	}
	for _, sub := range cases {
		_, err := gw.Analyze(context.Background(), sub)
		assert.ErrorIs(t, err, ErrMissingFiles)
		assert.Equal(t, MsgMissingFiles, UserMessage(err))
	}
	assert.Zero(t, calls.Load())
}

func TestAnalyzeTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	gw := NewGateway(server.URL, 50*time.Millisecond)
	_, err := gw.Analyze(context.Background(), submission(70))

	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, MsgTimeout, UserMessage(err))
}

func TestAnalyzeUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	gw := NewGateway(url, time.Second)
	_, err := gw.Analyze(context.Background(), submission(70))

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, MsgUnavailable, UserMessage(err))
}

func TestAnalyzeBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "string detail", status: http.StatusBadRequest, body: `{"detail": "Invalid file format"}`, wantMsg: "Invalid file format"},
		{name: "object detail", status: http.StatusUnprocessableEntity, body: `{"detail": [{"loc": ["body", "config"], "msg": "field required"}]}`, wantMsg: `[{"loc":["body","config"],"msg":"field required"}]`},
		{name: "empty detail", status: http.StatusInternalServerError, body: `{"detail": ""}`, wantMsg: MsgSubmitFailed},
		{name: "no detail", status: http.StatusInternalServerError, body: `{"error": "boom"}`, wantMsg: MsgSubmitFailed},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: MsgSubmitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := NewGateway(server.URL, time.Second).Analyze(context.Background(), submission(70))

			var be *BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.status, be.Status)
			assert.Equal(t, tt.wantMsg, UserMessage(err))
		})
	}
}

func TestAnalyzeUndecodableSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "definitely not json")
	}))
	defer server.Close()

	_, err := NewGateway(server.URL, time.Second).Analyze(context.Background(), submission(70))
	require.Error(t, err)
	assert.Equal(t, MsgUnexpected, UserMessage(err))
}

func TestUserMessageFallbacks(t *testing.T) {
	assert.Equal(t, MsgUnexpected, UserMessage(fmt.Errorf("something odd")))
	assert.Equal(t, MsgThreshold, UserMessage(grading.ErrInvalidThreshold))

	_, err := NewGateway("http://127.0.0.1:1", time.Second).Analyze(context.Background(), submission(150))
	assert.ErrorIs(t, err, grading.ErrInvalidThreshold)
}
