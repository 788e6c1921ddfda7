package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"

	"github.com/go-chi/render"

	"simchecker/internal/analysis"
	"simchecker/internal/grading"
)

const maxErrorBody = 1 << 20

// Analyze sends both files and the grading config to the backend and returns
// the normalized result.
func (g *Gateway) Analyze(ctx context.Context, sub Submission) (*analysis.Result, error) {
	if sub.AnswerKey == nil || sub.StudentSubmission == nil {
		return nil, ErrMissingFiles
	}

	cfg, err := grading.NewConfig(sub.ThresholdPercent)
	if err != nil {
		return nil, err
	}

	body, contentType, err := buildMultipart(sub, cfg)
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.analyzeURL, body)
	if err != nil {
		return nil, fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	slog.Debug("sending analyze request",
		"url", g.analyzeURL,
		"answer_key", sub.AnswerKey.Filename,
		"student_submission", sub.StudentSubmission.Filename,
		"threshold", cfg.SimilarityThreshold,
	)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backendError(resp)
	}

	var env analysis.Envelope
	if err := render.DecodeJSON(resp.Body, &env); err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}

	return analysis.Normalize(sub.StudentSubmission.Filename, env), nil
}

func buildMultipart(sub Submission, cfg grading.Config) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	files := []struct {
		field  string
		upload *Upload
	}{
		{FieldAnswerKey, sub.AnswerKey},
		{FieldStudentSubmission, sub.StudentSubmission},
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.upload.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.upload.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", f.field, err)
		}
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, "", err
	}
	if err := mw.WriteField(FieldConfig, string(cfgJSON)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func transportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// backendError extracts the detail of an error response. A string detail is
// kept verbatim, any other detail is kept as compact JSON.
func backendError(resp *http.Response) error {
	be := &BackendError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		slog.Warn("failed to read analyze error body", "status", resp.StatusCode, "err", err)
		return be
	}

	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return be
	}

	detail := bytes.TrimSpace(env.Detail)
	if len(detail) == 0 || bytes.Equal(detail, []byte("null")) {
		return be
	}
	var s string
	if json.Unmarshal(detail, &s) == nil {
		be.Detail = s
		return be
	}
	var compact bytes.Buffer
	if json.Compact(&compact, detail) == nil {
		be.Detail = compact.String()
	}
	return be
}
