package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"simchecker/internal/analysis"
	"simchecker/internal/gateway"
	"simchecker/internal/grading"
	"simchecker/internal/storage"
)

const (
	maxUploadSize = 32 << 20
	acceptedTypes = ".txt,.pdf,.doc,.docx,.rtf"
)

type submitView struct {
	Accept    string
	Threshold int
	Min       int
	Max       int
	Step      int
	Error     string
}

func newSubmitView(threshold int, msg string) submitView {
	return submitView{
		Accept:    acceptedTypes,
		Threshold: threshold,
		Min:       grading.MinThreshold,
		Max:       grading.MaxThreshold,
		Step:      grading.ThresholdStep,
		Error:     msg,
	}
}

func (s *Server) SubmitForm(w http.ResponseWriter, r *http.Request) {
	s.renderSubmit(w, http.StatusOK, newSubmitView(grading.DefaultThreshold, ""))
}

// Submit runs the analysis and hands the result to the results page through
// the session slot.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	res, threshold, err := s.analyze(w, r)
	if err != nil {
		s.renderSubmit(w, statusFor(err), newSubmitView(threshold, gateway.UserMessage(err)))
		return
	}

	id := s.cookies.Ensure(w, r)
	if err := s.results.Put(r.Context(), id, res); err != nil {
		slog.Error("failed to store result", "err", err)
		s.renderSubmit(w, http.StatusInternalServerError, newSubmitView(threshold, gateway.MsgUnexpected))
		return
	}

	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

func (s *Server) renderSubmit(w http.ResponseWriter, status int, view submitView) {
	s.pages.render(w, status, "submit.html", page{
		Title:  "Submit Assignment",
		Active: "submit",
		Data:   view,
	})
}

// analyze parses the upload, calls the backend and records the outcome. The
// returned threshold is what the form should show again on failure.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*analysis.Result, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, grading.DefaultThreshold, fmt.Errorf("parse upload: %w", err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	threshold, err := grading.ParseThreshold(r.FormValue("threshold"))
	if err != nil {
		return nil, grading.DefaultThreshold, err
	}

	sub := gateway.Submission{ThresholdPercent: threshold}
	closers := make([]multipart.File, 0, 2)
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()
	for field, dst := range map[string]**gateway.Upload{
		gateway.FieldAnswerKey:         &sub.AnswerKey,
		gateway.FieldStudentSubmission: &sub.StudentSubmission,
	} {
		f, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return nil, threshold, fmt.Errorf("read %s: %w", field, err)
		}
		closers = append(closers, f)
		*dst = &gateway.Upload{Filename: header.Filename, Content: f}
	}

	res, err := s.analyzer.Analyze(r.Context(), sub)
	if err != nil {
		slog.Warn("analysis failed", "threshold", threshold, "err", err)
		return nil, threshold, err
	}

	slog.Info("submission analyzed",
		"student", res.StudentName,
		"grade", res.Grade,
		"similarity", res.SimilarityScore,
	)
	s.record(r.Context(), res, threshold)
	return res, threshold, nil
}

// record logs the submission for the dashboard. Failures are not shown to the user.
func (s *Server) record(ctx context.Context, res *analysis.Result, threshold int) {
	if s.history == nil {
		return
	}
	grade := res.Grade
	if grade == "" {
		grade = grading.DefaultGradeRanges.GradeFor(res.Percent())
	}
	sub := &storage.Submission{
		Student:         res.StudentName,
		Grade:           grade,
		SimilarityScore: res.SimilarityScore,
		Passed:          res.Percent() >= float64(threshold),
	}
	if err := s.history.RecordSubmission(ctx, sub); err != nil {
		slog.Error("failed to record submission", "student", res.StudentName, "err", err)
	}
}

func statusFor(err error) int {
	var be *gateway.BackendError
	switch {
	case errors.Is(err, gateway.ErrMissingFiles), errors.Is(err, grading.ErrInvalidThreshold):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, gateway.ErrUnavailable), errors.As(err, &be):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
