package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"simchecker/internal/analysis"
	"simchecker/internal/session"
)

type conceptSection struct {
	Title string
	Items []string
	Empty string
	Open  bool
}

type resultsView struct {
	Result          *analysis.Result
	Percent         string
	MajorityMatched bool
	Sections        []conceptSection
}

func newResultsView(res *analysis.Result) resultsView {
	if res == nil {
		return resultsView{}
	}
	matched := res.HighlightedMatches.MatchedConcepts
	missed := res.HighlightedMatches.MissedConcepts
	return resultsView{
		Result:          res,
		Percent:         fmt.Sprintf("%.1f", res.Percent()),
		MajorityMatched: res.MajorityMatched(),
		Sections: []conceptSection{
			{Title: "Matched Concepts", Items: matched, Empty: "No concepts matched", Open: len(matched) > 0},
			{Title: "Missing Concepts", Items: missed, Empty: "No missing concepts", Open: len(missed) > 0},
		},
	}
}

// Results shows the result handed over by the last submit. Without one it
// shows the loading indicator, which never resolves.
func (s *Server) Results(w http.ResponseWriter, r *http.Request) {
	var res *analysis.Result
	if id := s.cookies.ID(r); id != "" {
		var err error
		res, err = s.results.Take(r.Context(), id)
		if err != nil && !errors.Is(err, session.ErrEmpty) {
			slog.Error("failed to load result", "err", err)
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	s.pages.render(w, http.StatusOK, "results.html", page{
		Title:  "Results",
		Active: "results",
		Data:   newResultsView(res),
	})
}
