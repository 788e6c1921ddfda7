package web

import (
	"net/http"

	"github.com/go-chi/render"

	"simchecker/internal/gateway"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

// AnalyzeJSON is Submit for script clients: same multipart input, the
// normalized result as the response body.
func (s *Server) AnalyzeJSON(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.analyze(w, r)
	if err != nil {
		render.Status(r, statusFor(err))
		render.JSON(w, r, errorResponse{Detail: gateway.UserMessage(err)})
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}

func (s *Server) Submissions(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, s.dashboard(r.Context()))
}
