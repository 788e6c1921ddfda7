package session

import (
	"net/http"

	"github.com/google/uuid"
)

// Cookies issues and reads the session id cookie.
type Cookies struct {
	Name   string
	Secure bool
}

// ID returns the request's session id, or "" if it has none or it is malformed.
func (c Cookies) ID(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// Ensure returns the existing id or sets a fresh one on w.
func (c Cookies) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id := c.ID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
