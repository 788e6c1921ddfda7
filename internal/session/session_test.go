package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simchecker/internal/analysis"
)

func TestMemoryTakeEmptiesSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute)

	res := &analysis.Result{StudentName: "alice.txt", Grade: "A"}
	require.NoError(t, store.Put(ctx, "s1", res))

	got, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, res, got)

	_, err = store.Take(ctx, "s1")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestMemoryPutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute)

	require.NoError(t, store.Put(ctx, "s1", &analysis.Result{Grade: "C"}))
	require.NoError(t, store.Put(ctx, "s1", &analysis.Result{Grade: "A"}))
	require.NoError(t, store.Put(ctx, "s2", &analysis.Result{Grade: "F"}))

	got, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Grade)

	got, err = store.Take(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "F", got.Grade)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemory(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "old", &analysis.Result{}))
	now = now.Add(2 * time.Minute)

	_, err := store.Take(ctx, "old")
	assert.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, store.Put(ctx, "a", &analysis.Result{}))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Put(ctx, "b", &analysis.Result{}))
	assert.Equal(t, 1, store.Len())
}

func TestCookiesEnsure(t *testing.T) {
	c := Cookies{Name: "sid"}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/submit", nil)
	id := c.Ensure(rec, req)
	require.NotEmpty(t, id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/results", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, id, c.Ensure(rec, req))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCookiesRejectMalformed(t *testing.T) {
	c := Cookies{Name: "sid"}
	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc/passwd"})

	assert.Empty(t, c.ID(req))
}
