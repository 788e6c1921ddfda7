package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

func (r *Repository) RecordSubmission(ctx context.Context, s *Submission) error {
	const query = `
	INSERT INTO submissions (student, grade, similarity_score, passed)
	VALUES ($1, $2, $3, $4)
	RETURNING id, submitted_at;`

	row := r.pool.QueryRow(ctx, query, s.Student, s.Grade, s.SimilarityScore, s.Passed)
	if err := row.Scan(&s.ID, &s.SubmittedAt); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]Submission, error) {
	const query = `
	SELECT id, student, grade, similarity_score, passed, submitted_at
	FROM submissions
	ORDER BY submitted_at DESC
	LIMIT $1;`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.Student, &s.Grade, &s.SimilarityScore, &s.Passed, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	return out, nil
}

// Stats returns the dashboard totals. Averages are on a 0..100 scale.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	const query = `
	SELECT count(*),
	       COALESCE(avg(similarity_score) * 100, 0),
	       COALESCE(avg(CASE WHEN passed THEN 100.0 ELSE 0 END), 0)
	FROM submissions;`

	var st Stats
	if err := r.pool.QueryRow(ctx, query).Scan(&st.TotalSubmissions, &st.AverageScore, &st.PassRate); err != nil {
		return Stats{}, fmt.Errorf("submission stats: %w", err)
	}
	return st, nil
}
