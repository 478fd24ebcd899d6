package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cryptoguides-backend/internal/models"
)

type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

func (r *JobRepo) Create(ctx context.Context, j *models.IndexJob) error {
	j.ID = uuid.New()
	if j.Status == "" {
		j.Status = "queued"
	}

	query := `INSERT INTO index_jobs (id, user_id, guide_slug, status)
		VALUES ($1, $2, $3, $4) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		j.ID, j.UserID, j.GuideSlug, j.Status,
	).Scan(&j.CreatedAt)
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.IndexJob, error) {
	j := &models.IndexJob{}
	query := `SELECT id, user_id, guide_slug, status, error_message, created_at, completed_at
		FROM index_jobs WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.UserID, &j.GuideSlug, &j.Status, &j.ErrorMessage, &j.CreatedAt, &j.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE index_jobs SET status = $1 WHERE id = $2", status, id)
	return err
}

func (r *JobRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE index_jobs SET status = 'completed', completed_at = NOW() WHERE id = $1", id)
	return err
}

func (r *JobRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE index_jobs SET status = 'failed', error_message = $1, completed_at = NOW() WHERE id = $2",
		message, id)
	return err
}
