package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cryptoguides-backend/internal/models"
)

type DraftRepo struct {
	pool *pgxpool.Pool
}

func NewDraftRepo(pool *pgxpool.Pool) *DraftRepo {
	return &DraftRepo{pool: pool}
}

func (r *DraftRepo) Create(ctx context.Context, d *models.Draft) error {
	d.ID = uuid.New()
	if d.State == nil {
		d.State = json.RawMessage("{}")
	}

	query := `INSERT INTO guide_drafts (id, user_id, title, slug, state)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		d.ID, d.UserID, d.Title, d.Slug, d.State,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *DraftRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d := &models.Draft{}
	query := `SELECT id, user_id, title, slug, state, created_at, updated_at
		FROM guide_drafts WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.Title, &d.Slug, &d.State, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DraftRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Draft, error) {
	query := `SELECT id, user_id, title, slug, state, created_at, updated_at
		FROM guide_drafts WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*models.Draft
	for rows.Next() {
		d := &models.Draft{}
		err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Slug, &d.State, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// SaveState persists the serialized session after an editor operation and
// keeps the denormalized title/slug columns in step for listings.
func (r *DraftRepo) SaveState(ctx context.Context, id uuid.UUID, title, slug string, state json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guide_drafts SET title = $1, slug = $2, state = $3, updated_at = NOW() WHERE id = $4`,
		title, slug, state, id,
	)
	return err
}

func (r *DraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM guide_drafts WHERE id = $1", id)
	return err
}
