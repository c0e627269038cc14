package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/fedflow/internal/domain"
)

// ModelRepo — репозиторий моделей и их связей с датасетами.
type ModelRepo struct {
	pool *pgxpool.Pool
}

// NewModelRepo создаёт новый ModelRepo.
func NewModelRepo(pool *pgxpool.Pool) *ModelRepo {
	return &ModelRepo{pool: pool}
}

// Create сохраняет модель.
func (r *ModelRepo) Create(ctx context.Context, m *domain.Model) error {
	query := `
		INSERT INTO models (id, name, version, description, uri, run_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.Name,
		nullString(m.Version),
		nullString(m.Description),
		nullString(m.URI),
		nullString(m.RunID),
		m.CreatedAt,
		m.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert model: %w", err)
	}
	return nil
}

// GetByID возвращает модель по ID.
func (r *ModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	query := `
		SELECT id, name, version, description, uri, run_id, created_at, updated_at
		FROM models
		WHERE id = $1
	`
	return r.scanModel(r.pool.QueryRow(ctx, query, id))
}

// List возвращает модели с пагинацией.
func (r *ModelRepo) List(ctx context.Context, limit, offset int) ([]domain.Model, error) {
	query := `
		SELECT id, name, version, description, uri, run_id, created_at, updated_at
		FROM models
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []domain.Model
	for rows.Next() {
		m, err := r.scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, *m)
	}
	return models, rows.Err()
}

// LinkDataset связывает модель с датасетом.
// Повторная связь — ErrAlreadyExists.
func (r *ModelRepo) LinkDataset(ctx context.Context, modelID, datasetID uuid.UUID) error {
	query := `
		INSERT INTO model_datasets (model_id, dataset_id, linked_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, modelID, datasetID, time.Now().UTC())
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("link model to dataset: %w", err)
	}
	return nil
}

// ListDatasetLinks возвращает связи модели с датасетами.
func (r *ModelRepo) ListDatasetLinks(ctx context.Context, modelID uuid.UUID) ([]domain.ModelDatasetLink, error) {
	query := `
		SELECT model_id, dataset_id, linked_at
		FROM model_datasets
		WHERE model_id = $1
		ORDER BY linked_at
	`
	rows, err := r.pool.Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("list model links: %w", err)
	}
	defer rows.Close()

	var links []domain.ModelDatasetLink
	for rows.Next() {
		var link domain.ModelDatasetLink
		if err := rows.Scan(&link.ModelID, &link.DatasetID, &link.LinkedAt); err != nil {
			return nil, fmt.Errorf("scan model link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// --- Helpers ---

func (r *ModelRepo) scanModel(row pgx.Row) (*domain.Model, error) {
	var m domain.Model
	var version, description, uri, runID *string

	err := row.Scan(
		&m.ID,
		&m.Name,
		&version,
		&description,
		&uri,
		&runID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan model: %w", err)
	}

	if version != nil {
		m.Version = *version
	}
	if description != nil {
		m.Description = *description
	}
	if uri != nil {
		m.URI = *uri
	}
	if runID != nil {
		m.RunID = *runID
	}
	return &m, nil
}
