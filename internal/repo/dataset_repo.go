package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/fedflow/internal/domain"
)

// DatasetRepo — репозиторий для работы с датасетами.
type DatasetRepo struct {
	pool *pgxpool.Pool
}

// NewDatasetRepo создаёт новый DatasetRepo.
func NewDatasetRepo(pool *pgxpool.Pool) *DatasetRepo {
	return &DatasetRepo{pool: pool}
}

// Create регистрирует датасет. Конфликт имени — ErrAlreadyExists.
func (r *DatasetRepo) Create(ctx context.Context, ds *domain.Dataset) error {
	query := `
		INSERT INTO datasets (id, name, description, source, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		ds.ID,
		ds.Name,
		nullString(ds.Description),
		nullString(ds.Source),
		nullString(ds.UserID),
		ds.CreatedAt,
		ds.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

// GetByID возвращает датасет по ID.
func (r *DatasetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	query := `
		SELECT id, name, description, source, user_id, created_at, updated_at
		FROM datasets
		WHERE id = $1
	`
	return r.scanDataset(r.pool.QueryRow(ctx, query, id))
}

// GetByName возвращает датасет по имени.
func (r *DatasetRepo) GetByName(ctx context.Context, name string) (*domain.Dataset, error) {
	query := `
		SELECT id, name, description, source, user_id, created_at, updated_at
		FROM datasets
		WHERE name = $1
	`
	return r.scanDataset(r.pool.QueryRow(ctx, query, name))
}

// List возвращает датасеты с пагинацией.
func (r *DatasetRepo) List(ctx context.Context, limit, offset int) ([]domain.Dataset, error) {
	query := `
		SELECT id, name, description, source, user_id, created_at, updated_at
		FROM datasets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []domain.Dataset
	for rows.Next() {
		ds, err := r.scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, *ds)
	}
	return datasets, rows.Err()
}

// Delete удаляет датасет.
func (r *DatasetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

func (r *DatasetRepo) scanDataset(row pgx.Row) (*domain.Dataset, error) {
	var ds domain.Dataset
	var description, source, userID *string

	err := row.Scan(
		&ds.ID,
		&ds.Name,
		&description,
		&source,
		&userID,
		&ds.CreatedAt,
		&ds.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan dataset: %w", err)
	}

	if description != nil {
		ds.Description = *description
	}
	if source != nil {
		ds.Source = *source
	}
	if userID != nil {
		ds.UserID = *userID
	}
	return &ds, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullInt возвращает nil для нулевого int.
func nullInt(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}

// isUniqueViolation проверяет ошибку нарушения уникальности (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
