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

// BrokerRepo — репозиторий брокеров сообщений, топиков
// и привязок потоковых датасетов.
type BrokerRepo struct {
	pool *pgxpool.Pool
}

// NewBrokerRepo создаёт новый BrokerRepo.
func NewBrokerRepo(pool *pgxpool.Pool) *BrokerRepo {
	return &BrokerRepo{pool: pool}
}

// CreateBroker регистрирует брокер. Конфликт имени — ErrAlreadyExists.
func (r *BrokerRepo) CreateBroker(ctx context.Context, b *domain.Broker) error {
	query := `
		INSERT INTO brokers (id, name, host, port, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, b.ID, b.Name, b.Host, b.Port, b.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert broker: %w", err)
	}
	return nil
}

// GetBrokerByName возвращает брокер по имени.
func (r *BrokerRepo) GetBrokerByName(ctx context.Context, name string) (*domain.Broker, error) {
	query := `
		SELECT id, name, host, port, created_at
		FROM brokers
		WHERE name = $1
	`
	var b domain.Broker
	err := r.pool.QueryRow(ctx, query, name).Scan(&b.ID, &b.Name, &b.Host, &b.Port, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan broker: %w", err)
	}
	return &b, nil
}

// ListBrokers возвращает все брокеры.
func (r *BrokerRepo) ListBrokers(ctx context.Context) ([]domain.Broker, error) {
	query := `
		SELECT id, name, host, port, created_at
		FROM brokers
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list brokers: %w", err)
	}
	defer rows.Close()

	var brokers []domain.Broker
	for rows.Next() {
		var b domain.Broker
		if err := rows.Scan(&b.ID, &b.Name, &b.Host, &b.Port, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan broker: %w", err)
		}
		brokers = append(brokers, b)
	}
	return brokers, rows.Err()
}

// CreateTopic регистрирует топик брокера.
// Конфликт (broker_id, name) — ErrAlreadyExists.
func (r *BrokerRepo) CreateTopic(ctx context.Context, t *domain.Topic) error {
	query := `
		INSERT INTO topics (id, broker_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, t.ID, t.BrokerID, t.Name, t.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

// GetTopic возвращает топик брокера по имени.
func (r *BrokerRepo) GetTopic(ctx context.Context, brokerID uuid.UUID, name string) (*domain.Topic, error) {
	query := `
		SELECT id, broker_id, name, created_at
		FROM topics
		WHERE broker_id = $1 AND name = $2
	`
	var t domain.Topic
	err := r.pool.QueryRow(ctx, query, brokerID, name).Scan(&t.ID, &t.BrokerID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan topic: %w", err)
	}
	return &t, nil
}

// LinkDataset привязывает потоковый датасет к топику.
func (r *BrokerRepo) LinkDataset(ctx context.Context, datasetID, topicID uuid.UUID) error {
	query := `
		INSERT INTO topic_datasets (dataset_id, topic_id, linked_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, datasetID, topicID, time.Now().UTC())
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("link dataset to topic: %w", err)
	}
	return nil
}

// GetTopicDetail возвращает описание потокового датасета:
// брокер + топик одним запросом.
func (r *BrokerRepo) GetTopicDetail(ctx context.Context, datasetID uuid.UUID) (*domain.TopicDetail, error) {
	query := `
		SELECT td.dataset_id, b.name, b.host, b.port, t.name
		FROM topic_datasets td
		JOIN topics t ON t.id = td.topic_id
		JOIN brokers b ON b.id = t.broker_id
		WHERE td.dataset_id = $1
	`
	var d domain.TopicDetail
	err := r.pool.QueryRow(ctx, query, datasetID).Scan(
		&d.DatasetID,
		&d.BrokerName,
		&d.Host,
		&d.Port,
		&d.TopicName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan topic detail: %w", err)
	}
	return &d, nil
}
