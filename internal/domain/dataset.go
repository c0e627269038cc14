package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dataset — зарегистрированный датасет в реестре метаданных.
type Dataset struct {
	// ID — уникальный идентификатор датасета.
	ID uuid.UUID `json:"id"`

	// Name — имя датасета (уникальное в реестре).
	Name string `json:"name"`

	// Description — описание датасета.
	Description string `json:"description,omitempty"`

	// Source — происхождение данных (путь, URL, имя брокера).
	Source string `json:"source,omitempty"`

	// UserID — идентификатор зарегистрировавшего пользователя.
	UserID string `json:"user_id,omitempty"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// Model — зарегистрированная модель.
type Model struct {
	// ID — уникальный идентификатор модели.
	ID uuid.UUID `json:"id"`

	// Name — имя модели.
	Name string `json:"name"`

	// Version — версия модели.
	Version string `json:"version,omitempty"`

	// Description — описание модели.
	Description string `json:"description,omitempty"`

	// URI — адрес артефакта модели в объектном хранилище.
	URI string `json:"uri,omitempty"`

	// RunID — запуск, породивший модель (если известен).
	RunID string `json:"run_id,omitempty"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// ModelDatasetLink — связь модели с датасетом, на котором она обучена.
type ModelDatasetLink struct {
	// ModelID — идентификатор модели.
	ModelID uuid.UUID `json:"model_id"`

	// DatasetID — идентификатор датасета.
	DatasetID uuid.UUID `json:"dataset_id"`

	// LinkedAt — время создания связи.
	LinkedAt time.Time `json:"linked_at"`
}
