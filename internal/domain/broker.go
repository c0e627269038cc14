package domain

import (
	"time"

	"github.com/google/uuid"
)

// Broker — зарегистрированный брокер сообщений.
//
// Потоковые датасеты привязываются к топику брокера; консьюмер
// подключается к брокеру по Host/Port и читает топик.
type Broker struct {
	// ID — уникальный идентификатор брокера.
	ID uuid.UUID `json:"id"`

	// Name — имя брокера (уникальное в реестре).
	Name string `json:"name"`

	// Host — хост брокера.
	Host string `json:"host"`

	// Port — порт брокера.
	Port int `json:"port"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// Topic — топик брокера, зарегистрированный в реестре.
type Topic struct {
	// ID — уникальный идентификатор топика.
	ID uuid.UUID `json:"id"`

	// BrokerID — брокер, которому принадлежит топик.
	BrokerID uuid.UUID `json:"broker_id"`

	// Name — имя топика (уникальное в пределах брокера).
	Name string `json:"name"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// TopicDataset — потоковый датасет, привязанный к топику.
type TopicDataset struct {
	// DatasetID — идентификатор датасета.
	DatasetID uuid.UUID `json:"dataset_id"`

	// TopicID — топик-источник данных.
	TopicID uuid.UUID `json:"topic_id"`

	// LinkedAt — время привязки.
	LinkedAt time.Time `json:"linked_at"`
}

// TopicDetail — агрегированное описание потокового датасета:
// брокер + топик, достаточное для подключения консьюмера.
type TopicDetail struct {
	// DatasetID — идентификатор датасета.
	DatasetID uuid.UUID `json:"dataset_id"`

	// BrokerName — имя брокера.
	BrokerName string `json:"broker_name"`

	// Host — хост брокера.
	Host string `json:"host"`

	// Port — порт брокера.
	Port int `json:"port"`

	// TopicName — имя топика.
	TopicName string `json:"topic_name"`
}
