package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus — статус запуска пайплайна на стороне оркестратора.
//
// Диаграмма переходов (управляет оркестратор, SDK только наблюдает):
//
//	Running → Succeeded
//	Running → Failed
//	Running → Skipped
//	Running → Error
type RunStatus string

const (
	// StatusRunning — запуск выполняется.
	StatusRunning RunStatus = "Running"

	// StatusSucceeded — запуск завершился успешно.
	StatusSucceeded RunStatus = "Succeeded"

	// StatusFailed — запуск завершился с ошибкой в узле графа.
	StatusFailed RunStatus = "Failed"

	// StatusSkipped — запуск пропущен оркестратором.
	StatusSkipped RunStatus = "Skipped"

	// StatusError — системная ошибка оркестратора.
	StatusError RunStatus = "Error"
)

// IsTerminal возвращает true для конечных статусов.
// Опрос статуса прекращается на первом конечном статусе.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped, StatusError:
		return true
	}
	return false
}

// IsValid проверяет, что статус известен.
func (s RunStatus) IsValid() bool {
	switch s {
	case StatusRunning, StatusSucceeded, StatusFailed, StatusSkipped, StatusError:
		return true
	}
	return false
}

// RunHandle — ссылка на запуск, созданный оркестратором.
//
// Идентификатор присваивает оркестратор; SDK использует handle
// для опроса статуса и удаления запуска.
type RunHandle struct {
	// ID — идентификатор запуска.
	ID uuid.UUID `json:"id"`

	// Name — имя запуска (для расписаний — ключ идемпотентности).
	Name string `json:"name,omitempty"`

	// Status — статус на момент создания handle.
	Status RunStatus `json:"status"`

	// CreatedAt — время создания запуска.
	CreatedAt time.Time `json:"created_at"`
}
