// Package artifact — объектное хранилище артефактов: веса моделей,
// файлы датасетов, результаты запусков.
//
// Поверх MinIO-клиента: загрузка, скачивание, удаление и выдача
// временных ссылок. Бакет создаётся лениво при первой записи.
package artifact
