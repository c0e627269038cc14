// Package tracking — REST-клиент сервера трекинга экспериментов.
//
// Тонкий pass-through: эксперименты, параметры и метрики запусков,
// реестр моделей и их версий. Никакой логики поверх сервера трекинга
// пакет не добавляет.
package tracking
