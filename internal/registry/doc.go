// Package registry содержит HTTP-клиент реестра метаданных.
//
// Клиент используется SDK и CLI для регистрации датасетов, моделей,
// брокеров сообщений и расписаний. Формат ответов — конверты
// {"data": ...} и {"data": ..., "total": N} реестра.
package registry
