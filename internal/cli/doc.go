// Package cli реализует инструмент командной строки fedflow.
//
// # Обзор
//
// CLI — клиентская утилита для работы с реестром метаданных
// и оркестратором. Работает через HTTP.
// CLI используется для управления датасетами, моделями, брокерами,
// расписаниями, запусками и инференс-сервисами.
//
// # Ключевые компоненты
//
// ## Клиенты
//
// Команды реестра используют registry.Client, команды запусков
// и инференса — orchestrator.HTTPClient.
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: fedflow dataset list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - dataset: register, list, show, topic-details, link-topic, consume, delete
//   - model: save, list, show, link, datasets
//   - broker: register, list, topic
//   - schedule: list, create, show, delete, enable, disable
//   - run: status, wait, delete
//   - serve: deploy, url, delete
//   - artifact: upload, download, presign, delete
//
// Каждая группа создаётся через фабричную функцию (NewDatasetCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// клиентов и Output после парсинга PersistentFlags.
package cli
