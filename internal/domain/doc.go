// Package domain содержит основные типы предметной области fedflow:
// определение графа федеративного обучения, статусы запусков,
// коннекторы данных, метаданные датасетов, моделей и брокеров сообщений.
//
// Пакет не зависит от других internal-пакетов и не содержит бизнес-логики
// взаимодействия с оркестратором — только структуры данных и их инварианты.
package domain
