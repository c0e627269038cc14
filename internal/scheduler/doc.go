// Package scheduler реализует периодический запуск пайплайнов.
//
// Scheduler работает как отдельный процесс: каждый тик он выбирает
// due расписания из БД, отправляет сохранённый граф оркестратору
// и вычисляет следующее время запуска.
//
// Идемпотентность обеспечивается именем запуска "{schedule_id}_{due_unix}":
// повторная отправка того же расписания на то же время даёт тот же запуск.
package scheduler
