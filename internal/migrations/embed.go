// Package migrations содержит схему базы данных для goose.
// Для каждого диалекта своя директория, логическая схема одинаковая:
// отличаются только типы идентификаторов, денег и времени.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite3/*.sql
var FS embed.FS
