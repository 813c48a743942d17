// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: ImportSummary
package model

import "fmt"

// ImportSummary представляет итог массового импорта записей
type ImportSummary struct {
	Added            int `json:"added"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	Invalid          int `json:"invalid"`
}

// String возвращает человекочитаемый итог импорта
func (s ImportSummary) String() string {
	return fmt.Sprintf("added=%d skipped_duplicate=%d invalid=%d",
		s.Added, s.SkippedDuplicate, s.Invalid)
}
