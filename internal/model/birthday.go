// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Birthday
package model

import (
	"fmt"
	"strings"
)

// Birthday представляет запись о дне рождения персонажа
type Birthday struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	CharacterID string `json:"character_id,omitempty"`
	Reported    bool   `json:"reported"`
}

// RecordID возвращает уникальный идентификатор записи
func (b Birthday) RecordID() string {
	return b.ID
}

// Validate проверяет обязательные поля и календарные диапазоны.
// Длина конкретного месяца намеренно не проверяется: 2/31 допустим.
func (b Birthday) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if b.Month < 1 || b.Month > 12 {
		return fmt.Errorf("month %d is out of range 1-12", b.Month)
	}
	if b.Day < 1 || b.Day > 31 {
		return fmt.Errorf("day %d is out of range 1-31", b.Day)
	}
	return nil
}

// Matches сообщает, приходится ли день рождения на указанную дату
func (b Birthday) Matches(month, day int) bool {
	return b.Month == month && b.Day == day
}
