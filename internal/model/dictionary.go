// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: DictionaryEntry
package model

import (
	"fmt"
	"strings"
)

// DictionaryEntry представляет слово пользовательского словаря
type DictionaryEntry struct {
	ID         string `json:"id"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	AddedBy    string `json:"added_by,omitempty"`
}

// RecordID возвращает уникальный идентификатор записи
func (d DictionaryEntry) RecordID() string {
	return d.ID
}

// Validate проверяет обязательные поля
func (d DictionaryEntry) Validate() error {
	if strings.TrimSpace(d.Word) == "" {
		return fmt.Errorf("word is required")
	}
	if strings.TrimSpace(d.Definition) == "" {
		return fmt.Errorf("definition is required")
	}
	return nil
}
