// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Quote
package model

import (
	"fmt"
	"strings"
	"time"
)

// Quote представляет цитату персонажа
type Quote struct {
	ID          string     `json:"id"`
	Speaker     string     `json:"speaker"`
	Text        string     `json:"text"`
	CharacterID string     `json:"character_id,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// RecordID возвращает уникальный идентификатор записи
func (q Quote) RecordID() string {
	return q.ID
}

// Validate проверяет обязательные поля
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Speaker) == "" {
		return fmt.Errorf("speaker is required")
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

// MatchesKeyword сообщает, содержит ли цитата ключевое слово
// (без учета регистра, по спикеру и тексту)
func (q Quote) MatchesKeyword(keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	return strings.Contains(strings.ToLower(q.Speaker), keyword) ||
		strings.Contains(strings.ToLower(q.Text), keyword)
}
