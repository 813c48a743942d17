// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: FeatureSettings, Birthday, Quote, Overrides, DictionaryEntry
package model

import "time"

// Фичи с автоматическим постингом
const (
	FeatureBirthday = "birthday"
	FeatureQuotes   = "quotes"
)

// FeatureSettings представляет настройки одной фичи в документе настроек
type FeatureSettings struct {
	Enabled       bool       `json:"enabled"`
	Hour          int        `json:"hour"`
	Minute        int        `json:"minute"`
	Days          int        `json:"days"`
	LastPostedAt  *time.Time `json:"last_posted_at"`
	LastPostedID  string     `json:"last_posted_id,omitempty"`
	LastResetDate string     `json:"last_reset_date,omitempty"`
}

// SettingsDefaults представляет значения по умолчанию для нормализации
type SettingsDefaults struct {
	Enabled bool
	Hour    int
	Minute  int
	Days    int
}

// StoredFeatureSettings представляет запись настроек как она лежит на диске.
// Указатели отличают отсутствующее поле от нулевого значения.
type StoredFeatureSettings struct {
	Enabled       *bool      `json:"enabled"`
	Hour          *int       `json:"hour"`
	Minute        *int       `json:"minute"`
	Days          *int       `json:"days"`
	LastPostedAt  *time.Time `json:"last_posted_at"`
	LastPostedID  string     `json:"last_posted_id,omitempty"`
	LastResetDate string     `json:"last_reset_date,omitempty"`
}

// Resolve подставляет значения по умолчанию вместо отсутствующих полей
// и нормализует результат
func (s StoredFeatureSettings) Resolve(defaults SettingsDefaults) FeatureSettings {
	resolved := DefaultSettings(defaults)
	if s.Enabled != nil {
		resolved.Enabled = *s.Enabled
	}
	if s.Hour != nil {
		resolved.Hour = *s.Hour
	}
	if s.Minute != nil {
		resolved.Minute = *s.Minute
	}
	if s.Days != nil {
		resolved.Days = *s.Days
	}
	resolved.LastPostedAt = s.LastPostedAt
	resolved.LastPostedID = s.LastPostedID
	resolved.LastResetDate = s.LastResetDate
	return resolved.Normalize()
}

// Normalize обрезает поля расписания в допустимые диапазоны.
// Никогда не возвращает ошибку: выход за диапазон обрезается до границы.
func (s FeatureSettings) Normalize() FeatureSettings {
	s.Hour = clampInt(s.Hour, 0, 23)
	s.Minute = clampInt(s.Minute, 0, 59)
	if s.Days < 1 {
		s.Days = 1
	}
	return s
}

// DefaultSettings возвращает нормализованные настройки по умолчанию
func DefaultSettings(defaults SettingsDefaults) FeatureSettings {
	return FeatureSettings{
		Enabled: defaults.Enabled,
		Hour:    defaults.Hour,
		Minute:  defaults.Minute,
		Days:    defaults.Days,
	}.Normalize()
}

// clampInt обрезает значение в диапазон [min, max]
func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
