package storage

import (
	"encoding/json"
	"sync"

	"funtools/internal/model"

	"go.uber.org/zap"
)

// SettingsStore хранит настройки фич в одном JSON-документе,
// ключ верхнего уровня — имя фичи
type SettingsStore struct {
	mu       sync.Mutex
	path     string
	defaults map[string]model.SettingsDefaults
	doc      map[string]model.FeatureSettings
	logger   *zap.Logger
}

// NewSettingsStore создает хранилище настроек и читает документ с диска.
// Поврежденный или отсутствующий документ заменяется пустым.
func NewSettingsStore(path string, defaults map[string]model.SettingsDefaults, logger *zap.Logger) *SettingsStore {
	s := &SettingsStore{
		path:     path,
		defaults: defaults,
		doc:      make(map[string]model.FeatureSettings),
		logger:   logger,
	}
	s.load()
	return s
}

// load читает документ настроек, откатываясь на пустой при любой проблеме
func (s *SettingsStore) load() {
	data, state, err := readDocument(s.path)
	if err != nil {
		s.logger.Error("Failed to read settings document", zap.String("path", s.path), zap.Error(err))
		return
	}
	if state == NotFound {
		return
	}
	var stored map[string]model.StoredFeatureSettings
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Error("Settings document is corrupt, falling back to defaults",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	// Отсутствующие поля записи получают сконфигурированные значения
	// по умолчанию, а не нули
	for feature, record := range stored {
		s.doc[feature] = record.Resolve(s.defaults[feature])
	}
}

// Get возвращает нормализованные настройки фичи.
// Неизвестная фича получает настройки по умолчанию; ошибок не бывает.
func (s *SettingsStore) Get(feature string) model.FeatureSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.doc[feature]
	if !ok {
		return model.DefaultSettings(s.defaults[feature])
	}
	return stored.Normalize()
}

// Set нормализует, сохраняет настройки фичи и возвращает записанное значение.
// Документ переписывается на диск синхронно при каждой мутации.
func (s *SettingsStore) Set(feature string, settings model.FeatureSettings) (model.FeatureSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := settings.Normalize()
	s.doc[feature] = normalized
	if err := writeDocument(s.path, s.doc); err != nil {
		return normalized, err
	}
	return normalized, nil
}

// Update перечитывает настройки фичи под блокировкой, применяет mutate
// и сохраняет результат. Мутация, пришедшая между чтением и записью
// вызывающего, не теряется.
func (s *SettingsStore) Update(feature string, mutate func(model.FeatureSettings) model.FeatureSettings) (model.FeatureSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.doc[feature]
	if !ok {
		current = model.DefaultSettings(s.defaults[feature])
	}
	normalized := mutate(current.Normalize()).Normalize()
	s.doc[feature] = normalized
	if err := writeDocument(s.path, s.doc); err != nil {
		return normalized, err
	}
	return normalized, nil
}
