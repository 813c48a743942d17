package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record объединяет требования к записи коллекции
type Record interface {
	RecordID() string
	Validate() error
}

// Collection хранит список записей одного типа в JSON-файле.
// Каждая мутация переписывает файл целиком с сохранением порядка записей.
type Collection[T Record] struct {
	mu       sync.Mutex
	path     string
	envelope string
	withID   func(T, string) T
	records  []T
	logger   *zap.Logger
}

// NewCollection создает коллекцию и читает ее с диска. envelope — ключ
// конвертного формата `{"<envelope>": [...]}`; голый массив тоже принимается.
// withID возвращает копию записи с подставленным идентификатором.
func NewCollection[T Record](path, envelope string, withID func(T, string) T, logger *zap.Logger) *Collection[T] {
	c := &Collection[T]{
		path:     path,
		envelope: envelope,
		withID:   withID,
		logger:   logger,
	}
	c.load()
	return c
}

// load читает коллекцию с диска. Отсутствующий файл создается пустым,
// некорректное содержимое дает пустую коллекцию, а не ошибку.
func (c *Collection[T]) load() {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, state, err := readDocument(c.path)
	if err != nil {
		c.logger.Error("Failed to read collection", zap.String("path", c.path), zap.Error(err))
		c.records = nil
		return
	}
	if state == NotFound {
		c.records = nil
		if err := c.save(); err != nil {
			c.logger.Error("Failed to create collection file", zap.String("path", c.path), zap.Error(err))
		}
		return
	}

	c.records = decodeRecords[T](data, c.envelope, c.logger, c.path)
}

// decodeRecords нормализует оба поддерживаемых формата документа к массиву
func decodeRecords[T Record](data []byte, envelope string, logger *zap.Logger, path string) []T {
	var bare []T
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare
	}

	// Конвертный формат: {"<envelope>": [...]}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		logger.Error("Collection document is corrupt, falling back to empty",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	raw, ok := wrapped[envelope]
	if !ok {
		return nil
	}
	var inner []T
	if err := json.Unmarshal(raw, &inner); err != nil {
		logger.Error("Collection envelope is corrupt, falling back to empty",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	return inner
}

// save переписывает файл коллекции целиком. Вызывается под c.mu.
func (c *Collection[T]) save() error {
	records := c.records
	if records == nil {
		records = []T{}
	}
	payload := map[string][]T{c.envelope: records}
	return writeDocument(c.path, payload)
}

// All возвращает копию всех записей в порядке хранения
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.records...)
}

// Len возвращает количество записей
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Find возвращает записи, удовлетворяющие предикату. Линейный проход:
// коллекции исчисляются сотнями записей.
func (c *Collection[T]) Find(pred func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []T
	for _, rec := range c.records {
		if pred(rec) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// Get возвращает запись по идентификатору
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range c.records {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Add валидирует запись, подставляет свежий id при его отсутствии,
// отклоняет дубликат id, добавляет запись в конец и сохраняет файл
func (c *Collection[T]) Add(rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if err := rec.Validate(); err != nil {
		return zero, err
	}
	if rec.RecordID() == "" {
		rec = c.withID(rec, uuid.NewString())
	}
	for _, existing := range c.records {
		if existing.RecordID() == rec.RecordID() {
			return zero, fmt.Errorf("record %s already exists", rec.RecordID())
		}
	}
	c.records = append(c.records, rec)
	if err := c.save(); err != nil {
		c.records = c.records[:len(c.records)-1]
		return zero, err
	}
	return rec, nil
}

// Update применяет мутацию к записи с данным id и сохраняет файл.
// Возвращает обновленную запись и признак того, что запись нашлась.
func (c *Collection[T]) Update(id string, mutate func(T) T) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range c.records {
		if rec.RecordID() != id {
			continue
		}
		updated := mutate(rec)
		if err := updated.Validate(); err != nil {
			var zero T
			return zero, true, err
		}
		c.records[i] = updated
		return updated, true, c.save()
	}
	var zero T
	return zero, false, nil
}

// UpdateAll применяет мутацию ко всем записям и сохраняет файл один раз,
// только если хотя бы одна запись изменилась. Возвращает число изменений.
func (c *Collection[T]) UpdateAll(mutate func(T) (T, bool)) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := 0
	for i, rec := range c.records {
		if updated, ok := mutate(rec); ok {
			c.records[i] = updated
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, c.save()
}

// RemoveByID удаляет первую запись с данным id и сохраняет файл.
// Возвращает удаленную запись либо признак "не найдено".
func (c *Collection[T]) RemoveByID(id string) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range c.records {
		if rec.RecordID() != id {
			continue
		}
		c.records = append(c.records[:i], c.records[i+1:]...)
		return rec, true, c.save()
	}
	var zero T
	return zero, false, nil
}

// Append дописывает записи в конец коллекции одной мутацией.
// Запись, добавленная конкурентно между чтением и слиянием вызывающего,
// не теряется: слияние происходит под блокировкой коллекции.
// Дубликат id среди существующих записей пропускается.
func (c *Collection[T]) Append(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make(map[string]struct{}, len(c.records))
	for _, rec := range c.records {
		ids[rec.RecordID()] = struct{}{}
	}

	previous := c.records
	appended := append([]T(nil), c.records...)
	for _, rec := range records {
		if rec.RecordID() == "" {
			rec = c.withID(rec, uuid.NewString())
		}
		if _, dup := ids[rec.RecordID()]; dup {
			continue
		}
		ids[rec.RecordID()] = struct{}{}
		appended = append(appended, rec)
	}

	c.records = appended
	if err := c.save(); err != nil {
		c.records = previous
		return err
	}
	return nil
}

// BulkReplace заменяет коллекцию целиком и сохраняет файл один раз
func (c *Collection[T]) BulkReplace(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous := c.records
	c.records = append([]T(nil), records...)
	if err := c.save(); err != nil {
		c.records = previous
		return err
	}
	return nil
}

// ExistingKeys возвращает множество значений ключа по всем записям,
// пустые значения ключа пропускаются
func (c *Collection[T]) ExistingKeys(key func(T) string) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make(map[string]struct{}, len(c.records))
	for _, rec := range c.records {
		if k := key(rec); k != "" {
			keys[k] = struct{}{}
		}
	}
	return keys
}
