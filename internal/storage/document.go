// Package storage содержит JSON-хранилища состояния бота.
//
// Каждый документ принадлежит единственному процессу бота. Запись всегда
// перезаписывает файл целиком; читатели обязаны переживать отсутствующий
// или поврежденный файл, откатываясь на пустую структуру.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadState сообщает, был ли документ найден на диске.
// Отсутствие файла — штатная ветка, а не ошибка.
type LoadState int

const (
	// Found документ прочитан с диска
	Found LoadState = iota
	// NotFound файла нет, вызывающий работает с пустой структурой
	NotFound
)

// readDocument читает JSON-документ с диска.
// Возвращает NotFound для отсутствующего файла без ошибки.
func readDocument(path string) ([]byte, LoadState, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NotFound, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NotFound, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, Found, nil
}

// writeDocument перезаписывает JSON-документ целиком
func writeDocument(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data dir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
