package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"funtools/internal/model"

	"github.com/google/uuid"
)

// Importer разбирает массовые импорты записей из CSV и JSON вложений.
//
// Единая эвристика заголовка для всех коллекций: если первая строка CSV
// в нижнем регистре содержит все обязательные имена колонок, она считается
// заголовком и колонки сопоставляются по именам; иначе весь файл
// разбирается позиционно.
type Importer struct{}

// NewImporter создает импортер
func NewImporter() *Importer {
	return &Importer{}
}

// ParseBirthdays разбирает импорт дней рождения. Невалидные строки
// подсчитываются и пропускаются, не прерывая остальных. Дубликаты
// определяются точным сравнением ключа key среди existing и внутри файла.
func (im *Importer) ParseBirthdays(data []byte, filename string, key func(model.Birthday) string, existing map[string]struct{}) ([]model.Birthday, model.ImportSummary, error) {
	var summary model.ImportSummary
	var parsed []model.Birthday

	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".json"):
		var rows []model.Birthday
		if err := json.Unmarshal(stripBOM(data), &rows); err != nil {
			return nil, summary, fmt.Errorf("JSON must be an array of records: %w", err)
		}
		parsed = rows
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		rows, err := readCSV(data)
		if err != nil {
			return nil, summary, err
		}
		parsed = birthdaysFromCSV(rows)
	default:
		return nil, summary, fmt.Errorf("unsupported file type: %s", filename)
	}

	seen := make(map[string]struct{}, len(existing))
	for k := range existing {
		seen[k] = struct{}{}
	}

	var accepted []model.Birthday
	for _, b := range parsed {
		b.Name = strings.TrimSpace(b.Name)
		b.Reported = false
		if err := b.Validate(); err != nil {
			summary.Invalid++
			continue
		}
		if k := key(b); k != "" {
			if _, dup := seen[k]; dup {
				summary.SkippedDuplicate++
				continue
			}
			seen[k] = struct{}{}
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		accepted = append(accepted, b)
		summary.Added++
	}
	return accepted, summary, nil
}

// ParseQuotes разбирает полную замену коллекции цитат.
// Невалидные строки подсчитываются и пропускаются.
func (im *Importer) ParseQuotes(data []byte, filename, authorID string, now time.Time) ([]model.Quote, model.ImportSummary, error) {
	var summary model.ImportSummary
	var parsed []model.Quote

	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".json"):
		var rows []model.Quote
		if err := json.Unmarshal(stripBOM(data), &rows); err != nil {
			return nil, summary, fmt.Errorf("JSON must be an array of records: %w", err)
		}
		parsed = rows
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		rows, err := readCSV(data)
		if err != nil {
			return nil, summary, err
		}
		parsed = quotesFromCSV(rows)
	default:
		return nil, summary, fmt.Errorf("unsupported file type: %s", filename)
	}

	var accepted []model.Quote
	for _, q := range parsed {
		q.Speaker = strings.TrimSpace(q.Speaker)
		q.Text = strings.TrimSpace(q.Text)
		if err := q.Validate(); err != nil {
			summary.Invalid++
			continue
		}
		q.ID = uuid.NewString()
		q.CreatedBy = authorID
		created := now
		q.CreatedAt = &created
		q.UpdatedAt = &created
		accepted = append(accepted, q)
		summary.Added++
	}
	return accepted, summary, nil
}

// readCSV читает все строки CSV, снимая BOM и пропуская пустые строки
func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(stripBOM(data))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	var nonEmpty [][]string
	for _, row := range rows {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		nonEmpty = append(nonEmpty, row)
	}
	return nonEmpty, nil
}

// stripBOM снимает UTF-8 BOM с начала вложения
func stripBOM(data []byte) []byte {
	return []byte(strings.TrimPrefix(string(data), "\uFEFF"))
}

// hasHeaders сообщает, содержит ли первая строка все обязательные колонки
func hasHeaders(row []string, required ...string) bool {
	present := make(map[string]struct{}, len(row))
	for _, cell := range row {
		present[strings.ToLower(strings.TrimSpace(cell))] = struct{}{}
	}
	for _, name := range required {
		if _, ok := present[name]; !ok {
			return false
		}
	}
	return true
}

// columnIndex возвращает карту имя колонки -> позиция
func columnIndex(row []string) map[string]int {
	index := make(map[string]int, len(row))
	for i, cell := range row {
		index[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	return index
}

// cell возвращает значение колонки либо пустую строку
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// birthdaysFromCSV разбирает строки CSV в записи дней рождения.
// Позиционный порядок колонок: id, name, month, day, character_id.
func birthdaysFromCSV(rows [][]string) []model.Birthday {
	if len(rows) == 0 {
		return nil
	}

	id, name, month, day, character := 0, 1, 2, 3, 4
	if hasHeaders(rows[0], "name", "month", "day") {
		index := columnIndex(rows[0])
		lookup := func(key string) int {
			if i, ok := index[key]; ok {
				return i
			}
			return -1
		}
		id, name, month, day, character = lookup("id"), lookup("name"), lookup("month"), lookup("day"), lookup("character_id")
		rows = rows[1:]
	}

	var parsed []model.Birthday
	for _, row := range rows {
		monthValue, _ := strconv.Atoi(cell(row, month))
		dayValue, _ := strconv.Atoi(cell(row, day))
		parsed = append(parsed, model.Birthday{
			ID:          cell(row, id),
			Name:        cell(row, name),
			Month:       monthValue,
			Day:         dayValue,
			CharacterID: cell(row, character),
		})
	}
	return parsed
}

// quotesFromCSV разбирает строки CSV в цитаты.
// Позиционный порядок колонок: speaker, text, character_id.
func quotesFromCSV(rows [][]string) []model.Quote {
	if len(rows) == 0 {
		return nil
	}

	speaker, text, character := 0, 1, 2
	if hasHeaders(rows[0], "speaker", "text") {
		index := columnIndex(rows[0])
		lookup := func(key string) int {
			if i, ok := index[key]; ok {
				return i
			}
			return -1
		}
		speaker, text, character = lookup("speaker"), lookup("text"), lookup("character_id")
		rows = rows[1:]
	}

	var parsed []model.Quote
	for _, row := range rows {
		parsed = append(parsed, model.Quote{
			Speaker:     cell(row, speaker),
			Text:        cell(row, text),
			CharacterID: cell(row, character),
		})
	}
	return parsed
}
