package service

import (
	"testing"
	"time"

	"funtools/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func birthdayKey(b model.Birthday) string {
	return b.Name
}

func TestParseBirthdays_CSVMixedRows(t *testing.T) {
	// 3 валидных, 1 с невозможным днем, 1 дубликат по имени
	data := []byte("name,month,day\n" +
		"初音,3,9\n" +
		"カイト,2,17\n" +
		"レン,12,27\n" +
		"壊れた,13,45\n" +
		"初音,3,9\n")

	importer := NewImporter()
	records, summary, err := importer.ParseBirthdays(data, "birthdays.csv", birthdayKey, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Added)
	assert.Equal(t, 1, summary.Invalid)
	assert.Equal(t, 1, summary.SkippedDuplicate)
	require.Len(t, records, 3)

	for _, b := range records {
		assert.NotEmpty(t, b.ID, "import must assign ids")
		assert.False(t, b.Reported)
	}
	assert.Equal(t, "初音", records[0].Name)
	assert.Equal(t, 3, records[0].Month)
	assert.Equal(t, 9, records[0].Day)
}

func TestParseBirthdays_DuplicateAgainstExisting(t *testing.T) {
	// Позиционный формат без заголовка: пустая колонка id в начале
	data := []byte(",カイト,2,17\n,ミク,8,31\n")
	existing := map[string]struct{}{"カイト": {}}

	importer := NewImporter()
	records, summary, err := importer.ParseBirthdays(data, "add.csv", birthdayKey, existing)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.SkippedDuplicate)
	require.Len(t, records, 1)
	assert.Equal(t, "ミク", records[0].Name)
}

func TestParseBirthdays_PositionalWithoutHeader(t *testing.T) {
	// Без строки заголовка колонки читаются позиционно: id, name, month, day, character_id
	data := []byte("b-1,ルカ,1,30,1234\n")

	importer := NewImporter()
	records, summary, err := importer.ParseBirthdays(data, "list.csv", birthdayKey, nil)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Added)

	assert.Equal(t, "b-1", records[0].ID)
	assert.Equal(t, "ルカ", records[0].Name)
	assert.Equal(t, 1, records[0].Month)
	assert.Equal(t, 30, records[0].Day)
	assert.Equal(t, "1234", records[0].CharacterID)
}

func TestParseBirthdays_HeaderReorder(t *testing.T) {
	data := []byte("day,name,month\n17,カイト,2\n")

	importer := NewImporter()
	records, _, err := importer.ParseBirthdays(data, "list.csv", birthdayKey, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "カイト", records[0].Name)
	assert.Equal(t, 2, records[0].Month)
	assert.Equal(t, 17, records[0].Day)
}

func TestParseBirthdays_BOMAndBlankLines(t *testing.T) {
	data := []byte("\uFEFFname,month,day\n\nミク,8,31\n\n")

	importer := NewImporter()
	records, summary, err := importer.ParseBirthdays(data, "list.csv", birthdayKey, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	require.Len(t, records, 1)
	assert.Equal(t, "ミク", records[0].Name)
}

func TestParseBirthdays_JSONArray(t *testing.T) {
	data := []byte(`[
		{"name": "ミク", "month": 8, "day": 31},
		{"name": "", "month": 1, "day": 1}
	]`)

	importer := NewImporter()
	records, summary, err := importer.ParseBirthdays(data, "list.json", birthdayKey, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Invalid)
	require.Len(t, records, 1)
	assert.Equal(t, "ミク", records[0].Name)
}

func TestParseBirthdays_BadInputs(t *testing.T) {
	importer := NewImporter()

	_, _, err := importer.ParseBirthdays([]byte("{}"), "list.json", birthdayKey, nil)
	assert.Error(t, err, "JSON object instead of array must fail")

	_, _, err = importer.ParseBirthdays([]byte("a,b"), "list.txt", birthdayKey, nil)
	assert.Error(t, err, "unsupported extension must fail")
}

func TestParseQuotes_FullReplace(t *testing.T) {
	data := []byte("speaker,text,character_id\n" +
		"ミク,こんにちは,1234\n" +
		"リン,おはよう,\n" +
		"カイト,,\n")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	importer := NewImporter()
	quotes, summary, err := importer.ParseQuotes(data, "quotes.csv", "user-1", now)
	require.NoError(t, err)

	// Строка без текста невалидна и пропускается
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 1, summary.Invalid)
	require.Len(t, quotes, 2)

	first := quotes[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "ミク", first.Speaker)
	assert.Equal(t, "こんにちは", first.Text)
	assert.Equal(t, "1234", first.CharacterID)
	assert.Equal(t, "user-1", first.CreatedBy)
	require.NotNil(t, first.CreatedAt)
	assert.True(t, first.CreatedAt.Equal(now))
}

func TestParseQuotes_JSONIgnoresIncomingIDs(t *testing.T) {
	data := []byte(`[{"id": "keep-me", "speaker": "ミク", "text": "やあ"}]`)

	importer := NewImporter()
	quotes, summary, err := importer.ParseQuotes(data, "quotes.json", "user-1", time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Added)

	// Полная замена всегда выдает свежие идентификаторы
	assert.NotEqual(t, "keep-me", quotes[0].ID)
	assert.NotEmpty(t, quotes[0].ID)
}
