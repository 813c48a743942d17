package storage

import (
	"os"
	"path/filepath"
	"testing"

	"funtools/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func birthdayWithID(b model.Birthday, id string) model.Birthday {
	b.ID = id
	return b
}

func newBirthdayCollection(t *testing.T, initial string) (*Collection[model.Birthday], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "birthdays.json")
	if initial != "" {
		require.NoError(t, os.WriteFile(path, []byte(initial), 0644))
	}
	return NewCollection[model.Birthday](path, "birthdays", birthdayWithID, zap.NewNop()), path
}

func TestCollection_MissingFileCreatedEmpty(t *testing.T) {
	col, path := newBirthdayCollection(t, "")
	assert.Equal(t, 0, col.Len())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestCollection_AcceptsBareArray(t *testing.T) {
	col, _ := newBirthdayCollection(t, `[{"id":"b1","name":"ミコト","month":3,"day":11,"reported":false}]`)
	require.Equal(t, 1, col.Len())
	rec, ok := col.Get("b1")
	require.True(t, ok)
	assert.Equal(t, "ミコト", rec.Name)
}

func TestCollection_AcceptsEnvelope(t *testing.T) {
	col, _ := newBirthdayCollection(t, `{"birthdays":[{"id":"b1","name":"ミコト","month":3,"day":11}]}`)
	assert.Equal(t, 1, col.Len())
}

func TestCollection_CorruptFileYieldsEmpty(t *testing.T) {
	col, _ := newBirthdayCollection(t, `{"birthdays": "oops"`)
	assert.Equal(t, 0, col.Len())
}

func TestCollection_RoundTrip(t *testing.T) {
	for _, initial := range []string{
		`[{"id":"b1","name":"ミコト","month":3,"day":11,"character_id":"1024","reported":true}]`,
		`{"birthdays":[{"id":"b1","name":"ミコト","month":3,"day":11,"character_id":"1024","reported":true}]}`,
	} {
		col, path := newBirthdayCollection(t, initial)
		require.NoError(t, col.BulkReplace(col.All()))

		reloaded := NewCollection[model.Birthday](path, "birthdays", birthdayWithID, zap.NewNop())
		assert.Equal(t, col.All(), reloaded.All())
	}
}

func TestCollection_AddAssignsID(t *testing.T) {
	col, _ := newBirthdayCollection(t, "")
	added, err := col.Add(model.Birthday{Name: "ホムラ", Month: 7, Day: 21})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	got, ok := col.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, added, got)
}

func TestCollection_AddRejectsInvalidAndDuplicate(t *testing.T) {
	col, _ := newBirthdayCollection(t, "")

	_, err := col.Add(model.Birthday{Name: "  ", Month: 1, Day: 1})
	assert.Error(t, err)

	_, err = col.Add(model.Birthday{Name: "ホムラ", Month: 13, Day: 1})
	assert.Error(t, err)

	_, err = col.Add(model.Birthday{ID: "dup", Name: "ホムラ", Month: 7, Day: 21})
	require.NoError(t, err)
	_, err = col.Add(model.Birthday{ID: "dup", Name: "セツナ", Month: 1, Day: 2})
	assert.Error(t, err)
	assert.Equal(t, 1, col.Len())
}

func TestCollection_RemoveByID(t *testing.T) {
	col, _ := newBirthdayCollection(t, `[{"id":"b1","name":"ミコト","month":3,"day":11}]`)

	removed, found, err := col.RemoveByID("b1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ミコト", removed.Name)
	assert.Equal(t, 0, col.Len())

	_, found, err = col.RemoveByID("b1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCollection_UpdateAllSkipsWriteWhenUnchanged(t *testing.T) {
	col, path := newBirthdayCollection(t, `[{"id":"b1","name":"ミコト","month":3,"day":11,"reported":true}]`)

	reset := func(b model.Birthday) (model.Birthday, bool) {
		if !b.Reported {
			return b, false
		}
		b.Reported = false
		return b, true
	}

	changed, err := col.UpdateAll(reset)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	// Повторный сброс в тот же день ничего не трогает и не пишет файл
	before, err := os.Stat(path)
	require.NoError(t, err)
	changed, err = col.UpdateAll(reset)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestCollection_BulkReplacePreservesOrder(t *testing.T) {
	col, _ := newBirthdayCollection(t, "")
	records := []model.Birthday{
		{ID: "b3", Name: "ツバキ", Month: 12, Day: 1},
		{ID: "b1", Name: "ミコト", Month: 3, Day: 11},
		{ID: "b2", Name: "ホムラ", Month: 7, Day: 21},
	}
	require.NoError(t, col.BulkReplace(records))
	assert.Equal(t, records, col.All())
}

func TestCollection_AppendMerges(t *testing.T) {
	col, _ := newBirthdayCollection(t, `[{"id":"b1","name":"ミコト","month":3,"day":11}]`)

	batch := []model.Birthday{
		{ID: "b2", Name: "ホムラ", Month: 7, Day: 21},
		{Name: "ツバキ", Month: 12, Day: 1},
	}
	require.NoError(t, col.Append(batch))

	all := col.All()
	require.Len(t, all, 3)
	assert.Equal(t, "b1", all[0].ID)
	assert.Equal(t, "b2", all[1].ID)
	assert.NotEmpty(t, all[2].ID, "append must assign missing ids")
}

func TestCollection_AppendKeepsConcurrentAdd(t *testing.T) {
	// Запись, добавленная после того как вызывающий прочитал коллекцию,
	// не теряется при слиянии импорта
	col, _ := newBirthdayCollection(t, "")
	batch := []model.Birthday{{ID: "b2", Name: "ホムラ", Month: 7, Day: 21}}

	_, err := col.Add(model.Birthday{ID: "b1", Name: "ミコト", Month: 3, Day: 11})
	require.NoError(t, err)
	require.NoError(t, col.Append(batch))

	require.Equal(t, 2, col.Len())
	_, ok := col.Get("b1")
	assert.True(t, ok)
}

func TestCollection_AppendSkipsDuplicateIDs(t *testing.T) {
	col, _ := newBirthdayCollection(t, `[{"id":"b1","name":"ミコト","month":3,"day":11}]`)

	require.NoError(t, col.Append([]model.Birthday{
		{ID: "b1", Name: "ニセモノ", Month: 1, Day: 1},
		{ID: "b2", Name: "ホムラ", Month: 7, Day: 21},
	}))

	require.Equal(t, 2, col.Len())
	rec, ok := col.Get("b1")
	require.True(t, ok)
	assert.Equal(t, "ミコト", rec.Name, "existing record must win over duplicate")
}

func TestCollection_Find(t *testing.T) {
	col, _ := newBirthdayCollection(t, `[
		{"id":"b1","name":"ミコト","month":3,"day":11},
		{"id":"b2","name":"ホムラ","month":3,"day":11,"reported":true},
		{"id":"b3","name":"ツバキ","month":12,"day":1}
	]`)

	today := col.Find(func(b model.Birthday) bool { return b.Matches(3, 11) && !b.Reported })
	require.Len(t, today, 1)
	assert.Equal(t, "b1", today[0].ID)
}
