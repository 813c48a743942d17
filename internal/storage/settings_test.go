package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"funtools/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDefaults() map[string]model.SettingsDefaults {
	return map[string]model.SettingsDefaults{
		model.FeatureQuotes:   {Enabled: true, Days: 1, Hour: 9, Minute: 0},
		model.FeatureBirthday: {Enabled: true, Days: 1, Hour: 9, Minute: 0},
	}
}

func TestSettingsStore_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewSettingsStore(path, testDefaults(), zap.NewNop())

	got := store.Get(model.FeatureQuotes)
	assert.True(t, got.Enabled)
	assert.Equal(t, 9, got.Hour)
	assert.Equal(t, 0, got.Minute)
	assert.Equal(t, 1, got.Days)
	assert.Nil(t, got.LastPostedAt)
}

func TestSettingsStore_CorruptFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewSettingsStore(path, testDefaults(), zap.NewNop())
	got := store.Get(model.FeatureBirthday)
	assert.Equal(t, 9, got.Hour)
	assert.Equal(t, 1, got.Days)
}

func TestSettingsStore_MissingFieldsFallBackToDefaults(t *testing.T) {
	// Запись, сделанная чужой рукой, может не содержать части полей:
	// отсутствующее поле получает сконфигурированное значение, а не ноль
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"quotes":{"enabled":true}}`), 0644))

	store := NewSettingsStore(path, testDefaults(), zap.NewNop())
	got := store.Get(model.FeatureQuotes)
	assert.True(t, got.Enabled)
	assert.Equal(t, 9, got.Hour)
	assert.Equal(t, 0, got.Minute)
	assert.Equal(t, 1, got.Days)
}

func TestSettingsStore_ExplicitZeroFieldsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"quotes":{"enabled":false,"hour":0,"minute":0,"days":2}}`), 0644))

	store := NewSettingsStore(path, testDefaults(), zap.NewNop())
	got := store.Get(model.FeatureQuotes)
	assert.False(t, got.Enabled)
	assert.Equal(t, 0, got.Hour)
	assert.Equal(t, 2, got.Days)
}

func TestSettingsStore_UpdateKeepsConcurrentMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewSettingsStore(path, testDefaults(), zap.NewNop())

	_, err := store.Set(model.FeatureQuotes, model.FeatureSettings{Enabled: false, Hour: 20, Days: 3})
	require.NoError(t, err)

	// Update мутирует только свое поле поверх актуального состояния
	posted := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	updated, err := store.Update(model.FeatureQuotes, func(s model.FeatureSettings) model.FeatureSettings {
		s.LastPostedAt = &posted
		return s
	})
	require.NoError(t, err)

	assert.False(t, updated.Enabled)
	assert.Equal(t, 20, updated.Hour)
	assert.Equal(t, 3, updated.Days)
	require.NotNil(t, updated.LastPostedAt)
	assert.True(t, updated.LastPostedAt.Equal(posted))
}

func TestSettingsStore_SetClampsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewSettingsStore(path, testDefaults(), zap.NewNop())

	written, err := store.Set(model.FeatureQuotes, model.FeatureSettings{
		Enabled: true,
		Hour:    30,
		Minute:  -5,
		Days:    0,
	})
	require.NoError(t, err)
	assert.Equal(t, 23, written.Hour)
	assert.Equal(t, 0, written.Minute)
	assert.Equal(t, 1, written.Days)

	// Новый экземпляр читает то же состояние с диска
	reloaded := NewSettingsStore(path, testDefaults(), zap.NewNop())
	assert.Equal(t, written, reloaded.Get(model.FeatureQuotes))
}

func TestSettingsStore_RoundTripTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewSettingsStore(path, testDefaults(), zap.NewNop())

	loc := time.FixedZone("JST", 9*60*60)
	posted := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	_, err := store.Set(model.FeatureQuotes, model.FeatureSettings{
		Enabled:      true,
		Hour:         9,
		Days:         1,
		LastPostedAt: &posted,
		LastPostedID: "q-1",
	})
	require.NoError(t, err)

	reloaded := NewSettingsStore(path, testDefaults(), zap.NewNop())
	got := reloaded.Get(model.FeatureQuotes)
	require.NotNil(t, got.LastPostedAt)
	assert.True(t, got.LastPostedAt.Equal(posted))
	assert.Equal(t, "q-1", got.LastPostedID)
}
