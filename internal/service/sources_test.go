package service

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"funtools/internal/model"
	"funtools/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCharacterURL = "https://zircon.konami.net/nft/character"

func newBirthdayCollection(t *testing.T) *storage.Collection[model.Birthday] {
	t.Helper()
	return storage.NewCollection(
		filepath.Join(t.TempDir(), "birthdays.json"),
		"birthdays",
		func(b model.Birthday, id string) model.Birthday { b.ID = id; return b },
		zap.NewNop(),
	)
}

func TestBirthdaySource_SelectAggregatesToday(t *testing.T) {
	c := newBirthdayCollection(t)
	_, err := c.Add(model.Birthday{Name: "ミク", Month: 8, Day: 31})
	require.NoError(t, err)
	_, err = c.Add(model.Birthday{Name: "リン", Month: 8, Day: 31})
	require.NoError(t, err)
	_, err = c.Add(model.Birthday{Name: "カイト", Month: 2, Day: 17})
	require.NoError(t, err)

	source := NewBirthdaySource(c, testCharacterURL)
	now := time.Date(2025, 8, 31, 9, 0, 0, 0, jst)

	announcement, ok := source.Select(now, "")
	require.True(t, ok)
	assert.Len(t, announcement.IDs, 2, "both birthdays of the day go into one announcement")
	assert.Contains(t, announcement.Embed.Description, "ミク")
	assert.Contains(t, announcement.Embed.Description, "リン")
	assert.NotContains(t, announcement.Embed.Description, "カイト")
	assert.Nil(t, announcement.Embed.Thumbnail, "no thumbnail for multi-record announcement")
}

func TestBirthdaySource_SingleWithCharacterThumbnail(t *testing.T) {
	c := newBirthdayCollection(t)
	_, err := c.Add(model.Birthday{Name: "ミク", Month: 8, Day: 31, CharacterID: "1234"})
	require.NoError(t, err)

	source := NewBirthdaySource(c, testCharacterURL)
	announcement, ok := source.Select(time.Date(2025, 8, 31, 9, 0, 0, 0, jst), "")
	require.True(t, ok)

	assert.Equal(t, testCharacterURL+"/1234", announcement.Embed.URL)
	require.NotNil(t, announcement.Embed.Thumbnail)
	assert.Contains(t, announcement.Embed.Thumbnail.URL, "pfp_1234")
}

func TestBirthdaySource_MarkAndReset(t *testing.T) {
	c := newBirthdayCollection(t)
	added, err := c.Add(model.Birthday{Name: "ミク", Month: 8, Day: 31})
	require.NoError(t, err)

	source := NewBirthdaySource(c, testCharacterURL)
	now := time.Date(2025, 8, 31, 9, 0, 0, 0, jst)

	require.NoError(t, source.MarkPosted([]string{added.ID}))
	_, ok := source.Select(now, "")
	assert.False(t, ok, "reported birthday must not be selected again")

	affected, err := source.ResetDaily()
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	_, ok = source.Select(now, "")
	assert.True(t, ok)

	// Повторный сброс без изменений ничего не трогает
	affected, err = source.ResetDaily()
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestPickQuote_ExcludesLastPosted(t *testing.T) {
	quotes := []model.Quote{
		{ID: "a", Speaker: "ミク", Text: "1"},
		{ID: "b", Speaker: "リン", Text: "2"},
		{ID: "c", Speaker: "レン", Text: "3"},
	}
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		quote, ok := PickQuote(quotes, "b", rnd)
		require.True(t, ok)
		assert.NotEqual(t, "b", quote.ID)
	}
}

func TestPickQuote_SingleCandidateRepeats(t *testing.T) {
	quotes := []model.Quote{{ID: "a", Speaker: "ミク", Text: "1"}}
	rnd := rand.New(rand.NewSource(1))

	quote, ok := PickQuote(quotes, "a", rnd)
	require.True(t, ok)
	assert.Equal(t, "a", quote.ID, "the only quote is posted even if it was the last one")
}

func TestPickQuote_Empty(t *testing.T) {
	_, ok := PickQuote(nil, "", rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestQuoteSource_EmbedLayout(t *testing.T) {
	c := storage.NewCollection(
		filepath.Join(t.TempDir(), "quotes.json"),
		"quotes",
		func(q model.Quote, id string) model.Quote { q.ID = id; return q },
		zap.NewNop(),
	)
	_, err := c.Add(model.Quote{Speaker: "ミク", Text: "こんにちは", CharacterID: "1234"})
	require.NoError(t, err)

	source := NewQuoteSource(c, testCharacterURL)
	announcement, ok := source.Select(time.Date(2025, 8, 31, 9, 0, 0, 0, jst), "")
	require.True(t, ok)

	embed := announcement.Embed
	assert.Equal(t, "ミク", embed.Title)
	assert.Equal(t, "こんにちは", embed.Description)
	assert.Equal(t, testCharacterURL+"/1234", embed.URL)
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "#1234")
	assert.Contains(t, embed.Footer.Text, "quote_id:"+announcement.Ref)
}
