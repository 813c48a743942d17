package zircon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"funtools/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const characterPage = `<html><body><div id="root"><main><div><section class="status"><div>
<dl><dt>名前</dt><dd><p>ミク</p></dd></dl>
<dl><dt>年齢</dt><dd><p>16</p></dd></dl>
<dl><dt>国</dt><dd><p>BRAVE</p></dd></dl>
<dl><dt>特技</dt><dd><p>歌</p></dd></dl>
<dl><dt>感覚</dt><dd><p>聴覚</p></dd></dl>
<dl><dt>性格</dt><dd><p>明るい</p></dd></dl>
<dl><dt>目標</dt><dd><p>世界を歌で満たす</p></dd></dl>
<dl><dt>ジルパワー</dt><dd><p>音波</p></dd></dl>
<dl><dt>ギア</dt><dd><p>マイク</p></dd></dl>
<dl><dt>一人称</dt><dd><p>わたし</p></dd></dl>
<dl><dt>あだ名</dt><dd><p>ミクちゃん</p></dd></dl>
<dl><dt>セリフ</dt><dd><p>こんにちは！</p></dd></dl>
<dl><dt>弱点</dt><dd><p>ねぎ不足</p></dd></dl>
</div></section></main></div></body></html>`

func newTestScraper(baseURL string) *Scraper {
	return NewScraper(config.ScraperConfig{
		BaseURL:    baseURL,
		MaxRetries: 0,
	}, zap.NewNop())
}

func TestScraper_FetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1234", r.URL.Path)
		fmt.Fprint(w, characterPage)
	}))
	defer server.Close()

	scraper := newTestScraper(server.URL)
	profile, err := scraper.FetchProfile(context.Background(), "1234")
	require.NoError(t, err)

	assert.Equal(t, "ミク", profile.Name)
	assert.Equal(t, "Brave", profile.Country, "country token is normalized to title case")
	assert.Equal(t, "歌", profile.Skill)
	assert.Equal(t, "明るい", profile.Personality)
	assert.Equal(t, "世界を歌で満たす", profile.Goal)
	assert.Equal(t, "わたし", profile.FirstPerson)
	assert.Equal(t, "ミクちゃん", profile.Nickname)
	assert.Equal(t, "こんにちは！", profile.Lines)
	assert.Equal(t, "ねぎ不足", profile.Weakness)
}

func TestScraper_MissingStatusSection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>not found</p></body></html>")
	}))
	defer server.Close()

	scraper := newTestScraper(server.URL)
	_, err := scraper.FetchProfile(context.Background(), "9999")
	assert.Error(t, err)
}

func TestScraper_RetriesOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, characterPage)
	}))
	defer server.Close()

	scraper := NewScraper(config.ScraperConfig{BaseURL: server.URL, MaxRetries: 2}, zap.NewNop())
	profile, err := scraper.FetchProfile(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, "ミク", profile.Name)
	assert.Equal(t, 2, calls)
}

func TestNormalizeCountry(t *testing.T) {
	scraper := newTestScraper("http://example.invalid")

	assert.Equal(t, "Peaceful", scraper.normalizeCountry(" peaceful "))
	assert.Equal(t, "Glory", scraper.normalizeCountry("GLORY"))
	assert.Equal(t, "", scraper.normalizeCountry(""))
}
