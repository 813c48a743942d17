package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"funtools/internal/external/cdn"
	"funtools/internal/model"
	"funtools/internal/storage"

	"github.com/bwmarrin/discordgo"
)

const (
	colorBirthday = 0xffc0cb
	colorQuote    = 0x2ecc71
)

// BirthdaySource выбирает несообщенные дни рождения на текущую дату
type BirthdaySource struct {
	collection   *storage.Collection[model.Birthday]
	characterURL string
}

// NewBirthdaySource создает источник контента для анонсов дней рождения
func NewBirthdaySource(collection *storage.Collection[model.Birthday], characterURL string) *BirthdaySource {
	return &BirthdaySource{
		collection:   collection,
		characterURL: characterURL,
	}
}

// ResetDaily снимает флаг reported со всех записей.
// Файл переписывается один раз и только при реальных изменениях.
func (s *BirthdaySource) ResetDaily() (int, error) {
	return s.collection.UpdateAll(func(b model.Birthday) (model.Birthday, bool) {
		if !b.Reported {
			return b, false
		}
		b.Reported = false
		return b, true
	})
}

// Select собирает все несообщенные дни рождения сегодняшней даты
// в один анонс
func (s *BirthdaySource) Select(now time.Time, lastPostedID string) (Announcement, bool) {
	today := s.collection.Find(func(b model.Birthday) bool {
		return b.Matches(int(now.Month()), now.Day()) && !b.Reported
	})
	if len(today) == 0 {
		return Announcement{}, false
	}

	ids := make([]string, len(today))
	names := make([]string, len(today))
	for i, b := range today {
		ids[i] = b.ID
		names[i] = b.Name
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎂 本日の誕生日",
		Description: fmt.Sprintf("%d月%d日は %s の誕生日です！", int(now.Month()), now.Day(), strings.Join(names, "、")),
		Color:       colorBirthday,
		Timestamp:   now.Format(time.RFC3339),
	}
	if len(today) == 1 && today[0].CharacterID != "" {
		embed.URL = fmt.Sprintf("%s/%s", s.characterURL, today[0].CharacterID)
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: cdn.ThumbnailURL(today[0].CharacterID)}
	}

	return Announcement{IDs: ids, Ref: ids[0], Embed: embed}, true
}

// MarkPosted помечает записи как сообщенные до следующего суточного сброса
func (s *BirthdaySource) MarkPosted(ids []string) error {
	marked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		marked[id] = struct{}{}
	}
	_, err := s.collection.UpdateAll(func(b model.Birthday) (model.Birthday, bool) {
		if _, ok := marked[b.ID]; !ok || b.Reported {
			return b, false
		}
		b.Reported = true
		return b, true
	})
	return err
}

// QuoteSource выбирает случайную цитату, избегая немедленного повтора
type QuoteSource struct {
	collection   *storage.Collection[model.Quote]
	characterURL string
	rnd          *rand.Rand
}

// NewQuoteSource создает источник контента для автопостинга цитат
func NewQuoteSource(collection *storage.Collection[model.Quote], characterURL string) *QuoteSource {
	return &QuoteSource{
		collection:   collection,
		characterURL: characterURL,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ResetDaily у цитат нет суточных флагов
func (s *QuoteSource) ResetDaily() (int, error) {
	return 0, nil
}

// Select выбирает случайную цитату. Последняя опубликованная исключается
// из кандидатов, пока есть хотя бы одна другая.
func (s *QuoteSource) Select(now time.Time, lastPostedID string) (Announcement, bool) {
	quote, ok := PickQuote(s.collection.All(), lastPostedID, s.rnd)
	if !ok {
		return Announcement{}, false
	}
	return Announcement{
		IDs:   []string{quote.ID},
		Ref:   quote.ID,
		Embed: s.buildEmbed(quote, now),
	}, true
}

// MarkPosted цитаты не несут пер-записных флагов публикации
func (s *QuoteSource) MarkPosted(ids []string) error {
	return nil
}

// buildEmbed собирает карточку цитаты со ссылкой на страницу персонажа
func (s *QuoteSource) buildEmbed(quote model.Quote, now time.Time) *discordgo.MessageEmbed {
	speaker := quote.Speaker
	if speaker == "" {
		speaker = "不明な発言者"
	}
	embed := &discordgo.MessageEmbed{
		Title:       speaker,
		Description: quote.Text,
		Color:       colorQuote,
		Timestamp:   now.Format(time.RFC3339),
	}
	footer := fmt.Sprintf("quote_id:%s", quote.ID)
	if quote.CharacterID != "" {
		embed.URL = fmt.Sprintf("%s/%s", s.characterURL, quote.CharacterID)
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: cdn.ThumbnailURL(quote.CharacterID)}
		footer = fmt.Sprintf("#%s · %s", quote.CharacterID, footer)
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	return embed
}

// PickQuote выбирает случайную цитату, исключая lastPostedID.
// Если исключение опустошает кандидатов, используется полный список:
// единственная цитата публикуется даже при совпадении с последней.
func PickQuote(quotes []model.Quote, lastPostedID string, rnd *rand.Rand) (model.Quote, bool) {
	if len(quotes) == 0 {
		return model.Quote{}, false
	}
	candidates := quotes
	if lastPostedID != "" {
		filtered := make([]model.Quote, 0, len(quotes))
		for _, q := range quotes {
			if q.ID != lastPostedID {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}
	return candidates[rnd.Intn(len(candidates))], true
}
