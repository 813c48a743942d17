// Package zircon содержит скрейпер страниц персонажей zircon.konami.net.
package zircon

import (
	"context"
	"fmt"
	"strings"

	"funtools/internal/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Profile представляет карточку персонажа со страницы статуса
type Profile struct {
	Name        string
	Country     string
	Skill       string
	Personality string
	Goal        string
	Nickname    string
	FirstPerson string
	Lines       string
	Weakness    string
}

// Позиции dl в section.status на странице персонажа
const (
	fieldName        = 1
	fieldCountry     = 3
	fieldSkill       = 4
	fieldPersonality = 6
	fieldGoal        = 7
	fieldFirstPerson = 10
	fieldNickname    = 11
	fieldLines       = 12
	fieldWeakness    = 13
)

// Scraper представляет скрейпер страниц персонажей
type Scraper struct {
	config config.ScraperConfig
	logger *zap.Logger
	title  cases.Caser
}

// NewScraper создает новый скрейпер
func NewScraper(cfg config.ScraperConfig, logger *zap.Logger) *Scraper {
	return &Scraper{
		config: cfg,
		logger: logger,
		title:  cases.Title(language.English),
	}
}

// FetchProfile получает карточку персонажа по идентификатору.
// Пустой профиль (страница без section.status) считается ошибкой:
// страница персонажа с таким номером не существует.
func (s *Scraper) FetchProfile(ctx context.Context, characterID string) (*Profile, error) {
	url := fmt.Sprintf("%s/%s", strings.TrimRight(s.config.BaseURL, "/"), characterID)

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		profile, err := s.fetchOnce(url)
		if err == nil {
			if attempt > 0 {
				s.logger.Debug("Profile fetched after retry",
					zap.String("character_id", characterID),
					zap.Int("attempt", attempt+1))
			}
			return profile, nil
		}
		lastErr = err

		s.logger.Debug("Profile fetch failed, retrying",
			zap.String("character_id", characterID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return nil, fmt.Errorf("failed to fetch character %s after %d attempts: %w",
		characterID, s.config.MaxRetries+1, lastErr)
}

func (s *Scraper) fetchOnce(url string) (*Profile, error) {
	collector := s.newCollector()

	var profile Profile
	var found bool

	collector.OnHTML("main section.status div", func(e *colly.HTMLElement) {
		found = true
		profile = Profile{
			Name:        statusField(e.DOM, fieldName),
			Country:     s.normalizeCountry(statusField(e.DOM, fieldCountry)),
			Skill:       statusField(e.DOM, fieldSkill),
			Personality: statusField(e.DOM, fieldPersonality),
			Goal:        statusField(e.DOM, fieldGoal),
			FirstPerson: statusField(e.DOM, fieldFirstPerson),
			Nickname:    statusField(e.DOM, fieldNickname),
			Lines:       statusField(e.DOM, fieldLines),
			Weakness:    statusField(e.DOM, fieldWeakness),
		}
	})

	var requestErr error
	collector.OnError(func(r *colly.Response, err error) {
		requestErr = fmt.Errorf("request failed with status %d: %w", r.StatusCode, err)
	})

	if err := collector.Visit(url); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", url, err)
	}
	collector.Wait()

	if requestErr != nil {
		return nil, requestErr
	}
	if !found || profile.Name == "" {
		return nil, fmt.Errorf("character page %s has no status section", url)
	}
	return &profile, nil
}

// newCollector создает коллектор с настроенными задержками и логированием
func (s *Scraper) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		colly.MaxDepth(1),
	)

	_ = collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       s.config.RequestDelay,
	})

	collector.OnRequest(func(r *colly.Request) {
		s.logger.Debug("Making request", zap.String("url", r.URL.String()))
	})

	collector.OnResponse(func(r *colly.Response) {
		s.logger.Debug("Received response",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Int("size", len(r.Body)))
	})

	return collector
}

// statusField извлекает текст n-го dl блока секции статуса
func statusField(root *goquery.Selection, n int) string {
	selector := fmt.Sprintf("dl:nth-of-type(%d) > dd > p", n)
	return strings.TrimSpace(root.Find(selector).First().Text())
}

// normalizeCountry приводит токен страны к каноническому виду (Brave,
// Peaceful, Glory, Freedom) независимо от регистра на странице
func (s *Scraper) normalizeCountry(country string) string {
	return s.title.String(strings.ToLower(strings.TrimSpace(country)))
}
