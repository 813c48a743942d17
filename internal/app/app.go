// Package app содержит сборку зависимостей и жизненный цикл приложения.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"funtools/internal/bot"
	"funtools/internal/bot/types"
	"funtools/internal/config"
	"funtools/internal/external/cdn"
	"funtools/internal/external/discord"
	"funtools/internal/external/zircon"
	"funtools/internal/model"
	"funtools/internal/service"
	"funtools/internal/storage"

	"go.uber.org/zap"
)

// Команды, доступные всем участникам без оверрайдов.
// Остальные команды открываются ролям через /permit_grant.
var publicCommands = []string{"poster", "oracle", "birthdays"}

// App представляет собранное приложение
type App struct {
	bot       *bot.Bot
	scheduler *service.Scheduler
	logger    *zap.Logger
}

// New собирает приложение из конфигурации
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", cfg.DataDir, err)
	}

	// Хранилища
	settings := storage.NewSettingsStore(
		filepath.Join(cfg.DataDir, "feature_settings.json"),
		map[string]model.SettingsDefaults{
			model.FeatureBirthday: scheduleDefaults(cfg.BirthdayDefaults),
			model.FeatureQuotes:   scheduleDefaults(cfg.QuoteDefaults),
		},
		logger,
	)
	overrides := storage.NewOverrideStore(filepath.Join(cfg.DataDir, "permissions.json"), logger)
	birthdays := storage.NewCollection(
		filepath.Join(cfg.DataDir, "birthdays.json"), "birthdays",
		func(b model.Birthday, id string) model.Birthday { b.ID = id; return b },
		logger,
	)
	quotes := storage.NewCollection(
		filepath.Join(cfg.DataDir, "quotes.json"), "quotes",
		func(q model.Quote, id string) model.Quote { q.ID = id; return q },
		logger,
	)
	dictionary := storage.NewCollection(
		filepath.Join(cfg.DataDir, "dictionary.json"), "words",
		func(e model.DictionaryEntry, id string) model.DictionaryEntry { e.ID = id; return e },
		logger,
	)

	// Внешние клиенты
	client, err := discord.NewClient(cfg.BotToken, logger)
	if err != nil {
		return nil, err
	}
	scraper := zircon.NewScraper(cfg.ScraperConfig, logger)
	cdnClient := cdn.NewClient(cfg.HTTPClientConfig, logger)

	// Сервисы
	permissions := service.NewPermissions(overrides, cfg.OperatorRoleID, publicCommands, client, logger)
	deps := &types.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Settings:    settings,
		Overrides:   overrides,
		Birthdays:   birthdays,
		Quotes:      quotes,
		Dictionary:  dictionary,
		Permissions: permissions,
		Importer:    service.NewImporter(),
		Fortune:     service.NewFortune(),
		Sessions:    service.NewSessionRegistry(),
		Scraper:     scraper,
		CDN:         cdnClient,
	}

	// Автопостинг
	loc := cfg.Location()
	scheduler := service.NewScheduler(loc, logger)
	scheduler.Register(service.NewAnnouncer(
		model.FeatureBirthday, cfg.BirthdayChannelID, settings,
		service.NewBirthdaySource(birthdays, cfg.ScraperConfig.BaseURL),
		client, loc, logger,
	))
	scheduler.Register(service.NewAnnouncer(
		model.FeatureQuotes, cfg.QuoteChannelID, settings,
		service.NewQuoteSource(quotes, cfg.ScraperConfig.BaseURL),
		client, loc, logger,
	))

	return &App{
		bot:       bot.New(client, deps),
		scheduler: scheduler,
		logger:    logger,
	}, nil
}

// Run запускает бота и планировщик и блокируется до отмены контекста
func (a *App) Run(ctx context.Context) error {
	if err := a.bot.Start(); err != nil {
		return err
	}

	if err := a.scheduler.Start(); err != nil {
		a.bot.Stop()
		return err
	}

	a.logger.Info("Application started")
	<-ctx.Done()

	a.scheduler.Stop()
	if err := a.bot.Stop(); err != nil {
		a.logger.Error("Failed to close gateway connection", zap.Error(err))
	}
	return nil
}

// scheduleDefaults переводит конфигурацию расписания в настройки хранилища
func scheduleDefaults(d config.ScheduleDefaults) model.SettingsDefaults {
	return model.SettingsDefaults{
		Enabled: d.Enabled,
		Days:    d.Days,
		Hour:    d.Hour,
		Minute:  d.Minute,
	}
}
