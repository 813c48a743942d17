package service

import (
	"time"

	"funtools/internal/model"
	"funtools/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Announcement представляет выбранный для публикации контент
type Announcement struct {
	// IDs — записи, которые нужно пометить опубликованными
	IDs []string
	// Ref пишется в last_posted_id для защиты от немедленного повтора
	Ref   string
	Embed *discordgo.MessageEmbed
}

// ContentSource выбирает контент фичи и управляет суточными флагами записей
type ContentSource interface {
	// ResetDaily сбрасывает суточные флаги всех записей.
	// Возвращает число затронутых записей; повторный вызов в тот же день
	// обязан быть no-op (вызывающий гарантирует это датой сброса).
	ResetDaily() (int, error)
	// Select выбирает контент для публикации, избегая немедленного
	// повтора lastPostedID, когда есть другие кандидаты
	Select(now time.Time, lastPostedID string) (Announcement, bool)
	// MarkPosted помечает записи опубликованными
	MarkPosted(ids []string) error
}

// Announcer публикует контент одной фичи по расписанию. Состояние цикла
// целиком восстанавливается из документа настроек, так что рестарт процесса
// не теряет и не дублирует публикации на суточной гранулярности.
//
// Принятый риск: падение между доставкой и записью last_posted_at может
// привести к одному повторному посту на следующем тике после рестарта.
type Announcer struct {
	feature   string
	channelID string
	settings  *storage.SettingsStore
	source    ContentSource
	sender    ChannelSender
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewAnnouncer создает анонсер фичи
func NewAnnouncer(feature, channelID string, settings *storage.SettingsStore, source ContentSource, sender ChannelSender, loc *time.Location, logger *zap.Logger) *Announcer {
	a := &Announcer{
		feature:   feature,
		channelID: channelID,
		settings:  settings,
		source:    source,
		sender:    sender,
		loc:       loc,
		logger:    logger,
	}
	a.now = func() time.Time { return time.Now().In(loc) }
	return a
}

// Feature возвращает имя фичи анонсера
func (a *Announcer) Feature() string {
	return a.feature
}

// Tick выполняет один шаг цикла. Вызывается планировщиком раз в минуту.
func (a *Announcer) Tick() {
	now := a.now()
	settings := a.settings.Get(a.feature)

	// Суточный сброс выполняется независимо от enabled
	settings = a.maybeReset(settings, now)

	if !settings.Enabled {
		return
	}

	if now.Before(NextRun(settings, now, a.loc)) {
		return
	}

	announcement, ok := a.source.Select(now, settings.LastPostedID)
	if !ok {
		return
	}

	if a.channelID == "" {
		a.logger.Warn("Announce channel is not configured, retrying next tick",
			zap.String("feature", a.feature))
		return
	}

	if err := a.sender.SendEmbed(a.channelID, announcement.Embed); err != nil {
		// Не помечаем как опубликованное: следующий тик повторит попытку
		a.logger.Error("Failed to deliver announcement",
			zap.String("feature", a.feature),
			zap.String("channel_id", a.channelID),
			zap.Error(err))
		return
	}

	if err := a.source.MarkPosted(announcement.IDs); err != nil {
		a.logger.Error("Failed to mark records as posted",
			zap.String("feature", a.feature), zap.Error(err))
	}

	// Только отметка публикации: админская мутация расписания,
	// пришедшая во время доставки, не должна быть перезаписана
	posted := a.now()
	_, err := a.settings.Update(a.feature, func(s model.FeatureSettings) model.FeatureSettings {
		s.LastPostedAt = &posted
		s.LastPostedID = announcement.Ref
		return s
	})
	if err != nil {
		a.logger.Error("Failed to persist post marker",
			zap.String("feature", a.feature), zap.Error(err))
	}

	a.logger.Info("Posted scheduled announcement",
		zap.String("feature", a.feature),
		zap.String("ref", announcement.Ref))
}

// maybeReset сбрасывает суточные флаги, если календарная дата сменилась.
// Повторный вызов в тот же день ничего не трогает.
func (a *Announcer) maybeReset(settings model.FeatureSettings, now time.Time) model.FeatureSettings {
	today := now.Format(dateLayout)
	if settings.LastResetDate == today {
		return settings
	}

	affected, err := a.source.ResetDaily()
	if err != nil {
		a.logger.Error("Daily reset failed, retrying next tick",
			zap.String("feature", a.feature), zap.Error(err))
		return settings
	}
	if affected > 0 {
		a.logger.Info("Daily flags reset",
			zap.String("feature", a.feature), zap.Int("records", affected))
	}

	updated, err := a.settings.Update(a.feature, func(s model.FeatureSettings) model.FeatureSettings {
		s.LastResetDate = today
		return s
	})
	if err != nil {
		a.logger.Error("Failed to persist reset date",
			zap.String("feature", a.feature), zap.Error(err))
		settings.LastResetDate = today
		return settings
	}
	return updated
}

// NextRun вычисляет момент следующей публикации. Если запланированный
// момент уже прошел (в том числе из-за простоя процесса), возвращается
// now: пропущенный запуск наверстывается немедленно и ровно один раз.
func NextRun(settings model.FeatureSettings, now time.Time, loc *time.Location) time.Time {
	settings = settings.Normalize()

	if settings.LastPostedAt == nil {
		candidate := time.Date(now.Year(), now.Month(), now.Day(),
			settings.Hour, settings.Minute, 0, 0, loc)
		if !now.Before(candidate) {
			return now
		}
		return candidate
	}

	last := settings.LastPostedAt.In(loc)
	nextDate := last.AddDate(0, 0, settings.Days)
	nextRun := time.Date(nextDate.Year(), nextDate.Month(), nextDate.Day(),
		settings.Hour, settings.Minute, 0, 0, loc)
	if !nextRun.After(now) {
		return now
	}
	return nextRun
}

// Due сообщает, наступил ли момент публикации
func Due(settings model.FeatureSettings, now time.Time, loc *time.Location) bool {
	return !now.Before(NextRun(settings, now, loc))
}
