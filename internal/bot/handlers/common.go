package handlers

import (
	"context"
	"fmt"
	"time"

	"funtools/internal/bot/types"
	"funtools/internal/model"

	"github.com/bwmarrin/discordgo"
)

// attachmentFetchTimeout ограничивает скачивание вложения импорта
const attachmentFetchTimeout = 30 * time.Second

// requireOperator закрывает обработчик от всех, кроме операторов.
// Возвращает false, если доступ запрещен и ответ уже отправлен.
func requireOperator(ctx types.Context) (bool, error) {
	if ctx.Deps.Permissions.IsOperator(ctx.MemberRoles()) {
		return true, nil
	}
	return false, ctx.Respond("このコマンドはオペレーターのみ実行できます。", true)
}

// confirmComponents собирает кнопки подтверждения для сессии
func confirmComponents(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "はい",
					Style:    discordgo.DangerButton,
					CustomID: "confirm:" + sessionID,
				},
				discordgo.Button{
					Label:    "キャンセル",
					Style:    discordgo.SecondaryButton,
					CustomID: "cancel:" + sessionID,
				},
			},
		},
	}
}

// fetchAttachment скачивает вложение команды импорта
func fetchAttachment(ctx types.Context, attachment *discordgo.MessageAttachment) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(context.Background(), attachmentFetchTimeout)
	defer cancel()

	file, err := ctx.Deps.CDN.Fetch(fetchCtx, attachment.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment %s: %w", attachment.Filename, err)
	}
	return file.Data, nil
}

// featureToggle включает или выключает автопостинг фичи
func featureToggle(ctx types.Context, feature, label string) error {
	enabled, ok := ctx.BoolOption("enabled")
	if !ok {
		return ctx.Respond("入力値が不正です。", true)
	}

	_, err := ctx.Deps.Settings.Update(feature, func(s model.FeatureSettings) model.FeatureSettings {
		s.Enabled = enabled
		return s
	})
	if err != nil {
		return fmt.Errorf("failed to persist %s settings: %w", feature, err)
	}

	state := "無効"
	if enabled {
		state = "有効"
	}
	return ctx.Respond(fmt.Sprintf("%sの定期投稿を%sにしました。", label, state), true)
}

// featureSchedule задает расписание автопостинга фичи.
// Смена расписания сбрасывает отметку последней публикации.
func featureSchedule(ctx types.Context, feature, label string) error {
	days, _ := ctx.IntOption("days")
	hour, hourOK := ctx.IntOption("hour")
	minute, minuteOK := ctx.IntOption("minute")

	if days < 1 || !hourOK || hour < 0 || hour > 23 || !minuteOK || minute < 0 || minute > 59 {
		return ctx.Respond("入力値が不正です。日数は1以上、時刻は0-23/0-59で指定してください。", true)
	}

	_, err := ctx.Deps.Settings.Update(feature, func(s model.FeatureSettings) model.FeatureSettings {
		s.Days = days
		s.Hour = hour
		s.Minute = minute
		s.LastPostedAt = nil
		s.LastPostedID = ""
		return s
	})
	if err != nil {
		return fmt.Errorf("failed to persist %s settings: %w", feature, err)
	}

	return ctx.Respond(
		fmt.Sprintf("%sの投稿スケジュールを %d日おき %02d:%02d に設定しました。", label, days, hour, minute), true)
}

// featureLabel возвращает японское название фичи для ответов
func featureLabel(feature string) string {
	switch feature {
	case model.FeatureBirthday:
		return "誕生日"
	case model.FeatureQuotes:
		return "名言"
	default:
		return feature
	}
}
