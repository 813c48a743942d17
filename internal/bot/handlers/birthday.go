package handlers

import (
	"fmt"
	"sort"
	"strings"

	"funtools/internal/bot/types"
	"funtools/internal/model"
	"funtools/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const colorBirthdayList = 0xffc0cb

func handleAddBirthday(ctx types.Context) error {
	month, _ := ctx.IntOption("month")
	day, _ := ctx.IntOption("day")

	record := model.Birthday{
		Name:        strings.TrimSpace(ctx.StringOption("name")),
		Month:       month,
		Day:         day,
		CharacterID: ctx.StringOption("character_id"),
	}

	if err := record.Validate(); err != nil {
		return ctx.Respond("無効な日付です。月は1-12、日は1-31の範囲で指定してください。", true)
	}

	// Ошибка после валидации — хранилище, а не ввод пользователя
	added, err := ctx.Deps.Birthdays.Add(record)
	if err != nil {
		return fmt.Errorf("failed to add birthday: %w", err)
	}

	return ctx.Respond(
		fmt.Sprintf("誕生日を登録しました：%s（%d月%d日） ID: %s", added.Name, added.Month, added.Day, added.ID), true)
}

func handleListBirthdays(ctx types.Context) error {
	records := ctx.Deps.Birthdays.All()
	if len(records) == 0 {
		return ctx.Respond("登録されている誕生日はありません。", true)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Month != records[j].Month {
			return records[i].Month < records[j].Month
		}
		return records[i].Day < records[j].Day
	})

	embed := &discordgo.MessageEmbed{
		Title:       "🎂 誕生日一覧",
		Description: "登録されている誕生日の一覧です",
		Color:       colorBirthdayList,
	}
	// Discord ограничивает embed 25 полями
	const maxFields = 25
	for i, record := range records {
		if i == maxFields {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("全 %d 件中、先頭 %d 件を表示しています。", len(records), maxFields),
			}
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   record.Name,
			Value:  fmt.Sprintf("%d月%d日 (ID: %s)", record.Month, record.Day, record.ID),
			Inline: false,
		})
	}
	return ctx.RespondEmbed(embed, false)
}

func handleEditBirthday(ctx types.Context) error {
	id := ctx.StringOption("id")
	name := ctx.StringOption("name")
	month, monthOK := ctx.IntOption("month")
	day, dayOK := ctx.IntOption("day")

	if name == "" && !monthOK && !dayOK {
		return ctx.Respond("変更する項目を少なくとも1つ指定してください。", true)
	}

	updated, found, err := ctx.Deps.Birthdays.Update(id, func(b model.Birthday) model.Birthday {
		if name != "" {
			b.Name = strings.TrimSpace(name)
		}
		// Смена даты снимает отметку «сообщено»: новая дата анонсируется заново
		if monthOK && b.Month != month {
			b.Month = month
			b.Reported = false
		}
		if dayOK && b.Day != day {
			b.Day = day
			b.Reported = false
		}
		return b
	})
	if err != nil {
		return fmt.Errorf("failed to update birthday %s: %w", id, err)
	}
	if !found {
		return ctx.Respond("指定されたIDの誕生日が見つかりませんでした。", true)
	}

	return ctx.Respond(
		fmt.Sprintf("誕生日を更新しました：%s（%d月%d日）", updated.Name, updated.Month, updated.Day), true)
}

func handleRemoveBirthday(ctx types.Context) error {
	id := ctx.StringOption("id")
	record, found := ctx.Deps.Birthdays.Get(id)
	if !found {
		return ctx.Respond("指定されたIDの誕生日が見つかりませんでした。", true)
	}

	sessionID := uuid.NewString()
	session := ctx.Deps.Sessions.Register(sessionID)
	defer ctx.Deps.Sessions.Remove(sessionID)

	prompt := fmt.Sprintf("「%s」（%d月%d日）を削除しますか？", record.Name, record.Month, record.Day)
	if err := ctx.RespondWithComponents(prompt, confirmComponents(sessionID), true); err != nil {
		return err
	}

	switch session.Wait(ctx.Deps.Config.ConfirmTimeout) {
	case service.StateConfirmed:
		if _, removed, err := ctx.Deps.Birthdays.RemoveByID(id); err != nil {
			return fmt.Errorf("failed to remove birthday %s: %w", id, err)
		} else if !removed {
			return ctx.Followup("指定されたIDの誕生日が見つかりませんでした。", true)
		}
		return ctx.Followup(fmt.Sprintf("「%s」の誕生日を削除しました。", record.Name), true)
	case service.StateCancelled:
		return ctx.Followup("削除をキャンセルしました。", true)
	default:
		return ctx.Followup("時間切れのため削除をキャンセルしました。", true)
	}
}

func handleImportBirthdays(ctx types.Context) error {
	attachment := ctx.AttachmentOption("file")
	if attachment == nil {
		return ctx.Respond("ファイルが見つかりませんでした。", true)
	}

	if err := ctx.Defer(true); err != nil {
		return err
	}

	data, err := fetchAttachment(ctx, attachment)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	existing := ctx.Deps.Birthdays.ExistingKeys(func(b model.Birthday) string { return b.Name })
	records, summary, err := ctx.Deps.Importer.ParseBirthdays(data, attachment.Filename,
		func(b model.Birthday) string { return b.Name }, existing)
	if err != nil {
		return ctx.Followup("対応形式: .json, .csv（ファイル内容を確認してください）。", true)
	}

	if len(records) > 0 {
		if err := ctx.Deps.Birthdays.Append(records); err != nil {
			return fmt.Errorf("failed to save imported birthdays: %w", err)
		}
	}

	return ctx.Followup(fmt.Sprintf("誕生日データを取り込みました。%s", summary.String()), true)
}

func handleBirthdayToggle(ctx types.Context) error {
	return featureToggle(ctx, model.FeatureBirthday, featureLabel(model.FeatureBirthday))
}

func handleBirthdaySchedule(ctx types.Context) error {
	return featureSchedule(ctx, model.FeatureBirthday, featureLabel(model.FeatureBirthday))
}
