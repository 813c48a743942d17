package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"funtools/internal/bot/types"
	"funtools/internal/external/zircon"

	"github.com/bwmarrin/discordgo"
)

const colorPoster = 0x1abc9c

func handlePoster(ctx types.Context) error {
	number := strings.TrimSpace(ctx.StringOption("number"))
	if number == "" {
		return ctx.Respond("キャラクターの番号を入力してください。", true)
	}

	if err := ctx.Defer(false); err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(context.Background(), attachmentFetchTimeout)
	defer cancel()

	profile, err := ctx.Deps.Scraper.FetchProfile(fetchCtx, number)
	if err != nil {
		ctx.Deps.Logger.Warn("Failed to fetch character profile")
		return ctx.Followup("キャラクター情報の取得に失敗しました。番号が正しいかご確認ください。", false)
	}

	image, err := ctx.Deps.CDN.FetchImage(fetchCtx, number)
	if err != nil {
		ctx.Deps.Logger.Warn("Failed to fetch character image")
		return ctx.Followup("キャラクター画像の取得に失敗しました。番号が正しいかご確認ください。", false)
	}

	embed := &discordgo.MessageEmbed{
		Title:  profile.Name,
		Color:  colorPoster,
		Image:  &discordgo.MessageEmbedImage{URL: "attachment://" + image.Filename},
		Fields: posterFields(profile),
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("No. %s", number)},
	}

	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Files: []*discordgo.File{
			{Name: image.Filename, Reader: bytes.NewReader(image.Data)},
		},
	}
	if _, err := ctx.Session.FollowupMessageCreate(ctx.Interaction.Interaction, true, params); err != nil {
		return fmt.Errorf("failed to send poster: %w", err)
	}
	return nil
}

// posterFields пропускает пустые поля профиля
func posterFields(profile *zircon.Profile) []*discordgo.MessageEmbedField {
	pairs := [][2]string{
		{"出身", profile.Country},
		{"特技", profile.Skill},
		{"性格", profile.Personality},
		{"目標", profile.Goal},
		{"一人称", profile.FirstPerson},
		{"ニックネーム", profile.Nickname},
		{"セリフ", profile.Lines},
		{"弱点", profile.Weakness},
	}
	var fields []*discordgo.MessageEmbedField
	for _, pair := range pairs {
		if pair[1] == "" {
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: pair[0], Value: pair[1], Inline: true})
	}
	return fields
}
