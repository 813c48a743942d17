package handlers

import (
	"fmt"
	"time"

	"funtools/internal/bot/types"
	"funtools/internal/model"

	"github.com/bwmarrin/discordgo"
)

const (
	quotesPerPage   = 10
	colorQuoteList  = 0x3498db
	colorQuoteFound = 0x1abc9c
)

func handleQuote(ctx types.Context) error {
	keyword := ctx.StringOption("keyword")
	if keyword == "" {
		return quoteList(ctx)
	}
	return quoteSearch(ctx, keyword)
}

func quoteList(ctx types.Context) error {
	quotes := ctx.Deps.Quotes.All()
	if len(quotes) == 0 {
		return ctx.Respond("名言はまだ登録されていません。", true)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📝 名言一覧",
		Description: fmt.Sprintf("登録数: %d 件", len(quotes)),
		Color:       colorQuoteList,
	}
	appendQuoteFields(embed, quotes)
	if len(quotes) > quotesPerPage {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("※ 全 %d 件中、先頭 %d 件を表示しています。絞り込むにはキーワードを指定してください。", len(quotes), quotesPerPage),
		}
	}
	return ctx.RespondEmbed(embed, true)
}

func quoteSearch(ctx types.Context, keyword string) error {
	matches := ctx.Deps.Quotes.Find(func(q model.Quote) bool {
		return q.MatchesKeyword(keyword)
	})
	if len(matches) == 0 {
		return ctx.Respond("該当する名言は見つかりませんでした。", true)
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🔍 検索結果 (%d件)", len(matches)),
		Color: colorQuoteFound,
	}
	appendQuoteFields(embed, matches)
	if len(matches) > quotesPerPage {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("先頭 %d 件のみ表示。残り %d 件はキーワードをより詳細にしてください。", quotesPerPage, len(matches)-quotesPerPage),
		}
	}
	return ctx.RespondEmbed(embed, true)
}

func appendQuoteFields(embed *discordgo.MessageEmbed, quotes []model.Quote) {
	for i, quote := range quotes {
		if i == quotesPerPage {
			break
		}
		speaker := quote.Speaker
		if speaker == "" {
			speaker = "不明"
		}
		value := quote.Text
		if quote.CharacterID != "" {
			value = fmt.Sprintf("%s（#%s）", quote.Text, quote.CharacterID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (ID: %s)", speaker, quote.ID),
			Value:  value,
			Inline: false,
		})
	}
}

func handleQuoteUpdate(ctx types.Context) error {
	attachment := ctx.AttachmentOption("file")
	if attachment == nil {
		return ctx.Respond("ファイルが見つかりませんでした。", true)
	}

	if err := ctx.Defer(true); err != nil {
		return err
	}

	data, err := fetchAttachment(ctx, attachment)
	if err != nil {
		return fmt.Errorf("failed to read update file: %w", err)
	}

	quotes, summary, err := ctx.Deps.Importer.ParseQuotes(data, attachment.Filename, ctx.UserID(), time.Now())
	if err != nil {
		return ctx.Followup("対応形式: .json, .csv（ファイル内容を確認してください）。", true)
	}
	if len(quotes) == 0 {
		return ctx.Followup("データが見つかりませんでした。", true)
	}

	// Полная замена коллекции
	if err := ctx.Deps.Quotes.BulkReplace(quotes); err != nil {
		return fmt.Errorf("failed to replace quotes: %w", err)
	}

	message := fmt.Sprintf("名言データを全置換しました (%d件)。", len(quotes))
	if summary.Invalid > 0 {
		message = fmt.Sprintf("%s 無効な行: %d件。", message, summary.Invalid)
	}
	return ctx.Followup(message, true)
}

func handleQuoteToggle(ctx types.Context) error {
	return featureToggle(ctx, model.FeatureQuotes, featureLabel(model.FeatureQuotes))
}

func handleQuoteSchedule(ctx types.Context) error {
	return featureSchedule(ctx, model.FeatureQuotes, featureLabel(model.FeatureQuotes))
}
