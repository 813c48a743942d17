package handlers

import (
	"fmt"
	"sort"
	"strings"

	"funtools/internal/bot/types"
	"funtools/internal/model"
	"funtools/internal/service"

	"github.com/bwmarrin/discordgo"
)

const (
	colorDictionary  = 0x3498db
	colorSuggestions = 0xe67e22
	colorWordList    = 0x2ecc71
	wordsPerPage     = 10
)

func handleAddWord(ctx types.Context) error {
	word := strings.TrimSpace(ctx.StringOption("word"))
	meaning := strings.TrimSpace(ctx.StringOption("meaning"))

	if _, exists := findWord(ctx, word); exists {
		return ctx.Respond(fmt.Sprintf("単語「%s」は既に辞書に登録されています。", word), true)
	}

	_, err := ctx.Deps.Dictionary.Add(model.DictionaryEntry{
		Word:       word,
		Definition: meaning,
		AddedBy:    ctx.UserID(),
	})
	if err != nil {
		return ctx.Respond("単語と意味を入力してください。", true)
	}
	return ctx.Respond(fmt.Sprintf("単語「%s」を辞書に追加しました！", word), false)
}

func handleSearchWord(ctx types.Context) error {
	word := strings.TrimSpace(ctx.StringOption("word"))

	if entry, found := findWord(ctx, word); found {
		return ctx.RespondEmbed(&discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔍 %s", entry.Word),
			Description: entry.Definition,
			Color:       colorDictionary,
		}, false)
	}

	// Нечеткий поиск близких слов
	entries := ctx.Deps.Dictionary.All()
	words := make([]string, len(entries))
	for i, entry := range entries {
		words[i] = entry.Word
	}
	matches := service.CloseMatches(word, words, 3, 0.6)
	if len(matches) == 0 {
		return ctx.Respond(fmt.Sprintf("「%s」に一致する単語が見つかりませんでした。", word), false)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🔍 検索結果",
		Description: fmt.Sprintf("「%s」に近い単語が見つかりました：", word),
		Color:       colorSuggestions,
	}
	for _, match := range matches {
		if entry, found := findWord(ctx, match); found {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   entry.Word,
				Value:  entry.Definition,
				Inline: false,
			})
		}
	}
	return ctx.RespondEmbed(embed, false)
}

func handleDeleteWord(ctx types.Context) error {
	word := strings.TrimSpace(ctx.StringOption("word"))

	entry, found := findWord(ctx, word)
	if !found {
		return ctx.Respond(fmt.Sprintf("「%s」は辞書に存在しません。", word), false)
	}

	if _, removed, err := ctx.Deps.Dictionary.RemoveByID(entry.ID); err != nil {
		return fmt.Errorf("failed to remove word %s: %w", word, err)
	} else if !removed {
		return ctx.Respond(fmt.Sprintf("「%s」は辞書に存在しません。", word), false)
	}
	return ctx.Respond(fmt.Sprintf("単語「%s」を辞書から削除しました。", word), false)
}

func handleListWords(ctx types.Context) error {
	entries := ctx.Deps.Dictionary.All()
	if len(entries) == 0 {
		return ctx.Respond("辞書に登録されている単語はありません。", false)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Word < entries[j].Word
	})

	embed := &discordgo.MessageEmbed{
		Title:       "📚 辞書一覧",
		Description: "登録されている単語の一覧です",
		Color:       colorWordList,
	}

	totalPages := (len(entries) + wordsPerPage - 1) / wordsPerPage
	for i := 0; i < len(entries); i += wordsPerPage {
		end := i + wordsPerPage
		if end > len(entries) {
			end = len(entries)
		}
		var list strings.Builder
		for _, entry := range entries[i:end] {
			list.WriteString(fmt.Sprintf("• %s\n", entry.Word))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("ページ %d/%d", i/wordsPerPage+1, totalPages),
			Value:  list.String(),
			Inline: false,
		})
	}
	return ctx.RespondEmbed(embed, false)
}

// findWord ищет слово точным совпадением без учета регистра
func findWord(ctx types.Context, word string) (model.DictionaryEntry, bool) {
	matches := ctx.Deps.Dictionary.Find(func(e model.DictionaryEntry) bool {
		return strings.EqualFold(e.Word, word)
	})
	if len(matches) == 0 {
		return model.DictionaryEntry{}, false
	}
	return matches[0], true
}
