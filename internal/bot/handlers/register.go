// Package handlers содержит обработчики slash-команд бота.
package handlers

import (
	"funtools/internal/bot/router"
	"funtools/internal/bot/types"

	"github.com/bwmarrin/discordgo"
)

// RegisterRoutes регистрирует все обработчики команд
func RegisterRoutes(r *router.Router, deps *types.Dependencies) {
	deps.Logger.Debug("Registering command routes")

	// Дни рождения
	r.Handle("addbirthday", handleAddBirthday)
	r.Handle("birthdays", handleListBirthdays)
	r.Handle("editbirthday", handleEditBirthday)
	r.Handle("removebirthday", handleRemoveBirthday)
	r.Handle("importbirthdays", handleImportBirthdays)
	r.Handle("birthday_toggle", handleBirthdayToggle)
	r.Handle("birthday_schedule", handleBirthdaySchedule)

	// Цитаты
	r.Handle("quote", handleQuote)
	r.Handle("quote_update", handleQuoteUpdate)
	r.Handle("quote_toggle", handleQuoteToggle)
	r.Handle("quote_schedule", handleQuoteSchedule)

	// Права
	r.Handle("permit_grant", handlePermitGrant)
	r.Handle("permit_revoke", handlePermitRevoke)
	r.Handle("permit_list", handlePermitList)

	// Администрирование
	r.Handle("feature", handleFeature)
	r.Handle("status", makeStatusHandler(r))

	// Словарь
	r.Handle("addword", handleAddWord)
	r.Handle("search", handleSearchWord)
	r.Handle("deleteword", handleDeleteWord)
	r.Handle("listwords", handleListWords)

	// Развлечения
	r.Handle("fortune", handleFortune)
	r.Handle("oracle", handleOracle)
	r.Handle("janken", handleJanken)
	r.Handle("lottery", handleLottery)
	r.Handle("poster", handlePoster)

	deps.Logger.Debug("Command routes registered successfully")
}

// Definitions возвращает определения slash-команд для регистрации в Discord
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "addbirthday",
			Description: "誕生日を登録します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "名前", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "month", Description: "月（1-12）", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "day", Description: "日（1-31）", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "character_id", Description: "キャラクター番号", Required: false},
			},
		},
		{
			Name:        "birthdays",
			Description: "登録されている誕生日の一覧を表示します",
		},
		{
			Name:        "editbirthday",
			Description: "登録済みの誕生日を編集します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "レコードID", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "名前", Required: false},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "month", Description: "月（1-12）", Required: false},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "day", Description: "日（1-31）", Required: false},
			},
		},
		{
			Name:        "removebirthday",
			Description: "登録済みの誕生日を削除します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "レコードID", Required: true},
			},
		},
		{
			Name:        "importbirthdays",
			Description: "ファイルから誕生日データを一括登録します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionAttachment, Name: "file", Description: "登録用ファイル（CSV/JSON）", Required: true},
			},
		},
		{
			Name:        "birthday_toggle",
			Description: "誕生日の定期投稿をON/OFFします",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "true で有効化、false で無効化", Required: true},
			},
		},
		{
			Name:        "birthday_schedule",
			Description: "誕生日の定期投稿スケジュールを設定します",
			Options:     scheduleOptions(),
		},
		{
			Name:        "quote",
			Description: "名言の確認（一覧表示または検索）",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "keyword", Description: "検索したいキーワード（指定しない場合は一覧表示）", Required: false},
			},
		},
		{
			Name:        "quote_update",
			Description: "ファイルから名言データを一括更新します（全置換）",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionAttachment, Name: "file", Description: "更新用ファイル（CSV/JSON）", Required: true},
			},
		},
		{
			Name:        "quote_toggle",
			Description: "名言の定期投稿をON/OFFします",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "true で有効化、false で無効化", Required: true},
			},
		},
		{
			Name:        "quote_schedule",
			Description: "名言の定期投稿スケジュールを設定します",
			Options:     scheduleOptions(),
		},
		{
			Name:        "permit_grant",
			Description: "ロールにコマンドの実行権限を付与します",
			Options:     permitOptions(true),
		},
		{
			Name:        "permit_revoke",
			Description: "ロールからコマンドの実行権限を取り消します",
			Options:     permitOptions(true),
		},
		{
			Name:        "permit_list",
			Description: "このサーバーの権限設定を一覧表示します",
		},
		{
			Name:        "feature",
			Description: "特定の機能を有効化/無効化します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "feature", Description: "機能名", Required: true},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "status", Description: "有効化する場合はTrue、無効化する場合はFalse", Required: true},
			},
		},
		{
			Name:        "status",
			Description: "各機能の現在の状態を表示します",
		},
		{
			Name:        "addword",
			Description: "新しい単語を辞書に追加します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "word", Description: "追加する単語", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "meaning", Description: "単語の意味", Required: true},
			},
		},
		{
			Name:        "search",
			Description: "単語を検索します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "word", Description: "検索する単語", Required: true},
			},
		},
		{
			Name:        "deleteword",
			Description: "単語を辞書から削除します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "word", Description: "削除する単語", Required: true},
			},
		},
		{
			Name:        "listwords",
			Description: "辞書に登録されている単語の一覧を表示します",
		},
		{
			Name:        "fortune",
			Description: "おみくじを引きます",
		},
		{
			Name:        "oracle",
			Description: "選択肢のアドバイスをします",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "choices", Description: "選択肢の数", Required: true},
			},
		},
		{
			Name:        "janken",
			Description: "じゃんけんゲームを開始します",
		},
		{
			Name:        "lottery",
			Description: "指定したロールから指定人数を順番に抽選します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "抽選対象のロール", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "抽選する人数（1以上、最大50人）", Required: true},
			},
		},
		{
			Name:        "poster",
			Description: "キャラクターカードを表示します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "number", Description: "キャラクターの番号を入力してください", Required: true},
			},
		},
	}
}

func scheduleOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "days", Description: "何日おきに投稿するか (1以上の整数)", Required: true},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "hour", Description: "投稿時刻 (0-23)", Required: true},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "minute", Description: "投稿時刻 (0-59)", Required: true},
	}
}

func permitOptions(required bool) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionString, Name: "command", Description: "コマンド名", Required: required},
		{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "対象ロール", Required: required},
	}
}
