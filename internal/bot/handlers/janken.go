package handlers

import (
	"fmt"

	"funtools/internal/bot/types"
	"funtools/internal/service"

	"github.com/bwmarrin/discordgo"
)

const colorJankenResult = 0x3498db

// jankenEmojis отображает руку на эмодзи ответа
var jankenEmojis = map[string]string{
	service.JankenRock:     "✊",
	service.JankenScissors: "✌️",
	service.JankenPaper:    "✋",
}

func handleJanken(ctx types.Context) error {
	return ctx.RespondWithComponents(
		"じゃんけんを始めます！\nグー、チョキ、パーのいずれかを選んでください。",
		jankenComponents(), false)
}

// jankenComponents собирает кнопки выбора руки.
// Идентификатор кнопки имеет вид "janken:<рука>", состояние партии
// не хранится: каждая кнопка разыгрывается независимо.
func jankenComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				jankenButton("✊ グー", service.JankenRock),
				jankenButton("✌️ チョキ", service.JankenScissors),
				jankenButton("✋ パー", service.JankenPaper),
			},
		},
	}
}

func jankenButton(label, hand string) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    discordgo.PrimaryButton,
		CustomID: "janken:" + hand,
	}
}

// HandleJankenChoice разыгрывает партию по нажатой кнопке
func HandleJankenChoice(ctx types.Context, hand string) error {
	if !service.ValidJankenHand(hand) {
		return ctx.Respond("エラーが発生しました。もう一度お試しください。", true)
	}

	botHand := service.RandomJankenHand()
	var verdict string
	switch service.JankenJudge(hand, botHand) {
	case service.JankenDraw:
		verdict = "引き分け！"
	case service.JankenPlayerWin:
		verdict = "あなたの勝ち！"
	default:
		verdict = "ボットの勝ち！"
	}

	embed := &discordgo.MessageEmbed{
		Title: "じゃんけんの結果",
		Description: fmt.Sprintf("あなた: %s\nボット: %s\n\n結果: %s",
			jankenEmojis[hand], jankenEmojis[botHand], verdict),
		Color: colorJankenResult,
	}
	return ctx.RespondEmbed(embed, false)
}
