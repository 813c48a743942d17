package handlers

import (
	"fmt"
	"math/rand"
	"time"

	"funtools/internal/bot/types"
	"funtools/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	maxOracleChoices = 100
	colorWinner      = 0xf1c40f

	// Паузы взяты из исходного сценария розыгрыша
	oracleDelay        = 3 * time.Second
	lotteryStartDelay  = 2 * time.Second
	lotteryWinnerDelay = 15 * time.Second
)

func handleFortune(ctx types.Context) error {
	result := ctx.Deps.Fortune.Draw()

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("✨ %s ✨", result.Grade),
		Description: result.Description,
		Color:       result.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "アドバイス", Value: result.Advice, Inline: false},
			{Name: "健康運", Value: result.Health, Inline: true},
			{Name: "恋愛運", Value: result.Love, Inline: true},
			{Name: "仕事運", Value: result.Work, Inline: true},
			{Name: "ラッキーアイテム", Value: result.LuckyItem, Inline: true},
			{Name: "ラッキーカラー", Value: result.LuckyColor, Inline: true},
			{Name: "ラッキーナンバー", Value: fmt.Sprintf("%d", result.LuckyNumber), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("引いた日: %s", time.Now().In(ctx.Deps.Config.Location()).Format("2006年01月02日")),
		},
	}
	return ctx.RespondEmbed(embed, false)
}

var oracleMessages = []string{
	"うーん...%d個の選択肢の中から、%d番目が一番良さそうですね！",
	"私の直感では、%d個のうち%d番目の選択肢が運気が強いようです✨",
	"あっ！%dつの中で%d番目が光って見えます！これが正解です！",
	"ふむふむ...%d個の選択肢をじっくり見てみると、%d番目が気になりますね。",
	"私の水晶玉が%d個のうち%d番目の選択肢を示しています🔮",
	"占いの結果...%d個の中では%d番目があなたにぴったりです！",
	"星の導きによると、%d個のうち%d番目が最良です⭐",
	"%d個の中で、%d番目が一番輝いています！",
}

func handleOracle(ctx types.Context) error {
	choices, _ := ctx.IntOption("choices")
	if choices < 1 || choices > maxOracleChoices {
		return ctx.Respond(
			fmt.Sprintf("選択肢の数は1以上%d以下で指定してください。", maxOracleChoices), true)
	}

	if err := ctx.Respond(fmt.Sprintf("%d個の選択肢から占います...", choices), false); err != nil {
		return err
	}

	time.Sleep(oracleDelay)

	selected := rand.Intn(choices) + 1
	message := fmt.Sprintf(oracleMessages[rand.Intn(len(oracleMessages))], choices, selected)
	return ctx.Followup(message, false)
}

func handleLottery(ctx types.Context) error {
	if ctx.GuildID() == "" {
		return ctx.Respond("このコマンドはサーバー内でのみ実行できます。", true)
	}

	roleID := ctx.RoleOption("role")
	count, _ := ctx.IntOption("count")
	if roleID == "" {
		return ctx.Respond("抽選対象のロールを指定してください。", true)
	}
	if count < 1 || count > ctx.Deps.Config.LotteryMax {
		return ctx.Respond(
			fmt.Sprintf("抽選人数は1～%d人で指定してください。", ctx.Deps.Config.LotteryMax), true)
	}

	members, err := membersWithRole(ctx.Session, ctx.GuildID(), roleID)
	if err != nil {
		return fmt.Errorf("failed to list role members: %w", err)
	}
	if len(members) < count {
		return ctx.Respond(
			fmt.Sprintf("対象ロールのメンバーが%d人未満です。", count), true)
	}

	// Подтверждение перед длинной церемонией розыгрыша
	sessionID := uuid.NewString()
	session := ctx.Deps.Sessions.Register(sessionID)
	defer ctx.Deps.Sessions.Remove(sessionID)

	prompt := fmt.Sprintf("🎉 抽選を開始しますか？\n対象ロール: <@&%s>\n対象者: %d人\n抽選人数: %d人",
		roleID, len(members), count)
	if err := ctx.RespondWithComponents(prompt, confirmComponents(sessionID), false); err != nil {
		return err
	}

	switch session.Wait(ctx.Deps.Config.ConfirmTimeout) {
	case service.StateConfirmed:
		// Продолжаем
	case service.StateCancelled:
		return ctx.Followup("抽選をキャンセルしました。", false)
	default:
		return ctx.Followup("時間切れのため抽選をキャンセルしました。", false)
	}

	rand.Shuffle(len(members), func(i, j int) {
		members[i], members[j] = members[j], members[i]
	})
	selected := members[:count]

	if err := ctx.Followup("🎉 抽選を開始します！\n抽選は順番に発表されます。お楽しみに！", false); err != nil {
		return err
	}
	time.Sleep(lotteryStartDelay)

	channelID := ctx.Interaction.ChannelID
	for i, member := range selected {
		if _, err := ctx.Session.ChannelMessageSend(channelID, fmt.Sprintf("【%d人目！】", i+1)); err != nil {
			return fmt.Errorf("failed to announce draw %d: %w", i+1, err)
		}

		// Трехсекундный отсчет, каждая цифра удаляется после показа
		for sec := 3; sec >= 1; sec-- {
			msg, err := ctx.Session.ChannelMessageSend(channelID, fmt.Sprintf("…%d…", sec))
			if err != nil {
				return fmt.Errorf("failed to send countdown: %w", err)
			}
			time.Sleep(time.Second)
			if err := ctx.Session.ChannelMessageDelete(channelID, msg.ID); err != nil {
				ctx.Deps.Logger.Debug("Failed to delete countdown message")
			}
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🎊 当選者発表！",
			Description: fmt.Sprintf("✨ **<@%s>** さん、おめでとうございます！ 🎉", member.User.ID),
			Color:       colorWinner,
		}
		if _, err := ctx.Session.ChannelMessageSendEmbed(channelID, embed); err != nil {
			return fmt.Errorf("failed to announce winner %d: %w", i+1, err)
		}
		if i != count-1 {
			time.Sleep(lotteryWinnerDelay)
		}
	}

	_, err = ctx.Session.ChannelMessageSend(channelID, "🎉 全ての抽選が終了しました！おめでとうございます！")
	return err
}

// membersWithRole собирает участников гильдии с ролью, исключая ботов
func membersWithRole(session *discordgo.Session, guildID, roleID string) ([]*discordgo.Member, error) {
	var result []*discordgo.Member
	after := ""
	for {
		page, err := session.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, member := range page {
			if member.User == nil || member.User.Bot {
				continue
			}
			for _, role := range member.Roles {
				if role == roleID {
					result = append(result, member)
					break
				}
			}
		}
		after = page[len(page)-1].User.ID
		if len(page) < 1000 {
			break
		}
	}
	return result, nil
}
