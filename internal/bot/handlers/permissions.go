package handlers

import (
	"fmt"
	"sort"
	"strings"

	"funtools/internal/bot/types"

	"github.com/bwmarrin/discordgo"
)

const colorPermissions = 0x9b59b6

func handlePermitGrant(ctx types.Context) error {
	if ok, err := requireOperator(ctx); !ok {
		return err
	}
	if ctx.GuildID() == "" {
		return ctx.Respond("このコマンドはサーバー内でのみ実行できます。", true)
	}

	command := strings.TrimSpace(ctx.StringOption("command"))
	roleID := ctx.RoleOption("role")
	if command == "" || roleID == "" {
		return ctx.Respond("コマンド名とロールを指定してください。", true)
	}

	if err := ctx.Deps.Overrides.Grant(ctx.GuildID(), command, roleID); err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return ctx.Respond(
		fmt.Sprintf("コマンド「%s」の実行権限を <@&%s> に付与しました。", command, roleID), true)
}

func handlePermitRevoke(ctx types.Context) error {
	if ok, err := requireOperator(ctx); !ok {
		return err
	}
	if ctx.GuildID() == "" {
		return ctx.Respond("このコマンドはサーバー内でのみ実行できます。", true)
	}

	command := strings.TrimSpace(ctx.StringOption("command"))
	roleID := ctx.RoleOption("role")
	if command == "" || roleID == "" {
		return ctx.Respond("コマンド名とロールを指定してください。", true)
	}

	if err := ctx.Deps.Overrides.Revoke(ctx.GuildID(), command, roleID); err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	return ctx.Respond(
		fmt.Sprintf("コマンド「%s」の実行権限を <@&%s> から取り消しました。", command, roleID), true)
}

func handlePermitList(ctx types.Context) error {
	if ok, err := requireOperator(ctx); !ok {
		return err
	}
	if ctx.GuildID() == "" {
		return ctx.Respond("このコマンドはサーバー内でのみ実行できます。", true)
	}

	overrides := ctx.Deps.Overrides.List(ctx.GuildID())
	if len(overrides) == 0 {
		return ctx.Respond("このサーバーに権限設定はありません。", true)
	}

	commands := make([]string, 0, len(overrides))
	for command := range overrides {
		commands = append(commands, command)
	}
	sort.Strings(commands)

	embed := &discordgo.MessageEmbed{
		Title: "🔐 権限設定一覧",
		Color: colorPermissions,
	}
	for _, command := range commands {
		mentions := make([]string, 0, len(overrides[command]))
		for _, roleID := range overrides[command] {
			mentions = append(mentions, fmt.Sprintf("<@&%s>", roleID))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   command,
			Value:  strings.Join(mentions, " "),
			Inline: false,
		})
	}
	return ctx.RespondEmbed(embed, true)
}
