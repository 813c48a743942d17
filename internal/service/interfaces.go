// Package service содержит бизнес-логику бота: проверку прав,
// планировщик автопостинга и импорт записей.
package service

import "github.com/bwmarrin/discordgo"

// ChannelSender отправляет сообщения в канал. Реализуется Discord-клиентом.
type ChannelSender interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// RoleResolver возвращает роли участника гильдии. Реализуется Discord-клиентом.
type RoleResolver interface {
	MemberRoles(guildID, userID string) ([]string, error)
}
