// Package types содержит общие типы бота: контекст интеракции,
// зависимости обработчиков и сигнатуры middleware.
package types

import (
	"funtools/internal/config"
	"funtools/internal/external/cdn"
	"funtools/internal/external/zircon"
	"funtools/internal/model"
	"funtools/internal/service"
	"funtools/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Dependencies содержит все зависимости обработчиков команд
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Settings    *storage.SettingsStore
	Overrides   *storage.OverrideStore
	Birthdays   *storage.Collection[model.Birthday]
	Quotes      *storage.Collection[model.Quote]
	Dictionary  *storage.Collection[model.DictionaryEntry]
	Permissions *service.Permissions
	Importer    *service.Importer
	Fortune     *service.Fortune
	Sessions    *service.SessionRegistry
	Scraper     *zircon.Scraper
	CDN         *cdn.Client
}

// HandlerFunc обрабатывает одну slash-команду
type HandlerFunc func(ctx Context) error

// Middleware оборачивает обработчик команды
type Middleware func(ctx Context, next HandlerFunc) error

// Context представляет контекст одной интеракции
type Context struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Deps        *Dependencies
}

// CommandName возвращает имя вызванной команды
func (c Context) CommandName() string {
	return c.Interaction.ApplicationCommandData().Name
}

// GuildID возвращает идентификатор гильдии, пустая строка для DM
func (c Context) GuildID() string {
	return c.Interaction.GuildID
}

// UserID возвращает идентификатор вызвавшего пользователя
func (c Context) UserID() string {
	if c.Interaction.Member != nil && c.Interaction.Member.User != nil {
		return c.Interaction.Member.User.ID
	}
	if c.Interaction.User != nil {
		return c.Interaction.User.ID
	}
	return ""
}

// Username возвращает отображаемое имя вызвавшего пользователя
func (c Context) Username() string {
	if c.Interaction.Member != nil && c.Interaction.Member.User != nil {
		return c.Interaction.Member.User.Username
	}
	if c.Interaction.User != nil {
		return c.Interaction.User.Username
	}
	return "unknown"
}

// MemberRoles возвращает роли участника, nil вне гильдии
func (c Context) MemberRoles() []string {
	if c.Interaction.Member == nil {
		return nil
	}
	return c.Interaction.Member.Roles
}

// options возвращает опции команды по имени
func (c Context) options() map[string]*discordgo.ApplicationCommandInteractionDataOption {
	data := c.Interaction.ApplicationCommandData()
	result := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		result[opt.Name] = opt
	}
	return result
}

// StringOption возвращает строковую опцию либо пустую строку
func (c Context) StringOption(name string) string {
	if opt, ok := c.options()[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// IntOption возвращает целочисленную опцию.
// ok ложен, когда опция не передана.
func (c Context) IntOption(name string) (int, bool) {
	if opt, ok := c.options()[name]; ok {
		return int(opt.IntValue()), true
	}
	return 0, false
}

// BoolOption возвращает булеву опцию
func (c Context) BoolOption(name string) (bool, bool) {
	if opt, ok := c.options()[name]; ok {
		return opt.BoolValue(), true
	}
	return false, false
}

// RoleOption возвращает идентификатор роли из опции
func (c Context) RoleOption(name string) string {
	if opt, ok := c.options()[name]; ok {
		if role, ok := opt.Value.(string); ok {
			return role
		}
	}
	return ""
}

// AttachmentOption возвращает вложение из опции
func (c Context) AttachmentOption(name string) *discordgo.MessageAttachment {
	opt, ok := c.options()[name]
	if !ok {
		return nil
	}
	id, ok := opt.Value.(string)
	if !ok {
		return nil
	}
	return c.Interaction.ApplicationCommandData().Resolved.Attachments[id]
}

// Respond отвечает на интеракцию текстом
func (c Context) Respond(content string, ephemeral bool) error {
	return c.Session.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: responseData(content, nil, ephemeral),
	})
}

// RespondEmbed отвечает на интеракцию embed-сообщением
func (c Context) RespondEmbed(embed *discordgo.MessageEmbed, ephemeral bool) error {
	return c.Session.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: responseData("", embed, ephemeral),
	})
}

// RespondWithComponents отвечает текстом с кнопками
func (c Context) RespondWithComponents(content string, components []discordgo.MessageComponent, ephemeral bool) error {
	data := responseData(content, nil, ephemeral)
	data.Components = components
	return c.Session.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Defer откладывает ответ на интеракцию
func (c Context) Defer(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return c.Session.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// Followup отправляет followup-сообщение после Defer
func (c Context) Followup(content string, ephemeral bool) error {
	params := &discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := c.Session.FollowupMessageCreate(c.Interaction.Interaction, true, params)
	return err
}

// FollowupEmbed отправляет followup-embed после Defer
func (c Context) FollowupEmbed(embed *discordgo.MessageEmbed, ephemeral bool) error {
	params := &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := c.Session.FollowupMessageCreate(c.Interaction.Interaction, true, params)
	return err
}

func responseData(content string, embed *discordgo.MessageEmbed, ephemeral bool) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{Content: content}
	if embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{embed}
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}
