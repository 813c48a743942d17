// Package discord содержит интеграцию с Discord Gateway API.
package discord

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Client представляет клиент Discord API
type Client struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewClient создает новый клиент Discord
func NewClient(botToken string, logger *zap.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	// GuildMembers нужен для выборки участников роли при розыгрыше
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers

	return &Client{
		session: session,
		logger:  logger,
	}, nil
}

// Session возвращает низкоуровневую сессию для регистрации обработчиков
func (c *Client) Session() *discordgo.Session {
	return c.session
}

// Open открывает websocket соединение с Gateway
func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	c.logger.Info("Discord gateway connected",
		zap.String("username", c.session.State.User.Username))
	return nil
}

// Close закрывает соединение с Gateway
func (c *Client) Close() error {
	return c.session.Close()
}

// SendEmbed отправляет embed в канал
func (c *Client) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := c.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}
	return nil
}

// SendMessage отправляет текстовое сообщение в канал
func (c *Client) SendMessage(channelID, content string) error {
	if _, err := c.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return nil
}

// SendFile отправляет файл с подписью в канал
func (c *Client) SendFile(channelID, filename string, data []byte, content string) error {
	_, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Files: []*discordgo.File{
			{Name: filename, Reader: bytes.NewReader(data)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send file to channel %s: %w", channelID, err)
	}
	return nil
}

// MemberRoles возвращает роли участника гильдии.
// Сначала проверяется кэш состояния, затем REST API.
func (c *Client) MemberRoles(guildID, userID string) ([]string, error) {
	if member, err := c.session.State.Member(guildID, userID); err == nil {
		return member.Roles, nil
	}

	member, err := c.session.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild member %s: %w", userID, err)
	}
	return member.Roles, nil
}
