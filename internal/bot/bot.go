// Package bot связывает Discord-клиент, маршрутизатор команд и сервисы.
package bot

import (
	"fmt"
	"strings"

	"funtools/internal/bot/handlers"
	"funtools/internal/bot/middleware"
	"funtools/internal/bot/router"
	"funtools/internal/bot/types"
	"funtools/internal/external/discord"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot представляет запущенный экземпляр бота
type Bot struct {
	client *discord.Client
	router *router.Router
	deps   *types.Dependencies
	logger *zap.Logger
}

// New создает бота и регистрирует обработчики интеракций
func New(client *discord.Client, deps *types.Dependencies) *Bot {
	r := router.NewRouter()
	r.Use(middleware.LogRequest)
	r.Use(middleware.ErrorHandler)
	r.Use(middleware.Permission)
	handlers.RegisterRoutes(r, deps)

	b := &Bot{
		client: client,
		router: r,
		deps:   deps,
		logger: deps.Logger,
	}

	client.Session().AddHandler(b.onInteraction)
	return b
}

// Router возвращает маршрутизатор команд
func (b *Bot) Router() *router.Router {
	return b.router
}

// Start открывает соединение с Gateway и регистрирует slash-команды
func (b *Bot) Start() error {
	if err := b.client.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		b.client.Close()
		return err
	}

	b.logger.Info("Bot started",
		zap.Int("commands", len(b.router.GetRegisteredCommands())))
	return nil
}

// Stop закрывает соединение с Gateway
func (b *Bot) Stop() error {
	b.logger.Info("Bot stopping")
	return b.client.Close()
}

// registerCommands перезаписывает slash-команды приложения.
// При заданном GuildID команды регистрируются в рамках гильдии,
// что применяет изменения без часовой задержки глобальной регистрации.
func (b *Bot) registerCommands() error {
	session := b.client.Session()
	appID := session.State.User.ID

	definitions := handlers.Definitions()
	registered, err := session.ApplicationCommandBulkOverwrite(appID, b.deps.Config.GuildID, definitions)
	if err != nil {
		return fmt.Errorf("failed to register application commands: %w", err)
	}

	b.logger.Info("Application commands registered",
		zap.Int("count", len(registered)),
		zap.String("guild_id", b.deps.Config.GuildID))
	return nil
}

// onInteraction маршрутизирует входящие интеракции
func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		ctx := types.Context{Session: s, Interaction: i, Deps: b.deps}
		// Обработчики с диалогами и паузами блокируются надолго,
		// поэтому каждая команда обрабатывается в своей горутине
		go func() {
			if err := b.router.Dispatch(ctx); err != nil {
				b.logger.Error("Command dispatch failed",
					zap.String("command", ctx.CommandName()),
					zap.Error(err))
			}
		}()
	case discordgo.InteractionMessageComponent:
		b.onComponent(s, i)
	}
}

// onComponent обрабатывает нажатия кнопок подтверждения.
// Идентификатор кнопки имеет вид "confirm:<sessionID>" или "cancel:<sessionID>".
func (b *Bot) onComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	action, arg, ok := strings.Cut(customID, ":")
	if !ok {
		b.logger.Warn("Received component with malformed custom id",
			zap.String("custom_id", customID))
		return
	}

	// Кнопки дзянкена не привязаны к сессии: партия разыгрывается сразу
	if action == "janken" {
		ctx := types.Context{Session: s, Interaction: i, Deps: b.deps}
		if err := handlers.HandleJankenChoice(ctx, arg); err != nil {
			b.logger.Error("Janken round failed", zap.Error(err))
		}
		return
	}

	session, found := b.deps.Sessions.Get(arg)
	if !found {
		// Сессия уже завершилась, кнопка устарела
		b.ackComponent(s, i)
		return
	}

	switch action {
	case "confirm":
		session.Confirm()
	case "cancel":
		session.Cancel()
	default:
		b.logger.Warn("Received component with unknown action",
			zap.String("action", action))
		return
	}

	b.ackComponent(s, i)
}

// ackComponent подтверждает нажатие без изменения сообщения
func (b *Bot) ackComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		b.logger.Debug("Failed to acknowledge component interaction", zap.Error(err))
	}
}
