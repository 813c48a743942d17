// Package middleware содержит цепочку middleware обработки slash-команд.
package middleware

import (
	"time"

	"funtools/internal/bot/types"

	"go.uber.org/zap"
)

// denialMessage — единый ответ при отказе в доступе, роли не раскрываются
const denialMessage = "このコマンドを実行する権限がありません。管理者にお問い合わせください。"

// LogRequest логирует обработку каждой команды
func LogRequest(ctx types.Context, next types.HandlerFunc) error {
	startTime := time.Now()

	ctx.Deps.Logger.Info("Processing command",
		zap.String("command", ctx.CommandName()),
		zap.String("guild_id", ctx.GuildID()),
		zap.String("user", ctx.Username()))

	err := next(ctx)

	duration := time.Since(startTime)
	if err != nil {
		ctx.Deps.Logger.Error("Command completed with error",
			zap.String("command", ctx.CommandName()),
			zap.Duration("duration", duration),
			zap.Error(err))
	} else {
		ctx.Deps.Logger.Info("Command completed successfully",
			zap.String("command", ctx.CommandName()),
			zap.Duration("duration", duration))
	}
	return err
}

// ErrorHandler отвечает пользователю общим сообщением при ошибке обработчика.
// Текст ошибки в Discord не попадает, подробности остаются в логе.
func ErrorHandler(ctx types.Context, next types.HandlerFunc) error {
	err := next(ctx)
	if err != nil {
		ctx.Deps.Logger.Error("Handler error",
			zap.String("command", ctx.CommandName()),
			zap.String("guild_id", ctx.GuildID()),
			zap.String("user", ctx.Username()),
			zap.Error(err))

		if sendErr := ctx.Respond("エラーが発生しました。もう一度お試しください。", true); sendErr != nil {
			// Интеракция уже получила ответ, пробуем followup
			if followErr := ctx.Followup("エラーが発生しました。もう一度お試しください。", true); followErr != nil {
				ctx.Deps.Logger.Debug("Failed to deliver error message", zap.Error(followErr))
			}
		}
	}
	return err
}

// Permission закрывает команду правилами доступа: публичные команды
// открыты всем, оператор может все, остальным нужна разрешенная роль
func Permission(ctx types.Context, next types.HandlerFunc) error {
	if !ctx.Deps.Permissions.CanRun(ctx.GuildID(), ctx.UserID(), ctx.MemberRoles(), ctx.CommandName()) {
		ctx.Deps.Logger.Warn("Command denied",
			zap.String("command", ctx.CommandName()),
			zap.String("guild_id", ctx.GuildID()),
			zap.String("user", ctx.Username()))
		return ctx.Respond(denialMessage, true)
	}
	return next(ctx)
}
