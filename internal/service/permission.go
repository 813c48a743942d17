package service

import (
	"slices"

	"funtools/internal/storage"

	"go.uber.org/zap"
)

// Permissions проверяет, может ли участник выполнить команду.
// Правило: операторы могут всё; остальные — только публичные команды
// и команды, разрешенные их ролям через оверрайды гильдии.
type Permissions struct {
	overrides      *storage.OverrideStore
	operatorRoleID string
	public         map[string]struct{}
	resolver       RoleResolver
	logger         *zap.Logger
}

// NewPermissions создает сервис проверки прав
func NewPermissions(overrides *storage.OverrideStore, operatorRoleID string, publicCommands []string, resolver RoleResolver, logger *zap.Logger) *Permissions {
	public := make(map[string]struct{}, len(publicCommands))
	for _, cmd := range publicCommands {
		public[cmd] = struct{}{}
	}
	return &Permissions{
		overrides:      overrides,
		operatorRoleID: operatorRoleID,
		public:         public,
		resolver:       resolver,
		logger:         logger,
	}
}

// CanRun сообщает, разрешена ли команда участнику. Чистая функция над
// текущим состоянием хранилища, вызывается на каждой команде.
// memberRoles — роли из закэшированного объекта участника, если они
// известны вызывающему; при nil роли запрашиваются у резолвера.
func (p *Permissions) CanRun(guildID, userID string, memberRoles []string, command string) bool {
	if _, ok := p.public[command]; ok {
		return true
	}

	roles := memberRoles
	if roles == nil && guildID != "" && p.resolver != nil {
		resolved, err := p.resolver.MemberRoles(guildID, userID)
		if err != nil {
			p.logger.Warn("Failed to resolve member roles",
				zap.String("guild_id", guildID),
				zap.String("user_id", userID),
				zap.Error(err))
		} else {
			roles = resolved
		}
	}

	// Вне гильдии оценить можно только операторскую роль из кэша
	if guildID == "" {
		return p.isOperator(roles)
	}

	if p.isOperator(roles) {
		return true
	}

	permitted := p.overrides.Permitted(guildID, command)
	if len(permitted) == 0 {
		return false
	}
	for _, roleID := range roles {
		if slices.Contains(permitted, roleID) {
			return true
		}
	}
	return false
}

// IsOperator сообщает, содержит ли набор ролей операторскую роль.
// Используется командами, закрытыми только для операторов.
func (p *Permissions) IsOperator(roles []string) bool {
	return p.isOperator(roles)
}

// isOperator сообщает, содержит ли набор ролей операторскую роль
func (p *Permissions) isOperator(roles []string) bool {
	return p.operatorRoleID != "" && slices.Contains(roles, p.operatorRoleID)
}
