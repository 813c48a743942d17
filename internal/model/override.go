// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Overrides
package model

// Overrides представляет документ оверрайдов прав:
// гильдия -> команда -> список ролей, которым команда разрешена
type Overrides struct {
	Guilds map[string]map[string][]string `json:"guilds"`
}

// NewOverrides создает пустой документ оверрайдов
func NewOverrides() *Overrides {
	return &Overrides{Guilds: make(map[string]map[string][]string)}
}

// Normalize гарантирует ненулевую карту гильдий после десериализации
func (o *Overrides) Normalize() {
	if o.Guilds == nil {
		o.Guilds = make(map[string]map[string][]string)
	}
}

// Copy возвращает глубокую копию оверрайдов одной гильдии.
// Мутация результата не затрагивает документ.
func (o *Overrides) Copy(guildID string) map[string][]string {
	snapshot := make(map[string][]string)
	for command, roles := range o.Guilds[guildID] {
		snapshot[command] = append([]string(nil), roles...)
	}
	return snapshot
}
