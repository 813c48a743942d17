package storage

import (
	"encoding/json"
	"slices"
	"sync"

	"funtools/internal/model"

	"go.uber.org/zap"
)

// OverrideStore хранит пер-гильдийные оверрайды прав в одном JSON-документе
type OverrideStore struct {
	mu     sync.Mutex
	path   string
	doc    *model.Overrides
	logger *zap.Logger
}

// NewOverrideStore создает хранилище оверрайдов и читает документ с диска
func NewOverrideStore(path string, logger *zap.Logger) *OverrideStore {
	s := &OverrideStore{
		path:   path,
		doc:    model.NewOverrides(),
		logger: logger,
	}
	s.load()
	return s
}

// load читает документ оверрайдов, откатываясь на пустой при любой проблеме
func (s *OverrideStore) load() {
	data, state, err := readDocument(s.path)
	if err != nil {
		s.logger.Error("Failed to read overrides document", zap.String("path", s.path), zap.Error(err))
		return
	}
	if state == NotFound {
		return
	}
	var doc model.Overrides
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Error("Overrides document is corrupt, falling back to empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	doc.Normalize()
	s.doc = &doc
}

// Grant разрешает роли выполнять команду в гильдии. Идемпотентна.
func (s *OverrideStore) Grant(guildID, command, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	guild, ok := s.doc.Guilds[guildID]
	if !ok {
		guild = make(map[string][]string)
		s.doc.Guilds[guildID] = guild
	}
	if slices.Contains(guild[command], roleID) {
		return nil
	}
	guild[command] = append(guild[command], roleID)
	return writeDocument(s.path, s.doc)
}

// Revoke отзывает у роли право на команду. Опустевшая команда удаляется
// из документа, опустевшая гильдия — тоже.
func (s *OverrideStore) Revoke(guildID, command, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	guild, ok := s.doc.Guilds[guildID]
	if !ok {
		return nil
	}
	roles := guild[command]
	idx := slices.Index(roles, roleID)
	if idx < 0 {
		return nil
	}
	roles = slices.Delete(roles, idx, idx+1)
	if len(roles) == 0 {
		delete(guild, command)
	} else {
		guild[command] = roles
	}
	if len(guild) == 0 {
		delete(s.doc.Guilds, guildID)
	}
	return writeDocument(s.path, s.doc)
}

// List возвращает снапшот оверрайдов гильдии: команда -> роли.
// Мутация результата не влияет на хранилище.
func (s *OverrideStore) List(guildID string) map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Copy(guildID)
}

// Permitted возвращает роли, которым разрешена команда в гильдии
func (s *OverrideStore) Permitted(guildID, command string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles := s.doc.Guilds[guildID][command]
	return append([]string(nil), roles...)
}
