package service

import (
	"sync"
	"time"
)

// SessionState представляет состояние интерактивной сессии
type SessionState int

const (
	// StateAwaitingInput сессия ждет действия пользователя
	StateAwaitingInput SessionState = iota
	// StateConfirmed пользователь подтвердил действие
	StateConfirmed
	// StateCancelled пользователь отменил действие
	StateCancelled
	// StateTimedOut время ожидания истекло; трактуется как отмена,
	// а не как ошибка
	StateTimedOut
)

// String возвращает строковое представление состояния
func (s SessionState) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Session — конечный автомат одного интерактивного диалога
// (подтверждение удаления и т.п.). Колбэки транспорта лишь публикуют
// переходы; логика диалога тестируется без транспорта.
// Из StateAwaitingInput возможен ровно один переход.
type Session struct {
	mu    sync.Mutex
	state SessionState
	done  chan struct{}
}

// NewSession создает сессию в состоянии ожидания ввода
func NewSession() *Session {
	return &Session{
		state: StateAwaitingInput,
		done:  make(chan struct{}),
	}
}

// State возвращает текущее состояние
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Confirm переводит сессию в StateConfirmed.
// Возвращает false, если сессия уже разрешена.
func (s *Session) Confirm() bool {
	return s.resolve(StateConfirmed)
}

// Cancel переводит сессию в StateCancelled.
// Возвращает false, если сессия уже разрешена.
func (s *Session) Cancel() bool {
	return s.resolve(StateCancelled)
}

// resolve выполняет единственный разрешающий переход
func (s *Session) resolve(state SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingInput {
		return false
	}
	s.state = state
	close(s.done)
	return true
}

// Wait блокируется до разрешения сессии либо истечения таймаута.
// По таймауту сессия переходит в StateTimedOut.
func (s *Session) Wait(timeout time.Duration) SessionState {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
		s.resolve(StateTimedOut)
		// Проигранная гонка с Confirm/Cancel оставляет их результат
		<-s.done
	}
	return s.State()
}

// SessionRegistry сопоставляет идентификаторы компонентов сообщения
// активным сессиям, чтобы роутер интеракций находил нужный автомат
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionRegistry создает пустой реестр сессий
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Register создает и регистрирует сессию под идентификатором
func (r *SessionRegistry) Register(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := NewSession()
	r.sessions[id] = session
	return session
}

// Get возвращает сессию по идентификатору
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Remove удаляет сессию из реестра
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
