package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler прогоняет зарегистрированные анонсеры раз в минуту.
// Кооперативной точности достаточно: проверка "пора ли постить" сама
// идемпотентна на суточной гранулярности.
type Scheduler struct {
	cron       *cron.Cron
	announcers []*Announcer
	logger     *zap.Logger
	mu         sync.Mutex
	running    bool
}

// NewScheduler создает планировщик в указанной таймзоне
func NewScheduler(loc *time.Location, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Register добавляет анонсер в план. Вызывать до Start.
func (s *Scheduler) Register(announcer *Announcer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcers = append(s.announcers, announcer)
	s.logger.Info("Registered announcer", zap.String("feature", announcer.Feature()))
}

// Start запускает минутный тик
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if _, err := s.cron.AddFunc("* * * * *", s.tick); err != nil {
		return fmt.Errorf("failed to schedule tick: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", zap.Int("announcers", len(s.announcers)))
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего тика
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Scheduler stopped")
}

// tick прогоняет все анонсеры. Паника одного анонсера не валит процесс
// и не мешает остальным.
func (s *Scheduler) tick() {
	s.mu.Lock()
	announcers := append([]*Announcer(nil), s.announcers...)
	s.mu.Unlock()

	for _, announcer := range announcers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Announcer tick panicked",
						zap.String("feature", announcer.Feature()),
						zap.Any("panic", r))
				}
			}()
			announcer.Tick()
		}()
	}
}
