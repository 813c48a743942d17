// Package router содержит роутер slash-команд с цепочкой middleware.
package router

import (
	"fmt"
	"sync"
	"time"

	"funtools/internal/bot/types"

	"go.uber.org/zap"
)

// Router управляет маршрутами команд и middleware
type Router struct {
	routes      map[string]types.HandlerFunc
	middlewares []types.Middleware
	metrics     *Metrics
	mu          sync.RWMutex
}

// Metrics содержит счетчики обработанных команд
type Metrics struct {
	mu              sync.RWMutex
	totalRequests   int64
	totalErrors     int64
	totalDuration   time.Duration
	commandRequests map[string]int64
	commandErrors   map[string]int64
}

// MetricsSnapshot представляет копию метрик роутера
type MetricsSnapshot struct {
	TotalRequests   int64
	TotalErrors     int64
	AvgDuration     time.Duration
	CommandRequests map[string]int64
	CommandErrors   map[string]int64
}

// NewRouter создает новый роутер
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]types.HandlerFunc),
		metrics: &Metrics{
			commandRequests: make(map[string]int64),
			commandErrors:   make(map[string]int64),
		},
	}
}

// Use добавляет middleware в цепочку
func (r *Router) Use(middleware types.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if middleware == nil {
		return
	}
	r.middlewares = append(r.middlewares, middleware)
}

// Handle регистрирует обработчик команды
func (r *Router) Handle(command string, handler types.HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if command == "" || handler == nil {
		return
	}
	r.routes[command] = handler
}

// Dispatch направляет интеракцию обработчику через цепочку middleware
func (r *Router) Dispatch(ctx types.Context) error {
	startTime := time.Now()
	command := ctx.CommandName()

	r.mu.RLock()
	handler, ok := r.routes[command]
	middlewares := make([]types.Middleware, len(r.middlewares))
	copy(middlewares, r.middlewares)
	r.mu.RUnlock()

	if !ok {
		ctx.Deps.Logger.Warn("Unknown command",
			zap.String("command", command),
			zap.String("user", ctx.Username()))
		r.updateMetrics(command, time.Since(startTime), true)
		return ctx.Respond("不明なコマンドです。", true)
	}

	currentHandler := r.wrapHandlerWithPanicRecovery(handler, ctx.Deps.Logger)
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw := middlewares[i]
		currentHandler = wrapWithMiddleware(currentHandler, mw)
	}

	err := currentHandler(ctx)
	r.updateMetrics(command, time.Since(startTime), err != nil)
	return err
}

// wrapHandlerWithPanicRecovery оборачивает обработчик для защиты от паники
func (r *Router) wrapHandlerWithPanicRecovery(handler types.HandlerFunc, logger *zap.Logger) types.HandlerFunc {
	return func(ctx types.Context) (err error) {
		defer func() {
			if panicErr := recover(); panicErr != nil {
				logger.Error("Handler panic recovered",
					zap.String("command", ctx.CommandName()),
					zap.String("user", ctx.Username()),
					zap.Any("panic", panicErr),
					zap.Stack("stack"))
				err = fmt.Errorf("handler panicked: %v", panicErr)
			}
		}()
		return handler(ctx)
	}
}

func wrapWithMiddleware(handler types.HandlerFunc, mw types.Middleware) types.HandlerFunc {
	return func(ctx types.Context) error {
		return mw(ctx, handler)
	}
}

// updateMetrics обновляет счетчики роутера
func (r *Router) updateMetrics(command string, duration time.Duration, isError bool) {
	r.metrics.mu.Lock()
	defer r.metrics.mu.Unlock()

	r.metrics.totalRequests++
	r.metrics.totalDuration += duration
	r.metrics.commandRequests[command]++

	if isError {
		r.metrics.totalErrors++
		r.metrics.commandErrors[command]++
	}
}

// GetMetrics возвращает снимок метрик роутера
func (r *Router) GetMetrics() MetricsSnapshot {
	r.metrics.mu.RLock()
	defer r.metrics.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalRequests:   r.metrics.totalRequests,
		TotalErrors:     r.metrics.totalErrors,
		CommandRequests: make(map[string]int64, len(r.metrics.commandRequests)),
		CommandErrors:   make(map[string]int64, len(r.metrics.commandErrors)),
	}
	if r.metrics.totalRequests > 0 {
		snapshot.AvgDuration = r.metrics.totalDuration / time.Duration(r.metrics.totalRequests)
	}
	for k, v := range r.metrics.commandRequests {
		snapshot.CommandRequests[k] = v
	}
	for k, v := range r.metrics.commandErrors {
		snapshot.CommandErrors[k] = v
	}
	return snapshot
}

// GetRegisteredCommands возвращает список зарегистрированных команд
func (r *Router) GetRegisteredCommands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]string, 0, len(r.routes))
	for command := range r.routes {
		commands = append(commands, command)
	}
	return commands
}
