// Package main запускает Discord-бота funtools.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"funtools/internal/app"
	"funtools/internal/config"
	"funtools/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Инициализация логгера
	log := logger.New()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	// Сборка и запуск приложения
	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Application stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}
