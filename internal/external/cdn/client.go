// Package cdn содержит клиент хранилища изображений персонажей.
package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"funtools/internal/config"

	"go.uber.org/zap"
)

// imageBaseURL — публичное хранилище портретов персонажей
const imageBaseURL = "https://storage.googleapis.com/prd-azz-image"

// maxImageSize ограничивает размер скачиваемого портрета
const maxImageSize = 8 << 20

// ThumbnailURL возвращает URL портрета персонажа.
// Короткие идентификаторы (до 4 символов) лежат в webp, остальные в png.
func ThumbnailURL(characterID string) string {
	if len(characterID) <= 4 {
		return fmt.Sprintf("%s/pfp_%s.webp", imageBaseURL, characterID)
	}
	return fmt.Sprintf("%s/pfp_%s.png", imageBaseURL, characterID)
}

// fallbackURL возвращает URL с альтернативным расширением
func fallbackURL(characterID string) string {
	if len(characterID) <= 4 {
		return fmt.Sprintf("%s/pfp_%s.png", imageBaseURL, characterID)
	}
	return fmt.Sprintf("%s/pfp_%s.webp", imageBaseURL, characterID)
}

// Image представляет скачанный портрет персонажа
type Image struct {
	Data     []byte
	Filename string
}

// Client представляет HTTP клиент хранилища изображений
type Client struct {
	client *http.Client
	logger *zap.Logger
}

// NewClient создает новый клиент хранилища изображений
func NewClient(cfg config.HTTPClientConfig, logger *zap.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

// FetchImage скачивает портрет персонажа. Если основной вариант
// расширения отсутствует в хранилище, пробуется альтернативный.
func (c *Client) FetchImage(ctx context.Context, characterID string) (*Image, error) {
	image, err := c.Fetch(ctx, ThumbnailURL(characterID))
	if err == nil {
		return image, nil
	}

	c.logger.Debug("Primary image variant missed, trying fallback",
		zap.String("character_id", characterID),
		zap.Error(err))

	image, fallbackErr := c.Fetch(ctx, fallbackURL(characterID))
	if fallbackErr != nil {
		return nil, fmt.Errorf("failed to fetch character image %s: %w", characterID, err)
	}
	return image, nil
}

// Fetch скачивает файл по URL
func (c *Client) Fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Image{Data: data, Filename: path.Base(url)}, nil
}
