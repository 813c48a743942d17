package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				BotToken:         "test-token",
				DataDir:          "./data",
				BirthdayDefaults: ScheduleDefaults{Enabled: true, Days: 1, Hour: 9, Minute: 0},
				QuoteDefaults:    ScheduleDefaults{Enabled: true, Days: 1, Hour: 9, Minute: 0},
				ConfirmTimeout:   30 * time.Second,
				LotteryMax:       50,
			},
			wantErr: false,
		},
		{
			name: "missing bot token",
			config: &Config{
				DataDir:          "./data",
				BirthdayDefaults: ScheduleDefaults{Days: 1},
				QuoteDefaults:    ScheduleDefaults{Days: 1},
				ConfirmTimeout:   30 * time.Second,
				LotteryMax:       50,
			},
			wantErr: true,
		},
		{
			name: "invalid default hour",
			config: &Config{
				BotToken:         "test-token",
				DataDir:          "./data",
				BirthdayDefaults: ScheduleDefaults{Days: 1, Hour: 24},
				QuoteDefaults:    ScheduleDefaults{Days: 1},
				ConfirmTimeout:   30 * time.Second,
				LotteryMax:       50,
			},
			wantErr: true,
		},
		{
			name: "invalid default days",
			config: &Config{
				BotToken:         "test-token",
				DataDir:          "./data",
				BirthdayDefaults: ScheduleDefaults{Days: 1},
				QuoteDefaults:    ScheduleDefaults{Days: 0},
				ConfirmTimeout:   30 * time.Second,
				LotteryMax:       50,
			},
			wantErr: true,
		},
		{
			name: "zero lottery max",
			config: &Config{
				BotToken:         "test-token",
				DataDir:          "./data",
				BirthdayDefaults: ScheduleDefaults{Days: 1},
				QuoteDefaults:    ScheduleDefaults{Days: 1},
				ConfirmTimeout:   30 * time.Second,
				LotteryMax:       0,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, 1, cfg.BirthdayDefaults.Days)
	assert.Equal(t, 9, cfg.BirthdayDefaults.Hour)
	assert.Equal(t, 0, cfg.QuoteDefaults.Minute)
	assert.True(t, cfg.QuoteDefaults.Enabled)
	assert.Equal(t, 50, cfg.LotteryMax)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Tokyo"}
	loc := cfg.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	// Неизвестная таймзона откатывается на фиксированный UTC+9
	cfg = &Config{Timezone: "Not/AZone"}
	loc = cfg.Location()
	_, offset := time.Date(2025, 3, 10, 9, 0, 0, 0, loc).Zone()
	assert.Equal(t, 9*60*60, offset)
}
