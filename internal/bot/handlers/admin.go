package handlers

import (
	"fmt"
	"sort"
	"strings"

	"funtools/internal/bot/router"
	"funtools/internal/bot/types"
	"funtools/internal/model"

	"github.com/bwmarrin/discordgo"
)

const colorStatus = 0x3498db

// manageableFeatures — фичи, которыми управляет /feature
var manageableFeatures = []string{model.FeatureBirthday, model.FeatureQuotes}

func handleFeature(ctx types.Context) error {
	if ok, err := requireOperator(ctx); !ok {
		return err
	}

	feature := strings.TrimSpace(ctx.StringOption("feature"))
	status, ok := ctx.BoolOption("status")
	if !ok {
		return ctx.Respond("入力値が不正です。", true)
	}

	if !isManageable(feature) {
		return ctx.Respond(
			fmt.Sprintf("無効な機能名です。使用可能な機能: %s", strings.Join(manageableFeatures, ", ")), true)
	}

	_, err := ctx.Deps.Settings.Update(feature, func(s model.FeatureSettings) model.FeatureSettings {
		s.Enabled = status
		return s
	})
	if err != nil {
		return fmt.Errorf("failed to persist %s settings: %w", feature, err)
	}

	state := "無効化"
	if status {
		state = "有効化"
	}
	return ctx.Respond(fmt.Sprintf("機能 '%s' を %s しました。", feature, state), true)
}

// makeStatusHandler создает обработчик /status с доступом к метрикам роутера
func makeStatusHandler(r *router.Router) types.HandlerFunc {
	return func(ctx types.Context) error {
		if ok, err := requireOperator(ctx); !ok {
			return err
		}

		var features strings.Builder
		for _, feature := range manageableFeatures {
			settings := ctx.Deps.Settings.Get(feature)
			state := "無効"
			if settings.Enabled {
				state = "有効"
			}
			features.WriteString(fmt.Sprintf("- %s: %s（%d日おき %02d:%02d）\n",
				featureLabel(feature), state, settings.Days, settings.Hour, settings.Minute))
		}

		embed := &discordgo.MessageEmbed{
			Title:       "機能の状態",
			Description: features.String(),
			Color:       colorStatus,
		}

		metrics := r.GetMetrics()
		if metrics.TotalRequests > 0 {
			commands := make([]string, 0, len(metrics.CommandRequests))
			for command := range metrics.CommandRequests {
				commands = append(commands, command)
			}
			sort.Strings(commands)

			var usage strings.Builder
			for _, command := range commands {
				usage.WriteString(fmt.Sprintf("%s: %d回", command, metrics.CommandRequests[command]))
				if errors := metrics.CommandErrors[command]; errors > 0 {
					usage.WriteString(fmt.Sprintf("（エラー %d回）", errors))
				}
				usage.WriteString("\n")
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("コマンド実行回数（累計 %d回）", metrics.TotalRequests),
				Value: usage.String(),
			})
		}

		return ctx.RespondEmbed(embed, true)
	}
}

func isManageable(feature string) bool {
	for _, known := range manageableFeatures {
		if known == feature {
			return true
		}
	}
	return false
}
