// Command quizbot runs the Telegram quiz bot.
package main

import (
	"context"
	"log"

	corecmd "github.com/m3rciful/quizbot/core/cmd"
	"github.com/m3rciful/quizbot/internal/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "configs/config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bootstrapApp(ctx, cfg.(*config.Config))
		},
	})
	if err != nil {
		log.Fatalf("quizbot: %v", err)
	}
}
