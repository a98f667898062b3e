package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"physics-parser/api/internal/bootstrap"
	"physics-parser/api/internal/config"
	"physics-parser/api/internal/llm"
	"physics-parser/api/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("startup: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engines, closeEngines, err := bootstrap.Engines(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer closeEngines()
	def, _ := engines.GetEngine("")

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	bot.Debug = false
	log.Printf("telegram: authorized as @%s", bot.Self.UserName)

	r := &telegram.Router{
		Bot:        bot,
		EngManager: llm.NewManager(def),
		Engines:    engines,
		Timeout:    cfg.ParseTimeout,
	}

	repo, db, err := bootstrap.Journal(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	if db != nil {
		defer db.Close()
		r.Journal = repo
	}

	telegram.RunPolling(ctx, bot, r.HandleUpdate)
}
