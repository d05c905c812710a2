package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"tigon-bot-backend/internal/bot"
	"tigon-bot-backend/internal/common/config"
	"tigon-bot-backend/internal/common/logger"
	orderredis "tigon-bot-backend/internal/features/order/repository/redis"
	profilerepo "tigon-bot-backend/internal/features/profile/repository"
	profileredis "tigon-bot-backend/internal/features/profile/repository/redis"
	profilesvc "tigon-bot-backend/internal/features/profile/service"
	"tigon-bot-backend/internal/features/watch/bus"
	watchredis "tigon-bot-backend/internal/features/watch/repository/redis"
	watchsvc "tigon-bot-backend/internal/features/watch/service"
	apphttp "tigon-bot-backend/internal/http"
	"tigon-bot-backend/internal/platform/engine"
	"tigon-bot-backend/internal/platform/redis"
	"tigon-bot-backend/internal/platform/telegram"
	"tigon-bot-backend/internal/service/orchestrator"
	"tigon-bot-backend/internal/workers"
)

func main() {
	cfg := config.Load()
	logger.Init("tigon-bot", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redis.OpenFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	profiles := profilesvc.New(profileredis.NewProfileRepository(rdb.Client, profilerepo.Defaults{
		SlippageBps: cfg.Trading.DefaultSlippageBps,
		MaxGasGwei:  cfg.Trading.DefaultMaxGasGwei,
	}))
	orders := orderredis.NewOrderStore(rdb.Client, time.Duration(cfg.Trading.OrderTTLSeconds)*time.Second)
	registry := watchredis.NewWatchRegistry(rdb.Client)
	watch := watchsvc.New(registry, bus.NewRedisPublisher(rdb.Client))

	engineClient := engine.NewClient(cfg.Engine.BaseURL)

	orch := orchestrator.New(profiles, orders, watch, engineClient, engineClient, orchestrator.Options{
		MinBuyAmount:  cfg.Trading.MinBuyAmount,
		WrappedNative: cfg.Engine.WrappedNative,
	})

	transport := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.PollTimeout)
	b := bot.New(transport, orch, bot.Options{
		MinBuyAmount: cfg.Trading.MinBuyAmount,
		ReplyTTL:     time.Duration(cfg.Trading.ReplyTTLSeconds) * time.Second,
		TokenMenu:    bot.ParseTokenMenu(cfg.Trading.TokenMenu),
	})
	b.Start(ctx)

	worker := workers.NewWatchWorker(rdb, registry, engineClient)
	go worker.Start(ctx)

	health := apphttp.NewHealthServer(rdb, cfg.Health.Port, cfg.Debug)
	go apphttp.Serve(health)

	transport.Poll(ctx, b)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = health.Shutdown(shutdownCtx)
	logger.Info().Msg("Bot stopped")
}
