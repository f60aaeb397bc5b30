package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cwhuang-tw/linebot-gemini/internal/api"
	"github.com/cwhuang-tw/linebot-gemini/internal/bot"
	"github.com/cwhuang-tw/linebot-gemini/internal/config"
	"github.com/cwhuang-tw/linebot-gemini/internal/llm"
	"github.com/cwhuang-tw/linebot-gemini/internal/quake"
	"github.com/cwhuang-tw/linebot-gemini/internal/store"
	"github.com/cwhuang-tw/linebot-gemini/internal/weather"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"go.uber.org/zap"
)

const upstreamTimeout = 10 * time.Second

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	var st store.Store
	if cfg.FirebaseURL != "" {
		st = store.NewFirebase(cfg.FirebaseURL, upstreamTimeout)
	} else {
		sqliteStore, err := store.NewSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("failed to open local history store",
				zap.Error(err),
				zap.String("dbPath", cfg.SQLitePath))
		}
		st = sqliteStore
		logger.Info("using local sqlite history store", zap.String("dbPath", cfg.SQLitePath))
	}

	llmService, err := llm.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("failed to initialize LLM service", zap.Error(err))
	}

	weatherClient := weather.NewClient(cfg.CWAAPIKey, upstreamTimeout)
	quakeClient := quake.NewClient(cfg.CWAAPIKey, upstreamTimeout)
	router := bot.NewRouter(st, llmService, weatherClient, quakeClient, cfg.DefaultLocation, cfg.HistoryTokens)

	messaging, err := messaging_api.NewMessagingApiAPI(cfg.LineChannelToken)
	if err != nil {
		logger.Fatal("failed to initialize messaging client", zap.Error(err))
	}

	handler := api.NewHandler(router, messaging, cfg.LineChannelSecret, logger)

	http.HandleFunc("/health", handler.Health)
	http.HandleFunc("/webhooks/line", handler.Callback)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
