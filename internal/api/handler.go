package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/cwhuang-tw/linebot-gemini/internal/bot"
	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"go.uber.org/zap"
)

// commandTrigger replies with a static rich card listing the bot's
// functions. It is matched exactly and never reaches the classifier.
const commandTrigger = "指令"

type Handler struct {
	router        *bot.Router
	messaging     *messaging_api.MessagingApiAPI
	channelSecret string
	logger        *zap.Logger
}

func NewHandler(router *bot.Router, messaging *messaging_api.MessagingApiAPI, channelSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		router:        router,
		messaging:     messaging,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

// Health is the liveness endpoint, independent of every other component.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// Callback accepts signed webhook deliveries. Each text-message event is
// handled in its own goroutine; all other event types are skipped.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("rejected webhook with invalid signature")
			http.Error(w, "Invalid signature", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to parse webhook request", zap.Error(err))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	for _, event := range cb.Events {
		messageEvent, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		textMessage, ok := messageEvent.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}

		var groupID, userID string
		switch source := messageEvent.Source.(type) {
		case webhook.UserSource:
			userID = source.UserId
		case webhook.GroupSource:
			groupID = source.GroupId
			userID = source.UserId
		case webhook.RoomSource:
			groupID = source.RoomId
			userID = source.UserId
		}

		go h.handleText(messageEvent.ReplyToken, groupID, userID, textMessage.Text)
	}

	w.Write([]byte("OK"))
}

func (h *Handler) handleText(replyToken, groupID, userID, text string) {
	logger := h.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.String("user_id", userID),
		zap.String("group_id", groupID),
	)

	if text == commandTrigger {
		if err := h.replyCommandCard(replyToken); err != nil {
			logger.Error("failed to send command card", zap.Error(err))
		}
		return
	}

	outcome, err := h.router.Handle(context.Background(), groupID, userID, text)
	if err != nil {
		// At-most-one-reply-attempt: log and stay silent, no retry.
		logger.Error("failed to process message", zap.Error(err))
		return
	}
	if outcome.Skip {
		logger.Info("message ignored by keyword filter")
		return
	}

	logger.Info("replying", zap.String("intent", outcome.Intent.String()))
	if _, err := h.messaging.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: outcome.Reply},
		},
	}); err != nil {
		logger.Error("failed to send reply", zap.Error(err))
	}
}

func (h *Handler) replyCommandCard(replyToken string) error {
	_, err := h.messaging.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TemplateMessage{
				AltText: "功能列表",
				Template: messaging_api.ButtonsTemplate{
					Title: "功能列表",
					Text:  "點選下方按鈕使用功能",
					Actions: []messaging_api.ActionInterface{
						&messaging_api.MessageAction{Label: "清空對話", Text: "清空"},
						&messaging_api.MessageAction{Label: "對話摘要", Text: "摘要"},
						&messaging_api.MessageAction{Label: "最新地震", Text: "地震"},
						&messaging_api.MessageAction{Label: "目前天氣", Text: "氣候"},
					},
				},
			},
		},
	})
	return err
}
