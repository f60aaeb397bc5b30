// Package bot maps classified intents onto handlers: clear, summarize,
// earthquake lookup, weather lookup, or generic chat continuation.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
	"github.com/cwhuang-tw/linebot-gemini/internal/store"
	"github.com/cwhuang-tw/linebot-gemini/internal/weather"
)

// Replies with fixed wording.
const (
	replyCleared        = "已清空對話紀錄"
	replyNothingToSum   = "目前沒有對話紀錄可以摘要"
	replyMusic          = "音樂功能請使用選單中的推薦歌曲與推薦播放清單"
	replyQuakeDown      = "目前無法取得地震資訊，請稍後再試"
	replyWeatherDown    = "目前無法取得天氣資訊，請稍後再試"
	replyWeatherMissing = "目前查無即時天氣資料"
)

// Generator is the language-model surface the router depends on.
type Generator interface {
	ClassifyIntent(ctx context.Context, text string) (models.Intent, error)
	Chat(ctx context.Context, history []models.Turn) (string, error)
	Summarize(ctx context.Context, history []models.Turn) (string, error)
	PhraseWeather(ctx context.Context, snapshot models.WeatherSnapshot) (string, error)
	DescribeImage(ctx context.Context, mimeType string, data []byte) (string, error)
}

// WeatherSource provides the current simplified snapshot for a location.
type WeatherSource interface {
	CurrentSnapshot(ctx context.Context, location string, now time.Time) (models.WeatherSnapshot, bool, error)
}

// QuakeSource provides the latest earthquake report.
type QuakeSource interface {
	LatestReportURL(ctx context.Context) (string, error)
	FetchReportImage(ctx context.Context, reportURL string) ([]byte, string, error)
}

// Outcome is the explicit result of handling one message. Skip means the
// message produced no reply on purpose (ignore-keyword drop). Errors are
// returned separately and mean no reply is sent at all.
type Outcome struct {
	Intent models.Intent
	Reply  string
	Skip   bool
}

// Router dispatches one inbound message to its intent handler. It holds
// no cross-message state; the only shared mutable state is the history
// value in the store.
type Router struct {
	store           store.Store
	llm             Generator
	weather         WeatherSource
	quake           QuakeSource
	counter         TokenCounter
	defaultLocation string
	historyBudget   int
	now             func() time.Time
}

func NewRouter(st store.Store, llm Generator, ws WeatherSource, qs QuakeSource, defaultLocation string, historyBudget int) *Router {
	return &Router{
		store:           st,
		llm:             llm,
		weather:         ws,
		quake:           qs,
		counter:         NewTokenCounter(),
		defaultLocation: defaultLocation,
		historyBudget:   historyBudget,
		now:             time.Now,
	}
}

// Handle runs the full pipeline for one text message: keyword pre-filter,
// history load, intent classification, dispatch. A returned error means
// the message is abandoned with no reply; degraded provider conditions
// come back as user-visible replies instead.
func (r *Router) Handle(ctx context.Context, groupID, userID, text string) (Outcome, error) {
	if ContainsIgnoredKeyword(text) {
		return Outcome{Skip: true}, nil
	}

	path := store.ChatPath(models.ConversationKey(groupID, userID))
	history, _, err := r.store.Get(ctx, path)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load history: %w", err)
	}

	intent, err := r.llm.ClassifyIntent(ctx, text)
	if err != nil {
		return Outcome{}, err
	}

	switch intent {
	case models.IntentClear:
		return r.clear(ctx, path)
	case models.IntentSummarize:
		return r.summarize(ctx, history)
	case models.IntentQuake:
		return r.quakeReport(ctx)
	case models.IntentWeather:
		return r.weatherReport(ctx)
	case models.IntentMusic:
		return Outcome{Intent: intent, Reply: replyMusic}, nil
	default:
		return r.chat(ctx, path, history, text)
	}
}

func (r *Router) clear(ctx context.Context, path string) (Outcome, error) {
	if err := r.store.Delete(ctx, path); err != nil {
		return Outcome{}, fmt.Errorf("failed to clear history: %w", err)
	}
	return Outcome{Intent: models.IntentClear, Reply: replyCleared}, nil
}

func (r *Router) summarize(ctx context.Context, history []models.Turn) (Outcome, error) {
	if len(history) == 0 {
		return Outcome{Intent: models.IntentSummarize, Reply: replyNothingToSum}, nil
	}
	summary, err := r.llm.Summarize(ctx, history)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Intent: models.IntentSummarize, Reply: summary}, nil
}

func (r *Router) quakeReport(ctx context.Context) (Outcome, error) {
	reportURL, err := r.quake.LatestReportURL(ctx)
	if err != nil {
		return Outcome{Intent: models.IntentQuake, Reply: replyQuakeDown}, nil
	}
	data, mimeType, err := r.quake.FetchReportImage(ctx, reportURL)
	if err != nil {
		return Outcome{Intent: models.IntentQuake, Reply: replyQuakeDown}, nil
	}
	description, err := r.llm.DescribeImage(ctx, mimeType, data)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Intent: models.IntentQuake, Reply: description + "\n\n" + reportURL}, nil
}

func (r *Router) weatherReport(ctx context.Context) (Outcome, error) {
	// The lookup location is resolved from the configured default, not
	// the message text; the resolver contract accepts arbitrary text so
	// message-derived locations can be wired in later.
	location := weather.ResolveLocation(r.defaultLocation, r.defaultLocation)

	snapshot, found, err := r.weather.CurrentSnapshot(ctx, location, r.now())
	if err != nil {
		return Outcome{Intent: models.IntentWeather, Reply: replyWeatherDown}, nil
	}
	if !found {
		return Outcome{Intent: models.IntentWeather, Reply: replyWeatherMissing}, nil
	}
	reply, err := r.llm.PhraseWeather(ctx, snapshot)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Intent: models.IntentWeather, Reply: reply}, nil
}

func (r *Router) chat(ctx context.Context, path string, history []models.Turn, text string) (Outcome, error) {
	history = append(history, models.Turn{Role: models.RoleUser, Content: text})

	// The token budget bounds only the context sent to the model; the
	// stored history keeps every turn, so each exchange grows it by
	// exactly two.
	window := TruncateHistory(history, r.historyBudget, r.counter)
	reply, err := r.llm.Chat(ctx, window)
	if err != nil {
		return Outcome{}, err
	}

	history = append(history, models.Turn{Role: models.RoleModel, Content: reply})
	if err := r.store.Put(ctx, path, history); err != nil {
		return Outcome{}, fmt.Errorf("failed to persist history: %w", err)
	}
	return Outcome{Intent: models.IntentChat, Reply: reply}, nil
}
