package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const callTimeout = 30 * time.Second

// Service wraps the Gemini model behind the few request shapes the relay
// needs. Classification and phrasing are single-turn; generic chat
// replays the stored history verbatim as multi-turn context.
type Service struct {
	model llms.Model
}

func New(ctx context.Context, apiKey, modelName string) (*Service, error) {
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, err
	}
	return &Service{model: model}, nil
}

// ClassifyIntent asks the model which vocabulary category the text
// belongs to and maps the (normalized) answer to an intent. Unrecognized
// answers dispatch as generic chat.
func (s *Service) ClassifyIntent(ctx context.Context, text string) (models.Intent, error) {
	prompt := fmt.Sprintf(
		"請判斷 %s 裡面的文字屬於 %s 裡面的哪一項？符合條件請回傳對應的英文文字就好，不要有其他的文字與字元。",
		text, models.VocabularyPrompt(),
	)
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt)
	if err != nil {
		return models.IntentChat, fmt.Errorf("failed to classify intent: %w", err)
	}
	symbol := models.NormalizeSymbol(strings.TrimSpace(completion))
	return models.IntentFromSymbol(symbol), nil
}

// Chat generates the next reply from the full conversation history. The
// last turn is expected to be the user's newest message.
func (s *Service) Chat(ctx context.Context, history []models.Turn) (string, error) {
	content := make([]llms.MessageContent, 0, len(history))
	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Role == models.RoleModel {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, turn.Content))
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat reply: %w", err)
	}
	return firstChoice(resp)
}

// Summarize condenses the stored history into at most five Traditional
// Chinese list points.
func (s *Service) Summarize(ctx context.Context, history []models.Turn) (string, error) {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	prompt := fmt.Sprintf("Summary the following message in Traditional Chinese by less 5 list points.\n%s", b.String())

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to summarize history: %w", err)
	}
	return completion, nil
}

// PhraseWeather turns a weather snapshot into a concise Traditional
// Chinese reply without any markup.
func (s *Service) PhraseWeather(ctx context.Context, snapshot models.WeatherSnapshot) (string, error) {
	info := fmt.Sprintf("位置: %s\n氣候: %s\n降雨機率: %s\n體感: %s\n現在時間: %s",
		snapshot.Location, snapshot.Wx, snapshot.PoP, snapshot.CI,
		snapshot.ObservedAt.Format("2006/01/02 15:04:05"))
	prompt := fmt.Sprintf("請用繁體中文簡潔地回覆以下的天氣資訊，不要使用粗體、斜體或任何標記符號。\n%s", info)

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to phrase weather reply: %w", err)
	}
	return completion, nil
}

// DescribeImage produces a short Traditional Chinese description of a
// report image, used for the latest earthquake report.
func (s *Service) DescribeImage(ctx context.Context, mimeType string, data []byte) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, data),
				llms.TextPart("請用繁體中文簡短描述這張地震報告圖片的內容。"),
			},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("failed to describe report image: %w", err)
	}
	return firstChoice(resp)
}

func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}
