package bot

import (
	"unicode/utf8"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates how many tokens a piece of text costs in the
// model's context window.
type TokenCounter interface {
	Count(text string) int
}

type bpeCounter struct {
	encoding *tiktoken.Tiktoken
}

func (c bpeCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// runeCounter is the fallback when the BPE dictionary cannot be loaded.
// CJK text runs close to one token per rune, so rune count is a usable
// upper-bound estimate.
type runeCounter struct{}

func (runeCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// NewTokenCounter returns a BPE-backed counter, or the rune estimate if
// the encoding is unavailable.
func NewTokenCounter() TokenCounter {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return runeCounter{}
	}
	return bpeCounter{encoding: encoding}
}

// TruncateHistory drops the oldest turns until the history fits the
// token budget. The newest turn is always kept, over budget or not, so
// the current message is never lost.
func TruncateHistory(turns []models.Turn, budget int, counter TokenCounter) []models.Turn {
	if len(turns) == 0 {
		return turns
	}
	total := 0
	counts := make([]int, len(turns))
	for i, turn := range turns {
		counts[i] = counter.Count(turn.Content)
		total += counts[i]
	}
	start := 0
	for total > budget && start < len(turns)-1 {
		total -= counts[start]
		start++
	}
	return turns[start:]
}
