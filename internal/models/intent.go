package models

import "strings"

// Intent is one symbol from the closed classification vocabulary.
// Exactly one intent is assigned per inbound message.
type Intent int

const (
	IntentChat Intent = iota // generic multi-turn continuation (fallback)
	IntentClear
	IntentSummarize
	IntentQuake
	IntentWeather
	IntentMusic
)

// vocabulary maps the Traditional-Chinese category labels sent to the
// classifier onto the single-letter symbols it is asked to return.
var vocabulary = []struct {
	Label  string
	Symbol string
	Intent Intent
}{
	{"清空", "A", IntentClear},
	{"摘要", "B", IntentSummarize},
	{"地震", "C", IntentQuake},
	{"氣候", "D", IntentWeather},
	{"音樂", "E", IntentMusic},
	{"其他", "F", IntentChat},
}

// VocabularyPrompt renders the label→symbol mapping in the literal form
// embedded into the classification instruction.
func VocabularyPrompt() string {
	var b strings.Builder
	b.WriteString("{")
	for i, v := range vocabulary {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("'" + v.Label + "': '" + v.Symbol + "'")
	}
	b.WriteString("}")
	return b.String()
}

// NormalizeSymbol strips every character that is not an ASCII letter from
// the classifier's raw output. Idempotent on already-clean symbols.
func NormalizeSymbol(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return r
		}
		return -1
	}, raw)
}

// IntentFromSymbol maps a normalized symbol to its intent. The classifier
// is not contractually bound to emit known symbols, so anything
// unrecognized dispatches as generic chat.
func IntentFromSymbol(symbol string) Intent {
	for _, v := range vocabulary {
		if v.Symbol == symbol {
			return v.Intent
		}
	}
	return IntentChat
}

func (i Intent) String() string {
	switch i {
	case IntentClear:
		return "clear"
	case IntentSummarize:
		return "summarize"
	case IntentQuake:
		return "quake"
	case IntentWeather:
		return "weather"
	case IntentMusic:
		return "music"
	default:
		return "chat"
	}
}
