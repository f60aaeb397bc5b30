package bot

import "strings"

// ignoreKeywords name features served by an external integration; any
// message mentioning one is dropped before classification so no model
// call or history mutation happens for it.
var ignoreKeywords = []string{
	"什麼是FoMO",
	"緩解FoMO指南",
	"FoMO測試",
	"連接spotify",
	"推薦歌曲",
	"推薦播放清單",
}

// ContainsIgnoredKeyword reports whether the text mentions any
// ignore-keyword (substring match).
func ContainsIgnoredKeyword(text string) bool {
	for _, keyword := range ignoreKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
