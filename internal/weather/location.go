package weather

import "strings"

// knownLocations are the administrative areas the forecast API serves.
// The API spells 台 as 臺 in location names.
var knownLocations = []string{
	"臺北市", "新北市", "桃園市", "臺中市", "臺南市", "高雄市",
	"基隆市", "新竹市", "新竹縣", "苗栗縣", "彰化縣", "南投縣",
	"雲林縣", "嘉義市", "嘉義縣", "屏東縣", "宜蘭縣", "花蓮縣",
	"臺東縣", "澎湖縣", "金門縣", "連江縣",
}

// ResolveLocation finds the first known area mentioned in the text and
// returns its API spelling. Falls back to fallback (normalized the same
// way) when the text mentions none.
func ResolveLocation(text, fallback string) string {
	normalized := strings.ReplaceAll(text, "台", "臺")
	for _, loc := range knownLocations {
		if strings.Contains(normalized, loc) {
			return loc
		}
	}
	return strings.ReplaceAll(fallback, "台", "臺")
}
