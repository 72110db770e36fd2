package catalog

import (
	"strconv"
	"strings"
)

// ConvertAnimeRating maps a raw anime rating to the common numeric scale.
// Anime sources ship numeric scores already; anything unparsable is 0.
func ConvertAnimeRating(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0.0
		}
		return f
	}
	return 0.0
}

// ConvertGameRating maps a Steam-style review label ("Very Positive",
// "Mixed", ...) onto the common numeric scale.
//
// The branches run in this exact order on purpose: "negative" is tested
// before "very negative", so "Very Negative" converts to 2.0 and the final
// branch never fires. The upstream system behaves this way and stored data
// depends on it, so the ladder is kept as-is rather than fixed.
func ConvertGameRating(raw any) float64 {
	s, _ := raw.(string)
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0.0
	}
	switch {
	case strings.Contains(s, "very positive"):
		return 5.0
	case strings.Contains(s, "positive"):
		return 4.0
	case strings.Contains(s, "mixed"):
		return 3.0
	case strings.Contains(s, "negative"):
		return 2.0
	case strings.Contains(s, "very negative"):
		return 1.0
	default:
		return 0.0
	}
}
