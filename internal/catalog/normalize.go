package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"recshelf/pkg/models"
)

// Field alias chains, checked in order. Snapshot sources disagree on
// column names, so every canonical field resolves through its own chain.
var (
	titleAliases      = []string{"title", "Title", "name", "Name", "app_name", "anime", "game"}
	imageURLAliases   = []string{"image_url", "img_url", "poster", "header_image", "thumbnail", "Image URL"}
	ratingAliases     = []string{"rating", "score", "avg_rating", "Rating", "Score"}
	genreAliases      = []string{"genre", "genres", "tags", "Genres"}
	yearAliases       = []string{"year", "release_year", "aired"}
	popularityAliases = []string{"popularity", "pop", "rank", "Popularity", "user_reviews"}
	priceAliases      = []string{"price", "final_price", "price_final"}
	idAliases         = []string{"id", "app_id", "anime_id"}
	appIDAliases      = []string{"app_id", "appid", "appId"}
)

// titleDenylist marks serialization leakage from the upstream snapshot
// pipeline; a "title" containing any of these is a malformed row, not a
// real title.
var titleDenylist = []string{
	"pandas.core", "numpy.core", "dataframe", "series", "dtype", "ndarray", "index",
}

const maxTitleRunes = 300

// Normalize converts one raw snapshot record into a canonical Item.
// It returns nil when the record fails validation; bad rows are dropped,
// never surfaced as errors.
func Normalize(raw map[string]any, domain string, idx int) *models.Item {
	title := strings.TrimSpace(stringValue(raw, titleAliases))
	if title == "" {
		title = fmt.Sprintf("Item %d", idx)
	}
	if !validTitle(title) {
		return nil
	}

	rawRating, _ := firstValue(raw, ratingAliases)
	var rating float64
	if domain == models.TypeGame {
		rating = ConvertGameRating(rawRating)
	} else {
		rating = ConvertAnimeRating(rawRating)
	}

	imageURL := strings.TrimSpace(stringValue(raw, imageURLAliases))
	if domain == models.TypeGame && !strings.HasPrefix(imageURL, "http") {
		if appID := steamAppID(raw); appID != "" {
			imageURL = steamHeaderURL(appID)
		}
	}

	item := &models.Item{
		ID:     itemID(raw, domain, idx),
		Title:  title,
		Rating: rating,
		Type:   domain,
		Metadata: models.Metadata{
			Genre:      genreValue(raw),
			Year:       yearValue(raw),
			Popularity: intValue(raw, popularityAliases),
			Price:      priceValue(raw),
		},
	}
	if strings.HasPrefix(imageURL, "http") {
		item.ImageURL = &imageURL
	}
	return item
}

func validTitle(title string) bool {
	if title == "" || utf8.RuneCountInString(title) > maxTitleRunes {
		return false
	}
	lower := strings.ToLower(title)
	for _, marker := range titleDenylist {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// firstValue returns the first present, non-empty value among the alias keys.
func firstValue(raw map[string]any, aliases []string) (any, bool) {
	for _, k := range aliases {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func stringValue(raw map[string]any, aliases []string) string {
	v, ok := firstValue(raw, aliases)
	if !ok {
		return ""
	}
	return asString(v)
}

// asString renders scalar snapshot values as text. JSON decoding hands us
// float64 for every number, sqlite hands us int64.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func itemID(raw map[string]any, domain string, idx int) string {
	if id := strings.TrimSpace(stringValue(raw, idAliases)); id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", domain, idx)
}

func genreValue(raw map[string]any) string {
	v, ok := firstValue(raw, genreAliases)
	if !ok {
		return ""
	}
	switch g := v.(type) {
	case string:
		return g
	case []string:
		return strings.Join(g, ", ")
	case []any:
		parts := make([]string, 0, len(g))
		for _, e := range g {
			if s := asString(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// yearValue coerces the year only when the raw value is purely digits;
// values like "circa 2009" or date strings become nil.
func yearValue(raw map[string]any) *int {
	s := strings.TrimSpace(stringValue(raw, yearAliases))
	if s == "" || !isDigits(s) {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func intValue(raw map[string]any, aliases []string) int {
	v, ok := firstValue(raw, aliases)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

func priceValue(raw map[string]any) *float64 {
	v, ok := firstValue(raw, priceAliases)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

// steamAppID returns the numeric Steam application id, if the record has
// one in any of its alias spellings.
func steamAppID(raw map[string]any) string {
	v, ok := firstValue(raw, appIDAliases)
	if !ok {
		return ""
	}
	n, err := strconv.Atoi(strings.TrimSpace(asString(v)))
	if err != nil {
		return ""
	}
	return strconv.Itoa(n)
}

func steamHeaderURL(appID string) string {
	return fmt.Sprintf("https://cdn.akamai.steamstatic.com/steam/apps/%s/header.jpg", appID)
}
