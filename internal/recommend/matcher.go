package recommend

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"recshelf/internal/catalog"
	"recshelf/pkg/models"
)

// Match ranks catalog items against a query in four priority tiers:
//
//  1. exact title match, up to limit candidates
//  2. title prefix, up to limit/2 candidates
//  3. title substring, up to limit/3 candidates, queries of 4+ chars only
//  4. whole-word match, up to limit/4 candidates per word, multi-word
//     queries only, words of 3+ chars
//
// Titles are deduplicated across tiers, results below limit are padded
// from the popularity order, and the final list is cut to limit. An empty
// query returns the popularity order directly. The result is deterministic
// for a given catalog and query.
func Match(query string, c *catalog.Catalog, limit int) []models.Item {
	if c == nil || limit <= 0 {
		return nil
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Popular(c, limit)
	}

	results := make([]models.Item, 0, limit)
	seen := make(map[string]bool, limit)

	addTier(c.Items, limit, limit, &results, seen, func(title string) bool {
		return title == q
	})
	addTier(c.Items, limit, limit/2, &results, seen, func(title string) bool {
		return strings.HasPrefix(title, q)
	})
	if utf8.RuneCountInString(q) >= 4 {
		addTier(c.Items, limit, limit/3, &results, seen, func(title string) bool {
			return strings.Contains(title, q)
		})
	}
	if words := strings.Fields(q); len(words) > 1 {
		for _, w := range words {
			if len(results) >= limit {
				break
			}
			if utf8.RuneCountInString(w) < 3 {
				continue
			}
			// \b in RE2 only knows ASCII word characters, so spell the
			// boundary out to keep non-Latin words matching whole words.
			re, err := regexp.Compile(
				`(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(w) + `(?:[^\p{L}\p{N}_]|$)`,
			)
			if err != nil {
				continue
			}
			addTier(c.Items, limit, limit/4, &results, seen, re.MatchString)
		}
	}

	for _, it := range c.Popular {
		if len(results) >= limit {
			break
		}
		if !seen[it.Title] {
			seen[it.Title] = true
			results = append(results, it)
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// addTier walks the item table in load order, considering at most quota
// candidates whose lowercased title satisfies match. Candidates whose
// title already made it into results are skipped but still count against
// the quota, so a tier's reach does not depend on earlier-tier overlap.
func addTier(items []models.Item, limit, quota int, results *[]models.Item, seen map[string]bool, match func(string) bool) {
	if quota <= 0 {
		return
	}
	matched := 0
	for i := range items {
		if len(*results) >= limit || matched >= quota {
			return
		}
		if !match(strings.ToLower(items[i].Title)) {
			continue
		}
		matched++
		if seen[items[i].Title] {
			continue
		}
		seen[items[i].Title] = true
		*results = append(*results, items[i])
	}
}

// Popular returns the head of the catalog's popularity order.
func Popular(c *catalog.Catalog, limit int) []models.Item {
	if c == nil || limit <= 0 {
		return nil
	}
	if limit > len(c.Popular) {
		limit = len(c.Popular)
	}
	out := make([]models.Item, limit)
	copy(out, c.Popular[:limit])
	return out
}

// QuickSearch is the lightweight substring scan over the popular list,
// backing the legacy /search/:query endpoints.
func QuickSearch(query string, c *catalog.Catalog, limit int) []models.Item {
	if c == nil || limit <= 0 {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Item
	for _, it := range c.Popular {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(it.Title), q) {
			out = append(out, it)
		}
	}
	return out
}
