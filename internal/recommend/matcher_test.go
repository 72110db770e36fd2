package recommend

import (
	"reflect"
	"testing"

	"recshelf/internal/catalog"
	"recshelf/pkg/models"
)

func item(title string) models.Item {
	return models.Item{ID: title, Title: title, Type: models.TypeAnime}
}

func testCatalog(titles []string, popular []string) *catalog.Catalog {
	c := &catalog.Catalog{Domain: models.TypeAnime}
	for _, t := range titles {
		c.Items = append(c.Items, item(t))
	}
	for _, t := range popular {
		c.Popular = append(c.Popular, item(t))
	}
	return c
}

func titlesOf(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestMatchPrefixTierScenario(t *testing.T) {
	c := testCatalog(
		[]string{"Attack on Titan", "Attack No More", "Titanfall"},
		nil,
	)

	got := titlesOf(Match("attack", c, 12))
	want := []string{"Attack on Titan", "Attack No More"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMatchExactBeforePrefix(t *testing.T) {
	c := testCatalog(
		[]string{"Naruto Shippuden", "Naruto", "Narutaru"},
		nil,
	)

	got := titlesOf(Match("Naruto", c, 10))
	if got[0] != "Naruto" {
		t.Fatalf("exact match not ranked first: %v", got)
	}
	if got[1] != "Naruto Shippuden" {
		t.Fatalf("prefix match not second: %v", got)
	}
}

func TestMatchCaseInsensitiveAndTrimmed(t *testing.T) {
	c := testCatalog([]string{"One Piece"}, nil)
	got := titlesOf(Match("  ONE PIECE  ", c, 5))
	if len(got) != 1 || got[0] != "One Piece" {
		t.Fatalf("got %v", got)
	}
}

func TestMatchNoDuplicateTitles(t *testing.T) {
	c := testCatalog(
		[]string{"Attack on Titan", "Attack on Titan", "Attack No More"},
		[]string{"Attack on Titan", "Death Note"},
	)

	got := titlesOf(Match("attack on titan", c, 10))
	seen := map[string]bool{}
	for _, title := range got {
		if seen[title] {
			t.Fatalf("duplicate title %q in %v", title, got)
		}
		seen[title] = true
	}
}

func TestMatchEmptyQueryEqualsPopular(t *testing.T) {
	c := testCatalog(
		[]string{"A", "B", "C"},
		[]string{"C", "A", "B"},
	)

	got := Match("", c, 2)
	want := Popular(c, 2)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", titlesOf(got), titlesOf(want))
	}
}

func TestMatchContainsRequiresFourChars(t *testing.T) {
	c := testCatalog([]string{"xyzabcxyz"}, nil)

	if got := Match("abc", c, 10); len(got) != 0 {
		t.Fatalf("3-char query should skip the contains tier, got %v", titlesOf(got))
	}
	if got := Match("abcx", c, 10); len(got) != 1 {
		t.Fatalf("4-char query should hit the contains tier, got %v", titlesOf(got))
	}
}

func TestMatchWordBoundaryTier(t *testing.T) {
	c := testCatalog(
		[]string{"Fullmetal Alchemist", "The Alchemist Returns", "Alchemy Lab"},
		nil,
	)

	got := titlesOf(Match("mystery alchemist saga", c, 12))
	want := []string{"Fullmetal Alchemist", "The Alchemist Returns"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMatchContainsGateCountsRunes(t *testing.T) {
	c := testCatalog([]string{"劇場版 進撃の巨人"}, nil)

	// two runes, six bytes: still below the contains-tier threshold
	if got := Match("進撃", c, 10); len(got) != 0 {
		t.Fatalf("2-rune query should skip the contains tier, got %v", titlesOf(got))
	}
	if got := Match("進撃の巨", c, 10); len(got) != 1 {
		t.Fatalf("4-rune query should hit the contains tier, got %v", titlesOf(got))
	}
}

func TestMatchWordTierMatchesUnicodeWords(t *testing.T) {
	c := testCatalog(
		[]string{"モンスター パレード", "モンスターランド"},
		nil,
	)

	got := titlesOf(Match("モンスター ハンター", c, 12))
	want := []string{"モンスター パレード"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMatchWordTierSkippedForSingleWord(t *testing.T) {
	// a single-word query must not fall into the word-boundary tier, and
	// a 3-char query skips the contains tier, so nothing fires here
	c := testCatalog([]string{"word zzz word"}, nil)
	got := Match("zzz", c, 10)
	if len(got) != 0 {
		t.Fatalf("got %v", titlesOf(got))
	}
}

func TestMatchPadsFromPopular(t *testing.T) {
	c := testCatalog(
		[]string{"Attack on Titan"},
		[]string{"Death Note", "Attack on Titan", "Steins;Gate"},
	)

	got := titlesOf(Match("attack on titan", c, 3))
	want := []string{"Attack on Titan", "Death Note", "Steins;Gate"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMatchTruncatesToLimit(t *testing.T) {
	c := testCatalog(
		[]string{"Attack on Titan", "Attack No More", "Attack of the Clones"},
		nil,
	)
	if got := Match("attack", c, 2); len(got) != 2 {
		t.Fatalf("expected 2 results, got %v", titlesOf(got))
	}
}

func TestPopularCapsAtAvailable(t *testing.T) {
	c := testCatalog(nil, []string{"A", "B"})
	if got := Popular(c, 25); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got := Popular(c, 1); len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("unexpected head: %v", titlesOf(got))
	}
}

func TestQuickSearchSubstring(t *testing.T) {
	c := testCatalog(nil, []string{"Attack on Titan", "Death Note", "Titanfall"})
	got := titlesOf(QuickSearch("titan", c, 50))
	want := []string{"Attack on Titan", "Titanfall"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
