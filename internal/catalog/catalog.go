package catalog

import (
	"strings"

	"recshelf/pkg/models"
)

// Catalog is the read-only, domain-scoped collection of canonical items
// plus a separate popularity ordering. It is built once at startup and
// never mutated afterwards, so readers need no locking.
//
// Popular is not index-aligned with Items: the popularity artifact is a
// ranking that may cover only part of the table, and it is resolved by
// title or source-row lookup at build time.
type Catalog struct {
	Domain  string
	Items   []models.Item
	Popular []models.Item
}

// PopularityArtifact is the ranking half of a snapshot. Sources ship it in
// one of three shapes; Build resolves whichever is present into
// Catalog.Popular so nothing downstream branches on the shape again.
type PopularityArtifact struct {
	Titles  []string         // ordered item titles
	Indices []int            // ordered row indices into the source table
	Records []map[string]any // ordered raw records
}

// Build normalizes the raw item table and resolves the popularity artifact
// into a canonical ordering. Rows failing normalization are dropped.
func Build(domain string, rows []map[string]any, pop PopularityArtifact) *Catalog {
	c := &Catalog{Domain: domain}

	byTitle := make(map[string]int, len(rows))
	for i, raw := range rows {
		item := Normalize(raw, domain, i)
		if item == nil {
			continue
		}
		c.Items = append(c.Items, *item)
		if _, ok := byTitle[item.Title]; !ok {
			byTitle[item.Title] = len(c.Items) - 1
		}
	}

	switch {
	case len(pop.Titles) > 0:
		for _, t := range pop.Titles {
			if i, ok := byTitle[strings.TrimSpace(t)]; ok {
				c.Popular = append(c.Popular, c.Items[i])
			}
		}
	case len(pop.Indices) > 0:
		// indices reference rows of the source table, not c.Items
		for _, idx := range pop.Indices {
			if idx < 0 || idx >= len(rows) {
				continue
			}
			if item := Normalize(rows[idx], domain, idx); item != nil {
				c.Popular = append(c.Popular, *item)
			}
		}
	case len(pop.Records) > 0:
		for i, raw := range pop.Records {
			if item := Normalize(raw, domain, i); item != nil {
				c.Popular = append(c.Popular, *item)
			}
		}
	}

	return c
}
