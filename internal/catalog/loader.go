package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// maxSnapshotBytes guards against runaway snapshot files; anything larger
// is a load error and the domain starts empty.
const maxSnapshotBytes = 64 << 20

// LoadDomain builds one domain's catalog from its snapshot files. The item
// table may be a JSON array of records or a sqlite snapshot database (by
// file extension); the popularity artifact is always a JSON side file.
//
// Load failures are logged and yield an empty (or partial) catalog;
// startup never fails on bad snapshots.
func LoadDomain(domain, itemsPath, popularityPath string) *Catalog {
	rows, err := loadItems(itemsPath)
	if err != nil {
		log.Printf("[catalog] %s: items snapshot %s: %v", domain, itemsPath, err)
	}

	pop, err := loadPopularity(popularityPath)
	if err != nil {
		log.Printf("[catalog] %s: popularity artifact %s: %v", domain, popularityPath, err)
	}

	c := Build(domain, rows, pop)
	log.Printf("[catalog] %s: %d items, %d popular", domain, len(c.Items), len(c.Popular))
	return c
}

func loadItems(path string) ([]map[string]any, error) {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		return loadItemsSQLite(path)
	}

	data, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return rows, nil
}

// loadItemsSQLite reads every row of the snapshot's items table into a
// generic record keyed by column name, so the normalizer's alias chains
// see the same shape regardless of source.
func loadItemsSQLite(path string) ([]map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT * FROM items`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// loadPopularity decodes the artifact entry by entry: a string is a title,
// a number is a source-row index, an object is a raw record.
func loadPopularity(path string) (PopularityArtifact, error) {
	var art PopularityArtifact

	data, err := readSnapshot(path)
	if err != nil {
		return art, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return art, fmt.Errorf("decode popularity: %w", err)
	}

	for _, e := range entries {
		var title string
		if err := json.Unmarshal(e, &title); err == nil {
			art.Titles = append(art.Titles, title)
			continue
		}
		var idx int
		if err := json.Unmarshal(e, &idx); err == nil {
			art.Indices = append(art.Indices, idx)
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(e, &rec); err == nil {
			art.Records = append(art.Records, rec)
		}
	}
	return art, nil
}

func readSnapshot(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSnapshotBytes {
		return nil, fmt.Errorf("snapshot too large: %d bytes", info.Size())
	}
	return os.ReadFile(path)
}
