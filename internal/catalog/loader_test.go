package catalog

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"recshelf/pkg/models"
)

func writeFile(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDomainJSON(t *testing.T) {
	dir := t.TempDir()
	items := writeFile(t, dir, "items.json", []map[string]any{
		{"title": "Attack on Titan", "rating": 9.0},
		{"title": "Naruto", "rating": 8.0},
	})
	pop := writeFile(t, dir, "popular.json", []string{"Naruto", "Attack on Titan"})

	c := LoadDomain(models.TypeAnime, items, pop)
	if len(c.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(c.Items))
	}
	if len(c.Popular) != 2 || c.Popular[0].Title != "Naruto" {
		t.Fatalf("unexpected popular: %+v", c.Popular)
	}
}

func TestLoadDomainMissingFilesYieldEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	c := LoadDomain(models.TypeGame, filepath.Join(dir, "absent.json"), filepath.Join(dir, "absent-pop.json"))
	if len(c.Items) != 0 || len(c.Popular) != 0 {
		t.Fatalf("expected empty catalog, got %d items", len(c.Items))
	}
}

func TestLoadDomainMalformedItemsYieldEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	items := filepath.Join(dir, "items.json")
	if err := os.WriteFile(items, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := LoadDomain(models.TypeAnime, items, filepath.Join(dir, "absent.json"))
	if len(c.Items) != 0 {
		t.Fatalf("expected empty catalog, got %d items", len(c.Items))
	}
}

func TestLoadPopularityIndexShape(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pop.json", []int{2, 0})

	art, err := loadPopularity(path)
	if err != nil {
		t.Fatalf("loadPopularity: %v", err)
	}
	if len(art.Indices) != 2 || art.Indices[0] != 2 {
		t.Fatalf("unexpected indices: %v", art.Indices)
	}
	if len(art.Titles) != 0 || len(art.Records) != 0 {
		t.Fatal("expected only the index variant to be populated")
	}
}

func TestLoadPopularityRecordShape(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pop.json", []map[string]any{{"title": "Portal 2"}})

	art, err := loadPopularity(path)
	if err != nil {
		t.Fatalf("loadPopularity: %v", err)
	}
	if len(art.Records) != 1 {
		t.Fatalf("unexpected records: %v", art.Records)
	}
}

func TestLoadItemsSQLiteSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE items (app_name TEXT, app_id TEXT, rating TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO items VALUES ('Portal 2', '620', 'Very Positive')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rows, err := loadItems(path)
	if err != nil {
		t.Fatalf("loadItems: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["app_name"] != "Portal 2" {
		t.Fatalf("unexpected row: %v", rows[0])
	}

	c := Build(models.TypeGame, rows, PopularityArtifact{})
	if len(c.Items) != 1 || c.Items[0].Rating != 5.0 {
		t.Fatalf("unexpected catalog from sqlite rows: %+v", c.Items)
	}
}
