package main

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// import-catalog turns a CSV dataset into the snapshot pair the server
// loads: a sqlite items table plus a popularity artifact of ordered
// titles. Column names are taken from the CSV header as-is; the server's
// normalizer resolves them through its alias chains at load time.
func main() {
	var (
		in      = flag.String("in", "data/items.csv", "input CSV dataset")
		dbOut   = flag.String("db", "data/catalog.db", "output sqlite snapshot")
		popOut  = flag.String("popular", "data/popular.json", "output popularity artifact (ordered titles)")
		popCol  = flag.String("popularity-column", "popularity", "numeric column used to rank the popularity artifact")
		popSize = flag.Int("top", 25, "number of entries in the popularity artifact")
	)
	flag.Parse()

	header, rows, err := readCSV(*in)
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}
	if len(header) == 0 {
		log.Fatalf("%s: empty header", *in)
	}

	if err := writeSnapshot(*dbOut, header, rows); err != nil {
		log.Fatalf("write snapshot failed: %v", err)
	}
	if err := writePopularity(*popOut, header, rows, *popCol, *popSize); err != nil {
		log.Fatalf("write popularity failed: %v", err)
	}

	log.Printf("imported %d rows from %s into %s (+%s)", len(rows), *in, *dbOut, *popOut)
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func writeSnapshot(path string, header []string, rows [][]string) error {
	// rebuild from scratch; snapshots are replaced wholesale
	_ = os.Remove(path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, name := range header {
		cols[i] = quoteIdent(name) + " TEXT"
		marks[i] = "?"
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE items (%s)", strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO items VALUES (%s)", strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		vals := make([]any, len(header))
		for i := range header {
			if i < len(row) {
				vals[i] = strings.TrimSpace(row[i])
			} else {
				vals[i] = ""
			}
		}
		if _, err := stmt.Exec(vals...); err != nil {
			return fmt.Errorf("exec insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// writePopularity ranks rows by the chosen numeric column (descending)
// and writes the top titles as an ordered JSON array. Without a usable
// ranking column, file order stands in for popularity.
func writePopularity(path string, header []string, rows [][]string, popCol string, top int) error {
	titleIdx := columnIndex(header, "title", "Title", "name", "Name", "app_name")
	if titleIdx < 0 {
		return fmt.Errorf("no title column among %v", header)
	}
	rankIdx := columnIndex(header, popCol)

	type ranked struct {
		title string
		score float64
	}
	entries := make([]ranked, 0, len(rows))
	for _, row := range rows {
		if titleIdx >= len(row) {
			continue
		}
		title := strings.TrimSpace(row[titleIdx])
		if title == "" {
			continue
		}
		var score float64
		if rankIdx >= 0 && rankIdx < len(row) {
			score, _ = strconv.ParseFloat(strings.TrimSpace(row[rankIdx]), 64)
		}
		entries = append(entries, ranked{title: title, score: score})
	}

	if rankIdx >= 0 {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].score > entries[j].score
		})
	}
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}

	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.title
	}
	data, err := json.Marshal(titles)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func columnIndex(header []string, names ...string) int {
	for _, name := range names {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
