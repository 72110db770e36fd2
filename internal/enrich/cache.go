package enrich

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"recshelf/pkg/models"
)

// ImageLookup resolves a title to a cover image URL via a remote service.
// A nil lookup disables enrichment: every resolve is a miss.
type ImageLookup interface {
	ImageURL(ctx context.Context, title string) (string, error)
}

// Cache is the process-wide title→cover-URL map shared by all requests.
// Map access happens under mu; the remote lookup runs outside the lock so
// concurrent misses for different titles do not serialize on network I/O.
// Only successful resolutions are stored — there is no negative caching.
type Cache struct {
	path   string
	lookup ImageLookup

	mu      sync.Mutex
	entries map[string]string

	persists sync.WaitGroup
}

// New loads the persisted cache from path if present. A missing or
// malformed file starts the cache empty; loading never fails.
func New(path string, lookup ImageLookup) *Cache {
	c := &Cache{
		path:    path,
		lookup:  lookup,
		entries: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Printf("[enrich] ignoring malformed cache file %s: %v", path, err)
		c.entries = make(map[string]string)
	}
	return c
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ResolveImage returns a cover URL for title, consulting the cache first
// and falling back to the remote lookup on a miss. Lookup failures and
// malformed results yield "" — enrichment is best-effort and never
// surfaces an error.
func (c *Cache) ResolveImage(ctx context.Context, title string) string {
	key := strings.TrimSpace(title)
	if key == "" {
		return ""
	}

	c.mu.Lock()
	url, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return url
	}

	if c.lookup == nil {
		return ""
	}

	query := searchTitle(key)
	if query == "" {
		query = key
	}
	url, err := c.lookup.ImageURL(ctx, query)
	if err != nil || !strings.HasPrefix(url, "http") {
		return ""
	}

	c.mu.Lock()
	c.entries[key] = url
	c.mu.Unlock()

	c.persistAsync()
	return url
}

// EnrichMissing fills in missing cover URLs for anime items, in place.
func (c *Cache) EnrichMissing(ctx context.Context, items []models.Item) {
	for i := range items {
		if items[i].Type != models.TypeAnime {
			continue
		}
		if items[i].ImageURL != nil && *items[i].ImageURL != "" {
			continue
		}
		if url := c.ResolveImage(ctx, items[i].Title); url != "" {
			items[i].ImageURL = &url
		}
	}
}

// persistAsync writes the current snapshot to disk on a detached
// goroutine so the request path never blocks on disk I/O. Two saves
// racing is fine: each serializes a full snapshot to its own temp file
// and the rename is atomic, so the last writer wins cleanly.
func (c *Cache) persistAsync() {
	c.mu.Lock()
	snapshot := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	c.persists.Add(1)
	go func() {
		defer c.persists.Done()
		if err := writeSnapshot(c.path, snapshot); err != nil {
			log.Printf("[enrich] persist cache: %v", err)
		}
	}()
}

func writeSnapshot(path string, snapshot map[string]string) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".image-cache-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Flush waits for in-flight persists to finish; call it on shutdown.
func (c *Cache) Flush() {
	c.persists.Wait()
}
