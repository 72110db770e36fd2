package utils

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries all process configuration. Values come from the
// environment (a local .env file is honored) with defaults that make a
// plain ./data directory work out of the box.
type Config struct {
	Addr string

	AnimeItemsPath      string
	AnimePopularityPath string
	GameItemsPath       string
	GamePopularityPath  string

	ImageCachePath string
	JikanBase      string
	EnrichmentOn   bool

	StaticDir string
}

func LoadConfig() Config {
	_ = godotenv.Load()

	dataDir := getEnv("RECSHELF_DATA_DIR", "data")

	return Config{
		Addr: getEnv("RECSHELF_ADDR", ":8080"),

		AnimeItemsPath:      getEnv("RECSHELF_ANIME_ITEMS", filepath.Join(dataDir, "anime", "items.json")),
		AnimePopularityPath: getEnv("RECSHELF_ANIME_POPULAR", filepath.Join(dataDir, "anime", "popular.json")),
		GameItemsPath:       getEnv("RECSHELF_GAME_ITEMS", filepath.Join(dataDir, "games", "items.json")),
		GamePopularityPath:  getEnv("RECSHELF_GAME_POPULAR", filepath.Join(dataDir, "games", "popular.json")),

		ImageCachePath: getEnv("RECSHELF_IMAGE_CACHE", filepath.Join(dataDir, "anime_image_cache.json")),
		JikanBase:      getEnv("RECSHELF_JIKAN_BASE", ""),
		EnrichmentOn:   getEnvBool("RECSHELF_ENRICHMENT", true),

		StaticDir: getEnv("RECSHELF_STATIC_DIR", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
