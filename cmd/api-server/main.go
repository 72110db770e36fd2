package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recshelf/internal/catalog"
	"recshelf/internal/enrich"
	"recshelf/internal/recommend"
	"recshelf/pkg/models"
	"recshelf/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()

	// Catalogs are built once here, before any request is served, and are
	// read-only afterwards.
	catalogs := map[string]*catalog.Catalog{
		models.TypeAnime: catalog.LoadDomain(models.TypeAnime, cfg.AnimeItemsPath, cfg.AnimePopularityPath),
		models.TypeGame:  catalog.LoadDomain(models.TypeGame, cfg.GameItemsPath, cfg.GamePopularityPath),
	}

	var lookup enrich.ImageLookup
	if cfg.EnrichmentOn {
		lookup = enrich.NewJikanClient(cfg.JikanBase)
	}
	images := enrich.New(cfg.ImageCachePath, lookup)

	svc := recommend.NewService(catalogs, images)

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(cors.Default())
	router.Use(requestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"anime_items": len(catalogs[models.TypeAnime].Items),
			"game_items":  len(catalogs[models.TypeGame].Items),
			"image_cache": images.Len(),
		})
	})

	handler := recommend.NewHandler(svc)
	handler.RegisterRoutes(router.Group("/api"))

	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
		router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	images.Flush()
	log.Println("server stopped")
}

// requestID tags every request with an id for log correlation, honoring
// one supplied by the caller.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
