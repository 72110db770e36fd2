package recommend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recshelf/pkg/models"
)

const (
	popularLimit     = 25
	quickSearchLimit = 50
	defaultRecommend = 25
	defaultSearchRec = 12
	maxRecommend     = 50
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/anime/popular", h.popular(models.TypeAnime))
	rg.GET("/games/popular", h.popular(models.TypeGame))
	rg.GET("/anime/search/:query", h.search(models.TypeAnime))
	rg.GET("/games/search/:query", h.search(models.TypeGame))
	rg.POST("/search-recommendations", h.searchRecommendations)
	rg.POST("/recommend", h.recommend)
}

func (h *Handler) popular(domain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.Svc.Popular(c.Request.Context(), domain, popularLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		respondItems(c, items)
	}
}

func (h *Handler) search(domain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.Svc.Search(c.Request.Context(), domain, c.Param("query"), quickSearchLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		respondItems(c, items)
	}
}

type recommendRequest struct {
	Title string `json:"title"`
	Query string `json:"query"`
	Type  string `json:"type"`
	Limit *int   `json:"limit"`
}

func (r recommendRequest) limitOr(def int) int {
	if r.Limit == nil {
		return def
	}
	return *r.Limit
}

// searchRecommendations takes the caller's limit as-is; only /recommend
// clamps it.
func (h *Handler) searchRecommendations(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}
	items, err := h.Svc.Recommend(
		c.Request.Context(),
		strings.ToLower(strings.TrimSpace(req.Type)),
		req.Query,
		req.limitOr(defaultSearchRec),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondItems(c, items)
}

func (h *Handler) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}
	items, err := h.Svc.Recommend(
		c.Request.Context(),
		strings.ToLower(strings.TrimSpace(req.Type)),
		req.Title,
		clampLimit(req.limitOr(defaultRecommend)),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondItems(c, items)
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxRecommend {
		return maxRecommend
	}
	return limit
}

func respondItems(c *gin.Context, items []models.Item) {
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "total": len(items)})
}

// respondError maps caller errors to 400; nothing else in this service
// surfaces errors, so anything unexpected is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrInvalidDomain) || errors.Is(err, ErrEmptyQuery) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
