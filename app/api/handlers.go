package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobpush/app/cfg"
	"jobpush/app/database"
	"jobpush/app/feed"
)

func NewHandler(postingRepo database.PostingRepository, watchConfig *feed.Config,
	workerStatus WorkerStatusInterface) *Handler {
	return &Handler{
		postingRepo: postingRepo,
		watchConfig: watchConfig,
		worker:      workerStatus,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
		"feeds":     len(h.watchConfig.Feeds),
		"keywords":  len(h.watchConfig.Keywords),
	}

	if count, err := h.postingRepo.GetPostingCount(); err == nil {
		health["postings"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"last_cycle": h.worker.Status(),
	}

	feeds := make([]map[string]interface{}, 0, len(h.watchConfig.Feeds))
	for _, feedConfig := range h.watchConfig.Feeds {
		feeds = append(feeds, map[string]interface{}{
			"name":    feedConfig.Name,
			"url":     feedConfig.URL,
			"timeout": (time.Duration(feedConfig.Timeout) * time.Second).String(),
		})
	}
	stats["feeds"] = feeds
	stats["keywords"] = h.watchConfig.Keywords

	if count, err := h.postingRepo.GetPostingCount(); err == nil {
		stats["postings"] = count
	}
	if last, err := h.postingRepo.GetLastCreatedDate(); err == nil && last != nil {
		stats["last_posting_at"] = last.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListPostings(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	postings, err := h.postingRepo.GetRecentPostings(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_postings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	results := make([]map[string]interface{}, 0, len(postings))
	for _, posting := range postings {
		results = append(results, map[string]interface{}{
			"id":           posting.ID,
			"title":        posting.Title,
			"categories":   posting.Categories,
			"link":         posting.Link,
			"publish_date": posting.PublishDate.Format(time.RFC3339),
			"created_date": posting.CreatedDate.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"postings": results,
		"total":    len(results),
	})
}
