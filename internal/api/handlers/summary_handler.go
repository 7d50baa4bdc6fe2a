package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/storeops/toast-exports/internal/archive"
	"github.com/storeops/toast-exports/internal/cache"
	"github.com/storeops/toast-exports/internal/config"
	"github.com/storeops/toast-exports/internal/repository/postgres"
	"github.com/storeops/toast-exports/internal/service"
)

// SummaryHandler serves the admin surface: triggering runs, reading back
// summary documents, and inspecting run history.
type SummaryHandler struct {
	runner    *service.Runner
	repo      *postgres.SummaryRepository
	refCache  *cache.RefData
	rawPages  *archive.Store
	locations []config.Location
}

func NewSummaryHandler(runner *service.Runner, repo *postgres.SummaryRepository, refCache *cache.RefData, rawPages *archive.Store, locations []config.Location) *SummaryHandler {
	return &SummaryHandler{
		runner:    runner,
		repo:      repo,
		refCache:  refCache,
		rawPages:  rawPages,
		locations: locations,
	}
}

func (h *SummaryHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type triggerRunRequest struct {
	Store       string `json:"store"`
	BusinessDay string `json:"businessDay" binding:"required"`
}

// TriggerRun kicks off a processing run in the background. An empty store
// runs every configured location.
func (h *SummaryHandler) TriggerRun(c *gin.Context) {
	var req triggerRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "businessDay is required"})
		return
	}
	day, err := time.Parse("2006-01-02", req.BusinessDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "businessDay must be YYYY-MM-DD"})
		return
	}

	locs := h.locations
	if req.Store != "" {
		loc, ok := h.findLocation(req.Store)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown store"})
			return
		}
		locs = []config.Location{loc}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		h.runner.ProcessStores(ctx, locs, day)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message":     "run started",
		"businessDay": req.BusinessDay,
		"stores":      len(locs),
	})
}

// GetStores lists the configured locations without their wage details.
func (h *SummaryHandler) GetStores(c *gin.Context) {
	type storeInfo struct {
		Store    string `json:"store"`
		Timezone string `json:"timezone"`
	}
	stores := make([]storeInfo, 0, len(h.locations))
	for _, loc := range h.locations {
		stores = append(stores, storeInfo{Store: loc.Store, Timezone: loc.Timezone})
	}
	c.JSON(http.StatusOK, stores)
}

// GetRuns returns the most recent run log rows for a store.
func (h *SummaryHandler) GetRuns(c *gin.Context) {
	runs, err := h.repo.RecentRuns(c.Request.Context(), c.Param("store"), 50)
	if err != nil {
		log.Error().Err(err).Msg("failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *SummaryHandler) GetSalesSummary(c *gin.Context) {
	sum, err := h.repo.GetSalesSummary(c.Request.Context(), c.Param("id"))
	h.writeSummary(c, sum == nil, sum, err)
}

func (h *SummaryHandler) GetLaborSummary(c *gin.Context) {
	sum, err := h.repo.GetLaborSummary(c.Request.Context(), c.Param("id"))
	h.writeSummary(c, sum == nil, sum, err)
}

func (h *SummaryHandler) writeSummary(c *gin.Context, missing bool, doc any, err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to load summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}
	if missing {
		c.JSON(http.StatusNotFound, gin.H{"error": "summary not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// InvalidateCache drops a store's cached configuration maps so the next run
// refetches them.
func (h *SummaryHandler) InvalidateCache(c *gin.Context) {
	loc, ok := h.findLocation(c.Param("store"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown store"})
		return
	}
	if err := h.refCache.Invalidate(c.Request.Context(), loc.ToastGUID); err != nil {
		log.Error().Err(err).Msg("failed to invalidate cache")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cache invalidated", "store": loc.Store})
}

// GetArchivedPages lists the raw vendor pages archived for one store and
// business day.
func (h *SummaryHandler) GetArchivedPages(c *gin.Context) {
	if h.rawPages == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archiving is not enabled"})
		return
	}
	keys, err := h.rawPages.ListDay(c.Request.Context(), c.Param("store"), c.Param("day"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list archived pages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list archived pages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": c.Param("store"), "businessDay": c.Param("day"), "pages": keys})
}

func (h *SummaryHandler) findLocation(store string) (config.Location, bool) {
	for _, loc := range h.locations {
		if loc.Store == store {
			return loc, true
		}
	}
	return config.Location{}, false
}
