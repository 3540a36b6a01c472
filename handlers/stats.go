package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/JKozubekINF1/dart-counter/db"
	"github.com/JKozubekINF1/dart-counter/models"
	"github.com/gin-gonic/gin"
)

// StatsHandler answers historical statistics queries from the store.
type StatsHandler struct {
	store *db.Store
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(store *db.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// GetUserStats aggregates a user's persisted matches. The filter is either
// a time window (all, today, week, month) or a specific match id.
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID := c.Param("id")
	filter := c.DefaultQuery("filter", models.FilterAll)

	records, err := h.store.ListMatchRecords()
	if err != nil {
		standardResponse(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	result, err := models.QueryUser(records, userID, filter, time.Now())
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			standardResponse(c, http.StatusNotFound, "error", nil, err.Error())
			return
		}
		standardResponse(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	standardResponse(c, http.StatusOK, "ok", result, "")
}

// ListMatches returns every persisted match record, oldest first.
func (h *StatsHandler) ListMatches(c *gin.Context) {
	records, err := h.store.ListMatchRecords()
	if err != nil {
		standardResponse(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	standardResponse(c, http.StatusOK, "ok", records, "")
}
