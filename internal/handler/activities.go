package handler

import (
	"net/http"
	"strconv"
	"time"

	"stocktrail/internal/apierror"
	"stocktrail/internal/store"

	"github.com/gin-gonic/gin"
)

type ActivitiesHandler struct {
	activity      *store.ActivityStore
	retentionDays int
}

func NewActivitiesHandler(activity *store.ActivityStore, retentionDays int) *ActivitiesHandler {
	return &ActivitiesHandler{activity: activity, retentionDays: retentionDays}
}

// List returns the log newest-first, optionally filtered to a single ISO
// calendar date via ?date=2006-01-02.
func (h *ActivitiesHandler) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusOK, h.activity.Entries())
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("date must be YYYY-MM-DD"))
		return
	}
	c.JSON(http.StatusOK, h.activity.ByDate(date))
}

func (h *ActivitiesHandler) Today(c *gin.Context) {
	c.JSON(http.StatusOK, h.activity.Today())
}

// Prune removes entries older than ?days (default: configured retention).
// Deletion is irreversible.
func (h *ActivitiesHandler) Prune(c *gin.Context) {
	days := h.retentionDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("days must be a positive integer"))
			return
		}
		days = parsed
	}
	removed := h.activity.ClearOld(c.Request.Context(), days)
	c.JSON(http.StatusOK, gin.H{"removed": removed, "days_kept": days})
}
