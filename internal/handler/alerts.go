package handler

import (
	"net/http"

	"stocktrail/internal/alert"
	"stocktrail/internal/apierror"
	"stocktrail/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlertsHandler struct {
	engine    *alert.Engine
	inventory *store.InventoryStore
}

func NewAlertsHandler(engine *alert.Engine, inventory *store.InventoryStore) *AlertsHandler {
	return &AlertsHandler{engine: engine, inventory: inventory}
}

func (h *AlertsHandler) List(c *gin.Context) {
	if c.Query("unacknowledged") == "true" {
		c.JSON(http.StatusOK, h.engine.Unacknowledged())
		return
	}
	c.JSON(http.StatusOK, h.engine.Alerts())
}

// Check forces a low-stock evaluation of the current inventory snapshot and
// returns any alerts it created.
func (h *AlertsHandler) Check(c *gin.Context) {
	created := h.engine.CheckLowStock(c.Request.Context(), h.inventory.Items())
	c.JSON(http.StatusOK, gin.H{"created": len(created), "alerts": created})
}

func (h *AlertsHandler) Acknowledge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.engine.Acknowledge(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AlertsHandler) Clear(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.engine.Clear(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Notification preferences. Enabling probes the delivery channel first and
// fails when it is unreachable, so the stored flag never lies.
func (h *AlertsHandler) EnableNotifications(c *gin.Context) {
	if err := h.engine.EnableNotifications(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications_enabled": true})
}

func (h *AlertsHandler) DisableNotifications(c *gin.Context) {
	h.engine.DisableNotifications(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"notifications_enabled": false})
}

func (h *AlertsHandler) NotificationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications_enabled": h.engine.NotificationsEnabled()})
}
