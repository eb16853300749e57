package handler

import (
	"errors"
	"net/http"

	"stocktrail/internal/apierror"
	"stocktrail/internal/store"
	"stocktrail/internal/syncer"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	manager   *syncer.Manager
	monitor   *syncer.Monitor
	inventory *store.InventoryStore
}

func NewSyncHandler(manager *syncer.Manager, monitor *syncer.Monitor, inventory *store.InventoryStore) *SyncHandler {
	return &SyncHandler{manager: manager, monitor: monitor, inventory: inventory}
}

// Trigger runs one sync pass. Offline and already-running are client-visible
// conditions, not server faults.
func (h *SyncHandler) Trigger(c *gin.Context) {
	err := h.manager.Sync(c.Request.Context())
	switch {
	case errors.Is(err, syncer.ErrOffline):
		c.JSON(http.StatusServiceUnavailable, apierror.New("offline: remote is unreachable"))
	case errors.Is(err, syncer.ErrSyncInFlight):
		c.JSON(http.StatusConflict, apierror.New("a sync is already in progress"))
	case err != nil:
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":  h.manager.Status(),
			"pending": len(h.inventory.UnsyncedItems()),
		})
	}
}

func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  h.manager.Status(),
		"online":  h.monitor.Online(),
		"pending": len(h.inventory.UnsyncedItems()),
	})
}
