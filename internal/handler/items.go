package handler

import (
	"errors"
	"net/http"

	"stocktrail/internal/alert"
	"stocktrail/internal/apierror"
	"stocktrail/internal/dto"
	"stocktrail/internal/model"
	"stocktrail/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ItemsHandler exposes the inventory CRUD surface. Every mutation re-runs the
// low-stock check so alerts track the snapshot without a separate poll.
type ItemsHandler struct {
	inventory *store.InventoryStore
	alerts    *alert.Engine
}

func NewItemsHandler(inventory *store.InventoryStore, alerts *alert.Engine) *ItemsHandler {
	return &ItemsHandler{inventory: inventory, alerts: alerts}
}

func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	threshold := model.DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	item, err := h.inventory.AddItem(c.Request.Context(), model.InventoryItem{
		Name:              req.Name,
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		Quantity:          req.Quantity,
		Price:             req.Price,
		LowStockThreshold: threshold,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.alerts.CheckLowStock(c.Request.Context(), h.inventory.Items())
	c.JSON(http.StatusCreated, item)
}

func (h *ItemsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventory.Items())
}

func (h *ItemsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	item, ok := h.inventory.ItemByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("item not found"))
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetByBarcode resolves a scanned barcode to its item. Barcodes are not
// unique; the oldest matching item wins.
func (h *ItemsHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	item, ok := h.inventory.ItemByBarcode(barcode)
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("no item with that barcode"))
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	item, err := h.inventory.UpdateItem(c.Request.Context(), model.InventoryItem{
		ID:                id,
		Name:              req.Name,
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		Quantity:          req.Quantity,
		Price:             req.Price,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.alerts.CheckLowStock(c.Request.Context(), h.inventory.Items())
	c.JSON(http.StatusOK, item)
}

func (h *ItemsHandler) AdjustQuantity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdjustQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}

	item, err := h.inventory.AdjustQuantity(c.Request.Context(), id, req.Delta)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.alerts.CheckLowStock(c.Request.Context(), h.inventory.Items())
	c.JSON(http.StatusOK, item)
}

func (h *ItemsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.inventory.DeleteItem(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unsynced lists items with local changes pending upload.
func (h *ItemsHandler) Unsynced(c *gin.Context) {
	items := h.inventory.UnsyncedItems()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// writeStoreError maps store sentinels onto HTTP status codes.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, store.ErrDuplicateID):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
