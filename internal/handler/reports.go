package handler

import (
	"fmt"
	"net/http"
	"time"

	"stocktrail/internal/apierror"
	"stocktrail/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc *service.ReportService }

func NewReportsHandler(svc *service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Daily returns the report for ?date=2006-01-02, defaulting to today.
func (h *ReportsHandler) Daily(c *gin.Context) {
	date, ok := reportDate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Daily(date))
}

// DailyPDF streams the same report rendered as a PDF attachment.
func (h *ReportsHandler) DailyPDF(c *gin.Context) {
	date, ok := reportDate(c)
	if !ok {
		return
	}
	pdf, err := h.svc.RenderPDF(h.svc.Daily(date))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to render report"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.pdf"`, date))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func reportDate(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return time.Now().UTC().Format("2006-01-02"), true
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("date must be YYYY-MM-DD"))
		return "", false
	}
	return date, true
}
