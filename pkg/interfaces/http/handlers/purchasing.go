package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/report"
)

type PurchasingHandler struct {
	ledger  *services.LedgerService
	reports *services.ReportService
}

func NewPurchasingHandler(ledger *services.LedgerService, reports *services.ReportService) *PurchasingHandler {
	return &PurchasingHandler{ledger: ledger, reports: reports}
}

type groupObservationRequest struct {
	IDs         []string `json:"ids" validate:"required,min=1"`
	Observation string   `json:"observation"`
}

// Queue GET /api/purchasing?status=&search=
func (h *PurchasingHandler) Queue(c *gin.Context) {
	filter, err := services.ParseStatusFilter(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ledger.PurchasingQueue(filter, c.Query("search")))
}

// SetStatus POST /api/purchasing/status
func (h *PurchasingHandler) SetStatus(c *gin.Context) {
	var req dto.BulkStatusInput
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.ledger.BulkSetStatus(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SetObservation POST /api/purchasing/observation
func (h *PurchasingHandler) SetObservation(c *gin.Context) {
	var req groupObservationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.ledger.SetGroupObservation(c.Request.Context(), req.IDs, req.Observation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteItems DELETE /api/purchasing/items?confirm=true
func (h *PurchasingHandler) DeleteItems(c *gin.Context) {
	var req idsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.ledger.DeleteItems(c.Request.Context(), req.IDs, confirmed(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Report GET /api/projects/:id/report?kind=&type=&format=html|pdf|xlsx|json
func (h *PurchasingHandler) Report(c *gin.Context) {
	doc, err := h.reports.Build(services.ReportRequest{
		ProjectID: c.Param("id"),
		Kind:      c.Query("kind"),
		Type:      c.Query("type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "html"))
	if format == "json" {
		c.JSON(http.StatusOK, doc)
		return
	}
	var buf bytes.Buffer
	r, err := h.reports.Render(&buf, doc, format)
	if err != nil {
		respondError(c, err)
		return
	}
	if format != "html" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(doc, r)))
	}
	c.Data(http.StatusOK, r.ContentType(), buf.Bytes())
}
