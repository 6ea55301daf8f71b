package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/domain/entities"
)

type ProductionHandler struct {
	ledger *services.LedgerService
}

func NewProductionHandler(ledger *services.LedgerService) *ProductionHandler {
	return &ProductionHandler{ledger: ledger}
}

type bulkProductionRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Status string   `json:"status" validate:"required"`
	User   string   `json:"user"`
}

// Queue GET /api/production
func (h *ProductionHandler) Queue(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.ProductionQueue())
}

// ChangeStatus POST /api/projects/:id/production/status
func (h *ProductionHandler) ChangeStatus(c *gin.Context) {
	var req dto.ProductionStatusInput
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.ledger.ChangeProductionStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BulkStatus POST /api/projects/:id/production/bulk
func (h *ProductionHandler) BulkStatus(c *gin.Context) {
	var req bulkProductionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.ledger.BulkProductionStatus(c.Request.Context(), c.Param("id"), req.IDs, entities.ProductionStatus(req.Status), req.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Split POST /api/projects/:id/production/:mid/split?confirm=true
func (h *ProductionHandler) Split(c *gin.Context) {
	ids, err := h.ledger.SplitBatch(c.Request.Context(), c.Param("id"), c.Param("mid"), confirmed(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"newIds": ids, "applied": len(ids) > 0})
}

// Processes GET /api/processes
func (h *ProductionHandler) Processes(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Palette())
}

// AddProcess POST /api/processes
func (h *ProductionHandler) AddProcess(c *gin.Context) {
	var req dto.ProcessInput
	if !bindAndValidate(c, &req) {
		return
	}
	proc, err := h.ledger.AddProcess(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proc)
}

// RemoveProcess DELETE /api/processes/:pid?confirm=true
func (h *ProductionHandler) RemoveProcess(c *gin.Context) {
	if err := h.ledger.RemoveProcess(c.Request.Context(), c.Param("pid"), confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
