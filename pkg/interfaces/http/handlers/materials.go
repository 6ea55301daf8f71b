package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/report"
	"github.com/vsinha/metalerp/pkg/interfaces/http/apierror"
)

type MaterialsHandler struct {
	ledger  *services.LedgerService
	advisor *services.AdvisorService
}

func NewMaterialsHandler(ledger *services.LedgerService, advisor *services.AdvisorService) *MaterialsHandler {
	return &MaterialsHandler{ledger: ledger, advisor: advisor}
}

type importRequest struct {
	Type string `json:"type" validate:"required"`
	Text string `json:"text" validate:"required"`
}

type stockRequest struct {
	// Raw operator input; decimal commas are accepted and garbage counts as zero
	Quantity quantityInput `json:"qtyInStock"`
}

// quantityInput accepts a JSON number or string. Any other value binds as
// empty so the ledger coerces it to zero.
type quantityInput string

func (q *quantityInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = quantityInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*q = quantityInput(n.String())
		return nil
	}
	*q = ""
	return nil
}

type observationRequest struct {
	Observation string `json:"observation"`
}

// List GET /api/projects/:id/materials?search=
func (h *MaterialsHandler) List(c *gin.Context) {
	items, err := h.ledger.SearchMaterials(c.Param("id"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add POST /api/projects/:id/materials
func (h *MaterialsHandler) Add(c *gin.Context) {
	var req dto.MaterialInput
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.ledger.AddMaterial(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Import POST /api/projects/:id/materials/import
func (h *MaterialsHandler) Import(c *gin.Context) {
	var req importRequest
	if !bindAndValidate(c, &req) {
		return
	}
	materialType, err := entities.ParseMaterialType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	items, err := h.ledger.ImportMaterials(c.Request.Context(), c.Param("id"), materialType, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(items), "items": items})
}

// Validate GET /api/projects/:id/materials/validate
func (h *MaterialsHandler) Validate(c *gin.Context) {
	result, err := h.ledger.ValidateMaterials(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": result.Valid(), "errors": result.Errors})
}

// SetStock PUT /api/projects/:id/materials/:mid/stock
func (h *MaterialsHandler) SetStock(c *gin.Context) {
	var req stockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.ledger.SetStockQuantity(c.Request.Context(), c.Param("id"), c.Param("mid"), string(req.Quantity))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// SetObservation PUT /api/projects/:id/materials/:mid/observation
func (h *MaterialsHandler) SetObservation(c *gin.Context) {
	var req observationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.ledger.UpdateObservation(c.Request.Context(), c.Param("id"), c.Param("mid"), req.Observation); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove DELETE /api/projects/:id/materials/:mid?confirm=true
func (h *MaterialsHandler) Remove(c *gin.Context) {
	if err := h.ledger.RemoveMaterial(c.Request.Context(), c.Param("id"), c.Param("mid"), confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestSelected POST /api/projects/:id/materials/request-purchase
func (h *MaterialsHandler) RequestSelected(c *gin.Context) {
	var req idsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	flagged, err := h.ledger.SendSelectedToPurchasing(c.Request.Context(), c.Param("id"), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	if flagged == nil {
		flagged = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"requested": flagged, "applied": len(flagged) > 0})
}

// RequestOne POST /api/projects/:id/materials/:mid/request-purchase
func (h *MaterialsHandler) RequestOne(c *gin.Context) {
	if err := h.ledger.SendToPurchasing(c.Request.Context(), c.Param("id"), c.Param("mid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": []string{c.Param("mid")}, "applied": true})
}

// Label GET /api/projects/:id/materials/:mid/label.png
func (h *MaterialsHandler) Label(c *gin.Context) {
	label, err := h.ledger.Label(c.Param("id"), c.Param("mid"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteLabelPNG(&buf, *label); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Suggestions GET /api/projects/:id/suggestions
func (h *MaterialsHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.advisor.SuggestMaterials(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// ApplySuggestions POST /api/projects/:id/suggestions
func (h *MaterialsHandler) ApplySuggestions(c *gin.Context) {
	items, err := h.advisor.ApplySuggestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": len(items), "items": items})
}
