package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/application/services"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
)

type ProjectsHandler struct {
	ledger *services.LedgerService
}

func NewProjectsHandler(ledger *services.LedgerService) *ProjectsHandler {
	return &ProjectsHandler{ledger: ledger}
}

// List GET /api/projects?view=commercial|engineering|pcp
func (h *ProjectsHandler) List(c *gin.Context) {
	projects, err := h.ledger.ListProjects(c.Query("view"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Get GET /api/projects/:id
func (h *ProjectsHandler) Get(c *gin.Context) {
	p, err := h.ledger.Project(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create POST /api/projects
func (h *ProjectsHandler) Create(c *gin.Context) {
	var req dto.ProjectInput
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.ledger.CreateProject(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update PUT /api/projects/:id
func (h *ProjectsHandler) Update(c *gin.Context) {
	var req dto.ProjectInput
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.ledger.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete DELETE /api/projects/:id?confirm=true
func (h *ProjectsHandler) Delete(c *gin.Context) {
	if err := h.ledger.DeleteProject(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transition returns the handler for POST /api/projects/:id/<transition>
func (h *ProjectsHandler) Transition(t domain.Transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		outcome, err := h.ledger.ApplyTransition(c.Request.Context(), c.Param("id"), t, confirmed(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, outcome)
	}
}

// Transitions GET /api/projects/:id/transitions
func (h *ProjectsHandler) Transitions(c *gin.Context) {
	available, err := h.ledger.AvailableTransitions(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if available == nil {
		available = []domain.Transition{}
	}
	c.JSON(http.StatusOK, available)
}

// Events GET /api/projects/:id/events
func (h *ProjectsHandler) Events(c *gin.Context) {
	evs, err := h.ledger.ProjectEvents(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, evs)
}

// Progress GET /api/projects/:id/progress
func (h *ProjectsHandler) Progress(c *gin.Context) {
	progress, err := h.ledger.Progress(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projectId": c.Param("id"), "progress": progress})
}

// Dashboard GET /api/dashboard
func (h *ProjectsHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Dashboard())
}
