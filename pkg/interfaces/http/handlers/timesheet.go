package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/domain/entities"
)

type TimesheetHandler struct {
	timesheet *services.TimesheetService
	advisor   *services.AdvisorService
	now       func() time.Time
}

func NewTimesheetHandler(timesheet *services.TimesheetService, advisor *services.AdvisorService, now func() time.Time) *TimesheetHandler {
	if now == nil {
		now = time.Now
	}
	return &TimesheetHandler{timesheet: timesheet, advisor: advisor, now: now}
}

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *TimesheetHandler) Employees(c *gin.Context) {
	c.JSON(http.StatusOK, h.timesheet.Employees())
}

func (h *TimesheetHandler) Machines(c *gin.Context) {
	c.JSON(http.StatusOK, h.timesheet.Machines())
}

func (h *TimesheetHandler) ServiceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, entities.ServiceTypes)
}

func (h *TimesheetHandler) AddEmployee(c *gin.Context) {
	h.rosterChange(c, h.timesheet.AddEmployee)
}

func (h *TimesheetHandler) AddMachine(c *gin.Context) {
	h.rosterChange(c, h.timesheet.AddMachine)
}

// RemoveEmployee DELETE /api/timesheet/employees/:name
func (h *TimesheetHandler) RemoveEmployee(c *gin.Context) {
	roster, err := h.timesheet.RemoveEmployee(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// RemoveMachine DELETE /api/timesheet/machines/:name
func (h *TimesheetHandler) RemoveMachine(c *gin.Context) {
	roster, err := h.timesheet.RemoveMachine(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func (h *TimesheetHandler) rosterChange(c *gin.Context, add func(ctx context.Context, name string) (entities.Roster, error)) {
	var req nameRequest
	if !bindAndValidate(c, &req) {
		return
	}
	roster, err := add(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// StartJob POST /api/timesheet/jobs
func (h *TimesheetHandler) StartJob(c *gin.Context) {
	var req entities.JobData
	if !bindAndValidate(c, &req) {
		return
	}
	job, err := h.timesheet.StartJob(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// StopJob POST /api/timesheet/jobs/:jid/stop
func (h *TimesheetHandler) StopJob(c *gin.Context) {
	record, err := h.timesheet.StopJob(c.Request.Context(), c.Param("jid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TimesheetHandler) ActiveJobs(c *gin.Context) {
	c.JSON(http.StatusOK, h.timesheet.ActiveJobs())
}

// Records GET /api/timesheet/records?employee=&machine=&serviceType=&client=
func (h *TimesheetHandler) Records(c *gin.Context) {
	var filter dto.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
		return
	}
	c.JSON(http.StatusOK, h.timesheet.Records(filter))
}

// UpdateRecord PUT /api/timesheet/records/:rid
func (h *TimesheetHandler) UpdateRecord(c *gin.Context) {
	var req dto.RecordUpdate
	if !bindAndValidate(c, &req) {
		return
	}
	record, err := h.timesheet.UpdateRecord(c.Request.Context(), c.Param("rid"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteRecord DELETE /api/timesheet/records/:rid?confirm=true
func (h *TimesheetHandler) DeleteRecord(c *gin.Context) {
	if err := h.timesheet.DeleteRecord(c.Request.Context(), c.Param("rid"), confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export GET /api/timesheet/records/export
func (h *TimesheetHandler) Export(c *gin.Context) {
	var filter dto.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
		return
	}
	var buf bytes.Buffer
	if err := h.timesheet.ExportCSV(&buf, filter); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("apontamentos_%s.csv", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Analyze POST /api/timesheet/analysis
func (h *TimesheetHandler) Analyze(c *gin.Context) {
	var filter dto.RecordFilter
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &filter) {
		return
	}
	text, err := h.advisor.AnalyzeWorkLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": text})
}
