package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/backup"
	"github.com/vsinha/metalerp/pkg/interfaces/http/apierror"
)

// maxBackupSize caps restore uploads
const maxBackupSize = 32 << 20

type BackupHandler struct {
	backups *services.BackupService
	now     func() time.Time
}

func NewBackupHandler(backups *services.BackupService, now func() time.Time) *BackupHandler {
	if now == nil {
		now = time.Now
	}
	return &BackupHandler{backups: backups, now: now}
}

// Export GET /api/backup
func (h *BackupHandler) Export(c *gin.Context) {
	data, err := h.backups.ExportJSON(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.FileName(h.now())))
	c.Data(http.StatusOK, "application/json", data)
}

// Restore POST /api/backup/restore?confirm=true
func (h *BackupHandler) Restore(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBackupSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("could not read backup body"))
		return
	}
	if err := h.backups.Restore(c.Request.Context(), data, confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true})
}

// Reset POST /api/reset?confirm=true
func (h *BackupHandler) Reset(c *gin.Context) {
	if err := h.backups.Reset(c.Request.Context(), confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true})
}
