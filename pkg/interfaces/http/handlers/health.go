package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/domain/repositories"
)

// Health reports whether the document store answers
func Health(store repositories.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "connected"
		if _, _, err := store.Load(ctx, repositories.KeyProcesses); err != nil {
			storeStatus = "error"
		}

		status := http.StatusOK
		if storeStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ok": status == http.StatusOK, "store": storeStatus})
	}
}
