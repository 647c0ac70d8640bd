package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/classic-cipher-go/internal/dao"
	"github.com/classic-cipher-go/internal/errors"
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// RunHandler serves the run history
type RunHandler struct {
	runs *dao.RunDAO
}

// NewRunHandler creates a new run handler
func NewRunHandler(runs *dao.RunDAO) *RunHandler {
	return &RunHandler{runs: runs}
}

// List handles GET /api/runs?limit=N, newest first
func (h *RunHandler) List(c *gin.Context) {
	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondError(c, errors.NewBadRequest("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	runs, err := h.runs.List(limit)
	if err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to list runs", err))
		return
	}
	RespondSuccess(c, runs)
}
