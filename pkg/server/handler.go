package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	syncengine "github.com/kunnath/EDEKA-Analytics/pkg/sync"
	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

// Handler exposes the manual trigger surface and ledger visibility over
// the orchestrator.
type Handler struct {
	manager *syncengine.Manager
	logger  syncengine.Logger
}

func NewHandler(manager *syncengine.Manager, logger syncengine.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

func (h *Handler) healthz(c *gin.Context) {
	Ok(c, gin.H{"app": util.AppName, "version": util.GetVersion().Version})
}

// POST /api/sync
func (h *Handler) syncAll(c *gin.Context) {
	agg, err := h.manager.SyncAll()
	if err != nil {
		if stderrors.Is(err, syncengine.ErrSyncRunning) {
			Err(c, http.StatusConflict, err)
			return
		}
		Err(c, http.StatusInternalServerError, err)
		return
	}
	Ok(c, agg)
}

// POST /api/sync/:table
func (h *Handler) syncTable(c *gin.Context) {
	table := c.Param("table")
	res, err := h.manager.SyncTable(table)
	if err != nil {
		if stderrors.Is(err, syncengine.ErrSyncRunning) {
			Err(c, http.StatusConflict, err)
			return
		}
		Err(c, http.StatusBadRequest, err)
		return
	}
	Ok(c, res)
}

// GET /api/sync/logs?table=&limit=
func (h *Handler) syncLogs(c *gin.Context) {
	table := c.Query("table")
	limit := cast.ToInt(c.Query("limit"))
	entries, err := h.manager.Ledger().Entries(table, limit)
	if err != nil {
		Err(c, http.StatusInternalServerError, err)
		return
	}
	Ok(c, entries)
}
