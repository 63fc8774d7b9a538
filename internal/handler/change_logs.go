package handler

import (
	"net/http"

	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChangeLogsHandler exposes the ration audit trail, read-only.
type ChangeLogsHandler struct{ svc service.ChangeLogService }

func NewChangeLogsHandler(svc service.ChangeLogService) *ChangeLogsHandler {
	return &ChangeLogsHandler{svc: svc}
}

// optionalPathID parses the named parameter when the route declares it.
func optionalPathID(c *gin.Context, name string) (*uuid.UUID, bool) {
	if c.Param(name) == "" {
		return nil, true
	}
	id, ok := pathID(c, name)
	if !ok {
		return nil, false
	}
	return &id, true
}

func (h *ChangeLogsHandler) ComponentLogs(c *gin.Context) {
	id, ok := optionalPathID(c, "component_id")
	if !ok {
		return
	}
	resp, err := h.svc.ComponentLogs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChangeLogsHandler) TableLogs(c *gin.Context) {
	id, ok := optionalPathID(c, "table_id")
	if !ok {
		return
	}
	resp, err := h.svc.TableLogs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChangeLogsHandler) TableComponentLogs(c *gin.Context) {
	tcID, ok := optionalPathID(c, "table_component_id")
	if !ok {
		return
	}
	tableID, ok := optionalPathID(c, "table_id")
	if !ok {
		return
	}
	resp, err := h.svc.TableComponentLogs(c.Request.Context(), tcID, tableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
