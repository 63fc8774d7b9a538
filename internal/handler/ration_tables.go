package handler

import (
	"net/http"

	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
)

// RationTablesHandler serves ration tables and their component lines.
type RationTablesHandler struct{ svc service.RationTableService }

func NewRationTablesHandler(svc service.RationTableService) *RationTablesHandler {
	return &RationTablesHandler{svc: svc}
}

func (h *RationTablesHandler) List(c *gin.Context) {
	vis, ok := visibility(c)
	if !ok {
		return
	}
	h.list(c, vis)
}

func (h *RationTablesHandler) ListDeleted(c *gin.Context) {
	h.list(c, model.VisibleDeleted)
}

func (h *RationTablesHandler) list(c *gin.Context, vis model.Visibility) {
	resp, err := h.svc.List(c.Request.Context(), vis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	vis, ok := visibility(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id, vis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) Create(c *gin.Context) {
	var req dto.RationTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RationTablesHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RationTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) SoftDelete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RationTablesHandler) Restore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) HardDelete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.HardDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ComputeCost godoc
// @Summary Cost and nutrient totals of a ration table
// @Description Sums active lines whose component is also active.
// @Tags ration-tables
// @Produce json
// @Param id path string true "Ration table ID"
// @Success 200 {object} dto.RationCostResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ration-tables/{id}/compute-cost [get]
func (h *RationTablesHandler) ComputeCost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ComputeCost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Table components ─────────────────────────────────────────────────────────

func (h *RationTablesHandler) ListComponents(c *gin.Context) {
	var filter dto.RationTableComponentFilter
	if !bindQuery(c, &filter) {
		return
	}
	h.listComponents(c, filter)
}

func (h *RationTablesHandler) ListDeletedComponents(c *gin.Context) {
	var filter dto.RationTableComponentFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.Visibility = string(model.VisibleDeleted)
	h.listComponents(c, filter)
}

func (h *RationTablesHandler) listComponents(c *gin.Context, filter dto.RationTableComponentFilter) {
	resp, err := h.svc.ListComponents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) GetComponent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	vis, ok := visibility(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetComponent(c.Request.Context(), id, vis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) AddComponent(c *gin.Context) {
	var req dto.RationTableComponentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddComponent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RationTablesHandler) UpdateComponent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRationTableComponentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateComponent(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) SoftDeleteComponent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.SoftDeleteComponent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RationTablesHandler) RestoreComponent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RestoreComponent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationTablesHandler) HardDeleteComponent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.HardDeleteComponent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
