package handler

import (
	"net/http"

	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
)

type RationComponentsHandler struct{ svc service.RationComponentService }

func NewRationComponentsHandler(svc service.RationComponentService) *RationComponentsHandler {
	return &RationComponentsHandler{svc: svc}
}

// List godoc
// @Summary List ration components
// @Tags ration-components
// @Produce json
// @Param visibility query string false "active (default), deleted or all"
// @Success 200 {array} dto.RationComponentResponse
// @Router /v1/ration-components [get]
func (h *RationComponentsHandler) List(c *gin.Context) {
	vis, ok := visibility(c)
	if !ok {
		return
	}
	h.list(c, vis)
}

func (h *RationComponentsHandler) ListDeleted(c *gin.Context) {
	h.list(c, model.VisibleDeleted)
}

func (h *RationComponentsHandler) list(c *gin.Context, vis model.Visibility) {
	resp, err := h.svc.List(c.Request.Context(), vis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationComponentsHandler) Get(c *gin.Context) {
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

func (h *RationComponentsHandler) Create(c *gin.Context) {
	var req dto.RationComponentRequest
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

func (h *RationComponentsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRationComponentRequest
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

func (h *RationComponentsHandler) SoftDelete(c *gin.Context) {
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

func (h *RationComponentsHandler) Restore(c *gin.Context) {
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

func (h *RationComponentsHandler) HardDelete(c *gin.Context) {
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
