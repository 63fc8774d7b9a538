package handler

import (
	"net/http"

	"farmledger/internal/dto"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
)

type RationLogsHandler struct{ svc service.RationLogService }

func NewRationLogsHandler(svc service.RationLogService) *RationLogsHandler {
	return &RationLogsHandler{svc: svc}
}

// Create godoc
// @Summary Assign a ration table to an animal
// @Description An active log closes the animal's previous active log at its start date.
// @Tags animal-ration-logs
// @Accept json
// @Produce json
// @Param body body dto.AnimalRationLogRequest true "Assignment"
// @Success 201 {object} dto.AnimalRationLogResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/animal-ration-logs [post]
func (h *RationLogsHandler) Create(c *gin.Context) {
	var req dto.AnimalRationLogRequest
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

func (h *RationLogsHandler) List(c *gin.Context) {
	var filter dto.AnimalRationLogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationLogsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RationLogsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AnimalRationLogRequest
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

func (h *RationLogsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Deactivate closes an active log. The body is optional.
func (h *RationLogsHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DeactivateRationLogRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Deactivate(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
