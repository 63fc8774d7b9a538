package handler

import (
	"net/http"

	"farmledger/internal/dto"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
)

type WeightsHandler struct{ svc service.WeightService }

func NewWeightsHandler(svc service.WeightService) *WeightsHandler {
	return &WeightsHandler{svc: svc}
}

func (h *WeightsHandler) Create(c *gin.Context) {
	var req dto.WeightRequest
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

func (h *WeightsHandler) List(c *gin.Context) {
	var filter dto.WeightFilter
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

func (h *WeightsHandler) Get(c *gin.Context) {
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

func (h *WeightsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.WeightRequest
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

func (h *WeightsHandler) Delete(c *gin.Context) {
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

// DailyGain godoc
// @Summary Daily gain between the two latest weighings
// @Tags weights
// @Produce json
// @Param animal_id path string true "Animal ID"
// @Success 200 {object} dto.DailyGainResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/weights/daily-gain/{animal_id} [get]
func (h *WeightsHandler) DailyGain(c *gin.Context) {
	id, ok := pathID(c, "animal_id")
	if !ok {
		return
	}
	resp, err := h.svc.DailyGain(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WeightsHandler) AllGain(c *gin.Context) {
	id, ok := pathID(c, "animal_id")
	if !ok {
		return
	}
	resp, err := h.svc.AllGain(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WeightsHandler) GroupDailyGain(c *gin.Context) {
	id, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	resp, err := h.svc.GroupDailyGain(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WeightsHandler) GroupAllGain(c *gin.Context) {
	id, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	resp, err := h.svc.GroupAllGain(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
