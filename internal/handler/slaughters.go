package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"farmledger/internal/dto"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
)

type SlaughtersHandler struct{ svc service.SlaughterService }

func NewSlaughtersHandler(svc service.SlaughterService) *SlaughtersHandler {
	return &SlaughtersHandler{svc: svc}
}

// Create godoc
// @Summary Record a slaughter
// @Description Marks the animal slaughtered and closes its active ration log.
// @Tags slaughters
// @Accept json
// @Produce json
// @Param body body dto.SlaughterRequest true "Slaughter"
// @Success 201 {object} dto.SlaughterResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/slaughters [post]
func (h *SlaughtersHandler) Create(c *gin.Context) {
	var req dto.SlaughterRequest
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

func (h *SlaughtersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SlaughtersHandler) Get(c *gin.Context) {
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

func (h *SlaughtersHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SlaughterRequest
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

func (h *SlaughtersHandler) Delete(c *gin.Context) {
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

func (h *SlaughtersHandler) Profit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Profit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SlaughtersHandler) TotalProfit(c *gin.Context) {
	resp, err := h.svc.TotalProfit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Statement streams the slaughter statement as a PDF attachment.
func (h *SlaughtersHandler) Statement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.WriteStatement(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="slaughter-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
