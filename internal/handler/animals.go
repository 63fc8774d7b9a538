package handler

import (
	"net/http"

	"farmledger/internal/dto"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
)

type AnimalsHandler struct {
	animals service.AnimalService
	groups  service.GroupService
}

func NewAnimalsHandler(animals service.AnimalService, groups service.GroupService) *AnimalsHandler {
	return &AnimalsHandler{animals: animals, groups: groups}
}

// Create godoc
// @Summary Create one animal or a batch
// @Description Accepts an object or an array; a batch is created all-or-nothing.
// @Tags animals
// @Accept json
// @Produce json
// @Param body body dto.AnimalRequest true "Animal"
// @Success 201 {object} dto.AnimalResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/animals [post]
func (h *AnimalsHandler) Create(c *gin.Context) {
	reqs, many, ok := bindOneOrMany[dto.AnimalRequest](c)
	if !ok {
		return
	}
	resp, err := h.animals.CreateBulk(c.Request.Context(), reqs)
	if err != nil {
		respondError(c, err)
		return
	}
	if many {
		c.JSON(http.StatusCreated, resp)
		return
	}
	c.JSON(http.StatusCreated, resp[0])
}

func (h *AnimalsHandler) List(c *gin.Context) {
	var filter dto.AnimalFilter
	if !bindQuery(c, &filter) {
		return
	}
	if !validateStruct(c, &filter, "") {
		return
	}
	resp, err := h.animals.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.animals.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AnimalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.animals.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.animals.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Groups ───────────────────────────────────────────────────────────────────

func (h *AnimalsHandler) CreateGroup(c *gin.Context) {
	var req dto.GroupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AnimalsHandler) ListGroups(c *gin.Context) {
	resp, err := h.groups.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) GetGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) UpdateGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.GroupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.groups.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) DeleteGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Memberships ──────────────────────────────────────────────────────────────

func (h *AnimalsHandler) CreateMembership(c *gin.Context) {
	reqs, many, ok := bindOneOrMany[dto.AnimalGroupRequest](c)
	if !ok {
		return
	}
	resp, err := h.groups.AddMembers(c.Request.Context(), reqs)
	if err != nil {
		respondError(c, err)
		return
	}
	if many {
		c.JSON(http.StatusCreated, resp)
		return
	}
	c.JSON(http.StatusCreated, resp[0])
}

func (h *AnimalsHandler) ListMemberships(c *gin.Context) {
	var filter dto.AnimalGroupFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.groups.ListMembers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) GetMembership(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.groups.GetMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) UpdateMembership(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AnimalGroupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.groups.UpdateMember(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalsHandler) DeleteMembership(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groups.RemoveMember(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
