package handler

import (
	"net/http"

	"farmledger/internal/dto"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "New account"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PasswordResetRequest godoc
// @Summary Email a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.PasswordResetRequest true "Account email"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/auth/password-reset-request [post]
func (h *AuthHandler) PasswordResetRequest(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RequestPasswordReset(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "password reset email sent"})
}

func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var req dto.PasswordResetConfirmRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ConfirmPasswordReset(c.Request.Context(), c.Param("token"), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "password has been reset"})
}

func (h *AuthHandler) Roles(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RolesResponse{Roles: h.svc.Roles()})
}

func (h *AuthHandler) AddUserToRole(c *gin.Context) {
	var req dto.AddUserToRoleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddUserToRole(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
