package handler

import (
	"errors"
	"net/http"

	"tourdesk_backend/internal/auth/repository"
	"tourdesk_backend/internal/auth/service"
	"tourdesk_backend/internal/auth/transport"
	authvalidator "tourdesk_backend/internal/auth/validator"
	"tourdesk_backend/platform/httpkit"
	"tourdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the public auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/logout", h.Logout)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, authvalidator.PasswordPolicy)
		return
	}

	user, pair, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		OrganizationName: req.OrganizationName,
		BaseCurrency:     req.BaseCurrency,
		FullName:         req.FullName,
		Email:            req.Email,
		Password:         req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpkit.Error(c, http.StatusConflict, err.Error(), nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserResponse(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error(), nil)
		return
	}

	httpkit.OK(c, transport.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserResponse(user),
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	httpkit.OK(c, transport.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	var req transport.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	httpkit.OK(c, gin.H{"message": "signed out"})
}

func (h *Handler) GetMe(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "user not found", nil)
		return
	}

	httpkit.OK(c, toUserResponse(user))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, authvalidator.PasswordPolicy)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), identity.UserID(), req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpkit.Error(c, http.StatusBadRequest, "current password is incorrect", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"message": "password updated"})
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:             user.ID.String(),
		OrganizationID: user.OrganizationID.String(),
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
