package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/cqrs"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/middleware"
)

// AuthQuerier defines the auth operations used by AuthHandler.
type AuthQuerier interface {
	Login(cqrs.LoginCommand) (string, error)
	RefreshToken(cqrs.RefreshTokenCommand) (string, error)
}

type AuthHandler struct {
	queries AuthQuerier
}

func NewAuthHandler(queries AuthQuerier) *AuthHandler {
	return &AuthHandler{queries: queries}
}

type LoginRequest struct {
	DeviceID string `json:"deviceId" validate:"required"`
	Passcode string `json:"passcode" validate:"required"`
}

type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.Login(cqrs.LoginCommand{DeviceID: req.DeviceID, Passcode: req.Passcode})
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.RefreshToken(cqrs.RefreshTokenCommand{Token: req.Token})
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
