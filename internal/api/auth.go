package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/service"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	auth service.IAuthService
	log  *logger.Logger
}

func NewAuthHandler(auth service.IAuthService, baseLog *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: baseLog.With("handler", "AuthHandler")}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
