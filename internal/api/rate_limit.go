package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/middleware"
)

// RateLimitHandler reports the caller's remaining quota for recipe writes.
type RateLimitHandler struct {
	creation     *middleware.RateLimiter
	modification *middleware.RateLimiter
	log          *logger.Logger
}

func NewRateLimitHandler(creation, modification *middleware.RateLimiter, baseLog *logger.Logger) *RateLimitHandler {
	return &RateLimitHandler{
		creation:     creation,
		modification: modification,
		log:          baseLog.With("handler", "RateLimitHandler"),
	}
}

func (h *RateLimitHandler) RecipeCreation(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	h.report(c, h.creation, uid, nil)
}

func (h *RateLimitHandler) RecipeModification(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	recipeID := c.Param("id")
	h.report(c, h.modification, uid+":"+recipeID, gin.H{"recipe_id": recipeID})
}

func (h *RateLimitHandler) report(c *gin.Context, rl *middleware.RateLimiter, key string, extra gin.H) {
	if rl == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	remaining, reset, err := rl.GetRemainingRequests(c.Request.Context(), key)
	if err != nil {
		h.log.Warn("rate limit lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
		return
	}

	cfg := rl.Config()
	body := gin.H{
		"enabled":    true,
		"limit":      cfg.Limit,
		"remaining":  remaining,
		"reset_time": reset.Unix(),
		"window":     cfg.Window.String(),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
