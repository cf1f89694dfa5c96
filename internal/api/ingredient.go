package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/service"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

// IngredientHandler serves the shared ingredient directory.
type IngredientHandler struct {
	ingredients service.IIngredientService
	log         *logger.Logger
}

func NewIngredientHandler(ingredients service.IIngredientService, baseLog *logger.Logger) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients, log: baseLog.With("handler", "IngredientHandler")}
}

func (h *IngredientHandler) List(c *gin.Context) {
	items, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": items})
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var req types.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	item, err := h.ingredients.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingredient": item})
}

func (h *IngredientHandler) Update(c *gin.Context) {
	var req types.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	item, err := h.ingredients.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": item})
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	if err := h.ingredients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
