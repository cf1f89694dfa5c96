package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/service"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

// RecipeHandler serves recipe CRUD, per-user markers, sharing and export.
type RecipeHandler struct {
	recipes service.IRecipeService
	exports service.IExportService
	log     *logger.Logger
}

func NewRecipeHandler(recipes service.IRecipeService, exports service.IExportService, baseLog *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		exports: exports,
		log:     baseLog.With("handler", "RecipeHandler"),
	}
}

// ListRecipes supports mealType (repeated or comma separated), favourites,
// q, sortBy and sortOrder query parameters.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	filter, err := parseRecipeFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	recipes, err := h.recipes.GetAll(c.Request.Context(), uid, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func parseRecipeFilter(c *gin.Context) (types.RecipeFilter, error) {
	var filter types.RecipeFilter
	for _, raw := range c.QueryArray("mealType") {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
				filter.MealTypes = append(filter.MealTypes, models.MealType(p))
			}
		}
	}
	if raw := c.Query("favourites"); raw != "" {
		fav, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &service.ValidationError{Fields: []service.FieldError{{Field: "favourites", Message: "must be true or false"}}}
		}
		filter.FavouritesOnly = fav
	}
	filter.Query = strings.TrimSpace(c.Query("q"))
	filter.SortBy = c.Query("sortBy")
	filter.SortOrder = strings.ToLower(c.Query("sortOrder"))
	return filter, nil
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetByID(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), uid, &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), uid, c.Param("id"), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ToggleFavourite(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	fav, err := h.recipes.ToggleFavourite(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.ToggleResponse{RecipeID: id, IsFavourite: &fav})
}

func (h *RecipeHandler) ToggleHidden(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	hidden, err := h.recipes.ToggleHidden(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.ToggleResponse{RecipeID: id, IsHidden: &hidden})
}

func (h *RecipeHandler) HideAllDefaults(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	n, err := h.recipes.HideAllDefaults(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.BulkResponse{Affected: n})
}

func (h *RecipeHandler) UnhideAllDefaults(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	n, err := h.recipes.UnhideAllDefaults(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.BulkResponse{Affected: n})
}

func (h *RecipeHandler) ShareRecipe(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var req types.ShareRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	req.Permission = strings.ToUpper(strings.TrimSpace(req.Permission))

	shares, err := h.recipes.Share(c.Request.Context(), uid, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}

func (h *RecipeHandler) ListShares(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	shares, err := h.recipes.ListShares(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}

// ExportRecipes returns a presigned download link when object storage is
// configured and the document itself as an attachment otherwise.
func (h *RecipeHandler) ExportRecipes(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	doc, upload, err := h.exports.Export(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if upload != nil {
		c.JSON(http.StatusOK, gin.H{"export": upload})
		return
	}

	filename := fmt.Sprintf("recipes-%s.json", doc.ExportedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}

func (h *RecipeHandler) ImportRecipes(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var doc types.RecipeExport
	if err := c.ShouldBindJSON(&doc); err != nil {
		respondBadBody(c, err)
		return
	}

	recipes, err := h.exports.Import(c.Request.Context(), uid, &doc)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipes": recipes})
}
