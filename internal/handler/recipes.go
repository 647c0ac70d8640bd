package handler

import (
	stderrors "errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classic-cipher-go/internal/cache"
	"github.com/classic-cipher-go/internal/cipher"
	"github.com/classic-cipher-go/internal/dao"
	"github.com/classic-cipher-go/internal/errors"
)

// RecipeHandler handles named recipe CRUD and recipe transforms
type RecipeHandler struct {
	recipes   *dao.RecipeDAO
	runs      *dao.RunDAO
	pipelines *cache.PipelineCache
	settings  *EngineSettings
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes *dao.RecipeDAO, runs *dao.RunDAO, pipelines *cache.PipelineCache, settings *EngineSettings) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		runs:      runs,
		pipelines: pipelines,
		settings:  settings,
	}
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.recipes.List()
	if err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to list recipes", err))
		return
	}
	RespondSuccess(c, recipes)
}

// Get handles GET /api/recipes/:name
func (h *RecipeHandler) Get(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Param("name"))
	if err != nil {
		if stderrors.Is(err, dao.ErrRecipeNotFound) {
			RespondError(c, errors.NewNotFound("Recipe not found"))
			return
		}
		RespondError(c, errors.NewInternalWithCause("Failed to load recipe", err))
		return
	}
	RespondSuccess(c, recipe)
}

// Save handles POST /api/recipes. The stages are validated by building
// a throwaway pipeline, so a recipe with a bad key is rejected at save
// time instead of surprising the first transform.
func (h *RecipeHandler) Save(c *gin.Context) {
	var recipe dao.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		RespondError(c, errors.NewBadRequestWithCause("Invalid request body", err))
		return
	}

	if _, err := cipher.NewPipeline(recipe.Stages, h.settings.Options()); err != nil {
		RespondError(c, engineError(err))
		return
	}

	if err := h.recipes.Save(&recipe); err != nil {
		if stderrors.Is(err, dao.ErrRecipeInvalid) {
			RespondError(c, errors.NewBadRequestWithCause("Invalid recipe", err))
			return
		}
		RespondError(c, errors.NewInternalWithCause("Failed to save recipe", err))
		return
	}

	h.pipelines.Invalidate(recipe.Name)
	RespondSuccess(c, recipe)
}

// Delete handles DELETE /api/recipes/:name
func (h *RecipeHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.recipes.Delete(name); err != nil {
		if stderrors.Is(err, dao.ErrRecipeNotFound) {
			RespondError(c, errors.NewNotFound("Recipe not found"))
			return
		}
		RespondError(c, errors.NewInternalWithCause("Failed to delete recipe", err))
		return
	}
	h.pipelines.Invalidate(name)
	RespondSuccessMsg(c, "delete success")
}

// TransformRecipeRequest is the body of a recipe transform call
type TransformRecipeRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// Transform handles POST /api/recipes/:name/transform. The recipe's
// pipeline comes from the cache, so repeated runs of the same recipe
// skip stage construction.
func (h *RecipeHandler) Transform(c *gin.Context) {
	var req TransformRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, errors.NewBadRequestWithCause("Invalid request body", err))
		return
	}

	mode, err := cipher.ParseMode(req.Mode)
	if err != nil {
		RespondError(c, errors.NewBadRequest(err.Error()))
		return
	}

	name := c.Param("name")
	recipe, err := h.recipes.Get(name)
	if err != nil {
		if stderrors.Is(err, dao.ErrRecipeNotFound) {
			RespondError(c, errors.NewNotFound("Recipe not found"))
			return
		}
		RespondError(c, errors.NewInternalWithCause("Failed to load recipe", err))
		return
	}

	opts := h.settings.Options()
	pipeline, err := h.pipelines.GetOrBuild(name, recipe.Stages, opts)
	if err != nil {
		RespondError(c, engineError(err))
		return
	}

	text := cipher.Normalize(req.Text)
	start := time.Now()
	result, err := pipeline.Run(c.Request.Context(), text, mode)
	if err != nil {
		RespondError(c, engineError(err))
		return
	}
	took := time.Since(start)

	recordRun(h.runs, name, pipeline.Kinds(), mode, len(text), len(result), opts.Workers, took)

	RespondSuccess(c, TransformResult{
		Result:    result,
		InputLen:  len(text),
		OutputLen: len(result),
		Workers:   opts.Workers,
		TookMs:    took.Milliseconds(),
	})
}
