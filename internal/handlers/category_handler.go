package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swatchx/internal/models"
)

// CategoryHandler serves the fixed expense category configuration.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// GetCategories lists the expense categories
// @Summary     List categories
// @Description Get the fixed expense categories with labels, colors, icons, and form fields
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.CategoryConfig "Categories in display order"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.CategoryConfigs())
}
