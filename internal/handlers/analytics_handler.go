package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/models"
	"swatchx/internal/services"
)

// AnalyticsHandler handles per-company spending analytics requests.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// PieChartResponse is the category breakdown for one company and period.
type PieChartResponse struct {
	Company models.Company           `json:"company"`
	Period  services.AnalyticsPeriod `json:"period"`
	Data    []services.CategoryTotal `json:"data"`
}

// TopCategoriesResponse lists the highest-spending categories for a company.
type TopCategoriesResponse struct {
	Company    models.Company           `json:"company"`
	Period     services.AnalyticsPeriod `json:"period"`
	Categories []services.CategoryTotal `json:"categories"`
}

// GetPieChartData returns spending per category
// @Summary     Category breakdown
// @Description Get total spending per category for a company, for pie chart rendering
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       company path string true "Company key"
// @Param       period query string false "Aggregation window: total, year, or month" default(total)
// @Success     200 {object} PieChartResponse "Category totals"
// @Failure     400 {object} ErrorResponse "Unknown company or period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/pie-chart-data/{company} [get]
func (h *AnalyticsHandler) GetPieChartData(c *gin.Context) {
	company := models.Company(c.Param("company"))
	period := services.AnalyticsPeriod(c.DefaultQuery("period", "total"))

	data, err := h.analyticsService.GetPieChartData(company, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PieChartResponse{
		Company: company,
		Period:  period,
		Data:    data,
	})
}

// GetMonthlyChange returns month-over-month spending movement
// @Summary     Monthly change
// @Description Compare this calendar month's spending with the previous month's
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       company path string true "Company key"
// @Success     200 {object} services.MonthlyChange "Month-over-month comparison"
// @Failure     400 {object} ErrorResponse "Unknown company"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/monthly-change/{company} [get]
func (h *AnalyticsHandler) GetMonthlyChange(c *gin.Context) {
	company := models.Company(c.Param("company"))

	change, err := h.analyticsService.GetMonthlyChange(company)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, change)
}

// GetTopCategories returns the highest-spending categories
// @Summary     Top categories
// @Description Get the highest-spending categories for a company and period
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       company path string true "Company key"
// @Param       period query string false "Aggregation window: total, year, or month" default(total)
// @Param       limit query int false "Maximum categories to return" default(5)
// @Success     200 {object} TopCategoriesResponse "Top categories"
// @Failure     400 {object} ErrorResponse "Unknown company or period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/top-categories/{company} [get]
func (h *AnalyticsHandler) GetTopCategories(c *gin.Context) {
	company := models.Company(c.Param("company"))
	period := services.AnalyticsPeriod(c.DefaultQuery("period", "total"))

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
		return
	}

	categories, err := h.analyticsService.GetTopCategories(company, period, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TopCategoriesResponse{
		Company:    company,
		Period:     period,
		Categories: categories,
	})
}
