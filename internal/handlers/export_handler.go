package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"swatchx/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles spreadsheet export requests.
type ExportHandler struct {
	exportService services.ExportServicer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportServicer) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportExpenses streams expenses as an Excel workbook
// @Summary     Export expenses
// @Description Export filtered expenses as an .xlsx workbook
// @Tags        export
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       company query string false "Filter by company key"
// @Param       category query string false "Filter by category key"
// @Param       start_date query string false "Earliest date (YYYY-MM-DD)"
// @Param       end_date query string false "Latest date (YYYY-MM-DD)"
// @Param       truck_id query int false "Filter by truck"
// @Success     200 {file} binary "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/export/expenses [get]
func (h *ExportHandler) ExportExpenses(c *gin.Context) {
	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	content, filename, err := h.exportService.ExportExpenses(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}
