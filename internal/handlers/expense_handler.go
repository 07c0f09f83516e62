package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/models"
	"swatchx/internal/pagination"
	"swatchx/internal/services"
)

// ExpenseHandler handles expense CRUD and attachment requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// expensePayload is the decoded expense_data JSON for creating an expense.
type expensePayload struct {
	Company        models.Company         `json:"company"`
	Category       models.ExpenseCategory `json:"category"`
	Date           string                 `json:"date"`
	Price          float64                `json:"price"`
	Description    string                 `json:"description"`
	Gallons        *float64               `json:"gallons"`
	BusinessUnitID *uint                  `json:"business_unit_id"`
	TruckID        *uint                  `json:"truck_id"`
	TrailerID      *uint                  `json:"trailer_id"`
	FuelStationID  *uint                  `json:"fuel_station_id"`
}

// expenseUpdatePayload is the decoded expense_data JSON for a partial update.
// Absent fields are left unchanged.
type expenseUpdatePayload struct {
	Company        *models.Company         `json:"company"`
	Category       *models.ExpenseCategory `json:"category"`
	Date           *string                 `json:"date"`
	Price          *float64                `json:"price"`
	Description    *string                 `json:"description"`
	Gallons        *float64                `json:"gallons"`
	BusinessUnitID *uint                   `json:"business_unit_id"`
	TruckID        *uint                   `json:"truck_id"`
	TrailerID      *uint                   `json:"trailer_id"`
	FuelStationID  *uint                   `json:"fuel_station_id"`
}

// readExpensePayload extracts the expense JSON and optional attachment from the
// request. Multipart requests carry the JSON in the expense_data form field so
// a file can ride along; plain requests carry it as the request body.
func readExpensePayload(c *gin.Context) ([]byte, *multipart.FileHeader, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		raw := c.PostForm("expense_data")
		if raw == "" {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense_data form field is required")
		}

		attachment, err := c.FormFile("attachment")
		if err != nil {
			if !errors.Is(err, http.ErrMissingFile) {
				return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid attachment upload")
			}
			attachment = nil
		}
		return []byte(raw), attachment, nil
	}

	raw, err := c.GetRawData()
	if err != nil {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Could not read request body")
	}
	return raw, nil, nil
}

// CreateExpense records a new expense
// @Summary     Create an expense
// @Description Record an expense, optionally with a receipt attachment. Send multipart form data with the expense JSON in the expense_data field, or a plain JSON body.
// @Tags        expenses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       expense_data formData string true "Expense payload as JSON"
// @Param       attachment formData file false "Receipt file (pdf or image)"
// @Success     201 {object} models.Expense "Created expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	raw, attachment, err := readExpensePayload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var payload expensePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense_data is not valid JSON"))
		return
	}

	if payload.Date == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required"))
		return
	}
	date, err := parseFlexibleTime(payload.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if len(payload.Description) > 500 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 500 characters"))
		return
	}

	expense, err := h.expenseService.CreateExpense(services.ExpenseInput{
		Company:        payload.Company,
		Category:       payload.Category,
		Date:           date,
		Price:          payload.Price,
		Description:    payload.Description,
		Gallons:        payload.Gallons,
		BusinessUnitID: payload.BusinessUnitID,
		TruckID:        payload.TruckID,
		TrailerID:      payload.TrailerID,
		FuelStationID:  payload.FuelStationID,
	}, attachment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(), map[string]interface{}{
		"company":  expense.Company,
		"category": expense.Category,
		"price":    expense.Price,
	})

	c.JSON(http.StatusCreated, expense)
}

// parseExpenseFilter builds an expense filter from query parameters.
func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if v := c.Query("company"); v != "" {
		company := models.Company(v)
		if !company.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown company")
		}
		filter.Company = &company
	}
	if v := c.Query("category"); v != "" {
		category := models.ExpenseCategory(v)
		if !category.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown category")
		}
		filter.Category = &category
	}
	if v := c.Query("start_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &t
	}
	if v := c.Query("truck_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid truck_id")
		}
		truckID := uint(id)
		filter.TruckID = &truckID
	}

	return filter, nil
}

// GetExpenses lists expenses
// @Summary     List expenses
// @Description List expenses, newest first, with optional filters
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       company query string false "Filter by company key"
// @Param       category query string false "Filter by category key"
// @Param       start_date query string false "Earliest date (YYYY-MM-DD)"
// @Param       end_date query string false "Latest date (YYYY-MM-DD)"
// @Param       truck_id query int false "Filter by truck"
// @Param       skip query int false "Rows to skip" default(0)
// @Param       limit query int false "Maximum rows to return" default(100)
// @Success     200 {array} models.Expense "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var list pagination.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	list.Defaults()

	expenses, err := h.expenseService.GetExpenses(filter, list)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetExpense returns a single expense
// @Summary     Get an expense
// @Description Get one expense by ID with its references
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// UpdateExpense updates an expense
// @Summary     Update an expense
// @Description Update expense fields, optionally replacing the attachment. Accepts multipart form data with expense_data JSON or a plain JSON body.
// @Tags        expenses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Param       expense_data formData string true "Changed fields as JSON"
// @Param       attachment formData file false "Replacement receipt file"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	raw, attachment, err := readExpensePayload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var payload expenseUpdatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense_data is not valid JSON"))
		return
	}

	update := services.ExpenseUpdate{
		Company:        payload.Company,
		Category:       payload.Category,
		Price:          payload.Price,
		Description:    payload.Description,
		Gallons:        payload.Gallons,
		BusinessUnitID: payload.BusinessUnitID,
		TruckID:        payload.TruckID,
		TrailerID:      payload.TrailerID,
		FuelStationID:  payload.FuelStationID,
	}
	if payload.Date != nil {
		date, err := parseFlexibleTime(*payload.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.Date = &date
	}
	if payload.Description != nil && len(*payload.Description) > 500 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 500 characters"))
		return
	}

	expense, err := h.expenseService.UpdateExpense(id, update, attachment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(), map[string]interface{}{
		"company":  expense.Company,
		"category": expense.Category,
		"price":    expense.Price,
	})

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes an expense
// @Summary     Delete an expense
// @Description Delete an expense and its stored attachment
// @Tags        expenses
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// DownloadAttachment streams an expense's receipt file
// @Summary     Download an attachment
// @Description Download the receipt file stored for an expense
// @Tags        expenses
// @Produce     octet-stream
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {file} binary "Receipt file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or attachment not found"
// @Router      /api/v1/expenses/{id}/attachment [get]
func (h *ExpenseHandler) DownloadAttachment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	path, filename, err := h.expenseService.GetAttachmentFile(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.FileAttachment(path, filename)
}

// UploadAttachment attaches a receipt file to an expense
// @Summary     Upload an attachment
// @Description Attach a receipt file to an expense, replacing any existing one
// @Tags        expenses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Param       attachment formData file true "Receipt file (pdf or image)"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /api/v1/expenses/{id}/attachment [post]
func (h *ExpenseHandler) UploadAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	attachment, err := c.FormFile("attachment")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidAttachment, "No file provided"))
		return
	}

	expense, err := h.expenseService.SetAttachment(id, attachment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPLOAD_ATTACHMENT", "expense", id, c.ClientIP(), map[string]interface{}{
		"filename": attachment.Filename,
	})

	c.JSON(http.StatusOK, expense)
}

// DeleteAttachment removes an expense's receipt file
// @Summary     Delete an attachment
// @Description Remove the receipt file stored for an expense
// @Tags        expenses
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /api/v1/expenses/{id}/attachment [delete]
func (h *ExpenseHandler) DeleteAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.RemoveAttachment(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ATTACHMENT", "expense", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
