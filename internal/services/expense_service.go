package services

import (
	"errors"
	"math"
	"mime/multipart"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/logger"
	"swatchx/internal/models"
	"swatchx/internal/pagination"
	"swatchx/internal/storage"
)

// expenseService handles expense business logic.
type expenseService struct {
	db    *gorm.DB
	store *storage.Store
}

// NewExpenseService creates a new ExpenseServicer backed by the given
// database and attachment store.
func NewExpenseService(db *gorm.DB, store *storage.Store) ExpenseServicer {
	return &expenseService{db: db, store: store}
}

// round2 rounds a monetary or gallon value to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// dayStart truncates a time to midnight in its own location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// withReferences preloads the reference entities embedded in expense JSON.
func withReferences(db *gorm.DB) *gorm.DB {
	return db.Preload("BusinessUnit").Preload("Truck").Preload("Trailer").Preload("FuelStation")
}

// checkReferences verifies that every provided reference ID points at an
// existing row.
func (s *expenseService) checkReferences(businessUnitID, truckID, trailerID, fuelStationID *uint) error {
	check := func(model interface{}, id *uint, label string) error {
		if id == nil {
			return nil
		}
		var count int64
		if err := s.db.Model(model).Where("id = ?", *id).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, label+" not found")
		}
		return nil
	}

	if err := check(&models.BusinessUnit{}, businessUnitID, "Business unit"); err != nil {
		return err
	}
	if err := check(&models.Truck{}, truckID, "Truck"); err != nil {
		return err
	}
	if err := check(&models.Trailer{}, trailerID, "Trailer"); err != nil {
		return err
	}
	return check(&models.FuelStation{}, fuelStationID, "Fuel station")
}

// CreateExpense validates and stores a new expense, saving the optional
// attachment first so a failed insert never leaves an orphaned row.
func (s *expenseService) CreateExpense(input ExpenseInput, attachment *multipart.FileHeader) (*models.Expense, error) {
	if !input.Company.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown company")
	}
	if !input.Category.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category")
	}
	if input.Price <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
	}
	if input.Gallons != nil && *input.Gallons <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "gallons must be greater than zero")
	}
	if input.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	if err := s.checkReferences(input.BusinessUnitID, input.TruckID, input.TrailerID, input.FuelStationID); err != nil {
		return nil, err
	}

	var attachmentPath string
	if attachment != nil {
		path, err := s.store.Save(attachment)
		if err != nil {
			return nil, err
		}
		attachmentPath = path
	}

	expense := &models.Expense{
		Company:        input.Company,
		Category:       input.Category,
		Date:           input.Date,
		Price:          round2(input.Price),
		Description:    input.Description,
		BusinessUnitID: input.BusinessUnitID,
		TruckID:        input.TruckID,
		TrailerID:      input.TrailerID,
		FuelStationID:  input.FuelStationID,
		AttachmentPath: attachmentPath,
	}
	if input.Gallons != nil {
		g := round2(*input.Gallons)
		expense.Gallons = &g
	}

	if err := s.db.Create(expense).Error; err != nil {
		if attachmentPath != "" {
			if rmErr := s.store.Delete(attachmentPath); rmErr != nil {
				logger.Get().Warnw("failed to remove attachment after insert error", "path", attachmentPath, "error", rmErr)
			}
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(expense.ID)
}

// GetExpenses returns expenses matching the filter, newest first. Date
// bounds are inclusive by calendar day.
func (s *expenseService) GetExpenses(filter ExpenseFilter, list pagination.ListRequest) ([]models.Expense, error) {
	list.Defaults()

	query := s.db.Model(&models.Expense{})
	if filter.Company != nil {
		query = query.Where("company = ?", *filter.Company)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.TruckID != nil {
		query = query.Where("truck_id = ?", *filter.TruckID)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", dayStart(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("date < ?", dayStart(*filter.EndDate).AddDate(0, 0, 1))
	}

	var expenses []models.Expense
	err := withReferences(query).
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(list)).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetExpenseByID retrieves an expense with its reference entities.
func (s *expenseService) GetExpenseByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := withReferences(s.db).First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies the provided fields to an existing expense. A new
// attachment replaces the current one.
func (s *expenseService) UpdateExpense(id uint, update ExpenseUpdate, attachment *multipart.FileHeader) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Company != nil {
		if !update.Company.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown company")
		}
		updates["company"] = *update.Company
	}
	if update.Category != nil {
		if !update.Category.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category")
		}
		updates["category"] = *update.Category
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Price != nil {
		if *update.Price <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
		}
		updates["price"] = round2(*update.Price)
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Gallons != nil {
		if *update.Gallons <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "gallons must be greater than zero")
		}
		updates["gallons"] = round2(*update.Gallons)
	}

	if err := s.checkReferences(update.BusinessUnitID, update.TruckID, update.TrailerID, update.FuelStationID); err != nil {
		return nil, err
	}
	if update.BusinessUnitID != nil {
		updates["business_unit_id"] = *update.BusinessUnitID
	}
	if update.TruckID != nil {
		updates["truck_id"] = *update.TruckID
	}
	if update.TrailerID != nil {
		updates["trailer_id"] = *update.TrailerID
	}
	if update.FuelStationID != nil {
		updates["fuel_station_id"] = *update.FuelStationID
	}

	if attachment != nil {
		path, err := s.store.Save(attachment)
		if err != nil {
			return nil, err
		}
		if expense.AttachmentPath != "" {
			if rmErr := s.store.Delete(expense.AttachmentPath); rmErr != nil {
				logger.Get().Warnw("failed to remove replaced attachment", "path", expense.AttachmentPath, "error", rmErr)
			}
		}
		updates["attachment_path"] = path
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetExpenseByID(id)
}

// DeleteExpense removes an expense and its stored attachment file.
func (s *expenseService) DeleteExpense(id uint) error {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if expense.AttachmentPath != "" {
		if rmErr := s.store.Delete(expense.AttachmentPath); rmErr != nil {
			logger.Get().Warnw("failed to remove attachment for deleted expense",
				"expense_id", id, "path", expense.AttachmentPath, "error", rmErr)
		}
	}
	return nil
}

// GetAttachmentFile resolves the stored attachment for download, returning
// the on-disk path and the filename to present to the client.
func (s *expenseService) GetAttachmentFile(id uint) (string, string, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return "", "", err
	}
	if expense.AttachmentPath == "" {
		return "", "", apperrors.ErrAttachmentNotFound
	}

	path, err := s.store.Resolve(expense.AttachmentPath)
	if err != nil {
		return "", "", err
	}
	return path, filepath.Base(expense.AttachmentPath), nil
}

// SetAttachment stores a new attachment on the expense, replacing any
// existing one.
func (s *expenseService) SetAttachment(id uint, attachment *multipart.FileHeader) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}

	path, err := s.store.Save(attachment)
	if err != nil {
		return nil, err
	}

	if expense.AttachmentPath != "" {
		if rmErr := s.store.Delete(expense.AttachmentPath); rmErr != nil {
			logger.Get().Warnw("failed to remove replaced attachment", "path", expense.AttachmentPath, "error", rmErr)
		}
	}

	if err := s.db.Model(expense).Update("attachment_path", path).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(id)
}

// RemoveAttachment deletes the stored file and clears the attachment path.
// Removing an expense that has no attachment is a no-op.
func (s *expenseService) RemoveAttachment(id uint) error {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return err
	}
	if expense.AttachmentPath == "" {
		return nil
	}

	if err := s.store.Delete(expense.AttachmentPath); err != nil {
		return err
	}
	if err := s.db.Model(expense).Update("attachment_path", "").Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
