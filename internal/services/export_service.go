package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/models"
)

// exportSheet is the name of the single worksheet in exported workbooks.
const exportSheet = "Expenses"

// exportService builds spreadsheet exports of expense data.
type exportService struct {
	db *gorm.DB
}

// NewExportService creates a new ExportServicer.
func NewExportService(db *gorm.DB) ExportServicer {
	return &exportService{db: db}
}

// ExportExpenses writes every expense matching the filter into an .xlsx
// workbook, oldest first, with a header row and a closing totals row.
// Returns the file content and a suggested download filename.
func (s *exportService) ExportExpenses(filter ExpenseFilter) ([]byte, string, error) {
	if filter.Company != nil && !filter.Company.Valid() {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown company")
	}

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
	err := withReferences(query).Order("date ASC, id ASC").Find(&expenses).Error
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	headers := []string{"Date", "Company", "Category", "Price", "Gallons", "Description", "Business Unit", "Truck", "Trailer", "Fuel Station"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	headerStyle, styleErr := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if styleErr == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "J1", headerStyle)
	}
	_ = f.SetColWidth(exportSheet, "A", "J", 16)

	var total float64
	for i, e := range expenses {
		row := i + 2

		var unitName, truckNumber, trailerNumber, stationName string
		if e.BusinessUnit != nil {
			unitName = e.BusinessUnit.Name
		}
		if e.Truck != nil {
			truckNumber = e.Truck.Number
		}
		if e.Trailer != nil {
			trailerNumber = e.Trailer.Number
		}
		if e.FuelStation != nil {
			stationName = e.FuelStation.Name
		}

		values := []interface{}{
			e.Date.Format("2006-01-02"),
			string(e.Company),
			e.Category.Label(),
			e.Price,
			"",
			e.Description,
			unitName,
			truckNumber,
			trailerNumber,
			stationName,
		}
		if e.Gallons != nil {
			values[4] = *e.Gallons
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		total += e.Price
	}

	totalsRow := len(expenses) + 2
	labelCell, _ := excelize.CoordinatesToCellName(1, totalsRow)
	totalCell, _ := excelize.CoordinatesToCellName(4, totalsRow)
	_ = f.SetCellValue(exportSheet, labelCell, "Total")
	_ = f.SetCellValue(exportSheet, totalCell, round2(total))
	if styleErr == nil {
		_ = f.SetCellStyle(exportSheet, labelCell, totalCell, headerStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return buf.Bytes(), exportFilename(filter.Company), nil
}

// exportFilename builds the suggested download name for an export.
func exportFilename(company *models.Company) string {
	scope := "all"
	if company != nil {
		scope = strings.ToLower(string(*company))
	}
	return fmt.Sprintf("expenses_%s_%s.xlsx", scope, time.Now().Format("2006-01-02"))
}
