package services

import (
	"mime/multipart"
	"time"

	"swatchx/internal/models"
	"swatchx/internal/pagination"
)

// SecurityQuestionInput is one question/answer pair supplied when a user
// configures account recovery. Answers are hashed before storage.
type SecurityQuestionInput struct {
	Question string
	Answer   string
}

// PreferencesUpdate holds optional profile fields; nil fields are unchanged.
type PreferencesUpdate struct {
	Name           *string
	ThemeMode      *models.ThemeMode
	DefaultCompany *models.Company
}

// UserServicer defines the contract for user and authentication business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	SetSecurityQuestions(userID uint, questions [3]SecurityQuestionInput) error
	UpdateSecurityQuestion(userID uint, index int, question, answer, currentPassword string) error
	ChangePassword(userID uint, currentPassword, newPassword string) error
	GetSecurityQuestionsByEmail(email string) (*models.User, error)
	ResetPassword(email string, answers [3]string, newPassword string) error
	UpdatePreferences(userID uint, update PreferencesUpdate) (*models.User, error)
}

// ExpenseInput holds the fields for creating an expense.
type ExpenseInput struct {
	Company        models.Company
	Category       models.ExpenseCategory
	Date           time.Time
	Price          float64
	Description    string
	Gallons        *float64
	BusinessUnitID *uint
	TruckID        *uint
	TrailerID      *uint
	FuelStationID  *uint
}

// ExpenseUpdate holds optional fields for partially updating an expense.
// Nil fields are left unchanged.
type ExpenseUpdate struct {
	Company        *models.Company
	Category       *models.ExpenseCategory
	Date           *time.Time
	Price          *float64
	Description    *string
	Gallons        *float64
	BusinessUnitID *uint
	TruckID        *uint
	TrailerID      *uint
	FuelStationID  *uint
}

// ExpenseFilter holds optional filter parameters for listing expenses.
// Date bounds are inclusive by calendar day.
type ExpenseFilter struct {
	Company   *models.Company
	Category  *models.ExpenseCategory
	StartDate *time.Time
	EndDate   *time.Time
	TruckID   *uint
}

// ExpenseServicer defines the contract for expense business logic.
type ExpenseServicer interface {
	CreateExpense(input ExpenseInput, attachment *multipart.FileHeader) (*models.Expense, error)
	GetExpenses(filter ExpenseFilter, list pagination.ListRequest) ([]models.Expense, error)
	GetExpenseByID(id uint) (*models.Expense, error)
	UpdateExpense(id uint, update ExpenseUpdate, attachment *multipart.FileHeader) (*models.Expense, error)
	DeleteExpense(id uint) error
	GetAttachmentFile(id uint) (path, filename string, err error)
	SetAttachment(id uint, attachment *multipart.FileHeader) (*models.Expense, error)
	RemoveAttachment(id uint) error
}

// ReferenceServicer defines the contract for the four reference entities
// (business units, trucks, trailers, fuel stations) managed on the
// management screens and linked from expenses.
type ReferenceServicer interface {
	CreateBusinessUnit(name string) (*models.BusinessUnit, error)
	GetBusinessUnits(list pagination.ListRequest) ([]models.BusinessUnit, error)
	UpdateBusinessUnit(id uint, name string) (*models.BusinessUnit, error)
	DeleteBusinessUnit(id uint) error

	CreateTruck(number string) (*models.Truck, error)
	GetTrucks(list pagination.ListRequest) ([]models.Truck, error)
	UpdateTruck(id uint, number string) (*models.Truck, error)
	DeleteTruck(id uint) error

	CreateTrailer(number string) (*models.Trailer, error)
	GetTrailers(list pagination.ListRequest) ([]models.Trailer, error)
	UpdateTrailer(id uint, number string) (*models.Trailer, error)
	DeleteTrailer(id uint) error

	CreateFuelStation(name string) (*models.FuelStation, error)
	GetFuelStations(list pagination.ListRequest) ([]models.FuelStation, error)
	UpdateFuelStation(id uint, name string) (*models.FuelStation, error)
	DeleteFuelStation(id uint) error
}

// AnalyticsPeriod selects the time window for aggregation queries.
type AnalyticsPeriod string

const (
	PeriodTotal AnalyticsPeriod = "total"
	PeriodYear  AnalyticsPeriod = "year"
	PeriodMonth AnalyticsPeriod = "month"
)

// Valid reports whether p is a known period.
func (p AnalyticsPeriod) Valid() bool {
	return p == PeriodTotal || p == PeriodYear || p == PeriodMonth
}

// CategoryTotal is the aggregated spend for one expense category.
type CategoryTotal struct {
	Category models.ExpenseCategory `json:"category"`
	Label    string                 `json:"label"`
	Color    string                 `json:"color"`
	Total    float64                `json:"total"`
	Count    int64                  `json:"count"`
}

// MonthlyChange compares the current calendar month's spend against the
// previous month's.
type MonthlyChange struct {
	Company       models.Company `json:"company"`
	CurrentTotal  float64        `json:"current_month_total"`
	PreviousTotal float64        `json:"previous_month_total"`
	Change        float64        `json:"change"`
	PercentChange float64        `json:"percent_change"`
}

// AnalyticsServicer defines the contract for dashboard aggregation queries.
type AnalyticsServicer interface {
	GetPieChartData(company models.Company, period AnalyticsPeriod) ([]CategoryTotal, error)
	GetMonthlyChange(company models.Company) (*MonthlyChange, error)
	GetTopCategories(company models.Company, period AnalyticsPeriod, limit int) ([]CategoryTotal, error)
}

// ExportServicer defines the contract for spreadsheet export.
type ExportServicer interface {
	ExportExpenses(filter ExpenseFilter) (content []byte, filename string, err error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
