package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/models"
)

// analyticsService computes dashboard aggregates over expenses.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

// periodWindowStart returns the start of the aggregation window for a
// period, or nil for all-time.
func periodWindowStart(period AnalyticsPeriod, now time.Time) *time.Time {
	switch period {
	case PeriodYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &start
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &start
	default:
		return nil
	}
}

// categoryRow is the scan target for per-category aggregation.
type categoryRow struct {
	Category models.ExpenseCategory
	Total    float64
	Count    int64
}

// categoryTotals runs the per-category SUM/COUNT query for a company,
// optionally bounded to a window start.
func (s *analyticsService) categoryTotals(company models.Company, start *time.Time) ([]CategoryTotal, error) {
	query := s.db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(price), 0) AS total, COUNT(*) AS count").
		Where("company = ?", company)
	if start != nil {
		query = query.Where("date >= ?", *start)
	}

	var rows []categoryRow
	if err := query.Group("category").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		cfg, _ := models.CategoryConfigFor(r.Category)
		totals = append(totals, CategoryTotal{
			Category: r.Category,
			Label:    r.Category.Label(),
			Color:    cfg.Color,
			Total:    round2(r.Total),
			Count:    r.Count,
		})
	}

	// Largest slice first, ties broken by key for a stable order.
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
	return totals, nil
}

// GetPieChartData returns per-category spend for a company within the
// period, ordered largest first. Categories with no expenses are omitted.
func (s *analyticsService) GetPieChartData(company models.Company, period AnalyticsPeriod) ([]CategoryTotal, error) {
	if !company.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown company")
	}
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be total, year, or month")
	}

	return s.categoryTotals(company, periodWindowStart(period, time.Now()))
}

// sumBetween totals expense prices for a company in [from, to).
func (s *analyticsService) sumBetween(company models.Company, from, to time.Time) (float64, error) {
	var total float64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(price), 0)").
		Where("company = ? AND date >= ? AND date < ?", company, from, to).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return round2(total), nil
}

// GetMonthlyChange compares the current calendar month's spend against the
// previous month's. Percent change is zero when the previous month had no
// spend.
func (s *analyticsService) GetMonthlyChange(company models.Company) (*MonthlyChange, error) {
	if !company.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown company")
	}

	now := time.Now()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previousStart := currentStart.AddDate(0, -1, 0)
	nextStart := currentStart.AddDate(0, 1, 0)

	current, err := s.sumBetween(company, currentStart, nextStart)
	if err != nil {
		return nil, err
	}
	previous, err := s.sumBetween(company, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	change := round2(current - previous)
	var percent float64
	if previous > 0 {
		percent = round2(change / previous * 100)
	}

	return &MonthlyChange{
		Company:       company,
		CurrentTotal:  current,
		PreviousTotal: previous,
		Change:        change,
		PercentChange: percent,
	}, nil
}

// GetTopCategories returns the categories with the highest spend for a
// company within the period, limited to the requested count (default 5).
func (s *analyticsService) GetTopCategories(company models.Company, period AnalyticsPeriod, limit int) ([]CategoryTotal, error) {
	if !company.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown company")
	}
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be total, year, or month")
	}
	if limit <= 0 {
		limit = 5
	}

	totals, err := s.categoryTotals(company, periodWindowStart(period, time.Now()))
	if err != nil {
		return nil, err
	}
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}
