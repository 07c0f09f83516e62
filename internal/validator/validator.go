// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"swatchx/internal/models"
)

const passwordSpecials = "@$!%*?&"

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("company", validateCompany)
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("theme_mode", validateThemeMode)
		_ = v.RegisterValidation("password_complexity", validatePasswordComplexity)
	}
}

func validateCompany(fl validator.FieldLevel) bool {
	return models.Company(fl.Field().String()).Valid()
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.ExpenseCategory(fl.Field().String()).Valid()
}

func validateThemeMode(fl validator.FieldLevel) bool {
	switch models.ThemeMode(fl.Field().String()) {
	case models.ThemeModeLight, models.ThemeModeDark:
		return true
	}
	return false
}

// validatePasswordComplexity enforces the account password policy: at least
// one lowercase letter, one uppercase letter, one digit, and one special
// character from @$!%*?&. Length bounds are applied separately via min/max tags.
func validatePasswordComplexity(fl validator.FieldLevel) bool {
	var lower, upper, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}
