package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"swatchx/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email. The password
// is "Password1!" hashed with bcrypt.MinCost.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		IsActive:  true,
		ThemeMode: models.ThemeModeLight,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserWithSecurityQuestions creates a user with three recovery
// questions set. The answers are "blue", "rex", and "austin".
func CreateTestUserWithSecurityQuestions(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := CreateTestUserWithEmail(t, db, email)

	questions := [3]string{
		"What is your favorite color?",
		"What was your first pet's name?",
		"What city were you born in?",
	}
	answers := [3]string{"blue", "rex", "austin"}

	var hashes [3]string
	for i, answer := range answers {
		hash, err := bcrypt.GenerateFromPassword([]byte(answer), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash security answer: %v", err)
		}
		hashes[i] = string(hash)
	}

	user.SecurityQuestion1, user.SecurityAnswer1 = questions[0], hashes[0]
	user.SecurityQuestion2, user.SecurityAnswer2 = questions[1], hashes[1]
	user.SecurityQuestion3, user.SecurityAnswer3 = questions[2], hashes[2]
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("failed to set security questions: %v", err)
	}
	return user
}

// CreateTestBusinessUnit creates a business unit with a unique name.
func CreateTestBusinessUnit(t *testing.T, db *gorm.DB) *models.BusinessUnit {
	t.Helper()

	unit := &models.BusinessUnit{
		Name: fmt.Sprintf("Test Unit %d", nextID()),
	}
	if err := db.Create(unit).Error; err != nil {
		t.Fatalf("failed to create test business unit: %v", err)
	}
	return unit
}

// CreateTestTruck creates a truck with a unique number.
func CreateTestTruck(t *testing.T, db *gorm.DB) *models.Truck {
	t.Helper()

	truck := &models.Truck{
		Number: fmt.Sprintf("TRK-%d", nextID()),
	}
	if err := db.Create(truck).Error; err != nil {
		t.Fatalf("failed to create test truck: %v", err)
	}
	return truck
}

// CreateTestTrailer creates a trailer with a unique number.
func CreateTestTrailer(t *testing.T, db *gorm.DB) *models.Trailer {
	t.Helper()

	trailer := &models.Trailer{
		Number: fmt.Sprintf("TRL-%d", nextID()),
	}
	if err := db.Create(trailer).Error; err != nil {
		t.Fatalf("failed to create test trailer: %v", err)
	}
	return trailer
}

// CreateTestFuelStation creates a fuel station with a unique name.
func CreateTestFuelStation(t *testing.T, db *gorm.DB) *models.FuelStation {
	t.Helper()

	station := &models.FuelStation{
		Name: fmt.Sprintf("Test Station %d", nextID()),
	}
	if err := db.Create(station).Error; err != nil {
		t.Fatalf("failed to create test fuel station: %v", err)
	}
	return station
}

// CreateTestExpense creates an expense dated now.
func CreateTestExpense(t *testing.T, db *gorm.DB, company models.Company, category models.ExpenseCategory, price float64) *models.Expense {
	t.Helper()
	return CreateTestExpenseWithDate(t, db, company, category, price, time.Now())
}

// CreateTestExpenseWithDate creates an expense on the given date.
func CreateTestExpenseWithDate(t *testing.T, db *gorm.DB, company models.Company, category models.ExpenseCategory, price float64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Company:  company,
		Category: category,
		Date:     date,
		Price:    price,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
