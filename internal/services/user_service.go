package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/models"
)

// neutralResetMessage never confirms whether an email is registered.
const neutralResetMessage = "If this email is registered and has security questions set up, they will be displayed."

// userService handles user and authentication business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user
func (s *userService) CreateUser(email, password string) (*models.User, error) {
	// Validate input
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	// Check if user with email exists
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Create user
	user := &models.User{
		Email:     strings.ToLower(email),
		Password:  string(hashedPassword),
		IsActive:  true,
		ThemeMode: models.ThemeModeLight,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin authenticates a user by email and password. Unknown emails
// and wrong passwords produce the same error so the two cases cannot be
// told apart.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// SetSecurityQuestions stores the three recovery question/answer pairs,
// replacing any existing set. Answers are bcrypt-hashed.
func (s *userService) SetSecurityQuestions(userID uint, questions [3]SecurityQuestionInput) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	var hashes [3]string
	for i, q := range questions {
		if q.Question == "" || q.Answer == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "every security question needs a question and an answer")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(q.Answer), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		hashes[i] = string(hash)
	}

	user.SecurityQuestion1, user.SecurityAnswer1 = questions[0].Question, hashes[0]
	user.SecurityQuestion2, user.SecurityAnswer2 = questions[1].Question, hashes[1]
	user.SecurityQuestion3, user.SecurityAnswer3 = questions[2].Question, hashes[2]

	if err := s.db.Save(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpdateSecurityQuestion replaces a single question/answer pair after
// re-verifying the account password.
func (s *userService) UpdateSecurityQuestion(userID uint, index int, question, answer, currentPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !s.VerifyPassword(user, currentPassword) {
		return apperrors.ErrWrongPassword
	}

	if question == "" || answer == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "question and answer are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(answer), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	switch index {
	case 0:
		user.SecurityQuestion1, user.SecurityAnswer1 = question, string(hash)
	case 1:
		user.SecurityQuestion2, user.SecurityAnswer2 = question, string(hash)
	case 2:
		user.SecurityQuestion3, user.SecurityAnswer3 = question, string(hash)
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "question index must be 0, 1, or 2")
	}

	if err := s.db.Save(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ChangePassword sets a new password after verifying the current one.
func (s *userService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !s.VerifyPassword(user, currentPassword) {
		return apperrors.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.Password = string(hash)
	if err := s.db.Save(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSecurityQuestionsByEmail returns the user whose questions should be
// shown during password reset. Unknown emails get a neutral message that
// does not confirm account existence.
func (s *userService) GetSecurityQuestionsByEmail(email string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrUserNotFound, neutralResetMessage)
	}

	if !user.HasSecurityQuestions() {
		return nil, apperrors.ErrNoSecurityQuestions
	}

	return user, nil
}

// ResetPassword verifies all three security answers for the account and,
// when they match, sets the new password.
func (s *userService) ResetPassword(email string, answers [3]string, newPassword string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil || !user.HasSecurityQuestions() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid reset request")
	}

	hashes := [3]string{user.SecurityAnswer1, user.SecurityAnswer2, user.SecurityAnswer3}
	for i := range answers {
		if bcrypt.CompareHashAndPassword([]byte(hashes[i]), []byte(answers[i])) != nil {
			return apperrors.ErrWrongSecurityAnswers
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.Password = string(hash)
	if err := s.db.Save(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpdatePreferences applies the provided profile fields and returns the
// updated user.
func (s *userService) UpdatePreferences(userID uint, update PreferencesUpdate) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.ThemeMode != nil {
		if *update.ThemeMode != models.ThemeModeLight && *update.ThemeMode != models.ThemeModeDark {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "theme_mode must be light or dark")
		}
		updates["theme_mode"] = *update.ThemeMode
	}
	if update.DefaultCompany != nil {
		if !update.DefaultCompany.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown company")
		}
		updates["default_company"] = *update.DefaultCompany
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return user, nil
}
