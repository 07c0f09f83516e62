package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/middleware"
	"swatchx/internal/models"
	"swatchx/internal/services"
)

// AuthHandler handles authentication and account requests.
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService}
}

// SignupRequest represents the account creation payload.
type SignupRequest struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	Password        string `json:"password" binding:"required,min=8,max=128,password_complexity"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the user data in responses.
type UserResponse struct {
	ID                   uint             `json:"id"`
	Email                string           `json:"email"`
	Name                 string           `json:"name,omitempty"`
	IsActive             bool             `json:"is_active"`
	CreatedAt            time.Time        `json:"created_at"`
	ThemeMode            models.ThemeMode `json:"theme_mode"`
	DefaultCompany       models.Company   `json:"default_company,omitempty"`
	HasSecurityQuestions bool             `json:"has_security_questions"`
}

// TokenResponse represents a successful authentication response.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:                   user.ID,
		Email:                user.Email,
		Name:                 user.Name,
		IsActive:             user.IsActive,
		CreatedAt:            user.CreatedAt,
		ThemeMode:            user.ThemeMode,
		DefaultCompany:       user.DefaultCompany,
		HasSecurityQuestions: user.HasSecurityQuestions(),
	}
}

func tokenResponse(token string, user *models.User) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	}
}

// Signup handles account creation
// @Summary     Create a new account
// @Description Register with email and password and receive an access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "Account details"
// @Success     201 {object} TokenResponse "Account created and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, "SIGNUP", "user", user.ID, c.ClientIP(), map[string]interface{}{
		"email": user.Email,
	})

	c.JSON(http.StatusCreated, tokenResponse(token, user))
}

// Login handles user login
// @Summary     Log in
// @Description Authenticate with email and password and receive an access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Login credentials"
// @Success     200 {object} TokenResponse "Authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Incorrect email or password"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, tokenResponse(token, user))
}

// Me returns the authenticated user
// @Summary     Get current user
// @Description Get the authenticated user's account details
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "Current user"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// SecurityQuestionPayload is a single question and answer pair.
type SecurityQuestionPayload struct {
	Question string `json:"question" binding:"required,max=255"`
	Answer   string `json:"answer" binding:"required,max=255"`
}

// SecurityQuestionsRequest carries the full set of three security questions.
type SecurityQuestionsRequest struct {
	Questions []SecurityQuestionPayload `json:"questions" binding:"required,len=3,dive"`
}

// SecurityQuestionsResponse lists a user's security questions without answers.
type SecurityQuestionsResponse struct {
	Question1            string `json:"question_1"`
	Question2            string `json:"question_2"`
	Question3            string `json:"question_3"`
	HasSecurityQuestions bool   `json:"has_security_questions"`
}

func (h *AuthHandler) saveSecurityQuestions(c *gin.Context, action, message string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SecurityQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var questions [3]services.SecurityQuestionInput
	for i, q := range req.Questions {
		questions[i] = services.SecurityQuestionInput{Question: q.Question, Answer: q.Answer}
	}

	if err := h.userService.SetSecurityQuestions(userID, questions); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// SetupSecurityQuestions stores security questions for password reset
// @Summary     Set up security questions
// @Description Store three security questions and hashed answers for password reset
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SecurityQuestionsRequest true "Three questions with answers"
// @Success     200 {object} MessageResponse "Security questions stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/security-questions [post]
func (h *AuthHandler) SetupSecurityQuestions(c *gin.Context) {
	h.saveSecurityQuestions(c, "SET_SECURITY_QUESTIONS", "Security questions set up successfully")
}

// UpdateSecurityQuestions replaces all security questions
// @Summary     Update security questions
// @Description Replace all three security questions and answers
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SecurityQuestionsRequest true "Three questions with answers"
// @Success     200 {object} MessageResponse "Security questions updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/security-questions [put]
func (h *AuthHandler) UpdateSecurityQuestions(c *gin.Context) {
	h.saveSecurityQuestions(c, "UPDATE_SECURITY_QUESTIONS", "Security questions updated successfully")
}

// GetSecurityQuestions returns the user's security questions
// @Summary     Get security questions
// @Description Get the authenticated user's security questions without answers
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SecurityQuestionsResponse "Security questions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/security-questions [get]
func (h *AuthHandler) GetSecurityQuestions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SecurityQuestionsResponse{
		Question1:            user.SecurityQuestion1,
		Question2:            user.SecurityQuestion2,
		Question3:            user.SecurityQuestion3,
		HasSecurityQuestions: user.HasSecurityQuestions(),
	})
}

// SecurityQuestionUpdateRequest updates one security question by index.
type SecurityQuestionUpdateRequest struct {
	QuestionIndex   *int   `json:"question_index" binding:"required,min=0,max=2"`
	Question        string `json:"question" binding:"required,max=255"`
	Answer          string `json:"answer" binding:"required,max=255"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// UpdateSecurityQuestion updates a single security question
// @Summary     Update one security question
// @Description Update a single security question after verifying the current password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SecurityQuestionUpdateRequest true "Question index, new question and answer, current password"
// @Success     200 {object} MessageResponse "Security question updated"
// @Failure     400 {object} ErrorResponse "Invalid input or wrong password"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/security-questions/individual [put]
func (h *AuthHandler) UpdateSecurityQuestion(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SecurityQuestionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	index := *req.QuestionIndex
	if err := h.userService.UpdateSecurityQuestion(userID, index, req.Question, req.Answer, req.CurrentPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SECURITY_QUESTION", "user", userID, c.ClientIP(), map[string]interface{}{
		"question_index": index,
	})

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Security question %d updated successfully", index+1),
	})
}

// PasswordChangeRequest changes the password of an authenticated user.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128,password_complexity"`
}

// ChangePassword changes the authenticated user's password
// @Summary     Change password
// @Description Change the password after verifying the current one
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PasswordChangeRequest true "Current and new password"
// @Success     200 {object} MessageResponse "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid input or wrong password"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/password/change [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_PASSWORD", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// PasswordResetRequest starts a password reset by email.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset returns the security questions for a reset attempt
// @Summary     Request a password reset
// @Description Look up the account's security questions. The response does not reveal whether the email exists.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body PasswordResetRequest true "Account email"
// @Success     200 {object} SecurityQuestionsResponse "Security questions"
// @Failure     400 {object} ErrorResponse "No security questions configured"
// @Failure     404 {object} ErrorResponse "Unknown email"
// @Router      /auth/password/reset-request [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetSecurityQuestionsByEmail(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SecurityQuestionsResponse{
		Question1:            user.SecurityQuestion1,
		Question2:            user.SecurityQuestion2,
		Question3:            user.SecurityQuestion3,
		HasSecurityQuestions: true,
	})
}

// PasswordResetVerifyRequest completes a password reset with security answers.
type PasswordResetVerifyRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Answers     []string `json:"answers" binding:"required,len=3,dive,required"`
	NewPassword string   `json:"new_password" binding:"required,min=8,max=128,password_complexity"`
}

// VerifyPasswordReset verifies security answers and sets a new password
// @Summary     Complete a password reset
// @Description Verify all three security answers and set a new password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body PasswordResetVerifyRequest true "Email, answers, and new password"
// @Success     200 {object} MessageResponse "Password reset"
// @Failure     400 {object} ErrorResponse "Invalid reset request or wrong answers"
// @Router      /auth/password/reset-verify [post]
func (h *AuthHandler) VerifyPasswordReset(c *gin.Context) {
	var req PasswordResetVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var answers [3]string
	copy(answers[:], req.Answers)

	if err := h.userService.ResetPassword(req.Email, answers, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}

// PreferencesRequest updates display preferences for the authenticated user.
type PreferencesRequest struct {
	Name           *string           `json:"name" binding:"omitempty,max=100"`
	ThemeMode      *models.ThemeMode `json:"theme_mode" binding:"omitempty,theme_mode"`
	DefaultCompany *models.Company   `json:"default_company" binding:"omitempty,company"`
}

// GetPreferences returns the authenticated user's preferences
// @Summary     Get preferences
// @Description Get the authenticated user's display preferences
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "Current user with preferences"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/preferences [get]
func (h *AuthHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdatePreferences updates the authenticated user's preferences
// @Summary     Update preferences
// @Description Update display name, theme mode, or default company
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PreferencesRequest true "Preference fields to update"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/preferences [put]
func (h *AuthHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdatePreferences(userID, services.PreferencesUpdate{
		Name:           req.Name,
		ThemeMode:      req.ThemeMode,
		DefaultCompany: req.DefaultCompany,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PREFERENCES", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, toUserResponse(user))
}

// MessageResponse represents a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
