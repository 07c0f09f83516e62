package models

// ThemeMode is the UI color scheme a user has chosen.
type ThemeMode string

const (
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

// User represents the user model in the database. Security answers are
// stored as bcrypt hashes, never in plain text.
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"size:100" json:"name,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	SecurityQuestion1 string `gorm:"size:255" json:"-"`
	SecurityAnswer1   string `json:"-"`
	SecurityQuestion2 string `gorm:"size:255" json:"-"`
	SecurityAnswer2   string `json:"-"`
	SecurityQuestion3 string `gorm:"size:255" json:"-"`
	SecurityAnswer3   string `json:"-"`

	ThemeMode      ThemeMode `gorm:"size:10;default:light" json:"theme_mode"`
	DefaultCompany Company   `gorm:"size:20" json:"default_company,omitempty"`
}

// HasSecurityQuestions reports whether all three recovery questions are
// set with hashed answers.
func (u *User) HasSecurityQuestions() bool {
	return u.SecurityQuestion1 != "" && u.SecurityAnswer1 != "" &&
		u.SecurityQuestion2 != "" && u.SecurityAnswer2 != "" &&
		u.SecurityQuestion3 != "" && u.SecurityAnswer3 != ""
}

// SecurityQuestions returns the three recovery questions in order.
func (u *User) SecurityQuestions() [3]string {
	return [3]string{u.SecurityQuestion1, u.SecurityQuestion2, u.SecurityQuestion3}
}
