package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"swatchx/internal/handlers"
	"swatchx/internal/logger"
	"swatchx/internal/middleware"
	"swatchx/internal/models"
	"swatchx/internal/services"
	"swatchx/internal/storage"
	"swatchx/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.BusinessUnit{},
		&models.Truck{},
		&models.Trailer{},
		&models.FuelStation{},
		&models.Expense{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a throwaway attachment directory.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	store, err := storage.New(t.TempDir(), 10<<20)
	if err != nil {
		t.Fatalf("failed to create attachment store: %v", err)
	}

	// Services
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db, store)
	referenceService := services.NewReferenceService(db)
	analyticsService := services.NewAnalyticsService(db)
	exportService := services.NewExportService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	referenceHandler := handlers.NewReferenceHandler(referenceService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	exportHandler := handlers.NewExportHandler(exportService)
	categoryHandler := handlers.NewCategoryHandler()

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	// Public auth routes
	auth := router.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password/reset-request", authHandler.RequestPasswordReset)
	auth.POST("/password/reset-verify", authHandler.VerifyPasswordReset)

	// Authenticated account routes
	account := auth.Group("/")
	account.Use(middleware.AuthMiddleware())
	account.GET("/me", authHandler.Me)
	account.GET("/security-questions", authHandler.GetSecurityQuestions)
	account.POST("/security-questions", authHandler.SetupSecurityQuestions)
	account.PUT("/security-questions", authHandler.UpdateSecurityQuestions)
	account.PUT("/security-questions/individual", authHandler.UpdateSecurityQuestion)
	account.POST("/password/change", authHandler.ChangePassword)
	account.GET("/preferences", authHandler.GetPreferences)
	account.PUT("/preferences", authHandler.UpdatePreferences)

	// Protected API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.GET("/:id/attachment", expenseHandler.DownloadAttachment)
	expenses.POST("/:id/attachment", expenseHandler.UploadAttachment)
	expenses.DELETE("/:id/attachment", expenseHandler.DeleteAttachment)

	v1.GET("/export/expenses", exportHandler.ExportExpenses)

	businessUnits := v1.Group("/business-units")
	businessUnits.POST("", referenceHandler.CreateBusinessUnit)
	businessUnits.GET("", referenceHandler.ListBusinessUnits)
	businessUnits.PUT("/:id", referenceHandler.UpdateBusinessUnit)
	businessUnits.DELETE("/:id", referenceHandler.DeleteBusinessUnit)

	trucks := v1.Group("/trucks")
	trucks.POST("", referenceHandler.CreateTruck)
	trucks.GET("", referenceHandler.ListTrucks)
	trucks.PUT("/:id", referenceHandler.UpdateTruck)
	trucks.DELETE("/:id", referenceHandler.DeleteTruck)

	trailers := v1.Group("/trailers")
	trailers.POST("", referenceHandler.CreateTrailer)
	trailers.GET("", referenceHandler.ListTrailers)
	trailers.PUT("/:id", referenceHandler.UpdateTrailer)
	trailers.DELETE("/:id", referenceHandler.DeleteTrailer)

	fuelStations := v1.Group("/fuel-stations")
	fuelStations.POST("", referenceHandler.CreateFuelStation)
	fuelStations.GET("", referenceHandler.ListFuelStations)
	fuelStations.PUT("/:id", referenceHandler.UpdateFuelStation)
	fuelStations.DELETE("/:id", referenceHandler.DeleteFuelStation)

	v1.GET("/categories", categoryHandler.GetCategories)

	v1.GET("/pie-chart-data/:company", analyticsHandler.GetPieChartData)
	v1.GET("/monthly-change/:company", analyticsHandler.GetMonthlyChange)
	v1.GET("/top-categories/:company", analyticsHandler.GetTopCategories)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestMultipart sends a multipart form with optional text fields and one
// optional file part named attachment.
func (app *testApp) requestMultipart(t *testing.T, method, path string, fields map[string]string, filename, content, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile("attachment", filename)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONList parses the response body into a list of maps.
func parseJSONList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON list: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertErrorCode checks the error envelope for an application error code.
func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}

// signupUser creates a new account and returns the access token and user ID.
func (app *testApp) signupUser(t *testing.T, email, password string) (accessToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"confirm_password":%q}`, email, password, password)
	rec := app.request("POST", "/auth/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string)
}
