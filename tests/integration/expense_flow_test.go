package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// createReference posts a reference entity and returns its ID.
func createReference(t *testing.T, app *testApp, path, body, token string) float64 {
	t.Helper()
	rec := app.request(http.MethodPost, path, body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating %s, got %d: %s", path, rec.Code, rec.Body.String())
	}
	id, ok := parseJSON(t, rec)["id"].(float64)
	if !ok {
		t.Fatalf("expected numeric id creating %s, got %s", path, rec.Body.String())
	}
	return id
}

func TestExpenseFlow_FullLifecycle(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signupUser(t, "fleet@swatchx.test", "Password1!")

	// Step 1: Create the references the expense will point at.
	truckID := createReference(t, app, "/api/v1/trucks", `{"number":"101"}`, token)
	stationID := createReference(t, app, "/api/v1/fuel-stations", `{"name":"Pilot I-40"}`, token)

	// Step 2: Create a diesel expense with a receipt attached.
	expenseData := fmt.Sprintf(
		`{"company":"Swatch","category":"fuel-diesel","date":"2024-03-05","price":412.75,"gallons":118.3,"truck_id":%.0f,"fuel_station_id":%.0f}`,
		truckID, stationID)
	rec := app.requestMultipart(t, http.MethodPost, "/api/v1/expenses",
		map[string]string{"expense_data": expenseData}, "receipt.pdf", "%PDF-1.4 fuel receipt", token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating expense, got %d: %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)
	expenseID, _ := expense["id"].(float64)
	if expenseID == 0 {
		t.Fatal("expected expense id in create response")
	}
	if expense["price"] != 412.75 {
		t.Errorf("expected price 412.75, got %v", expense["price"])
	}
	if expense["gallons"] != 118.3 {
		t.Errorf("expected gallons 118.3, got %v", expense["gallons"])
	}
	if path, _ := expense["attachment_path"].(string); path == "" {
		t.Error("expected attachment_path on created expense")
	}
	truck, _ := expense["truck"].(map[string]interface{})
	if truck == nil || truck["number"] != "101" {
		t.Errorf("expected truck 101 preloaded on expense, got %v", expense["truck"])
	}

	// Step 3: Fetch the expense by ID and check the embedded references.
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/v1/expenses/%.0f", expenseID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching expense, got %d: %s", rec.Code, rec.Body.String())
	}
	fetched := parseJSON(t, rec)
	station, _ := fetched["fuelStation"].(map[string]interface{})
	if station == nil || station["name"] != "Pilot I-40" {
		t.Errorf("expected fuel station preloaded, got %v", fetched["fuelStation"])
	}
	if date, _ := fetched["date"].(string); !strings.HasPrefix(date, "2024-03-05") {
		t.Errorf("expected date 2024-03-05, got %v", fetched["date"])
	}

	// Step 4: The expense shows up in the list.
	rec = app.request(http.MethodGet, "/api/v1/expenses", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing expenses, got %d: %s", rec.Code, rec.Body.String())
	}
	if list := parseJSONList(t, rec); len(list) != 1 {
		t.Fatalf("expected 1 expense in list, got %d", len(list))
	}

	// Step 5: Update the price without touching the other fields.
	rec = app.request(http.MethodPut, fmt.Sprintf("/api/v1/expenses/%.0f", expenseID),
		`{"price":430.00}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating expense, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)
	if updated["price"] != 430.0 {
		t.Errorf("expected updated price 430, got %v", updated["price"])
	}
	if updated["gallons"] != 118.3 {
		t.Errorf("expected gallons untouched, got %v", updated["gallons"])
	}

	// Step 6: Download the receipt.
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/v1/expenses/%.0f/attachment", expenseID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 downloading attachment, got %d: %s", rec.Code, rec.Body.String())
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "receipt") || !strings.Contains(disposition, ".pdf") {
		t.Errorf("expected receipt filename in disposition, got %q", disposition)
	}
	if rec.Body.String() != "%PDF-1.4 fuel receipt" {
		t.Errorf("downloaded content does not match upload: %q", rec.Body.String())
	}

	// Step 7: Remove the attachment and confirm it is gone.
	rec = app.request(http.MethodDelete, fmt.Sprintf("/api/v1/expenses/%.0f/attachment", expenseID), "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting attachment, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/v1/expenses/%.0f/attachment", expenseID), "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after attachment removal, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, parseJSON(t, rec), "ATTACHMENT_NOT_FOUND")
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/v1/expenses/%.0f", expenseID), "", token)
	if _, present := parseJSON(t, rec)["attachment_path"]; present {
		t.Error("expected attachment_path cleared from expense")
	}

	// Step 8: Attach a replacement receipt through the upload endpoint.
	rec = app.requestMultipart(t, http.MethodPost, fmt.Sprintf("/api/v1/expenses/%.0f/attachment", expenseID),
		nil, "corrected-receipt.jpg", "jpeg bytes", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 uploading attachment, got %d: %s", rec.Code, rec.Body.String())
	}
	if path, _ := parseJSON(t, rec)["attachment_path"].(string); path == "" {
		t.Error("expected attachment_path after upload")
	}
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/v1/expenses/%.0f/attachment", expenseID), "", token)
	if rec.Body.String() != "jpeg bytes" {
		t.Errorf("expected replacement content on download, got %q", rec.Body.String())
	}

	// Step 9: Delete the expense.
	rec = app.request(http.MethodDelete, fmt.Sprintf("/api/v1/expenses/%.0f", expenseID), "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting expense, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/v1/expenses/%.0f", expenseID), "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted expense, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	rec = app.request(http.MethodGet, "/api/v1/expenses", "", token)
	if list := parseJSONList(t, rec); len(list) != 0 {
		t.Errorf("expected empty list after delete, got %d entries", len(list))
	}
}

func TestExpenseFlow_FiltersAndOrdering(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signupUser(t, "filters@swatchx.test", "Password1!")
	truckID := createReference(t, app, "/api/v1/trucks", `{"number":"202"}`, token)

	// Step 1: Seed expenses across companies, categories, and dates.
	seed := func(body string) {
		t.Helper()
		rec := app.request(http.MethodPost, "/api/v1/expenses", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 seeding expense, got %d: %s", rec.Code, rec.Body.String())
		}
	}
	seed(fmt.Sprintf(`{"company":"Swatch","category":"fuel-diesel","date":"2024-03-10","price":100,"truck_id":%.0f}`, truckID))
	seed(`{"company":"Swatch","category":"parts","date":"2024-03-12","price":250}`)
	seed(`{"company":"SWS","category":"fuel-diesel","date":"2024-03-11","price":300}`)
	seed(fmt.Sprintf(`{"company":"Swatch","category":"fuel-diesel","date":"2024-02-20","price":80,"truck_id":%.0f}`, truckID))

	// Step 2: The unfiltered list is ordered newest first.
	rec := app.request(http.MethodGet, "/api/v1/expenses", "", token)
	list := parseJSONList(t, rec)
	if len(list) != 4 {
		t.Fatalf("expected 4 expenses, got %d", len(list))
	}
	if list[0]["price"] != 250.0 || list[3]["price"] != 80.0 {
		t.Errorf("expected newest-first ordering, got %v ... %v", list[0]["price"], list[3]["price"])
	}

	// Step 3: Filter by company.
	rec = app.request(http.MethodGet, "/api/v1/expenses?company=Swatch", "", token)
	if list = parseJSONList(t, rec); len(list) != 3 {
		t.Errorf("expected 3 Swatch expenses, got %d", len(list))
	}

	// Step 4: Filter by company and category together.
	rec = app.request(http.MethodGet, "/api/v1/expenses?company=Swatch&category=fuel-diesel", "", token)
	if list = parseJSONList(t, rec); len(list) != 2 {
		t.Errorf("expected 2 Swatch diesel expenses, got %d", len(list))
	}

	// Step 5: Date bounds are inclusive on both ends.
	rec = app.request(http.MethodGet, "/api/v1/expenses?start_date=2024-03-01&end_date=2024-03-11", "", token)
	list = parseJSONList(t, rec)
	if len(list) != 2 {
		t.Fatalf("expected 2 expenses in window, got %d", len(list))
	}
	if list[0]["price"] != 300.0 || list[1]["price"] != 100.0 {
		t.Errorf("unexpected window contents: %v, %v", list[0]["price"], list[1]["price"])
	}

	// Step 6: Filter by truck.
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/v1/expenses?truck_id=%.0f", truckID), "", token)
	if list = parseJSONList(t, rec); len(list) != 2 {
		t.Errorf("expected 2 truck expenses, got %d", len(list))
	}

	// Step 7: Pagination slices the ordered list.
	rec = app.request(http.MethodGet, "/api/v1/expenses?skip=1&limit=2", "", token)
	list = parseJSONList(t, rec)
	if len(list) != 2 {
		t.Fatalf("expected page of 2, got %d", len(list))
	}
	if list[0]["price"] != 300.0 {
		t.Errorf("expected page to start at the second expense, got %v", list[0]["price"])
	}

	// Step 8: Unknown filter values are rejected.
	rec = app.request(http.MethodGet, "/api/v1/expenses?company=Acme", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown company filter, got %d", rec.Code)
	}
	rec = app.request(http.MethodGet, "/api/v1/expenses?category=groceries", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown category filter, got %d", rec.Code)
	}
}

func TestExpenseFlow_RejectsInvalidInput(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signupUser(t, "strict@swatchx.test", "Password1!")

	// Step 1: A reference that does not exist fails the whole create.
	rec := app.request(http.MethodPost, "/api/v1/expenses",
		`{"company":"Swatch","category":"fuel-diesel","date":"2024-03-05","price":100,"truck_id":999}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing truck, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	assertErrorCode(t, result, "INVALID_INPUT")
	if msg := result["error"].(map[string]interface{})["message"]; msg != "Truck not found" {
		t.Errorf("unexpected message for missing truck: %v", msg)
	}

	// Step 2: Zero and negative prices are rejected.
	rec = app.request(http.MethodPost, "/api/v1/expenses",
		`{"company":"Swatch","category":"parts","date":"2024-03-05","price":0}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero price, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 3: A disallowed attachment type aborts before anything is stored.
	rec = app.requestMultipart(t, http.MethodPost, "/api/v1/expenses",
		map[string]string{"expense_data": `{"company":"Swatch","category":"parts","date":"2024-03-05","price":55}`},
		"malware.exe", "MZ", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for exe attachment, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, parseJSON(t, rec), "INVALID_ATTACHMENT")
	rec = app.request(http.MethodGet, "/api/v1/expenses", "", token)
	if list := parseJSONList(t, rec); len(list) != 0 {
		t.Errorf("expected no expense rows after rejected attachment, got %d", len(list))
	}

	// Step 4: The date is mandatory and must parse.
	rec = app.request(http.MethodPost, "/api/v1/expenses",
		`{"company":"Swatch","category":"parts","price":55}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing date, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request(http.MethodPost, "/api/v1/expenses",
		`{"company":"Swatch","category":"parts","date":"03/05/2024","price":55}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable date, got %d: %s", rec.Code, rec.Body.String())
	}
}
