package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/models"
	"swatchx/internal/pagination"
	"swatchx/internal/services"
)

// --- mock reference service ---

type mockReferenceService struct {
	createBusinessUnitFn func(name string) (*models.BusinessUnit, error)
	getBusinessUnitsFn   func(list pagination.ListRequest) ([]models.BusinessUnit, error)
	updateBusinessUnitFn func(id uint, name string) (*models.BusinessUnit, error)
	deleteBusinessUnitFn func(id uint) error

	createTruckFn func(number string) (*models.Truck, error)
	getTrucksFn   func(list pagination.ListRequest) ([]models.Truck, error)
	updateTruckFn func(id uint, number string) (*models.Truck, error)
	deleteTruckFn func(id uint) error

	createTrailerFn func(number string) (*models.Trailer, error)
	getTrailersFn   func(list pagination.ListRequest) ([]models.Trailer, error)
	updateTrailerFn func(id uint, number string) (*models.Trailer, error)
	deleteTrailerFn func(id uint) error

	createFuelStationFn func(name string) (*models.FuelStation, error)
	getFuelStationsFn   func(list pagination.ListRequest) ([]models.FuelStation, error)
	updateFuelStationFn func(id uint, name string) (*models.FuelStation, error)
	deleteFuelStationFn func(id uint) error
}

func (m *mockReferenceService) CreateBusinessUnit(name string) (*models.BusinessUnit, error) {
	if m.createBusinessUnitFn != nil {
		return m.createBusinessUnitFn(name)
	}
	return &models.BusinessUnit{Name: name}, nil
}

func (m *mockReferenceService) GetBusinessUnits(list pagination.ListRequest) ([]models.BusinessUnit, error) {
	if m.getBusinessUnitsFn != nil {
		return m.getBusinessUnitsFn(list)
	}
	return []models.BusinessUnit{}, nil
}

func (m *mockReferenceService) UpdateBusinessUnit(id uint, name string) (*models.BusinessUnit, error) {
	if m.updateBusinessUnitFn != nil {
		return m.updateBusinessUnitFn(id, name)
	}
	return &models.BusinessUnit{Base: models.Base{ID: id}, Name: name}, nil
}

func (m *mockReferenceService) DeleteBusinessUnit(id uint) error {
	if m.deleteBusinessUnitFn != nil {
		return m.deleteBusinessUnitFn(id)
	}
	return nil
}

func (m *mockReferenceService) CreateTruck(number string) (*models.Truck, error) {
	if m.createTruckFn != nil {
		return m.createTruckFn(number)
	}
	return &models.Truck{Number: number}, nil
}

func (m *mockReferenceService) GetTrucks(list pagination.ListRequest) ([]models.Truck, error) {
	if m.getTrucksFn != nil {
		return m.getTrucksFn(list)
	}
	return []models.Truck{}, nil
}

func (m *mockReferenceService) UpdateTruck(id uint, number string) (*models.Truck, error) {
	if m.updateTruckFn != nil {
		return m.updateTruckFn(id, number)
	}
	return &models.Truck{Base: models.Base{ID: id}, Number: number}, nil
}

func (m *mockReferenceService) DeleteTruck(id uint) error {
	if m.deleteTruckFn != nil {
		return m.deleteTruckFn(id)
	}
	return nil
}

func (m *mockReferenceService) CreateTrailer(number string) (*models.Trailer, error) {
	if m.createTrailerFn != nil {
		return m.createTrailerFn(number)
	}
	return &models.Trailer{Number: number}, nil
}

func (m *mockReferenceService) GetTrailers(list pagination.ListRequest) ([]models.Trailer, error) {
	if m.getTrailersFn != nil {
		return m.getTrailersFn(list)
	}
	return []models.Trailer{}, nil
}

func (m *mockReferenceService) UpdateTrailer(id uint, number string) (*models.Trailer, error) {
	if m.updateTrailerFn != nil {
		return m.updateTrailerFn(id, number)
	}
	return &models.Trailer{Base: models.Base{ID: id}, Number: number}, nil
}

func (m *mockReferenceService) DeleteTrailer(id uint) error {
	if m.deleteTrailerFn != nil {
		return m.deleteTrailerFn(id)
	}
	return nil
}

func (m *mockReferenceService) CreateFuelStation(name string) (*models.FuelStation, error) {
	if m.createFuelStationFn != nil {
		return m.createFuelStationFn(name)
	}
	return &models.FuelStation{Name: name}, nil
}

func (m *mockReferenceService) GetFuelStations(list pagination.ListRequest) ([]models.FuelStation, error) {
	if m.getFuelStationsFn != nil {
		return m.getFuelStationsFn(list)
	}
	return []models.FuelStation{}, nil
}

func (m *mockReferenceService) UpdateFuelStation(id uint, name string) (*models.FuelStation, error) {
	if m.updateFuelStationFn != nil {
		return m.updateFuelStationFn(id, name)
	}
	return &models.FuelStation{Base: models.Base{ID: id}, Name: name}, nil
}

func (m *mockReferenceService) DeleteFuelStation(id uint) error {
	if m.deleteFuelStationFn != nil {
		return m.deleteFuelStationFn(id)
	}
	return nil
}

var _ services.ReferenceServicer = (*mockReferenceService)(nil)

func setupReferenceRouter(handler *ReferenceHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/business-units", handler.CreateBusinessUnit)
	auth.GET("/business-units", handler.ListBusinessUnits)
	auth.PUT("/business-units/:id", handler.UpdateBusinessUnit)
	auth.DELETE("/business-units/:id", handler.DeleteBusinessUnit)
	auth.POST("/trucks", handler.CreateTruck)
	auth.GET("/trucks", handler.ListTrucks)
	auth.PUT("/trucks/:id", handler.UpdateTruck)
	auth.DELETE("/trucks/:id", handler.DeleteTruck)
	auth.POST("/trailers", handler.CreateTrailer)
	auth.GET("/trailers", handler.ListTrailers)
	auth.PUT("/trailers/:id", handler.UpdateTrailer)
	auth.DELETE("/trailers/:id", handler.DeleteTrailer)
	auth.POST("/fuel-stations", handler.CreateFuelStation)
	auth.GET("/fuel-stations", handler.ListFuelStations)
	auth.PUT("/fuel-stations/:id", handler.UpdateFuelStation)
	auth.DELETE("/fuel-stations/:id", handler.DeleteFuelStation)
	return r
}

// --- tests ---

func TestReferenceHandler_BusinessUnits(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		refSvc := &mockReferenceService{
			createBusinessUnitFn: func(name string) (*models.BusinessUnit, error) {
				return &models.BusinessUnit{Base: models.Base{ID: 1}, Name: name}, nil
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/business-units", `{"name":"Maintenance"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["name"] != "Maintenance" {
			t.Errorf("expected Maintenance, got %v", result["name"])
		}
	})

	t.Run("create returns 400 on empty name", func(t *testing.T) {
		handler := NewReferenceHandler(&mockReferenceService{}, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/business-units", `{"name":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("create returns 409 on duplicate name", func(t *testing.T) {
		refSvc := &mockReferenceService{
			createBusinessUnitFn: func(_ string) (*models.BusinessUnit, error) {
				return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference,
					"A business unit with this name already exists")
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/business-units", `{"name":"Maintenance"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_REFERENCE")
	})

	t.Run("list returns 200 with units", func(t *testing.T) {
		refSvc := &mockReferenceService{
			getBusinessUnitsFn: func(_ pagination.ListRequest) ([]models.BusinessUnit, error) {
				return []models.BusinessUnit{
					{Base: models.Base{ID: 1}, Name: "Dispatch"},
					{Base: models.Base{ID: 2}, Name: "Maintenance"},
				}, nil
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "GET", "/business-units", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSONList(t, rec)
		if len(result) != 2 {
			t.Fatalf("expected 2 units, got %d", len(result))
		}
		if result[0]["name"] != "Dispatch" {
			t.Errorf("expected Dispatch first, got %v", result[0]["name"])
		}
	})

	t.Run("list passes pagination through", func(t *testing.T) {
		var gotList pagination.ListRequest
		refSvc := &mockReferenceService{
			getBusinessUnitsFn: func(list pagination.ListRequest) ([]models.BusinessUnit, error) {
				gotList = list
				return []models.BusinessUnit{}, nil
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "GET", "/business-units?skip=10&limit=25", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotList.Skip != 10 || gotList.Limit != 25 {
			t.Errorf("pagination not passed: %+v", gotList)
		}
	})

	t.Run("update returns 200", func(t *testing.T) {
		handler := NewReferenceHandler(&mockReferenceService{}, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "PUT", "/business-units/4", `{"name":"Renamed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["id"].(float64) != 4 {
			t.Errorf("expected id 4, got %v", result["id"])
		}
		if result["name"] != "Renamed" {
			t.Errorf("expected Renamed, got %v", result["name"])
		}
	})

	t.Run("update returns 404 when missing", func(t *testing.T) {
		refSvc := &mockReferenceService{
			updateBusinessUnitFn: func(_ uint, _ string) (*models.BusinessUnit, error) {
				return nil, apperrors.ErrBusinessUnitNotFound
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "PUT", "/business-units/99", `{"name":"Renamed"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUSINESS_UNIT_NOT_FOUND")
	})

	t.Run("delete returns 204", func(t *testing.T) {
		handler := NewReferenceHandler(&mockReferenceService{}, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "DELETE", "/business-units/4", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("delete returns 400 when still referenced", func(t *testing.T) {
		refSvc := &mockReferenceService{
			deleteBusinessUnitFn: func(_ uint) error {
				return apperrors.WithMessage(apperrors.ErrReferenceInUse,
					"Cannot delete business unit: 3 expense(s) reference it")
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "DELETE", "/business-units/4", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REFERENCE_IN_USE")
	})
}

func TestReferenceHandler_Trucks(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		refSvc := &mockReferenceService{
			createTruckFn: func(number string) (*models.Truck, error) {
				return &models.Truck{Base: models.Base{ID: 1}, Number: number}, nil
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/trucks", `{"number":"104"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["number"] != "104" {
			t.Errorf("expected 104, got %v", result["number"])
		}
	})

	t.Run("create returns 400 on missing number", func(t *testing.T) {
		handler := NewReferenceHandler(&mockReferenceService{}, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/trucks", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("update and delete round-trip", func(t *testing.T) {
		handler := NewReferenceHandler(&mockReferenceService{}, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "PUT", "/trucks/2", `{"number":"205"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = doRequest(r, "DELETE", "/trucks/2", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("delete returns 404 when missing", func(t *testing.T) {
		refSvc := &mockReferenceService{
			deleteTruckFn: func(_ uint) error {
				return apperrors.ErrTruckNotFound
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "DELETE", "/trucks/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRUCK_NOT_FOUND")
	})
}

func TestReferenceHandler_Trailers(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		handler := NewReferenceHandler(&mockReferenceService{}, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/trailers", `{"number":"T-300"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("list returns 200", func(t *testing.T) {
		refSvc := &mockReferenceService{
			getTrailersFn: func(_ pagination.ListRequest) ([]models.Trailer, error) {
				return []models.Trailer{{Base: models.Base{ID: 1}, Number: "T-300"}}, nil
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "GET", "/trailers", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSONList(t, rec)
		if len(result) != 1 || result[0]["number"] != "T-300" {
			t.Errorf("unexpected trailers: %v", result)
		}
	})

	t.Run("update returns 404 when missing", func(t *testing.T) {
		refSvc := &mockReferenceService{
			updateTrailerFn: func(_ uint, _ string) (*models.Trailer, error) {
				return nil, apperrors.ErrTrailerNotFound
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "PUT", "/trailers/99", `{"number":"T-301"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRAILER_NOT_FOUND")
	})
}

func TestReferenceHandler_FuelStations(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		handler := NewReferenceHandler(&mockReferenceService{}, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/fuel-stations", `{"name":"Pilot I-40"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("create returns 409 on duplicate name", func(t *testing.T) {
		refSvc := &mockReferenceService{
			createFuelStationFn: func(_ string) (*models.FuelStation, error) {
				return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference,
					"A fuel station with this name already exists")
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "POST", "/fuel-stations", `{"name":"Pilot I-40"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("delete returns 400 when still referenced", func(t *testing.T) {
		refSvc := &mockReferenceService{
			deleteFuelStationFn: func(_ uint) error {
				return apperrors.WithMessage(apperrors.ErrReferenceInUse,
					"Cannot delete fuel station: 1 expense(s) reference it")
			},
		}
		handler := NewReferenceHandler(refSvc, &mockAuditService{})
		r := setupReferenceRouter(handler)

		rec := doRequest(r, "DELETE", "/fuel-stations/1", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REFERENCE_IN_USE")
	})
}
