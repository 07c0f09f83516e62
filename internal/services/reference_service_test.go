package services

import (
	"testing"
	"time"

	"swatchx/internal/models"
	"swatchx/internal/pagination"
	"swatchx/internal/testutil"
)

func TestCreateBusinessUnit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		unit, err := svc.CreateBusinessUnit("West Coast")
		testutil.AssertNoError(t, err)

		if unit.ID == 0 {
			t.Fatal("expected non-zero business unit ID")
		}
		if unit.Name != "West Coast" {
			t.Errorf("expected name West Coast, got %s", unit.Name)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateBusinessUnit("Midwest")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBusinessUnit("Midwest")
		testutil.AssertAppError(t, err, "DUPLICATE_REFERENCE")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateBusinessUnit("")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetBusinessUnits(t *testing.T) {
	t.Run("sorted_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateBusinessUnit("Zeta")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateBusinessUnit("Alpha")
		testutil.AssertNoError(t, err)

		units, err := svc.GetBusinessUnits(pagination.ListRequest{})
		testutil.AssertNoError(t, err)

		if len(units) != 2 {
			t.Fatalf("expected 2 units, got %d", len(units))
		}
		if units[0].Name != "Alpha" || units[1].Name != "Zeta" {
			t.Error("expected units sorted by name")
		}
	})

	t.Run("paged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		for _, name := range []string{"A", "B", "C", "D"} {
			_, err := svc.CreateBusinessUnit(name)
			testutil.AssertNoError(t, err)
		}

		units, err := svc.GetBusinessUnits(pagination.ListRequest{Skip: 1, Limit: 2})
		testutil.AssertNoError(t, err)

		if len(units) != 2 || units[0].Name != "B" || units[1].Name != "C" {
			t.Errorf("expected page B,C, got %v", units)
		}
	})
}

func TestUpdateBusinessUnit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		unit, err := svc.CreateBusinessUnit("Old Name")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateBusinessUnit(unit.ID, "New Name")
		testutil.AssertNoError(t, err)

		if updated.Name != "New Name" {
			t.Errorf("expected New Name, got %s", updated.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.UpdateBusinessUnit(99999, "Anything")
		testutil.AssertAppError(t, err, "BUSINESS_UNIT_NOT_FOUND")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateBusinessUnit("Taken")
		testutil.AssertNoError(t, err)
		unit, err := svc.CreateBusinessUnit("Renaming")
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateBusinessUnit(unit.ID, "Taken")
		testutil.AssertAppError(t, err, "DUPLICATE_REFERENCE")
	})

	t.Run("keep_own_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		unit, err := svc.CreateBusinessUnit("Stable")
		testutil.AssertNoError(t, err)

		// Renaming to the current name is not a duplicate.
		_, err = svc.UpdateBusinessUnit(unit.ID, "Stable")
		testutil.AssertNoError(t, err)
	})
}

func TestDeleteBusinessUnit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		unit, err := svc.CreateBusinessUnit("Disposable")
		testutil.AssertNoError(t, err)

		err = svc.DeleteBusinessUnit(unit.ID)
		testutil.AssertNoError(t, err)

		units, err := svc.GetBusinessUnits(pagination.ListRequest{})
		testutil.AssertNoError(t, err)
		if len(units) != 0 {
			t.Errorf("expected no units left, got %d", len(units))
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		err := svc.DeleteBusinessUnit(99999)
		testutil.AssertAppError(t, err, "BUSINESS_UNIT_NOT_FOUND")
	})

	t.Run("blocked_when_referenced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		unit := testutil.CreateTestBusinessUnit(t, db)
		expense := testutil.CreateTestExpense(t, db, models.CompanySwatch, models.CategoryOtherExpenses, 10)
		db.Model(expense).Update("business_unit_id", unit.ID)

		err := svc.DeleteBusinessUnit(unit.ID)
		testutil.AssertAppError(t, err, "REFERENCE_IN_USE")
	})
}

func TestTruckCRUD(t *testing.T) {
	t.Run("create_and_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateTruck("205")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTruck("104")
		testutil.AssertNoError(t, err)

		trucks, err := svc.GetTrucks(pagination.ListRequest{})
		testutil.AssertNoError(t, err)

		if len(trucks) != 2 {
			t.Fatalf("expected 2 trucks, got %d", len(trucks))
		}
		if trucks[0].Number != "104" {
			t.Error("expected trucks sorted by number")
		}
	})

	t.Run("duplicate_number", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateTruck("300")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateTruck("300")
		testutil.AssertAppError(t, err, "DUPLICATE_REFERENCE")
	})

	t.Run("update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		truck, err := svc.CreateTruck("401")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateTruck(truck.ID, "402")
		testutil.AssertNoError(t, err)
		if updated.Number != "402" {
			t.Errorf("expected number 402, got %s", updated.Number)
		}

		_, err = svc.UpdateTruck(99999, "403")
		testutil.AssertAppError(t, err, "TRUCK_NOT_FOUND")
	})

	t.Run("delete_blocked_when_referenced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		truck := testutil.CreateTestTruck(t, db)
		expense := testutil.CreateTestExpense(t, db, models.CompanySWS, models.CategoryTruck, 500)
		db.Model(expense).Update("truck_id", truck.ID)

		err := svc.DeleteTruck(truck.ID)
		testutil.AssertAppError(t, err, "REFERENCE_IN_USE")

		// After the expense is gone, deletion succeeds.
		db.Delete(expense)
		err = svc.DeleteTruck(truck.ID)
		testutil.AssertNoError(t, err)
	})
}

func TestTrailerCRUD(t *testing.T) {
	t.Run("create_update_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		trailer, err := svc.CreateTrailer("T-88")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateTrailer(trailer.ID, "T-89")
		testutil.AssertNoError(t, err)
		if updated.Number != "T-89" {
			t.Errorf("expected number T-89, got %s", updated.Number)
		}

		err = svc.DeleteTrailer(trailer.ID)
		testutil.AssertNoError(t, err)

		trailers, err := svc.GetTrailers(pagination.ListRequest{})
		testutil.AssertNoError(t, err)
		if len(trailers) != 0 {
			t.Errorf("expected no trailers left, got %d", len(trailers))
		}
	})

	t.Run("duplicate_number", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateTrailer("T-1")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateTrailer("T-1")
		testutil.AssertAppError(t, err, "DUPLICATE_REFERENCE")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.UpdateTrailer(99999, "T-2")
		testutil.AssertAppError(t, err, "TRAILER_NOT_FOUND")

		err = svc.DeleteTrailer(99999)
		testutil.AssertAppError(t, err, "TRAILER_NOT_FOUND")
	})
}

func TestFuelStationCRUD(t *testing.T) {
	t.Run("create_update_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		station, err := svc.CreateFuelStation("Pilot Reno")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateFuelStation(station.ID, "Pilot Sparks")
		testutil.AssertNoError(t, err)
		if updated.Name != "Pilot Sparks" {
			t.Errorf("expected name Pilot Sparks, got %s", updated.Name)
		}

		err = svc.DeleteFuelStation(station.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateFuelStation("Loves Elko")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateFuelStation("Loves Elko")
		testutil.AssertAppError(t, err, "DUPLICATE_REFERENCE")
	})

	t.Run("delete_blocked_when_referenced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		station := testutil.CreateTestFuelStation(t, db)
		expense := testutil.CreateTestExpenseWithDate(t, db, models.CompanySwatch, models.CategoryFuelDiesel, 310,
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		db.Model(expense).Update("fuel_station_id", station.ID)

		err := svc.DeleteFuelStation(station.ID)
		testutil.AssertAppError(t, err, "REFERENCE_IN_USE")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.UpdateFuelStation(99999, "Anywhere")
		testutil.AssertAppError(t, err, "FUEL_STATION_NOT_FOUND")

		err = svc.DeleteFuelStation(99999)
		testutil.AssertAppError(t, err, "FUEL_STATION_NOT_FOUND")
	})
}
