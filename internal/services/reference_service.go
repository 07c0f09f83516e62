package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/models"
	"swatchx/internal/pagination"
)

// referenceService handles CRUD for the reference entities linked from
// expenses: business units, trucks, trailers, and fuel stations.
type referenceService struct {
	db *gorm.DB
}

// NewReferenceService creates a new ReferenceServicer.
func NewReferenceService(db *gorm.DB) ReferenceServicer {
	return &referenceService{db: db}
}

// expenseRefCount counts expenses whose given foreign-key column points at id.
func (s *referenceService) expenseRefCount(column string, id uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Expense{}).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// inUseError builds the deletion-blocked error carrying the referencing count.
func inUseError(label string, count int64) error {
	return apperrors.WithMessage(apperrors.ErrReferenceInUse,
		fmt.Sprintf("Cannot delete %s: %d expense(s) reference it", label, count))
}

// --- Business units ---

// CreateBusinessUnit creates a business unit with a unique name.
func (s *referenceService) CreateBusinessUnit(name string) (*models.BusinessUnit, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var count int64
	if err := s.db.Model(&models.BusinessUnit{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A business unit with this name already exists")
	}

	unit := &models.BusinessUnit{Name: name}
	if err := s.db.Create(unit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return unit, nil
}

// GetBusinessUnits returns business units with skip/limit paging.
func (s *referenceService) GetBusinessUnits(list pagination.ListRequest) ([]models.BusinessUnit, error) {
	list.Defaults()

	var units []models.BusinessUnit
	if err := s.db.Scopes(pagination.Paginate(list)).Order("name").Find(&units).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return units, nil
}

// UpdateBusinessUnit renames a business unit.
func (s *referenceService) UpdateBusinessUnit(id uint, name string) (*models.BusinessUnit, error) {
	var unit models.BusinessUnit
	if err := s.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBusinessUnitNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var count int64
	if err := s.db.Model(&models.BusinessUnit{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A business unit with this name already exists")
	}

	unit.Name = name
	if err := s.db.Save(&unit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &unit, nil
}

// DeleteBusinessUnit removes a business unit unless expenses reference it.
func (s *referenceService) DeleteBusinessUnit(id uint) error {
	var unit models.BusinessUnit
	if err := s.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBusinessUnitNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count, err := s.expenseRefCount("business_unit_id", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return inUseError("business unit", count)
	}

	if err := s.db.Delete(&unit).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// --- Trucks ---

// CreateTruck creates a truck with a unique number.
func (s *referenceService) CreateTruck(number string) (*models.Truck, error) {
	if number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "number is required")
	}

	var count int64
	if err := s.db.Model(&models.Truck{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A truck with this number already exists")
	}

	truck := &models.Truck{Number: number}
	if err := s.db.Create(truck).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return truck, nil
}

// GetTrucks returns trucks with skip/limit paging.
func (s *referenceService) GetTrucks(list pagination.ListRequest) ([]models.Truck, error) {
	list.Defaults()

	var trucks []models.Truck
	if err := s.db.Scopes(pagination.Paginate(list)).Order("number").Find(&trucks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trucks, nil
}

// UpdateTruck renumbers a truck.
func (s *referenceService) UpdateTruck(id uint, number string) (*models.Truck, error) {
	var truck models.Truck
	if err := s.db.First(&truck, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTruckNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "number is required")
	}

	var count int64
	if err := s.db.Model(&models.Truck{}).Where("number = ? AND id <> ?", number, id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A truck with this number already exists")
	}

	truck.Number = number
	if err := s.db.Save(&truck).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &truck, nil
}

// DeleteTruck removes a truck unless expenses reference it.
func (s *referenceService) DeleteTruck(id uint) error {
	var truck models.Truck
	if err := s.db.First(&truck, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTruckNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count, err := s.expenseRefCount("truck_id", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return inUseError("truck", count)
	}

	if err := s.db.Delete(&truck).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// --- Trailers ---

// CreateTrailer creates a trailer with a unique number.
func (s *referenceService) CreateTrailer(number string) (*models.Trailer, error) {
	if number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "number is required")
	}

	var count int64
	if err := s.db.Model(&models.Trailer{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A trailer with this number already exists")
	}

	trailer := &models.Trailer{Number: number}
	if err := s.db.Create(trailer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trailer, nil
}

// GetTrailers returns trailers with skip/limit paging.
func (s *referenceService) GetTrailers(list pagination.ListRequest) ([]models.Trailer, error) {
	list.Defaults()

	var trailers []models.Trailer
	if err := s.db.Scopes(pagination.Paginate(list)).Order("number").Find(&trailers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trailers, nil
}

// UpdateTrailer renumbers a trailer.
func (s *referenceService) UpdateTrailer(id uint, number string) (*models.Trailer, error) {
	var trailer models.Trailer
	if err := s.db.First(&trailer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTrailerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "number is required")
	}

	var count int64
	if err := s.db.Model(&models.Trailer{}).Where("number = ? AND id <> ?", number, id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A trailer with this number already exists")
	}

	trailer.Number = number
	if err := s.db.Save(&trailer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trailer, nil
}

// DeleteTrailer removes a trailer unless expenses reference it.
func (s *referenceService) DeleteTrailer(id uint) error {
	var trailer models.Trailer
	if err := s.db.First(&trailer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTrailerNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count, err := s.expenseRefCount("trailer_id", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return inUseError("trailer", count)
	}

	if err := s.db.Delete(&trailer).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// --- Fuel stations ---

// CreateFuelStation creates a fuel station with a unique name.
func (s *referenceService) CreateFuelStation(name string) (*models.FuelStation, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var count int64
	if err := s.db.Model(&models.FuelStation{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A fuel station with this name already exists")
	}

	station := &models.FuelStation{Name: name}
	if err := s.db.Create(station).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return station, nil
}

// GetFuelStations returns fuel stations with skip/limit paging.
func (s *referenceService) GetFuelStations(list pagination.ListRequest) ([]models.FuelStation, error) {
	list.Defaults()

	var stations []models.FuelStation
	if err := s.db.Scopes(pagination.Paginate(list)).Order("name").Find(&stations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return stations, nil
}

// UpdateFuelStation renames a fuel station.
func (s *referenceService) UpdateFuelStation(id uint, name string) (*models.FuelStation, error) {
	var station models.FuelStation
	if err := s.db.First(&station, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFuelStationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var count int64
	if err := s.db.Model(&models.FuelStation{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateReference, "A fuel station with this name already exists")
	}

	station.Name = name
	if err := s.db.Save(&station).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &station, nil
}

// DeleteFuelStation removes a fuel station unless expenses reference it.
func (s *referenceService) DeleteFuelStation(id uint) error {
	var station models.FuelStation
	if err := s.db.First(&station, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrFuelStationNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count, err := s.expenseRefCount("fuel_station_id", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return inUseError("fuel station", count)
	}

	if err := s.db.Delete(&station).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
