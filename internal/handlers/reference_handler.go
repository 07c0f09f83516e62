package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "swatchx/internal/errors"
	"swatchx/internal/pagination"
	"swatchx/internal/services"
)

// ReferenceHandler handles CRUD requests for the reference entities that
// expenses link to: business units, trucks, trailers, and fuel stations.
type ReferenceHandler struct {
	referenceService services.ReferenceServicer
	auditService     services.AuditServicer
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(referenceService services.ReferenceServicer, auditService services.AuditServicer) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService, auditService: auditService}
}

// NameRequest carries the name of a business unit or fuel station.
type NameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// NumberRequest carries the unit number of a truck or trailer.
type NumberRequest struct {
	Number string `json:"number" binding:"required,max=50"`
}

func bindList(c *gin.Context) (pagination.ListRequest, error) {
	var list pagination.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		return list, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	list.Defaults()
	return list, nil
}

// --- Business units ---

// CreateBusinessUnit creates a business unit
// @Summary     Create a business unit
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NameRequest true "Business unit name"
// @Success     201 {object} models.BusinessUnit "Created business unit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Name already exists"
// @Router      /api/v1/business-units [post]
func (h *ReferenceHandler) CreateBusinessUnit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	unit, err := h.referenceService.CreateBusinessUnit(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUSINESS_UNIT", "business_unit", unit.ID, c.ClientIP(), map[string]interface{}{
		"name": unit.Name,
	})

	c.JSON(http.StatusCreated, unit)
}

// ListBusinessUnits lists business units
// @Summary     List business units
// @Tags        references
// @Produce     json
// @Security    BearerAuth
// @Param       skip query int false "Rows to skip" default(0)
// @Param       limit query int false "Maximum rows to return" default(100)
// @Success     200 {array} models.BusinessUnit "Business units"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/business-units [get]
func (h *ReferenceHandler) ListBusinessUnits(c *gin.Context) {
	list, err := bindList(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	units, err := h.referenceService.GetBusinessUnits(list)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, units)
}

// UpdateBusinessUnit renames a business unit
// @Summary     Update a business unit
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Business unit ID"
// @Param       request body NameRequest true "New name"
// @Success     200 {object} models.BusinessUnit "Updated business unit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Business unit not found"
// @Failure     409 {object} ErrorResponse "Name already exists"
// @Router      /api/v1/business-units/{id} [put]
func (h *ReferenceHandler) UpdateBusinessUnit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	unit, err := h.referenceService.UpdateBusinessUnit(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUSINESS_UNIT", "business_unit", unit.ID, c.ClientIP(), map[string]interface{}{
		"name": unit.Name,
	})

	c.JSON(http.StatusOK, unit)
}

// DeleteBusinessUnit removes a business unit
// @Summary     Delete a business unit
// @Description Delete a business unit. Fails if any expense still references it.
// @Tags        references
// @Security    BearerAuth
// @Param       id path int true "Business unit ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Still referenced by expenses"
// @Failure     404 {object} ErrorResponse "Business unit not found"
// @Router      /api/v1/business-units/{id} [delete]
func (h *ReferenceHandler) DeleteBusinessUnit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.referenceService.DeleteBusinessUnit(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUSINESS_UNIT", "business_unit", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// --- Trucks ---

// CreateTruck creates a truck
// @Summary     Create a truck
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NumberRequest true "Truck number"
// @Success     201 {object} models.Truck "Created truck"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Number already exists"
// @Router      /api/v1/trucks [post]
func (h *ReferenceHandler) CreateTruck(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	truck, err := h.referenceService.CreateTruck(req.Number)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRUCK", "truck", truck.ID, c.ClientIP(), map[string]interface{}{
		"number": truck.Number,
	})

	c.JSON(http.StatusCreated, truck)
}

// ListTrucks lists trucks
// @Summary     List trucks
// @Tags        references
// @Produce     json
// @Security    BearerAuth
// @Param       skip query int false "Rows to skip" default(0)
// @Param       limit query int false "Maximum rows to return" default(100)
// @Success     200 {array} models.Truck "Trucks"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/trucks [get]
func (h *ReferenceHandler) ListTrucks(c *gin.Context) {
	list, err := bindList(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trucks, err := h.referenceService.GetTrucks(list)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, trucks)
}

// UpdateTruck renumbers a truck
// @Summary     Update a truck
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Truck ID"
// @Param       request body NumberRequest true "New number"
// @Success     200 {object} models.Truck "Updated truck"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Truck not found"
// @Failure     409 {object} ErrorResponse "Number already exists"
// @Router      /api/v1/trucks/{id} [put]
func (h *ReferenceHandler) UpdateTruck(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	truck, err := h.referenceService.UpdateTruck(id, req.Number)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRUCK", "truck", truck.ID, c.ClientIP(), map[string]interface{}{
		"number": truck.Number,
	})

	c.JSON(http.StatusOK, truck)
}

// DeleteTruck removes a truck
// @Summary     Delete a truck
// @Description Delete a truck. Fails if any expense still references it.
// @Tags        references
// @Security    BearerAuth
// @Param       id path int true "Truck ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Still referenced by expenses"
// @Failure     404 {object} ErrorResponse "Truck not found"
// @Router      /api/v1/trucks/{id} [delete]
func (h *ReferenceHandler) DeleteTruck(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.referenceService.DeleteTruck(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRUCK", "truck", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// --- Trailers ---

// CreateTrailer creates a trailer
// @Summary     Create a trailer
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NumberRequest true "Trailer number"
// @Success     201 {object} models.Trailer "Created trailer"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Number already exists"
// @Router      /api/v1/trailers [post]
func (h *ReferenceHandler) CreateTrailer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trailer, err := h.referenceService.CreateTrailer(req.Number)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRAILER", "trailer", trailer.ID, c.ClientIP(), map[string]interface{}{
		"number": trailer.Number,
	})

	c.JSON(http.StatusCreated, trailer)
}

// ListTrailers lists trailers
// @Summary     List trailers
// @Tags        references
// @Produce     json
// @Security    BearerAuth
// @Param       skip query int false "Rows to skip" default(0)
// @Param       limit query int false "Maximum rows to return" default(100)
// @Success     200 {array} models.Trailer "Trailers"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/trailers [get]
func (h *ReferenceHandler) ListTrailers(c *gin.Context) {
	list, err := bindList(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trailers, err := h.referenceService.GetTrailers(list)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, trailers)
}

// UpdateTrailer renumbers a trailer
// @Summary     Update a trailer
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Trailer ID"
// @Param       request body NumberRequest true "New number"
// @Success     200 {object} models.Trailer "Updated trailer"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Trailer not found"
// @Failure     409 {object} ErrorResponse "Number already exists"
// @Router      /api/v1/trailers/{id} [put]
func (h *ReferenceHandler) UpdateTrailer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trailer, err := h.referenceService.UpdateTrailer(id, req.Number)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRAILER", "trailer", trailer.ID, c.ClientIP(), map[string]interface{}{
		"number": trailer.Number,
	})

	c.JSON(http.StatusOK, trailer)
}

// DeleteTrailer removes a trailer
// @Summary     Delete a trailer
// @Description Delete a trailer. Fails if any expense still references it.
// @Tags        references
// @Security    BearerAuth
// @Param       id path int true "Trailer ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Still referenced by expenses"
// @Failure     404 {object} ErrorResponse "Trailer not found"
// @Router      /api/v1/trailers/{id} [delete]
func (h *ReferenceHandler) DeleteTrailer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.referenceService.DeleteTrailer(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRAILER", "trailer", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// --- Fuel stations ---

// CreateFuelStation creates a fuel station
// @Summary     Create a fuel station
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NameRequest true "Fuel station name"
// @Success     201 {object} models.FuelStation "Created fuel station"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Name already exists"
// @Router      /api/v1/fuel-stations [post]
func (h *ReferenceHandler) CreateFuelStation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	station, err := h.referenceService.CreateFuelStation(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_FUEL_STATION", "fuel_station", station.ID, c.ClientIP(), map[string]interface{}{
		"name": station.Name,
	})

	c.JSON(http.StatusCreated, station)
}

// ListFuelStations lists fuel stations
// @Summary     List fuel stations
// @Tags        references
// @Produce     json
// @Security    BearerAuth
// @Param       skip query int false "Rows to skip" default(0)
// @Param       limit query int false "Maximum rows to return" default(100)
// @Success     200 {array} models.FuelStation "Fuel stations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/v1/fuel-stations [get]
func (h *ReferenceHandler) ListFuelStations(c *gin.Context) {
	list, err := bindList(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stations, err := h.referenceService.GetFuelStations(list)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stations)
}

// UpdateFuelStation renames a fuel station
// @Summary     Update a fuel station
// @Tags        references
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Fuel station ID"
// @Param       request body NameRequest true "New name"
// @Success     200 {object} models.FuelStation "Updated fuel station"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Fuel station not found"
// @Failure     409 {object} ErrorResponse "Name already exists"
// @Router      /api/v1/fuel-stations/{id} [put]
func (h *ReferenceHandler) UpdateFuelStation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	station, err := h.referenceService.UpdateFuelStation(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_FUEL_STATION", "fuel_station", station.ID, c.ClientIP(), map[string]interface{}{
		"name": station.Name,
	})

	c.JSON(http.StatusOK, station)
}

// DeleteFuelStation removes a fuel station
// @Summary     Delete a fuel station
// @Description Delete a fuel station. Fails if any expense still references it.
// @Tags        references
// @Security    BearerAuth
// @Param       id path int true "Fuel station ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Still referenced by expenses"
// @Failure     404 {object} ErrorResponse "Fuel station not found"
// @Router      /api/v1/fuel-stations/{id} [delete]
func (h *ReferenceHandler) DeleteFuelStation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.referenceService.DeleteFuelStation(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_FUEL_STATION", "fuel_station", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
