package models

import "time"

// Company identifies which of the two fleet companies an expense belongs to.
type Company string

const (
	CompanySwatch Company = "Swatch"
	CompanySWS    Company = "SWS"
)

// Valid reports whether c is one of the known companies.
func (c Company) Valid() bool {
	return c == CompanySwatch || c == CompanySWS
}

// ExpenseCategory is one of the fixed expense categories.
type ExpenseCategory string

const (
	CategoryTruck          ExpenseCategory = "truck"
	CategoryTrailer        ExpenseCategory = "trailer"
	CategoryDMV            ExpenseCategory = "dmv"
	CategoryParts          ExpenseCategory = "parts"
	CategoryPhoneTracker   ExpenseCategory = "phone-tracker"
	CategoryOtherExpenses  ExpenseCategory = "other-expenses"
	CategoryToll           ExpenseCategory = "toll"
	CategoryOfficeSupplies ExpenseCategory = "office-supplies"
	CategoryFuelDiesel     ExpenseCategory = "fuel-diesel"
	CategoryDEF            ExpenseCategory = "def"
)

// Expense represents a single fleet expense. The reference entity fields
// are optional; which ones make sense depends on the category (a fuel-diesel
// expense carries gallons and a fuel station, a truck repair carries a truck).
type Expense struct {
	Base
	Company     Company         `gorm:"size:20;not null;index" json:"company"`
	Category    ExpenseCategory `gorm:"size:30;not null;index" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Price       float64         `gorm:"not null" json:"price"`
	Description string          `gorm:"size:500" json:"description,omitempty"`
	Gallons     *float64        `json:"gallons,omitempty"`

	BusinessUnitID *uint `json:"business_unit_id,omitempty"`
	TruckID        *uint `json:"truck_id,omitempty"`
	TrailerID      *uint `json:"trailer_id,omitempty"`
	FuelStationID  *uint `json:"fuel_station_id,omitempty"`

	AttachmentPath string `gorm:"size:500" json:"attachment_path,omitempty"`

	// Relationships, embedded under the field names the web client expects.
	BusinessUnit *BusinessUnit `gorm:"foreignKey:BusinessUnitID" json:"businessUnit,omitempty"`
	Truck        *Truck        `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
	Trailer      *Trailer      `gorm:"foreignKey:TrailerID" json:"trailer,omitempty"`
	FuelStation  *FuelStation  `gorm:"foreignKey:FuelStationID" json:"fuelStation,omitempty"`
}
