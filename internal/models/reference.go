package models

// BusinessUnit is a division of the fleet business that expenses can be
// attributed to.
type BusinessUnit struct {
	Base
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// Truck is a tractor unit in the fleet, identified by its unit number.
type Truck struct {
	Base
	Number string `gorm:"uniqueIndex;size:50;not null" json:"number"`
}

// Trailer is a trailer in the fleet, identified by its unit number.
type Trailer struct {
	Base
	Number string `gorm:"uniqueIndex;size:50;not null" json:"number"`
}

// FuelStation is a fuel vendor where diesel or DEF is purchased.
type FuelStation struct {
	Base
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}
