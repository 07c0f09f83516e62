package models

// CategoryConfig describes one expense category for client rendering:
// display label, chart color, icon name, and the form fields the category
// uses beyond the always-present company/date/price.
type CategoryConfig struct {
	Key    ExpenseCategory `json:"key"`
	Label  string          `json:"label"`
	Color  string          `json:"color"`
	Icon   string          `json:"icon"`
	Fields []string        `json:"fields"`
}

// categoryConfigs is the fixed category set, in display order.
var categoryConfigs = []CategoryConfig{
	{Key: CategoryFuelDiesel, Label: "Fuel (Diesel)", Color: "#F44336", Icon: "local_gas_station", Fields: []string{"gallons", "truck_id", "fuel_station_id"}},
	{Key: CategoryDEF, Label: "DEF", Color: "#3F51B5", Icon: "opacity", Fields: []string{"gallons", "truck_id", "fuel_station_id"}},
	{Key: CategoryTruck, Label: "Truck", Color: "#2196F3", Icon: "local_shipping", Fields: []string{"truck_id", "description"}},
	{Key: CategoryTrailer, Label: "Trailer", Color: "#00BCD4", Icon: "rv_hookup", Fields: []string{"trailer_id", "description"}},
	{Key: CategoryParts, Label: "Parts", Color: "#4CAF50", Icon: "build", Fields: []string{"business_unit_id", "description"}},
	{Key: CategoryDMV, Label: "DMV", Color: "#9C27B0", Icon: "badge", Fields: []string{"truck_id", "description"}},
	{Key: CategoryToll, Label: "Toll", Color: "#FF9800", Icon: "toll", Fields: []string{"truck_id", "description"}},
	{Key: CategoryPhoneTracker, Label: "Phone Tracker", Color: "#795548", Icon: "phone_android", Fields: []string{"description"}},
	{Key: CategoryOfficeSupplies, Label: "Office Supplies", Color: "#607D8B", Icon: "inventory", Fields: []string{"description"}},
	{Key: CategoryOtherExpenses, Label: "Other Expenses", Color: "#9E9E9E", Icon: "category", Fields: []string{"description"}},
}

// CategoryConfigs returns the full category configuration in display order.
func CategoryConfigs() []CategoryConfig {
	out := make([]CategoryConfig, len(categoryConfigs))
	copy(out, categoryConfigs)
	return out
}

// CategoryConfigFor looks up the configuration for a single category.
func CategoryConfigFor(key ExpenseCategory) (CategoryConfig, bool) {
	for _, cfg := range categoryConfigs {
		if cfg.Key == key {
			return cfg, true
		}
	}
	return CategoryConfig{}, false
}

// Valid reports whether c is one of the configured categories.
func (c ExpenseCategory) Valid() bool {
	_, ok := CategoryConfigFor(c)
	return ok
}

// Label returns the display label for the category, or the raw key when
// the category is unknown.
func (c ExpenseCategory) Label() string {
	if cfg, ok := CategoryConfigFor(c); ok {
		return cfg.Label
	}
	return string(c)
}
