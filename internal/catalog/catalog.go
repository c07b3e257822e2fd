// Package catalog is the static table of aircraft types that can be bought
// or leased.
package catalog

import "strings"

// AircraftType describes one purchasable aircraft type. Types with a
// non-zero OilCapacity require manual oil management.
type AircraftType struct {
	TypeCode         string  `json:"type_code"`
	Name             string  `json:"name"`
	Price            int     `json:"price"`
	Capacity         int     `json:"capacity"`
	RangeNM          int     `json:"range_nm"`
	HourlyCost       float64 `json:"hourly_cost"`
	MaxDurationHours float64 `json:"max_duration_hours"`
	MaxSeatsPerRow   int     `json:"max_seats_per_row"`
	MaxRows          int     `json:"max_rows"`
	OilCapacity      float64 `json:"oil_capacity,omitempty"`
	OilMinimum       float64 `json:"oil_minimum,omitempty"`
}

// TracksOil reports whether the type carries oil state.
func (t AircraftType) TracksOil() bool {
	return t.OilCapacity > 0
}

const (
	// Fallbacks used when an aircraft references a type that is no longer
	// in the table.
	DefaultHourlyCost       = 2000.0
	DefaultCapacity         = 150
	DefaultMaxDurationHours = 5.0
	DefaultMaxSeatsPerRow   = 6
	DefaultMaxRows          = 40
)

var types = []AircraftType{
	{TypeCode: "C337", Name: "Cessna 337 Skymaster", Price: 180_000, Capacity: 5, RangeNM: 1308, HourlyCost: 20, MaxDurationHours: 6, MaxSeatsPerRow: 2, MaxRows: 3, OilCapacity: 24, OilMinimum: 7},
	{TypeCode: "BE58", Name: "Baron 58", Price: 250_000, Capacity: 5, RangeNM: 860, HourlyCost: 20, MaxDurationHours: 6, MaxSeatsPerRow: 2, MaxRows: 3, OilCapacity: 24, OilMinimum: 5},
	{TypeCode: "C404", Name: "Cessna 404 Titan", Price: 400_000, Capacity: 10, RangeNM: 1843, HourlyCost: 40, MaxDurationHours: 9, MaxSeatsPerRow: 2, MaxRows: 5, OilCapacity: 20, OilMinimum: 6},
	{TypeCode: "C90B", Name: "Beechcraft King Air 90", Price: 600_000, Capacity: 6, RangeNM: 1039, HourlyCost: 100, MaxDurationHours: 6, MaxSeatsPerRow: 2, MaxRows: 3, OilCapacity: 18, OilMinimum: 7},
	{TypeCode: "DHC6", Name: "De Havilland Canada DHC-6 Twin Otter", Price: 1_000_000, Capacity: 19, RangeNM: 650, HourlyCost: 200, MaxDurationHours: 9, MaxSeatsPerRow: 3, MaxRows: 7, OilCapacity: 18, OilMinimum: 6},
	{TypeCode: "B190", Name: "Beechcraft 1900", Price: 1_500_000, Capacity: 19, RangeNM: 1476, HourlyCost: 140, MaxDurationHours: 6, MaxSeatsPerRow: 3, MaxRows: 7},
	{TypeCode: "L410", Name: "Turbolet L410", Price: 1_000_000, Capacity: 19, RangeNM: 294, HourlyCost: 140, MaxDurationHours: 5, MaxSeatsPerRow: 3, MaxRows: 7, OilCapacity: 16, OilMinimum: 6},
	{TypeCode: "B350", Name: "Beechcraft King Air 350", Price: 1_850_000, Capacity: 8, RangeNM: 2000, HourlyCost: 155, MaxDurationHours: 4.5, MaxSeatsPerRow: 2, MaxRows: 4},
	{TypeCode: "M700", Name: "Piper 700 Aerostar", Price: 300_000, Capacity: 5, RangeNM: 644, HourlyCost: 40, MaxDurationHours: 7, MaxSeatsPerRow: 2, MaxRows: 3},
	{TypeCode: "C208", Name: "Cessna 208 Caravan", Price: 2_500_000, Capacity: 12, RangeNM: 1200, HourlyCost: 30, MaxDurationHours: 5.5, MaxSeatsPerRow: 3, MaxRows: 4, OilCapacity: 16, OilMinimum: 6},
	{TypeCode: "E55P", Name: "Embraer Phenom 300", Price: 5_000_000, Capacity: 8, RangeNM: 2010, HourlyCost: 170, MaxDurationHours: 4.5, MaxSeatsPerRow: 2, MaxRows: 4},
	{TypeCode: "AT72", Name: "ATR 72-600", Price: 14_000_000, Capacity: 70, RangeNM: 825, HourlyCost: 360, MaxDurationHours: 3.5, MaxSeatsPerRow: 4, MaxRows: 20, OilCapacity: 24, OilMinimum: 10},
	{TypeCode: "E190", Name: "Embraer E190", Price: 30_000_000, Capacity: 100, RangeNM: 1600, HourlyCost: 360, MaxDurationHours: 4.5, MaxSeatsPerRow: 4, MaxRows: 28},
	{TypeCode: "A320", Name: "Airbus A320-200", Price: 51_000_000, Capacity: 150, RangeNM: 3300, HourlyCost: 560, MaxDurationHours: 6.5, MaxSeatsPerRow: 6, MaxRows: 40},
	{TypeCode: "B738", Name: "Boeing 737-800", Price: 48_000_000, Capacity: 162, RangeNM: 2935, HourlyCost: 520, MaxDurationHours: 6.5, MaxSeatsPerRow: 6, MaxRows: 40},
}

var byCode = func() map[string]AircraftType {
	m := make(map[string]AircraftType, len(types))
	for _, t := range types {
		m[t.TypeCode] = t
	}
	return m
}()

// All returns the catalog in display order.
func All() []AircraftType {
	out := make([]AircraftType, len(types))
	copy(out, types)
	return out
}

// Lookup finds a type by code (case-insensitive).
func Lookup(code string) (AircraftType, bool) {
	t, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return t, ok
}

// HourlyCost returns the type's hourly operating cost, or the default for
// unknown types.
func HourlyCost(code string) float64 {
	if t, ok := Lookup(code); ok {
		return t.HourlyCost
	}
	return DefaultHourlyCost
}
