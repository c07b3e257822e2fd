package models

import (
	json "github.com/goccy/go-json"
)

const HomeBase = "HOME"

// Snag severities.
const (
	SeverityMinor    = "Minor"
	SeverityMajor    = "Major"
	SeverityCritical = "Critical"
)

// CabinRow is one row of a cabin layout.
type CabinRow struct {
	Row      int    `json:"row"`
	SeatType string `json:"seat_type"`
	Seats    int    `json:"seats"`
}

// Snag is a fault discovered during a walkaround.
type Snag struct {
	SnagID       string `json:"snag_id"`
	Component    string `json:"component"`
	Severity     string `json:"severity"`
	Description  string `json:"description"`
	MEL          bool   `json:"mel"`
	DiscoveredAt int64  `json:"discovered_at"`
}

// OilState is carried only by aircraft whose type requires manual oil
// management.
type OilState struct {
	Level            float64 `json:"oil_level"`
	Capacity         float64 `json:"oil_capacity"`
	Minimum          float64 `json:"oil_minimum"`
	HoursSinceRefill float64 `json:"hours_since_oil_refill"`
	HoursSinceChange float64 `json:"hours_since_oil_change"`
}

type Livery struct {
	Name             string `json:"name"`
	PaintedDate      string `json:"painted_date"`
	PaintedTimestamp int64  `json:"painted_timestamp"`
}

// ServiceRecord remembers the last time an airport service was bought for
// an aircraft. Quantity and Unit are only set for refueling.
type ServiceRecord struct {
	Timestamp int64   `json:"timestamp"`
	Quantity  float64 `json:"quantity,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

type Aircraft struct {
	ID                    string     `json:"id"`
	TypeCode              string     `json:"type_code"`
	Name                  string     `json:"name"`
	PurchasePrice         int        `json:"purchase_price"`
	TotalHours            float64    `json:"total_hours"`
	HoursSinceMaintenance float64    `json:"hours_since_maintenance"`
	HoursSinceACheck      float64    `json:"hours_since_a_check"`
	HoursSinceBCheck      float64    `json:"hours_since_b_check"`
	HoursSinceCCheck      float64    `json:"hours_since_c_check"`
	Location              string     `json:"location"`
	Reliability           float64    `json:"reliability"`
	Grounded              bool       `json:"grounded"`
	GroundedReason        string     `json:"grounded_reason,omitempty"`
	CabinLayout           []CabinRow `json:"cabin_layout"`
	Snags                 []Snag     `json:"snags"`
	IsLeased              bool       `json:"is_leased"`

	// Oil is nil for airliners. See Kind.
	Oil *OilState `json:"-"`

	TireWearPercent   *float64                 `json:"tire_wear_percent,omitempty"`
	EmptyWeight       *float64                 `json:"empty_weight,omitempty"`
	MaxZeroFuelWeight *float64                 `json:"max_zero_fuel_weight,omitempty"`
	MaxTakeoffWeight  *float64                 `json:"max_takeoff_weight,omitempty"`
	Livery            *Livery                  `json:"livery,omitempty"`
	CustomItems       []string                 `json:"custom_items,omitempty"`
	LastServices      map[string]ServiceRecord `json:"last_services,omitempty"`
	LastPenaltyDay    int                      `json:"last_penalty_day,omitempty"`
	ParkingPenalties  int                      `json:"parking_penalties,omitempty"`
}

// Kind is the oil-tracking discriminator of an aircraft: Piston carries
// oil state, Airliner does not.
type Kind interface {
	isKind()
}

type Piston struct {
	Oil *OilState
}

type Airliner struct{}

func (Piston) isKind()   {}
func (Airliner) isKind() {}

func (a *Aircraft) Kind() Kind {
	if a.Oil != nil {
		return Piston{Oil: a.Oil}
	}
	return Airliner{}
}

// NewAircraft returns an aircraft with the documented defaults.
func NewAircraft() Aircraft {
	return Aircraft{
		Location:    HomeBase,
		Reliability: 1.0,
		CabinLayout: []CabinRow{},
		Snags:       []Snag{},
	}
}

// HasCriticalBlocker reports whether any Critical snag cannot be deferred
// under the MEL.
func (a *Aircraft) HasCriticalBlocker() bool {
	for _, s := range a.Snags {
		if s.Severity == SeverityCritical && !s.MEL {
			return true
		}
	}
	return false
}

type aircraftAlias Aircraft

// aircraftJSON flattens the oil state onto the aircraft record; the keys
// are absent for airliners.
type aircraftJSON struct {
	aircraftAlias
	OilLevel            *float64 `json:"oil_level,omitempty"`
	OilCapacity         *float64 `json:"oil_capacity,omitempty"`
	OilMinimum          *float64 `json:"oil_minimum,omitempty"`
	HoursSinceOilRefill *float64 `json:"hours_since_oil_refill,omitempty"`
	HoursSinceOilChange *float64 `json:"hours_since_oil_change,omitempty"`
}

func (a Aircraft) MarshalJSON() ([]byte, error) {
	out := aircraftJSON{aircraftAlias: aircraftAlias(a)}
	if a.CabinLayout == nil {
		out.CabinLayout = []CabinRow{}
	}
	if a.Snags == nil {
		out.Snags = []Snag{}
	}
	if o := a.Oil; o != nil {
		level, capacity, minimum := o.Level, o.Capacity, o.Minimum
		refill, change := o.HoursSinceRefill, o.HoursSinceChange
		out.OilLevel = &level
		out.OilCapacity = &capacity
		out.OilMinimum = &minimum
		out.HoursSinceOilRefill = &refill
		out.HoursSinceOilChange = &change
	}
	return json.Marshal(out)
}

func (a *Aircraft) UnmarshalJSON(data []byte) error {
	in := aircraftJSON{aircraftAlias: aircraftAlias(NewAircraft())}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*a = Aircraft(in.aircraftAlias)
	if a.Location == "" {
		a.Location = HomeBase
	}
	if a.CabinLayout == nil {
		a.CabinLayout = []CabinRow{}
	}
	if a.Snags == nil {
		a.Snags = []Snag{}
	}
	a.Oil = nil
	if in.OilLevel != nil || in.OilCapacity != nil {
		o := &OilState{}
		if in.OilCapacity != nil {
			o.Capacity = *in.OilCapacity
		}
		o.Level = o.Capacity
		if in.OilLevel != nil {
			o.Level = *in.OilLevel
		}
		if in.OilMinimum != nil {
			o.Minimum = *in.OilMinimum
		}
		if in.HoursSinceOilRefill != nil {
			o.HoursSinceRefill = *in.HoursSinceOilRefill
		}
		if in.HoursSinceOilChange != nil {
			o.HoursSinceChange = *in.HoursSinceOilChange
		}
		a.Oil = o
	}
	return nil
}
