package models

type PassengerWeight struct {
	PassengerNum int     `json:"passenger_num"`
	WeightLbs    float64 `json:"weight_lbs"`
}

type WeightManifest struct {
	PassengerWeights     []PassengerWeight `json:"passenger_weights"`
	PassengerCount       int               `json:"passenger_count"`
	TotalPassengerWeight float64           `json:"total_passenger_weight"`
	CargoWeight          float64           `json:"cargo_weight"`
	EmptyWeight          *float64          `json:"empty_weight"`
	ZeroFuelWeight       float64           `json:"zero_fuel_weight"`
	MaxZeroFuelWeight    *float64          `json:"max_zero_fuel_weight"`
	MaxTakeoffWeight     *float64          `json:"max_takeoff_weight"`
	WithinLimits         bool              `json:"within_limits"`
}

// SnagPenalties is the fine and reputation cost of proceeding past
// walkaround findings.
type SnagPenalties struct {
	Fine              int      `json:"fine"`
	ReputationPenalty float64  `json:"reputation_penalty"`
	Reasons           []string `json:"reasons"`
}

// Flight is an active flight between start and settlement.
type Flight struct {
	FlightID            string          `json:"flight_id"`
	AircraftID          string          `json:"aircraft_id"`
	Route               string          `json:"route"`
	Origin              string          `json:"origin"`
	Dest                string          `json:"dest"`
	DurationHours       float64         `json:"duration_hours"`
	Passengers          int             `json:"passengers"`
	PaxRequested        int             `json:"pax_requested"`
	TicketPrice         int             `json:"ticket_price"`
	StartedTS           int64           `json:"started_ts"`
	EtaTS               int64           `json:"eta_ts"`
	BaselinePrice       int             `json:"baseline_price"`
	CabinComfort        float64         `json:"cabin_comfort"`
	PilotAssigned       string          `json:"pilot_assigned,omitempty"`
	PilotID             string          `json:"pilot_id,omitempty"`
	PilotSkillBonus     float64         `json:"pilot_skill_bonus"`
	SeasonalMultiplier  float64         `json:"seasonal_multiplier"`
	WeightManifest      *WeightManifest `json:"weight_manifest,omitempty"`
	PreflightIssue      string          `json:"preflight_issue,omitempty"`
	WalkaroundPenalties *SnagPenalties  `json:"walkaround_penalties,omitempty"`
}

// CompletedFlight is the summary kept in history after settlement.
type CompletedFlight struct {
	Timestamp  int64  `json:"timestamp"`
	FlightID   string `json:"flight_id,omitempty"`
	AircraftID string `json:"aircraft_id,omitempty"`
	Route      string `json:"route"`
	Revenue    int    `json:"revenue"`
	Cost       int    `json:"cost"`
	Passengers int    `json:"passengers"`
	Capacity   int    `json:"capacity"`
}

// Listing is an aircraft offered on the marketplace.
type Listing struct {
	ListingID        string  `json:"listing_id"`
	TypeCode         string  `json:"type_code"`
	Name             string  `json:"name"`
	Price            int     `json:"price"`
	Condition        string  `json:"condition"`
	TotalHours       float64 `json:"total_hours"`
	Reliability      float64 `json:"reliability"`
	HoursSinceACheck float64 `json:"hours_since_a_check"`
	HoursSinceBCheck float64 `json:"hours_since_b_check"`
	HoursSinceCCheck float64 `json:"hours_since_c_check"`
	Description      string  `json:"description"`
}

// Marketplace caches the listings generated for Day minus the ones bought
// since.
type Marketplace struct {
	Day      int       `json:"last_update_day"`
	Listings []Listing `json:"aircraft_listings"`
}
