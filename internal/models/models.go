package models

import (
	json "github.com/goccy/go-json"
)

// SchemaVersion is written into every saved document.
const SchemaVersion = 1

const (
	MaxLedgerEntries    = 1000
	MaxCompletedFlights = 1000
)

type Company struct {
	Name       string  `json:"name"`
	Reputation float64 `json:"reputation"`
}

type LedgerEntry struct {
	TS       int64  `json:"ts"`
	Category string `json:"category"`
	Amount   int    `json:"amount"`
	Note     string `json:"note"`
}

type Loan struct {
	LoanID           string  `json:"loan_id"`
	Principal        int     `json:"principal"`
	InterestRateAPR  float64 `json:"interest_rate_apr"`
	TermMonths       int     `json:"term_months"`
	MonthlyPayment   int     `json:"monthly_payment"`
	RemainingBalance int     `json:"remaining_balance"`
	StartDate        int     `json:"start_date"`
	LastPaymentMonth int     `json:"last_payment_month"`
	BankName         string  `json:"bank_name"`
}

type Lease struct {
	LeaseID          string `json:"lease_id"`
	AircraftID       string `json:"aircraft_id"`
	TypeCode         string `json:"type_code"`
	Name             string `json:"name"`
	MonthlyPayment   int    `json:"monthly_payment"`
	TermMonths       int    `json:"term_months"`
	StartDate        int    `json:"start_date"`
	LastPaymentMonth int    `json:"last_payment_month"`
}

type Pilot struct {
	PilotID            string `json:"pilot_id"`
	Name               string `json:"name"`
	SkillLevel         int    `json:"skill_level"`
	Salary             int    `json:"salary"`
	AssignedAircraftID string `json:"assigned_aircraft_id,omitempty"`
	TotalRevenue       int    `json:"total_revenue"`
	TotalFlights       int    `json:"total_flights"`
	HiredDay           int    `json:"hired_day"`
}

// CustomItem is either stored at Airport (InstalledOn empty) or installed
// on exactly one aircraft.
type CustomItem struct {
	ItemID            string `json:"item_id"`
	Name              string `json:"name"`
	Cost              int    `json:"cost"`
	Airport           string `json:"airport"`
	PurchaseDate      string `json:"purchase_date"`
	PurchaseTimestamp int64  `json:"purchase_timestamp"`
	InstalledOn       string `json:"installed_on,omitempty"`
	InstalledDate     string `json:"installed_date,omitempty"`
	InstalledAt       int64  `json:"installed_timestamp,omitempty"`
}

type Spot struct {
	Name string `json:"name"`
}

type Hangar struct {
	Name string `json:"name"`
}

type Parking struct {
	Spots   []Spot   `json:"spots"`
	Hangars []Hangar `json:"hangars"`
}

// Slots is the number of aircraft the airport can hold; a hangar holds ten.
func (p Parking) Slots() int {
	return len(p.Spots) + 10*len(p.Hangars)
}

func (p Parking) Owned() bool {
	return len(p.Spots) > 0 || len(p.Hangars) > 0
}

// TypeConfig holds per-type overrides of catalog values. Nil means use the
// catalog.
type TypeConfig struct {
	MaxDurationHours *float64 `json:"max_duration_hours,omitempty"`
	MaxSeatsPerRow   *int     `json:"max_seats_per_row,omitempty"`
	MaxRows          *int     `json:"max_rows,omitempty"`
}

type CompanyState struct {
	Version             int                   `json:"version"`
	Cash                int                   `json:"cash"`
	Company             Company               `json:"company"`
	Fleet               []Aircraft            `json:"fleet"`
	Loans               []Loan                `json:"loans"`
	Leases              []Lease               `json:"leases"`
	ActiveFlights       []Flight              `json:"active_flights"`
	CompletedFlights    []CompletedFlight     `json:"completed_flights"`
	Ledger              []LedgerEntry         `json:"ledger"`
	Parking             map[string]Parking    `json:"parking"`
	Pilots              []Pilot               `json:"pilots"`
	Achievements        []string              `json:"achievements"`
	CustomItems         []CustomItem          `json:"custom_items"`
	AircraftConfig      map[string]TypeConfig `json:"aircraft_config"`
	FuelPriceMultiplier float64               `json:"fuel_price_multiplier"`
	LastDailyTickDay    int                   `json:"last_daily_tick_day"`
	Marketplace         *Marketplace          `json:"marketplace,omitempty"`

	// Entries pushed out of the capped ring buffers since the last save.
	Evicted Evicted `json:"-"`
}

type Evicted struct {
	Ledger  []LedgerEntry
	Flights []CompletedFlight
}

func (e Evicted) Empty() bool {
	return len(e.Ledger) == 0 && len(e.Flights) == 0
}

// NewCompanyState returns a document with every field at its default.
// Decoding into it leaves missing keys at these defaults.
func NewCompanyState() *CompanyState {
	return &CompanyState{
		Version:             SchemaVersion,
		Fleet:               []Aircraft{},
		Loans:               []Loan{},
		Leases:              []Lease{},
		ActiveFlights:       []Flight{},
		CompletedFlights:    []CompletedFlight{},
		Ledger:              []LedgerEntry{},
		Parking:             map[string]Parking{},
		Pilots:              []Pilot{},
		Achievements:        []string{},
		CustomItems:         []CustomItem{},
		AircraftConfig:      map[string]TypeConfig{},
		FuelPriceMultiplier: 1.0,
	}
}

// Decode parses a saved document. It returns the version found in the
// document (0 when absent) so callers can migrate older saves.
func Decode(data []byte) (*CompanyState, int, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, 0, err
	}
	st := NewCompanyState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, 0, err
	}
	st.Normalize()
	return st, probe.Version, nil
}

// Normalize replaces nulls with empty collections and repairs values a
// hand-edited document may have left out of range.
func (s *CompanyState) Normalize() {
	if s.Fleet == nil {
		s.Fleet = []Aircraft{}
	}
	if s.Loans == nil {
		s.Loans = []Loan{}
	}
	if s.Leases == nil {
		s.Leases = []Lease{}
	}
	if s.ActiveFlights == nil {
		s.ActiveFlights = []Flight{}
	}
	if s.CompletedFlights == nil {
		s.CompletedFlights = []CompletedFlight{}
	}
	if s.Ledger == nil {
		s.Ledger = []LedgerEntry{}
	}
	if s.Parking == nil {
		s.Parking = map[string]Parking{}
	}
	if s.Pilots == nil {
		s.Pilots = []Pilot{}
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	if s.CustomItems == nil {
		s.CustomItems = []CustomItem{}
	}
	if s.AircraftConfig == nil {
		s.AircraftConfig = map[string]TypeConfig{}
	}
	if s.FuelPriceMultiplier <= 0 {
		s.FuelPriceMultiplier = 1.0
	}
	for i := range s.Pilots {
		if s.Pilots[i].SkillLevel == 0 {
			s.Pilots[i].SkillLevel = 1
		}
	}
	s.Version = SchemaVersion
}

// AddLedger appends an entry, dropping the oldest beyond the cap.
func (s *CompanyState) AddLedger(ts int64, category string, amount int, note string) {
	s.Ledger = append(s.Ledger, LedgerEntry{TS: ts, Category: category, Amount: amount, Note: note})
	if n := len(s.Ledger) - MaxLedgerEntries; n > 0 {
		s.Evicted.Ledger = append(s.Evicted.Ledger, s.Ledger[:n]...)
		s.Ledger = append([]LedgerEntry(nil), s.Ledger[n:]...)
	}
}

// AddCompletedFlight appends a summary, dropping the oldest beyond the cap.
func (s *CompanyState) AddCompletedFlight(cf CompletedFlight) {
	s.CompletedFlights = append(s.CompletedFlights, cf)
	if n := len(s.CompletedFlights) - MaxCompletedFlights; n > 0 {
		s.Evicted.Flights = append(s.Evicted.Flights, s.CompletedFlights[:n]...)
		s.CompletedFlights = append([]CompletedFlight(nil), s.CompletedFlights[n:]...)
	}
}

func (s *CompanyState) FindAircraft(id string) (int, *Aircraft) {
	for i := range s.Fleet {
		if s.Fleet[i].ID == id {
			return i, &s.Fleet[i]
		}
	}
	return -1, nil
}

func (s *CompanyState) FindFlight(id string) (int, *Flight) {
	for i := range s.ActiveFlights {
		if s.ActiveFlights[i].FlightID == id {
			return i, &s.ActiveFlights[i]
		}
	}
	return -1, nil
}

func (s *CompanyState) FindLoan(id string) (int, *Loan) {
	for i := range s.Loans {
		if s.Loans[i].LoanID == id {
			return i, &s.Loans[i]
		}
	}
	return -1, nil
}

func (s *CompanyState) FindPilot(id string) (int, *Pilot) {
	for i := range s.Pilots {
		if s.Pilots[i].PilotID == id {
			return i, &s.Pilots[i]
		}
	}
	return -1, nil
}

func (s *CompanyState) FindItem(id string) (int, *CustomItem) {
	for i := range s.CustomItems {
		if s.CustomItems[i].ItemID == id {
			return i, &s.CustomItems[i]
		}
	}
	return -1, nil
}

// ActiveFlightFor returns the airborne flight of an aircraft, if any.
func (s *CompanyState) ActiveFlightFor(aircraftID string) *Flight {
	for i := range s.ActiveFlights {
		if s.ActiveFlights[i].AircraftID == aircraftID {
			return &s.ActiveFlights[i]
		}
	}
	return nil
}

// PilotFor returns the pilot assigned to an aircraft, if any.
func (s *CompanyState) PilotFor(aircraftID string) *Pilot {
	for i := range s.Pilots {
		if s.Pilots[i].AssignedAircraftID == aircraftID {
			return &s.Pilots[i]
		}
	}
	return nil
}

func (s *CompanyState) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// OwnsParking reports whether the company owns any spot or hangar at the
// airport. The home base has unlimited room but is not owned until a spot
// or hangar is bought there.
func (s *CompanyState) OwnsParking(airport string) bool {
	return s.Parking[airport].Owned()
}

// HasFreeParking reports whether another aircraft fits at the airport.
// The home base is unlimited.
func (s *CompanyState) HasFreeParking(airport string) bool {
	if airport == HomeBase {
		return true
	}
	parked := 0
	for _, ac := range s.Fleet {
		if ac.Location == airport {
			parked++
		}
	}
	return parked < s.Parking[airport].Slots()
}

func (s *CompanyState) TotalDebt() int {
	total := 0
	for _, l := range s.Loans {
		total += l.RemainingBalance
	}
	return total
}
