package game

import (
	"context"
	"fmt"
	"strings"

	"airline_sim/internal/cabin"
	"airline_sim/internal/catalog"
	"airline_sim/internal/models"
)

const renameFee = 5000

// Fleet lists every aircraft the company operates.
func (e *Engine) Fleet(ctx context.Context) ([]models.Aircraft, error) {
	var out []models.Aircraft
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = st.Fleet
		return nil
	})
	return out, err
}

// Aircraft returns one aircraft by id.
func (e *Engine) Aircraft(ctx context.Context, id string) (*models.Aircraft, error) {
	var out *models.Aircraft
	err := e.view(ctx, func(st *models.CompanyState) error {
		ac, err := findAircraft(st, id)
		out = ac
		return err
	})
	return out, err
}

// newFleetAircraft builds a factory-fresh aircraft of type t parked at the
// home base with the default cabin.
func (e *Engine) newFleetAircraft(t catalog.AircraftType, name string) models.Aircraft {
	ac := models.NewAircraft()
	ac.ID = e.newID("ac")
	ac.TypeCode = t.TypeCode
	ac.Name = name
	ac.CabinLayout = cabin.DefaultLayout(t.Capacity, t.MaxSeatsPerRow, t.MaxRows)
	if t.TracksOil() {
		ac.Oil = &models.OilState{
			Level:    t.OilCapacity,
			Capacity: t.OilCapacity,
			Minimum:  t.OilMinimum,
		}
	}
	return ac
}

// BuyRequest buys either a new aircraft of TypeCode at list price or the
// marketplace listing ListingID.
type BuyRequest struct {
	TypeCode  string `json:"type_code,omitempty"`
	ListingID string `json:"listing_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

func (e *Engine) BuyAircraft(ctx context.Context, req BuyRequest) (*models.Aircraft, error) {
	if req.TypeCode == "" && req.ListingID == "" {
		return nil, invalid("type_code or listing_id is required")
	}
	var out models.Aircraft
	err := e.update(ctx, "buy_aircraft", func(st *models.CompanyState) error {
		var listing *models.Listing
		code := req.TypeCode
		if req.ListingID != "" {
			e.refreshMarketplace(st)
			for i := range st.Marketplace.Listings {
				if st.Marketplace.Listings[i].ListingID == req.ListingID {
					listing = &st.Marketplace.Listings[i]
					break
				}
			}
			if listing == nil {
				return notFound("listing %s not found", req.ListingID)
			}
			code = listing.TypeCode
		}
		t, ok := catalog.Lookup(code)
		if !ok {
			return notFound("aircraft type %s not in catalog", code)
		}

		price := t.Price
		if listing != nil {
			price = listing.Price
		}
		if err := requireCash(st.Cash, price, t.Name); err != nil {
			return err
		}
		if !st.HasFreeParking(models.HomeBase) {
			return capacityExceeded("no available parking at %s", models.HomeBase)
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = t.Name
		}
		ac := e.newFleetAircraft(t, name)
		ac.PurchasePrice = price
		note := fmt.Sprintf("Buy %s (%s)", name, t.TypeCode)
		if listing != nil {
			ac.TotalHours = listing.TotalHours
			ac.Reliability = listing.Reliability
			ac.HoursSinceACheck = listing.HoursSinceACheck
			ac.HoursSinceBCheck = listing.HoursSinceBCheck
			ac.HoursSinceCCheck = listing.HoursSinceCCheck
			ac.HoursSinceMaintenance = max(listing.HoursSinceACheck, listing.HoursSinceBCheck, listing.HoursSinceCCheck)
			if listing.TotalHours > 0 {
				note += fmt.Sprintf(" - %.0fh total", listing.TotalHours)
			}
			removeListing(st, listing.ListingID)
		}

		st.Cash -= price
		st.Fleet = append(st.Fleet, ac)
		e.ledger(st, "purchase", -price, note)
		awardAchievements(st)
		out = ac
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type LeaseRequest struct {
	LeaseOptionID string `json:"lease_option_id"`
	Name          string `json:"name,omitempty"`
}

// LeaseAircraft takes one of today's lease options. The first month is
// paid up front.
func (e *Engine) LeaseAircraft(ctx context.Context, req LeaseRequest) (*models.Aircraft, error) {
	if req.LeaseOptionID == "" {
		return nil, invalid("lease_option_id is required")
	}
	var out models.Aircraft
	err := e.update(ctx, "lease_aircraft", func(st *models.CompanyState) error {
		var opt *LeaseOption
		for _, o := range e.dayLeaseOptions(e.Today()) {
			if o.LeaseOptionID == req.LeaseOptionID {
				opt = &o
				break
			}
		}
		if opt == nil {
			return notFound("lease option %s not found", req.LeaseOptionID)
		}
		t, ok := catalog.Lookup(opt.TypeCode)
		if !ok {
			return notFound("aircraft type %s not in catalog", opt.TypeCode)
		}
		if err := requireCash(st.Cash, opt.MonthlyPayment, "first month lease payment"); err != nil {
			return err
		}
		if !st.HasFreeParking(models.HomeBase) {
			return capacityExceeded("no available parking at %s", models.HomeBase)
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = t.Name
		}
		ac := e.newFleetAircraft(t, name)
		ac.IsLeased = true
		st.Fleet = append(st.Fleet, ac)
		st.Leases = append(st.Leases, models.Lease{
			LeaseID:        e.newID("lease"),
			AircraftID:     ac.ID,
			TypeCode:       t.TypeCode,
			Name:           name,
			MonthlyPayment: opt.MonthlyPayment,
			TermMonths:     opt.TermMonths,
			StartDate:      e.Today(),
		})
		st.Cash -= opt.MonthlyPayment
		e.ledger(st, "lease", -opt.MonthlyPayment, fmt.Sprintf("Lease %s (%s) - First month payment", name, t.TypeCode))
		awardAchievements(st)
		out = ac
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarketplaceListings returns today's listings minus those already bought
// today. A new day regenerates the listings.
func (e *Engine) MarketplaceListings(ctx context.Context) ([]models.Listing, error) {
	var out []models.Listing
	err := e.update(ctx, "marketplace_listings", func(st *models.CompanyState) error {
		e.refreshMarketplace(st)
		out = st.Marketplace.Listings
		return nil
	})
	return out, err
}

// LeaseOptions returns today's lease offers.
func (e *Engine) LeaseOptions(ctx context.Context) ([]LeaseOption, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dayLeaseOptions(e.Today()), nil
}

// ChangeAircraftID renames an aircraft for an administrative fee. Flights,
// leases, pilots and installed items follow the new id.
func (e *Engine) ChangeAircraftID(ctx context.Context, id, newID string) error {
	newID = strings.TrimSpace(newID)
	if newID == "" {
		return invalid("new aircraft id is required")
	}
	return e.update(ctx, "change_aircraft_id", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, id)
		if err != nil {
			return err
		}
		if _, other := st.FindAircraft(newID); other != nil {
			return invalid("aircraft id %s already exists", newID)
		}
		if err := requireCash(st.Cash, renameFee, "administrative fee"); err != nil {
			return err
		}

		ac.ID = newID
		for i := range st.ActiveFlights {
			if st.ActiveFlights[i].AircraftID == id {
				st.ActiveFlights[i].AircraftID = newID
			}
		}
		for i := range st.Leases {
			if st.Leases[i].AircraftID == id {
				st.Leases[i].AircraftID = newID
			}
		}
		for i := range st.Pilots {
			if st.Pilots[i].AssignedAircraftID == id {
				st.Pilots[i].AssignedAircraftID = newID
			}
		}
		for i := range st.CustomItems {
			if st.CustomItems[i].InstalledOn == id {
				st.CustomItems[i].InstalledOn = newID
			}
		}
		st.Cash -= renameFee
		e.ledger(st, "admin", -renameFee, fmt.Sprintf("Change aircraft ID from %s to %s", id, newID))
		return nil
	})
}

func typeConfig(st *models.CompanyState, typeCode string) models.TypeConfig {
	return st.AircraftConfig[strings.ToUpper(typeCode)]
}

func maxDuration(st *models.CompanyState, typeCode string) float64 {
	if d := typeConfig(st, typeCode).MaxDurationHours; d != nil {
		return *d
	}
	if t, ok := catalog.Lookup(typeCode); ok {
		return t.MaxDurationHours
	}
	return catalog.DefaultMaxDurationHours
}

// MaxDuration returns the longest flight allowed for a type, honouring the
// per-type override.
func (e *Engine) MaxDuration(ctx context.Context, typeCode string) (float64, error) {
	var out float64
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = maxDuration(st, typeCode)
		return nil
	})
	return out, err
}

func (e *Engine) SetMaxDuration(ctx context.Context, typeCode string, hours float64) error {
	if hours <= 0 {
		return invalid("max duration must be positive")
	}
	typeCode = strings.ToUpper(strings.TrimSpace(typeCode))
	if typeCode == "" {
		return invalid("type code is required")
	}
	return e.update(ctx, "set_max_duration", func(st *models.CompanyState) error {
		cfg := st.AircraftConfig[typeCode]
		cfg.MaxDurationHours = &hours
		st.AircraftConfig[typeCode] = cfg
		return nil
	})
}
