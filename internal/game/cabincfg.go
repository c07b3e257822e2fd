package game

import (
	"context"
	"strings"

	"airline_sim/internal/cabin"
	"airline_sim/internal/catalog"
	"airline_sim/internal/models"
)

type CabinLimits struct {
	MaxSeatsPerRow int `json:"max_seats_per_row"`
	MaxRows        int `json:"max_rows"`
}

func cabinLimits(st *models.CompanyState, typeCode string) CabinLimits {
	lim := CabinLimits{MaxSeatsPerRow: catalog.DefaultMaxSeatsPerRow, MaxRows: catalog.DefaultMaxRows}
	if t, ok := catalog.Lookup(typeCode); ok {
		lim = CabinLimits{MaxSeatsPerRow: t.MaxSeatsPerRow, MaxRows: t.MaxRows}
	}
	cfg := typeConfig(st, typeCode)
	if cfg.MaxSeatsPerRow != nil {
		lim.MaxSeatsPerRow = *cfg.MaxSeatsPerRow
	}
	if cfg.MaxRows != nil {
		lim.MaxRows = *cfg.MaxRows
	}
	return lim
}

func (e *Engine) CabinLimits(ctx context.Context, typeCode string) (CabinLimits, error) {
	var out CabinLimits
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = cabinLimits(st, typeCode)
		return nil
	})
	return out, err
}

// SetCabinLimits overrides the seat limits of a type. Zero fields keep
// their current value.
func (e *Engine) SetCabinLimits(ctx context.Context, typeCode string, lim CabinLimits) error {
	if lim.MaxSeatsPerRow < 0 || lim.MaxRows < 0 {
		return invalid("cabin limits must not be negative")
	}
	typeCode = strings.ToUpper(strings.TrimSpace(typeCode))
	if typeCode == "" {
		return invalid("type code is required")
	}
	return e.update(ctx, "set_cabin_limits", func(st *models.CompanyState) error {
		cfg := st.AircraftConfig[typeCode]
		if lim.MaxSeatsPerRow > 0 {
			cfg.MaxSeatsPerRow = &lim.MaxSeatsPerRow
		}
		if lim.MaxRows > 0 {
			cfg.MaxRows = &lim.MaxRows
		}
		st.AircraftConfig[typeCode] = cfg
		return nil
	})
}

func validateLayout(layout []models.CabinRow, lim CabinLimits) error {
	if len(layout) == 0 {
		return invalid("cabin layout must have at least one row")
	}
	if len(layout) > lim.MaxRows {
		return capacityExceeded("too many rows (%d), maximum is %d rows", len(layout), lim.MaxRows)
	}
	for _, r := range layout {
		if r.Seats <= 0 {
			return invalid("row %d must have at least one seat", r.Row)
		}
		if r.Seats > lim.MaxSeatsPerRow {
			return capacityExceeded("row %d has too many seats (%d), maximum is %d seats per row", r.Row, r.Seats, lim.MaxSeatsPerRow)
		}
		if !cabin.KnownSeatType(r.SeatType) {
			return invalid("row %d has unknown seat type %q", r.Row, r.SeatType)
		}
	}
	return nil
}

// ConfigureCabin installs a new layout and charges for the seats.
func (e *Engine) ConfigureCabin(ctx context.Context, aircraftID string, layout []models.CabinRow) (int, error) {
	var cost int
	err := e.update(ctx, "configure_cabin", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		if err := validateLayout(layout, cabinLimits(st, ac.TypeCode)); err != nil {
			return err
		}
		if st.ActiveFlightFor(ac.ID) != nil {
			return precondition("aircraft %s is in flight", ac.ID)
		}
		cost = cabin.Cost(layout)
		if err := requireCash(st.Cash, cost, "cabin configuration"); err != nil {
			return err
		}
		ac.CabinLayout = append([]models.CabinRow(nil), layout...)
		st.Cash -= cost
		e.ledger(st, "cabin", -cost, "Cabin configuration "+ac.ID)
		return nil
	})
	return cost, err
}

type CabinInfo struct {
	Layout   []models.CabinRow `json:"layout"`
	Seats    int               `json:"seats"`
	Comfort  float64           `json:"comfort"`
	Limits   CabinLimits       `json:"limits"`
	Capacity int               `json:"capacity"`
}

// seatCapacity is the aircraft's seat count, falling back to the catalog
// when no layout is configured.
func seatCapacity(ac *models.Aircraft) int {
	if n := cabin.TotalSeats(ac.CabinLayout); n > 0 {
		return n
	}
	if t, ok := catalog.Lookup(ac.TypeCode); ok {
		return t.Capacity
	}
	return catalog.DefaultCapacity
}

func (e *Engine) Cabin(ctx context.Context, aircraftID string) (CabinInfo, error) {
	var out CabinInfo
	err := e.view(ctx, func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		out = CabinInfo{
			Layout:   ac.CabinLayout,
			Seats:    cabin.TotalSeats(ac.CabinLayout),
			Comfort:  cabin.Comfort(ac.CabinLayout),
			Limits:   cabinLimits(st, ac.TypeCode),
			Capacity: seatCapacity(ac),
		}
		return nil
	})
	return out, err
}
