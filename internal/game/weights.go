package game

import (
	"context"

	"airline_sim/internal/models"
	"airline_sim/internal/num"
	"airline_sim/internal/rand"
)

const (
	minPassengerLbs = 150.0
	maxPassengerLbs = 250.0

	// cargo band used when the aircraft has no weight limits
	defaultCargoMin    = 500.0
	defaultCargoMax    = 2000.0
	cargoLbsPerPax     = 15.0
	cargoHeadroomShare = 0.7
)

type WeightLimits struct {
	EmptyWeight       *float64 `json:"empty_weight"`
	MaxZeroFuelWeight *float64 `json:"max_zero_fuel_weight"`
	MaxTakeoffWeight  *float64 `json:"max_takeoff_weight"`
}

func (e *Engine) WeightLimits(ctx context.Context, aircraftID string) (WeightLimits, error) {
	var out WeightLimits
	err := e.view(ctx, func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		out = WeightLimits{
			EmptyWeight:       ac.EmptyWeight,
			MaxZeroFuelWeight: ac.MaxZeroFuelWeight,
			MaxTakeoffWeight:  ac.MaxTakeoffWeight,
		}
		return nil
	})
	return out, err
}

// SetWeightLimits overwrites the limits given; nil fields are left as
// they are.
func (e *Engine) SetWeightLimits(ctx context.Context, aircraftID string, lim WeightLimits) error {
	for _, w := range []*float64{lim.EmptyWeight, lim.MaxZeroFuelWeight, lim.MaxTakeoffWeight} {
		if w != nil && *w <= 0 {
			return invalid("weights must be positive")
		}
	}
	return e.update(ctx, "set_weight_limits", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		if lim.EmptyWeight != nil {
			ac.EmptyWeight = lim.EmptyWeight
		}
		if lim.MaxZeroFuelWeight != nil {
			ac.MaxZeroFuelWeight = lim.MaxZeroFuelWeight
		}
		if lim.MaxTakeoffWeight != nil {
			ac.MaxTakeoffWeight = lim.MaxTakeoffWeight
		}
		return nil
	})
}

// generateManifest draws passenger and cargo weights for a flight. With
// both empty weight and MZFW known, cargo fills 70-100% of the remaining
// headroom; otherwise it falls in a band that shrinks with passengers.
func generateManifest(src rand.Source, pax int, ac *models.Aircraft) *models.WeightManifest {
	m := &models.WeightManifest{
		PassengerWeights:  make([]models.PassengerWeight, 0, pax),
		PassengerCount:    pax,
		EmptyWeight:       ac.EmptyWeight,
		MaxZeroFuelWeight: ac.MaxZeroFuelWeight,
		MaxTakeoffWeight:  ac.MaxTakeoffWeight,
		WithinLimits:      true,
	}
	total := 0.0
	for i := range pax {
		w := src.Uniform(minPassengerLbs, maxPassengerLbs)
		m.PassengerWeights = append(m.PassengerWeights, models.PassengerWeight{PassengerNum: i + 1, WeightLbs: num.Round1(w)})
		total += w
	}
	m.TotalPassengerWeight = num.Round1(total)

	cargo := 0.0
	if ac.EmptyWeight != nil && ac.MaxZeroFuelWeight != nil {
		avail := max(0, *ac.MaxZeroFuelWeight-*ac.EmptyWeight-m.TotalPassengerWeight)
		if avail > 0 {
			cargo = src.Uniform(avail*cargoHeadroomShare, avail)
		}
	} else {
		hi := max(0, defaultCargoMax-float64(pax)*cargoLbsPerPax)
		lo := max(0, defaultCargoMin-float64(pax)*cargoLbsPerPax*0.5)
		if hi > lo {
			cargo = src.Uniform(lo, hi)
		}
	}
	m.CargoWeight = num.Round1(cargo)

	empty := 0.0
	if ac.EmptyWeight != nil {
		empty = *ac.EmptyWeight
	}
	m.ZeroFuelWeight = num.Round1(empty + m.TotalPassengerWeight + m.CargoWeight)
	if ac.MaxZeroFuelWeight != nil {
		m.WithinLimits = m.ZeroFuelWeight <= *ac.MaxZeroFuelWeight
	}
	return m
}

// FlightManifest returns the weight manifest of an active flight.
func (e *Engine) FlightManifest(ctx context.Context, flightID string) (*models.WeightManifest, error) {
	var out *models.WeightManifest
	err := e.view(ctx, func(st *models.CompanyState) error {
		_, f := st.FindFlight(flightID)
		if f == nil {
			return notFound("active flight %s not found", flightID)
		}
		if f.WeightManifest == nil {
			return notFound("flight %s has no weight manifest", flightID)
		}
		out = f.WeightManifest
		return nil
	})
	return out, err
}
