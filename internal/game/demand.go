package game

import (
	"math"
	"time"

	"airline_sim/internal/num"
)

// Demand model constants. Game balance depends on these exact values.
const (
	minSeatHourFare      = 15.0
	operatingCostMarkup  = 2.0
	fareMultiplier       = 3.5
	comfortFareWeight    = 0.5
	comfortDemandWeight  = 0.15
	minDemandRatio       = 0.1
	maxDemandRatio       = 1.0
	zeroPriceRatio       = 0.1
	cateringPaxBoost     = 1.10
	cleaningPaxBoost     = 1.05
	refuelCostDiscount   = 0.05
	groundPowerDiscount  = 0.02
	seasonalPeakWinter   = 1.3
	seasonalPeakSummer   = 1.2
	seasonalLowFebruary  = 0.9
	seasonalDefaultMonth = 1.0
)

type DemandInput struct {
	Capacity      int
	HourlyCost    float64
	Comfort       float64
	DurationHours float64
	TicketPrice   int
	Seasonal      float64
}

type Demand struct {
	Baseline    float64 `json:"baseline"`
	DemandRatio float64 `json:"demand_ratio"`
	Passengers  int     `json:"passengers"`
}

// EstimateDemand derives the equilibrium fare and the number of passengers
// that book at the given ticket price.
func EstimateDemand(in DemandInput) Demand {
	costPerSeatHour := 0.0
	if in.Capacity > 0 {
		costPerSeatHour = in.HourlyCost / float64(in.Capacity)
	}
	perSeatHour := math.Max(minSeatHourFare, costPerSeatHour*operatingCostMarkup) * fareMultiplier
	baseline := perSeatHour * in.DurationHours * (1 + (in.Comfort-1)*comfortFareWeight)

	priceRatio := zeroPriceRatio
	if in.TicketPrice > 0 {
		priceRatio = baseline / float64(in.TicketPrice)
	}
	boost := 1 + (in.Comfort-1)*comfortDemandWeight
	ratio := num.Clamp(priceRatio*boost, minDemandRatio, maxDemandRatio) * in.Seasonal

	pax := num.Clamp(num.RoundInt(float64(in.Capacity)*ratio), 0, max(in.Capacity, 0))
	return Demand{Baseline: baseline, DemandRatio: ratio, Passengers: pax}
}

// SeasonalMultiplier scales demand by month of year.
func SeasonalMultiplier(t time.Time) float64 {
	switch t.Month() {
	case time.December, time.January:
		return seasonalPeakWinter
	case time.June, time.July, time.August:
		return seasonalPeakSummer
	case time.February:
		return seasonalLowFebruary
	default:
		return seasonalDefaultMonth
	}
}

// applyServiceBoost raises bookings for catering and cleaning bought
// within the service window.
func applyServiceBoost(pax, capacity int, catering, cleaning bool) int {
	if catering {
		pax = min(capacity, int(float64(pax)*cateringPaxBoost))
	}
	if cleaning {
		pax = min(capacity, int(float64(pax)*cleaningPaxBoost))
	}
	return pax
}
