package game

import (
	"context"
	"fmt"
	"strings"

	"airline_sim/internal/catalog"
	"airline_sim/internal/models"
)

// NetEarningsMultiplier scales every settled flight's net result. It is a
// balancing constant: fares and costs are modelled per flight, and the
// multiplier stands in for the frequency a real schedule would fly.
const NetEarningsMultiplier = 3

// Overdue maintenance rules applied at settlement. Penalties and
// reliability losses scale with (factor - 1) once factor = hours/interval
// passes the threshold.
var overdueRules = []struct {
	level     string
	interval  float64
	threshold float64
	fine      float64
	rel       float64
	hours     func(*models.Aircraft) float64
}{
	{CheckA, aCheckInterval, 1.2, 5_000, 0.02, func(a *models.Aircraft) float64 { return a.HoursSinceACheck }},
	{CheckB, bCheckInterval, 1.1, 15_000, 0.05, func(a *models.Aircraft) float64 { return a.HoursSinceBCheck }},
	{CheckC, cCheckInterval, 1.05, 50_000, 0.15, func(a *models.Aircraft) float64 { return a.HoursSinceCCheck }},
}

const (
	oilChangeFine        = 5_000.0
	oilChangeReliability = 0.01
	oilFineReliability   = 0.9
)

type FlightResult struct {
	FlightID          string        `json:"flight_id"`
	Route             string        `json:"route"`
	Revenue           int           `json:"revenue"`
	Cost              int           `json:"cost"`
	Penalty           int           `json:"penalty"`
	ReputationBonus   int           `json:"reputation_bonus"`
	Net               int           `json:"net"`
	Reasons           []string      `json:"reasons"`
	Location          string        `json:"location"`
	Reliability       *float64      `json:"reliability"`
	Grounded          bool          `json:"grounded"`
	HourlyCost        float64       `json:"hourly_cost"`
	DurationHours     float64       `json:"duration_hours"`
	PaxBoarded        int           `json:"pax_boarded"`
	PaxRequested      int           `json:"pax_requested"`
	BaselinePrice     int           `json:"baseline_price"`
	CabinComfort      float64       `json:"cabin_comfort"`
	ReputationChange  float64       `json:"reputation_change"`
	OldReputation     float64       `json:"old_reputation"`
	NewReputation     float64       `json:"new_reputation"`
	PilotAssigned     string        `json:"pilot_assigned,omitempty"`
	PassengerFeedback *Feedback     `json:"passenger_feedback,omitempty"`
	NewAchievements   []Achievement `json:"new_achievements"`
}

// EndFlight lands an active flight and settles it.
func (e *Engine) EndFlight(ctx context.Context, flightID string, answers *FlightAnswers) (FlightResult, error) {
	var out FlightResult
	err := e.update(ctx, "end_flight", func(st *models.CompanyState) error {
		res, err := e.settle(st, flightID, answers)
		out = res
		return err
	})
	return out, err
}

// operatingCost applies recent refueling and ground power discounts, then
// the day's fuel price multiplier.
func operatingCost(st *models.CompanyState, ac *models.Aircraft, hourly, hours float64, now int64) int {
	mult := 1.0
	if ac != nil {
		if recentService(ac, ServiceRefueling, now) {
			mult -= refuelCostDiscount
		}
		if recentService(ac, ServiceGroundPower, now) {
			mult -= groundPowerDiscount
		}
	}
	mult *= st.FuelPriceMultiplier
	return int(hourly * hours * mult)
}

// ageAircraft adds the flight hours to ac and applies overdue maintenance
// consequences. It returns the fines and their reasons.
func ageAircraft(ac *models.Aircraft, hours float64) (int, []string) {
	ac.TotalHours += hours
	ac.HoursSinceMaintenance += hours
	ac.HoursSinceACheck += hours
	ac.HoursSinceBCheck += hours
	ac.HoursSinceCCheck += hours

	penalty := 0
	var reasons, warnings []string

	switch k := ac.Kind().(type) {
	case models.Piston:
		oil := k.Oil
		oil.HoursSinceRefill += hours
		oil.HoursSinceChange += hours
		oil.Level = max(0, oil.Level-hours*oilBurnPerHour)
		if oil.HoursSinceChange > oilChangeInterval && (len(ac.Snags) > 0 || ac.Reliability < oilFineReliability) {
			f := oil.HoursSinceChange / oilChangeInterval
			fine := int(oilChangeFine * (f - 1))
			penalty += fine
			reasons = append(reasons, fmt.Sprintf("Overdue oil change (%.0fh / %.0fh) - Fine: %s", oil.HoursSinceChange, oilChangeInterval, money(fine)))
			ac.Reliability = max(0, ac.Reliability-oilChangeReliability*(f-1))
		}
	case models.Airliner:
	}

	for _, r := range overdueRules {
		h := r.hours(ac)
		f := h / r.interval
		if f <= r.threshold {
			continue
		}
		penalty += int(r.fine * (f - 1))
		ac.Reliability = max(0, ac.Reliability-r.rel*(f-1))
		msg := fmt.Sprintf("%s Check overdue (%.0fh / %.0fh)", r.level, h, r.interval)
		if r.level == CheckC {
			msg += " - CRITICAL"
			if f > groundingFactor {
				ac.Grounded = true
				ac.GroundedReason = "Aircraft grounded: C Check critically overdue"
				reasons = append(reasons, ac.GroundedReason)
			}
		}
		warnings = append(warnings, msg)
	}
	return penalty, append(reasons, warnings...)
}

// settle removes an active flight and books its result.
func (e *Engine) settle(st *models.CompanyState, flightID string, answers *FlightAnswers) (FlightResult, error) {
	idx, fp := st.FindFlight(flightID)
	if fp == nil {
		return FlightResult{}, notFound("active flight %s not found", flightID)
	}
	f := *fp
	st.ActiveFlights = append(st.ActiveFlights[:idx], st.ActiveFlights[idx+1:]...)
	lg := e.lg.With("flight", f.FlightID, "aircraft", f.AircraftID)

	now := e.nowTS()
	_, ac := st.FindAircraft(f.AircraftID)
	hourly := catalog.DefaultHourlyCost
	if ac != nil {
		hourly = catalog.HourlyCost(ac.TypeCode)
	}
	res := FlightResult{
		FlightID:      f.FlightID,
		Route:         f.Route,
		Revenue:       f.Passengers * f.TicketPrice,
		Cost:          operatingCost(st, ac, hourly, f.DurationHours, now),
		Reasons:       []string{},
		HourlyCost:    hourly,
		DurationHours: f.DurationHours,
		PaxBoarded:    f.Passengers,
		PaxRequested:  f.PaxRequested,
		BaselinePrice: f.BaselinePrice,
		CabinComfort:  f.CabinComfort,
		PilotAssigned: f.PilotAssigned,
		OldReputation: st.Company.Reputation,
		NewReputation: st.Company.Reputation,
	}

	if ac == nil {
		// The aircraft left the fleet mid-flight: book revenue and cost only.
		res.Location = "UNKNOWN"
		if answers.answered() {
			res.ReputationChange = ReputationFromAnswers(*answers) + f.PilotSkillBonus
			res.NewReputation = updateReputation(st, res.ReputationChange)
			res.ReputationBonus = ReputationBonus(res.NewReputation, res.Revenue)
		}
		res.Net = (res.Revenue - res.Cost + res.ReputationBonus) * NetEarningsMultiplier
		st.Cash += res.Net
		e.ledger(st, "flight", res.Net, f.Route+" net; aircraft no longer in fleet")
		lg.Warn("settled flight without its aircraft", "net", res.Net)
		return res, nil
	}

	res.Penalty, res.Reasons = ageAircraft(ac, f.DurationHours)
	if res.Reasons == nil {
		res.Reasons = []string{}
	}

	dest := f.Dest
	if dest == "" {
		dest = ac.Location
	}
	ac.Location = dest
	res.Location = dest
	if !st.OwnsParking(dest) {
		res.Reasons = append(res.Reasons, fmt.Sprintf("No owned parking at %s; overnight fee may apply", dest))
	}

	change := f.PilotSkillBonus
	if answers.answered() {
		change += ReputationFromAnswers(*answers)
	}
	if change != 0 {
		res.NewReputation = updateReputation(st, change)
	}
	fb := PassengerFeedback(e.rng, res.NewReputation, f.Passengers, f.PaxRequested, f.CabinComfort)
	if fb.ReputationImpact != 0 {
		res.NewReputation = updateReputation(st, fb.ReputationImpact)
		change += fb.ReputationImpact
	}
	res.ReputationChange = change
	res.PassengerFeedback = &fb
	res.ReputationBonus = ReputationBonus(res.NewReputation, res.Revenue)

	res.Net = (res.Revenue - res.Cost - res.Penalty + res.ReputationBonus) * NetEarningsMultiplier
	st.Cash += res.Net
	rel := ac.Reliability
	res.Reliability = &rel
	res.Grounded = ac.Grounded

	st.AddCompletedFlight(models.CompletedFlight{
		Timestamp:  now,
		FlightID:   f.FlightID,
		AircraftID: ac.ID,
		Route:      f.Route,
		Revenue:    res.Revenue,
		Cost:       res.Cost,
		Passengers: f.Passengers,
		Capacity:   f.PaxRequested,
	})
	if f.PilotID != "" {
		if _, p := st.FindPilot(f.PilotID); p != nil {
			p.TotalFlights++
			p.TotalRevenue += res.Revenue
		}
	}
	res.NewAchievements = awardAchievements(st)
	if res.NewAchievements == nil {
		res.NewAchievements = []Achievement{}
	}

	penalties := "none"
	if len(res.Reasons) > 0 {
		penalties = strings.Join(res.Reasons, ", ")
	}
	note := fmt.Sprintf("%s net; penalties: %s", f.Route, penalties)
	if res.ReputationBonus != 0 {
		note += "; rep bonus: " + money(res.ReputationBonus)
	}
	e.ledger(st, "flight", res.Net, note)
	if ac.Grounded {
		lg.Info("aircraft grounded on arrival", "reason", ac.GroundedReason)
	}
	lg.Debug("flight settled", "net", res.Net, "penalty", res.Penalty)
	return res, nil
}
