package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"airline_sim/internal/cabin"
	"airline_sim/internal/catalog"
	"airline_sim/internal/models"
	"airline_sim/internal/num"
)

const (
	pilotSkillRepPerLevel = 0.5
	cancelFeeShare        = 0.10
	cancelRepPerPax       = -0.5
)

// Airport services that influence flights.
const (
	ServiceRefueling   = "refueling"
	ServiceDeicing     = "deicing"
	ServiceCatering    = "catering"
	ServiceGroundPower = "ground_power"
	ServiceLavatory    = "lavatory"
	ServiceWater       = "water"
	ServiceCleaning    = "cleaning"
	ServiceLivery      = "livery"
)

type FlightRequest struct {
	AircraftID    string  `json:"aircraft_id"`
	Route         string  `json:"route"`
	TicketPrice   int     `json:"ticket_price"`
	DurationHours float64 `json:"duration_hours"`
	// AcceptFindings confirms the crew will fly with the walkaround
	// findings and pay the penalties.
	AcceptFindings bool `json:"accept_findings"`
}

// parseRoute splits "ORIGIN-DEST". A route without a dash stays at the
// home base.
func parseRoute(route string) (origin, dest string) {
	parts := strings.Split(route, "-")
	if len(parts) < 2 {
		return models.HomeBase, models.HomeBase
	}
	return normalizeAirport(parts[0]), normalizeAirport(parts[len(parts)-1])
}

// recentService reports whether svc was bought for ac within the service
// window before now.
func recentService(ac *models.Aircraft, svc string, now int64) bool {
	rec, ok := ac.LastServices[svc]
	return ok && rec.Timestamp > now-serviceWindow
}

func findingsSummary(w Walkaround) string {
	var parts []string
	for _, s := range w.Snags {
		parts = append(parts, fmt.Sprintf("%s %s", s.Severity, s.Component))
	}
	switch {
	case w.OilCritical:
		parts = append(parts, "oil critically low")
	case w.OilLow:
		parts = append(parts, "oil low")
	}
	return strings.Join(parts, ", ")
}

// StartFlight departs an aircraft. The hard preflight gate and any
// undeferrable Critical snag refuse the flight; other walkaround findings
// must be accepted, which charges their penalties up front.
func (e *Engine) StartFlight(ctx context.Context, req FlightRequest) (*models.Flight, error) {
	route := strings.TrimSpace(req.Route)
	switch {
	case route == "":
		return nil, invalid("route is required")
	case req.TicketPrice < 0:
		return nil, invalid("ticket price must not be negative")
	case req.DurationHours <= 0:
		return nil, invalid("duration must be positive")
	}

	var out models.Flight
	// refused is set when the gate grounds the aircraft. The grounding is
	// saved and the flight is still refused.
	var refused error
	err := e.update(ctx, "start_flight", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, req.AircraftID)
		if err != nil {
			return err
		}
		if st.ActiveFlightFor(ac.ID) != nil {
			return precondition("aircraft %s is already flying", ac.ID)
		}
		if limit := maxDuration(st, ac.TypeCode); req.DurationHours > limit {
			return invalid("duration %.1fh exceeds the %.1fh limit for %s", req.DurationHours, limit, ac.TypeCode)
		}
		wasGrounded := ac.Grounded
		if pf := preflight(ac, req.DurationHours); pf.Failed {
			err := precondition("preflight check failed: %s", pf.Component)
			if ac.Grounded && !wasGrounded {
				e.lg.Info("aircraft grounded", "aircraft", ac.ID, "reason", ac.GroundedReason)
				refused = err
				return nil
			}
			return err
		}
		if ac.HasCriticalBlocker() {
			return precondition("aircraft %s has a critical snag that cannot be deferred", ac.ID)
		}

		now := e.nowTS()
		findings := inspect(ac)
		var penalties *models.SnagPenalties
		if findings.HasFindings() {
			if !req.AcceptFindings {
				return precondition("walkaround findings must be accepted: %s", findingsSummary(findings))
			}
			p := CalculateSnagPenalties(findings.Snags, findings.OilLow, findings.OilCritical)
			if err := requireCash(st.Cash, p.Fine, "walkaround penalties"); err != nil {
				return err
			}
			st.Cash -= p.Fine
			updateReputation(st, p.ReputationPenalty)
			e.ledger(st, "walkaround_penalty", -p.Fine, fmt.Sprintf("Flying %s with findings: %s", ac.ID, strings.Join(p.Reasons, "; ")))
			penalties = &p
		}

		f := e.newFlight(st, ac, route, req, now)
		f.WalkaroundPenalties = penalties
		for _, s := range ac.Snags {
			if s.MEL {
				f.PreflightIssue = fmt.Sprintf("MEL: %s inoperative", s.Component)
				break
			}
		}
		st.ActiveFlights = append(st.ActiveFlights, f)
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	if refused != nil {
		return nil, refused
	}
	return &out, nil
}

// newFlight prices the flight and draws its passengers and manifest.
func (e *Engine) newFlight(st *models.CompanyState, ac *models.Aircraft, route string, req FlightRequest, now int64) models.Flight {
	origin, dest := parseRoute(route)
	capacity := seatCapacity(ac)
	comfort := cabin.Comfort(ac.CabinLayout)
	seasonal := SeasonalMultiplier(time.Unix(now, 0))

	d := EstimateDemand(DemandInput{
		Capacity:      capacity,
		HourlyCost:    catalog.HourlyCost(ac.TypeCode),
		Comfort:       comfort,
		DurationHours: req.DurationHours,
		TicketPrice:   req.TicketPrice,
		Seasonal:      seasonal,
	})
	pax := applyServiceBoost(d.Passengers, capacity,
		recentService(ac, ServiceCatering, now),
		recentService(ac, ServiceCleaning, now))

	f := models.Flight{
		FlightID:           e.newID("flight"),
		AircraftID:         ac.ID,
		Route:              route,
		Origin:             origin,
		Dest:               dest,
		DurationHours:      req.DurationHours,
		Passengers:         pax,
		PaxRequested:       capacity,
		TicketPrice:        req.TicketPrice,
		StartedTS:          now,
		EtaTS:              now + int64(req.DurationHours*3600),
		BaselinePrice:      num.RoundInt(d.Baseline),
		CabinComfort:       comfort,
		SeasonalMultiplier: seasonal,
		WeightManifest:     generateManifest(e.rng, pax, ac),
	}
	if p := st.PilotFor(ac.ID); p != nil {
		f.PilotAssigned = p.Name
		f.PilotID = p.PilotID
		f.PilotSkillBonus = float64(p.SkillLevel-1) * pilotSkillRepPerLevel
	}
	return f
}

func (e *Engine) ActiveFlights(ctx context.Context) ([]models.Flight, error) {
	var out []models.Flight
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = st.ActiveFlights
		return nil
	})
	return out, err
}

type Cancellation struct {
	FlightID          string  `json:"flight_id"`
	AircraftID        string  `json:"aircraft_id"`
	Route             string  `json:"route"`
	Passengers        int     `json:"passengers"`
	RefundCost        int     `json:"refund_cost"`
	ReputationPenalty float64 `json:"reputation_penalty"`
	OldReputation     float64 `json:"old_reputation"`
	NewReputation     float64 `json:"new_reputation"`
}

// CancelFlight scraps an active flight. The aircraft stays at its origin;
// the company pays a processing fee on the booked tickets and loses
// reputation per passenger.
func (e *Engine) CancelFlight(ctx context.Context, flightID string) (Cancellation, error) {
	var out Cancellation
	err := e.update(ctx, "cancel_flight", func(st *models.CompanyState) error {
		idx, f := st.FindFlight(flightID)
		if f == nil {
			return notFound("active flight %s not found", flightID)
		}
		refund := int(float64(f.Passengers*f.TicketPrice) * cancelFeeShare)
		if err := requireCash(st.Cash, refund, "cancellation refunds"); err != nil {
			return err
		}
		penalty := cancelRepPerPax * float64(f.Passengers)
		out = Cancellation{
			FlightID:          f.FlightID,
			AircraftID:        f.AircraftID,
			Route:             f.Route,
			Passengers:        f.Passengers,
			RefundCost:        refund,
			ReputationPenalty: penalty,
			OldReputation:     st.Company.Reputation,
		}
		out.NewReputation = updateReputation(st, penalty)
		st.Cash -= refund
		st.ActiveFlights = append(st.ActiveFlights[:idx], st.ActiveFlights[idx+1:]...)
		e.ledger(st, "flight_cancellation", -refund, fmt.Sprintf("Flight %s cancellation refunds", flightID))
		return nil
	})
	return out, err
}

// AutoCompleteDueFlights settles every active flight whose ETA has passed.
func (e *Engine) AutoCompleteDueFlights(ctx context.Context) ([]FlightResult, error) {
	var out []FlightResult
	err := e.update(ctx, "auto_complete", func(st *models.CompanyState) error {
		now := e.nowTS()
		var due []string
		for _, f := range st.ActiveFlights {
			if f.EtaTS <= now {
				due = append(due, f.FlightID)
			}
		}
		for _, id := range due {
			res, err := e.settle(st, id, nil)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		if len(out) > 0 {
			e.lg.Info("flights auto-completed", "count", len(out))
		}
		return nil
	})
	return out, err
}
