package game

import (
	"context"
	"fmt"
	"strings"

	"airline_sim/internal/models"
)

// Check levels.
const (
	CheckA = "A"
	CheckB = "B"
	CheckC = "C"
)

type checkSpec struct {
	interval    float64
	cost        int
	reliability float64
}

var checks = map[string]checkSpec{
	CheckA: {interval: aCheckInterval, cost: 50_000, reliability: 0.05},
	CheckB: {interval: bCheckInterval, cost: 200_000, reliability: 0.10},
	CheckC: {interval: cCheckInterval, cost: 800_000, reliability: 0.20},
}

const (
	dueFraction = 0.9
	// C check factor beyond which the aircraft may not fly.
	groundingFactor = 1.2
)

type CheckStatus struct {
	Hours    float64 `json:"hours"`
	Interval float64 `json:"interval"`
	Due      bool    `json:"due"`
	Overdue  bool    `json:"overdue"`
}

type MaintenanceStatus struct {
	ACheck CheckStatus `json:"a_check"`
	BCheck CheckStatus `json:"b_check"`
	CCheck CheckStatus `json:"c_check"`
}

func checkStatus(hours, interval float64) CheckStatus {
	return CheckStatus{
		Hours:    hours,
		Interval: interval,
		Due:      hours >= interval*dueFraction,
		Overdue:  hours > interval,
	}
}

func maintenanceStatus(ac *models.Aircraft) MaintenanceStatus {
	return MaintenanceStatus{
		ACheck: checkStatus(ac.HoursSinceACheck, aCheckInterval),
		BCheck: checkStatus(ac.HoursSinceBCheck, bCheckInterval),
		CCheck: checkStatus(ac.HoursSinceCCheck, cCheckInterval),
	}
}

func (e *Engine) MaintenanceStatus(ctx context.Context, aircraftID string) (MaintenanceStatus, error) {
	var out MaintenanceStatus
	err := e.view(ctx, func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		out = maintenanceStatus(ac)
		return nil
	})
	return out, err
}

func keepSnags(snags []models.Snag, keep func(models.Snag) bool) []models.Snag {
	out := []models.Snag{}
	for _, s := range snags {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// applyCheck resets the counter for level and restores reliability. An A
// check clears Minor snags, a B check Minor and Major ones. A C check
// clears every snag, lifts grounding and gives oil-tracked aircraft a
// full oil change.
func applyCheck(ac *models.Aircraft, level string) {
	chk := checks[level]
	ac.Reliability = min(1.0, ac.Reliability+chk.reliability)
	switch level {
	case CheckA:
		ac.HoursSinceACheck = 0
		ac.Snags = keepSnags(ac.Snags, func(s models.Snag) bool { return s.Severity != models.SeverityMinor })
	case CheckB:
		ac.HoursSinceBCheck = 0
		ac.Snags = keepSnags(ac.Snags, func(s models.Snag) bool { return s.Severity == models.SeverityCritical })
	case CheckC:
		ac.HoursSinceCCheck = 0
		ac.Grounded = false
		ac.GroundedReason = ""
		ac.Snags = []models.Snag{}
		switch k := ac.Kind().(type) {
		case models.Piston:
			k.Oil.Level = k.Oil.Capacity
			k.Oil.HoursSinceRefill = 0
			k.Oil.HoursSinceChange = 0
		case models.Airliner:
		}
	}
	ac.HoursSinceMaintenance = max(ac.HoursSinceACheck, ac.HoursSinceBCheck, ac.HoursSinceCCheck)
}

// PerformMaintenance runs an A, B or C check.
func (e *Engine) PerformMaintenance(ctx context.Context, aircraftID, level string) error {
	level = strings.ToUpper(strings.TrimSpace(level))
	chk, ok := checks[level]
	if !ok {
		return invalid("invalid maintenance level: %q", level)
	}
	return e.update(ctx, "maintenance", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		if st.ActiveFlightFor(ac.ID) != nil {
			return precondition("aircraft %s is in flight", ac.ID)
		}
		if err := requireCash(st.Cash, chk.cost, level+" check"); err != nil {
			return err
		}
		applyCheck(ac, level)
		st.Cash -= chk.cost
		e.ledger(st, "maintenance", -chk.cost, fmt.Sprintf("%s Check on %s", level, ac.ID))
		return nil
	})
}

// Preflight is the outcome of the hard preflight gate.
type Preflight struct {
	Failed    bool   `json:"failed"`
	Component string `json:"component,omitempty"`
	Severity  string `json:"severity,omitempty"`
	MEL       bool   `json:"mel"`
}

func failedPreflight(component string) Preflight {
	return Preflight{Failed: true, Component: component, Severity: models.SeverityCritical}
}

// preflight evaluates the gate for a flight of flightHours. A C check
// already past the grounding factor grounds the aircraft.
func preflight(ac *models.Aircraft, flightHours float64) Preflight {
	limit := cCheckInterval * groundingFactor
	switch {
	case ac.Grounded:
		return failedPreflight("Aircraft Status")
	case ac.HoursSinceCCheck > limit:
		ac.Grounded = true
		ac.GroundedReason = "Aircraft grounded: C Check critically overdue"
		return failedPreflight("C Check")
	case flightHours > 0 && ac.HoursSinceCCheck+flightHours > limit:
		return failedPreflight("C Check Projection")
	}
	return Preflight{}
}

// PreflightCheck runs the gate for a prospective flight. Grounding it
// discovers is persisted.
func (e *Engine) PreflightCheck(ctx context.Context, aircraftID string, flightHours float64) (Preflight, error) {
	if flightHours < 0 {
		return Preflight{}, invalid("flight hours must not be negative")
	}
	var out Preflight
	err := e.update(ctx, "preflight", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		out = preflight(ac, flightHours)
		return nil
	})
	return out, err
}

// GroundAircraft takes an aircraft out of service until its next C check.
func (e *Engine) GroundAircraft(ctx context.Context, aircraftID, reason string) error {
	return e.update(ctx, "ground", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		ac.Grounded = true
		ac.GroundedReason = strings.TrimSpace(reason)
		e.lg.Info("aircraft grounded", "aircraft", ac.ID, "reason", ac.GroundedReason)
		return nil
	})
}

func (e *Engine) ClearSnag(ctx context.Context, aircraftID, snagID string) error {
	return e.update(ctx, "clear_snag", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		n := len(ac.Snags)
		ac.Snags = keepSnags(ac.Snags, func(s models.Snag) bool { return s.SnagID != snagID })
		if len(ac.Snags) == n {
			return notFound("snag %s not found on %s", snagID, aircraftID)
		}
		return nil
	})
}

const (
	oilTopUpPerQuart  = 50
	oilChangePerQuart = 100
)

func pistonOil(ac *models.Aircraft) (*models.OilState, error) {
	switch k := ac.Kind().(type) {
	case models.Piston:
		return k.Oil, nil
	case models.Airliner:
		return nil, precondition("aircraft type %s does not require manual oil service", ac.TypeCode)
	}
	return nil, nil
}

// RefillOil tops oil up to capacity. It resets the refill timer only; the
// oil change timer keeps running.
func (e *Engine) RefillOil(ctx context.Context, aircraftID string) (int, error) {
	var cost int
	err := e.update(ctx, "oil_refill", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		oil, err := pistonOil(ac)
		if err != nil {
			return err
		}
		needed := oil.Capacity - oil.Level
		if needed <= 0 {
			return nil
		}
		cost = int(needed * oilTopUpPerQuart)
		if err := requireCash(st.Cash, cost, "oil refill"); err != nil {
			return err
		}
		oil.Level = oil.Capacity
		oil.HoursSinceRefill = 0
		st.Cash -= cost
		e.ledger(st, "oil", -cost, fmt.Sprintf("Oil top-up %s (%.1f quarts)", ac.ID, needed))
		return nil
	})
	return cost, err
}

// ChangeOil replaces all oil and resets both oil timers.
func (e *Engine) ChangeOil(ctx context.Context, aircraftID string) (int, error) {
	var cost int
	err := e.update(ctx, "oil_change", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		oil, err := pistonOil(ac)
		if err != nil {
			return err
		}
		cost = int(oil.Capacity * oilChangePerQuart)
		if err := requireCash(st.Cash, cost, "oil change"); err != nil {
			return err
		}
		oil.Level = oil.Capacity
		oil.HoursSinceRefill = 0
		oil.HoursSinceChange = 0
		st.Cash -= cost
		e.ledger(st, "oil", -cost, fmt.Sprintf("Full oil change %s (%.1f quarts)", ac.ID, oil.Capacity))
		return nil
	})
	return cost, err
}
