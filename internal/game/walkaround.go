package game

import (
	"context"
	"fmt"

	"airline_sim/internal/models"
	"airline_sim/internal/rand"
)

const (
	oilBurnPerHour      = 0.11
	oilLowFraction      = 0.5
	oilChangeInterval   = 50.0
	oilChangeOverdue    = 1.2
	initialTireWear     = 5.0
	tireWearPerHour     = 0.005
	snagBaseProbability = 0.3
)

// component -> severity -> description
var snagCatalog = []struct {
	component string
	issues    map[string]string
}{
	{"Landing Gear", map[string]string{models.SeverityMinor: "Small crack in nose gear strut", models.SeverityMajor: "Hydraulic leak in landing gear actuator", models.SeverityCritical: "Structural crack in main landing gear"}},
	{"Navigation Lights", map[string]string{models.SeverityMinor: "Dim navigation light on left wingtip", models.SeverityMajor: "Inoperative anti-collision beacon", models.SeverityCritical: "Complete failure of navigation lights"}},
	{"Tire Pressure", map[string]string{models.SeverityMinor: "Slightly low pressure in nose tire", models.SeverityMajor: "Significantly low tire pressure", models.SeverityCritical: "Flat tire - immediate replacement required"}},
	{"Engine Cowling", map[string]string{models.SeverityMinor: "Loose fastener on engine cowling", models.SeverityMajor: "Cracked engine cowling panel", models.SeverityCritical: "Structural failure of engine cowling"}},
	{"Control Surfaces", map[string]string{models.SeverityMinor: "Slight play in aileron control", models.SeverityMajor: "Excessive play in control surface", models.SeverityCritical: "Control surface failure - flight prohibited"}},
	{"Antenna", map[string]string{models.SeverityMinor: "Loose antenna mounting", models.SeverityMajor: "Damaged antenna requiring replacement", models.SeverityCritical: "Antenna failure - communication loss"}},
	{"Pitot Tube", map[string]string{models.SeverityMinor: "Minor blockage in pitot tube", models.SeverityMajor: "Significant blockage affecting airspeed", models.SeverityCritical: "Complete pitot tube blockage"}},
	{"Static Port", map[string]string{models.SeverityMinor: "Minor blockage in static port", models.SeverityMajor: "Significant static port blockage", models.SeverityCritical: "Complete static port failure"}},
	{"Fuel Cap", map[string]string{models.SeverityMinor: "Loose fuel cap", models.SeverityMajor: "Damaged fuel cap seal", models.SeverityCritical: "Fuel cap failure - fuel leak risk"}},
	{"Oil Cap", map[string]string{models.SeverityMinor: "Loose oil filler cap", models.SeverityMajor: "Damaged oil cap seal", models.SeverityCritical: "Oil cap failure - oil leak"}},
	{"Hydraulic System", map[string]string{models.SeverityMinor: "Minor hydraulic fluid leak", models.SeverityMajor: "Significant hydraulic leak", models.SeverityCritical: "Critical hydraulic system failure"}},
	{"Brake System", map[string]string{models.SeverityMinor: "Minor brake pad wear", models.SeverityMajor: "Significant brake pad wear", models.SeverityCritical: "Critical brake system failure"}},
	{"Communication System", map[string]string{models.SeverityMinor: "Radio static on one frequency", models.SeverityMajor: "Significant radio communication issues", models.SeverityCritical: "Complete communication system failure"}},
	{"Transponder", map[string]string{models.SeverityMinor: "Transponder intermittent operation", models.SeverityMajor: "Transponder system degradation", models.SeverityCritical: "Transponder failure - no ATC identification"}},
	{weatherRadar, map[string]string{models.SeverityMinor: "Minor weather radar display issue", models.SeverityMajor: "Significant weather radar degradation", models.SeverityCritical: "Weather radar complete failure"}},
	{"Cabin Door Seal", map[string]string{models.SeverityMinor: "Minor door seal wear", models.SeverityMajor: "Significant door seal damage", models.SeverityCritical: "Critical door seal failure"}},
	{"Emergency Exit", map[string]string{models.SeverityMinor: "Minor emergency exit handle wear", models.SeverityMajor: "Emergency exit mechanism issues", models.SeverityCritical: "Emergency exit failure - safety violation"}},
}

const weatherRadar = "Weather Radar"

var (
	severities      = []string{models.SeverityMinor, models.SeverityMajor, models.SeverityCritical}
	severityWeights = []float64{0.5, 0.3, 0.2}
)

// snagProbability is the chance a walkaround discovers a new fault.
func snagProbability(ac *models.Aircraft) float64 {
	p := (1 - ac.Reliability) * snagBaseProbability
	if ac.HoursSinceACheck > aCheckInterval {
		p += 0.15
	}
	if ac.HoursSinceBCheck > bCheckInterval {
		p += 0.20
	}
	if ac.HoursSinceCCheck > cCheckInterval {
		p += 0.30
	}
	return p
}

// rollSnag draws a fault with probability snagProbability. Critical faults
// are never deferrable except a failed weather radar.
func rollSnag(src rand.Source, ac *models.Aircraft, id string, ts int64) (models.Snag, bool) {
	if src.Float64() >= snagProbability(ac) {
		return models.Snag{}, false
	}
	entry := rand.SampleSlice(src, snagCatalog)
	severity := severities[rand.SampleWeighted(src, severityWeights)]
	mel := false
	switch {
	case severity != models.SeverityCritical:
		mel = src.Float64() < 0.4
	case entry.component == weatherRadar:
		mel = true
	}
	return models.Snag{
		SnagID:       id,
		Component:    entry.component,
		Severity:     severity,
		Description:  entry.issues[severity],
		MEL:          mel,
		DiscoveredAt: ts,
	}, true
}

// Tire condition bands.
const (
	TireGood     = "Good"
	TireFair     = "Fair"
	TirePoor     = "Poor"
	TireCritical = "Critical"
)

func tireCondition(wear float64) string {
	switch {
	case wear < 30:
		return TireGood
	case wear < 60:
		return TireFair
	case wear < 85:
		return TirePoor
	default:
		return TireCritical
	}
}

// Walkaround is the result of a pre-flight inspection. Oil and tire
// fields are only set for oil-tracked aircraft.
type Walkaround struct {
	Snags               []models.Snag `json:"snags"`
	NewSnag             *models.Snag  `json:"new_snag,omitempty"`
	OilLevel            *float64      `json:"oil_level"`
	OilCapacity         *float64      `json:"oil_capacity"`
	OilMinimum          *float64      `json:"oil_minimum"`
	OilUnit             string        `json:"oil_unit,omitempty"`
	OilLow              bool          `json:"oil_low"`
	OilCritical         bool          `json:"oil_critical"`
	HoursSinceOilChange *float64      `json:"hours_since_oil_change,omitempty"`
	OilChangeInterval   *float64      `json:"oil_change_interval,omitempty"`
	OilChangeDue        bool          `json:"oil_change_due"`
	OilChangeOverdue    bool          `json:"oil_change_overdue"`
	TireCondition       string        `json:"tire_condition,omitempty"`
	TireWear            *float64      `json:"tire_wear,omitempty"`
}

// HasFindings reports whether flying now would incur walkaround penalties.
func (w Walkaround) HasFindings() bool {
	return len(w.Snags) > 0 || w.OilLow || w.OilCritical
}

// walkaround rolls for a new snag, then inspects ac.
func (e *Engine) walkaround(ac *models.Aircraft) Walkaround {
	var found *models.Snag
	if snag, ok := rollSnag(e.rng, ac, e.newID("snag"), e.nowTS()); ok {
		ac.Snags = append(ac.Snags, snag)
		found = &snag
		e.lg.Info("snag discovered", "aircraft", ac.ID, "component", snag.Component, "severity", snag.Severity, "mel", snag.MEL)
	}
	w := inspect(ac)
	w.NewSnag = found
	return w
}

// inspect reports the known findings on ac, writing back the current oil
// level and tire wear. It draws no random numbers.
func inspect(ac *models.Aircraft) Walkaround {
	w := Walkaround{Snags: append([]models.Snag{}, ac.Snags...)}
	switch k := ac.Kind().(type) {
	case models.Piston:
		oil := k.Oil
		oil.Level = max(0, oil.Capacity-oil.HoursSinceRefill*oilBurnPerHour)
		level, capacity, minimum := oil.Level, oil.Capacity, oil.Minimum
		change, interval := oil.HoursSinceChange, oilChangeInterval
		w.OilLevel, w.OilCapacity, w.OilMinimum = &level, &capacity, &minimum
		w.OilUnit = "quarts"
		w.OilLow = level < capacity*oilLowFraction
		w.OilCritical = level < minimum
		w.HoursSinceOilChange = &change
		w.OilChangeInterval = &interval
		w.OilChangeDue = change >= oilChangeInterval
		w.OilChangeOverdue = change > oilChangeInterval*oilChangeOverdue

		wear := initialTireWear
		if ac.TireWearPercent != nil {
			wear = *ac.TireWearPercent
		}
		wear = max(wear, min(100, initialTireWear+ac.HoursSinceMaintenance*tireWearPerHour))
		ac.TireWearPercent = &wear
		w.TireWear = &wear
		w.TireCondition = tireCondition(wear)
	case models.Airliner:
	}
	return w
}

// WalkaroundCheck inspects an aircraft on the ground.
func (e *Engine) WalkaroundCheck(ctx context.Context, aircraftID string) (Walkaround, error) {
	var out Walkaround
	err := e.update(ctx, "walkaround", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		out = e.walkaround(ac)
		return nil
	})
	return out, err
}

type penaltyRule struct {
	fine  int
	rep   float64
	label string
}

var snagPenaltyRules = map[string]penaltyRule{
	models.SeverityMinor:    {fine: 5_000, rep: -0.5, label: "Minor"},
	models.SeverityMajor:    {fine: 25_000, rep: -1.5, label: "Major"},
	models.SeverityCritical: {fine: 100_000, rep: -5.0, label: "CRITICAL"},
}

// CalculateSnagPenalties is the cost of flying with the given findings.
func CalculateSnagPenalties(snags []models.Snag, oilLow, oilCritical bool) models.SnagPenalties {
	p := models.SnagPenalties{Reasons: []string{}}
	for _, s := range snags {
		rule, ok := snagPenaltyRules[s.Severity]
		if !ok {
			rule = snagPenaltyRules[models.SeverityMinor]
		}
		p.Fine += rule.fine
		p.ReputationPenalty += rule.rep
		p.Reasons = append(p.Reasons, fmt.Sprintf("%s snag: %s - %s fine", rule.label, s.Component, money(rule.fine)))
	}
	switch {
	case oilCritical:
		p.Fine += 50_000
		p.ReputationPenalty -= 3.0
		p.Reasons = append(p.Reasons, "CRITICAL: Oil level critically low - $50,000 fine")
	case oilLow:
		p.Fine += 15_000
		p.ReputationPenalty -= 1.0
		p.Reasons = append(p.Reasons, "Warning: Oil level low - $15,000 fine")
	}
	return p
}
