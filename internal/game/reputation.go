package game

import (
	"math"

	"airline_sim/internal/models"
	"airline_sim/internal/num"
	"airline_sim/internal/rand"
)

const (
	minReputation = 0.0
	maxReputation = 100.0
)

// updateReputation is the only place reputation changes.
func updateReputation(st *models.CompanyState, delta float64) float64 {
	st.Company.Reputation = num.Clamp(st.Company.Reputation+delta, minReputation, maxReputation)
	return st.Company.Reputation
}

// ReputationBonus is the share of revenue earned (or lost) for the
// company's standing, from -10% at 0 to +25% at 100.
func ReputationBonus(reputation float64, revenue int) int {
	var pct float64
	switch {
	case reputation < 20:
		pct = -0.10 + reputation/20*0.05
	case reputation < 40:
		pct = -0.05 + (reputation-20)/20*0.05
	case reputation < 60:
		pct = (reputation - 40) / 20 * 0.05
	case reputation < 80:
		pct = 0.05 + (reputation-60)/20*0.10
	default:
		pct = 0.15 + (reputation-80)/20*0.10
	}
	return int(float64(revenue) * pct)
}

// FlightAnswers is the optional post-flight quality questionnaire.
type FlightAnswers struct {
	TouchdownFPM    *float64 `json:"touchdown_fpm,omitempty"`
	DepartureTiming *float64 `json:"departure_timing,omitempty"`
	CustomRepChange *float64 `json:"custom_rep_change,omitempty"`
}

func (a *FlightAnswers) answered() bool {
	return a != nil && (a.TouchdownFPM != nil || a.DepartureTiming != nil)
}

// ReputationFromAnswers scores landing and punctuality.
func ReputationFromAnswers(a FlightAnswers) float64 {
	delta := 0.0
	if a.TouchdownFPM != nil {
		fpm := math.Abs(*a.TouchdownFPM)
		switch {
		case fpm <= 200:
			delta += 2
		case fpm <= 400:
			delta += 1
		case fpm <= 600:
		case fpm <= 800:
			delta -= 1
		default:
			delta -= 2
		}
	}
	if a.DepartureTiming != nil {
		dev := math.Abs(*a.DepartureTiming)
		switch {
		case dev == 0:
			delta += 1
		case dev <= 5:
			delta += 0.5
		case dev <= 15:
		case dev <= 30:
			delta -= 0.5
		case dev <= 60:
			delta -= 1
		default:
			delta -= 2
		}
	}
	if a.CustomRepChange != nil {
		delta += num.Clamp(*a.CustomRepChange, -5, 5)
	}
	return delta
}

type Feedback struct {
	Type             string  `json:"feedback_type"`
	Message          string  `json:"message"`
	ReputationImpact float64 `json:"reputation_impact"`
}

type feedbackBand struct {
	messages []string
	lo, hi   float64
}

var feedbackBands = map[string]feedbackBand{
	"excellent": {
		messages: []string{
			"Outstanding service! Will definitely fly again.",
			"Best flight experience ever! Highly recommend.",
			"Exceptional comfort and service. Five stars!",
		},
		lo: 0.1, hi: 0.3,
	},
	"good": {
		messages: []string{
			"Pleasant flight, comfortable seats.",
			"Good service, on-time departure.",
			"Enjoyable experience, will fly again.",
		},
		lo: 0, hi: 0.1,
	},
	"poor": {
		messages: []string{
			"Uncomfortable seats, poor service.",
			"Delayed departure, cramped cabin.",
			"Disappointing experience, won't recommend.",
		},
		lo: -0.5, hi: -0.1,
	},
	"neutral": {
		messages: []string{
			"Average flight, nothing special.",
			"Met expectations, nothing more.",
		},
	},
}

// PassengerFeedback classifies a flight by reputation, load factor and
// comfort and draws a message and reputation impact for its band.
func PassengerFeedback(src rand.Source, reputation float64, boarded, requested int, comfort float64) Feedback {
	loadFactor := 0.0
	if requested > 0 {
		loadFactor = float64(boarded) / float64(requested) * 100
	}

	kind := "neutral"
	switch {
	case reputation >= 80 && loadFactor >= 80 && comfort >= 1.2:
		kind = "excellent"
	case reputation >= 60 && loadFactor >= 60:
		kind = "good"
	case reputation < 40 || loadFactor < 40:
		kind = "poor"
	}

	band := feedbackBands[kind]
	fb := Feedback{Type: kind, Message: rand.SampleSlice(src, band.messages)}
	if band.lo != 0 || band.hi != 0 {
		fb.ReputationImpact = src.Uniform(band.lo, band.hi)
	}
	return fb
}
