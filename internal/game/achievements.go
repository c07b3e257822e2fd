package game

import (
	"context"

	"airline_sim/internal/models"
)

type Achievement struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`

	earned func(st *models.CompanyState) bool
}

var achievements = []Achievement{
	{ID: "first_flight", Name: "First Flight", Desc: "Complete your first flight",
		earned: func(st *models.CompanyState) bool { return len(st.CompletedFlights) >= 1 }},
	{ID: "ten_flights", Name: "10 Flights", Desc: "Complete 10 flights",
		earned: func(st *models.CompanyState) bool { return len(st.CompletedFlights) >= 10 }},
	{ID: "hundred_flights", Name: "100 Flights", Desc: "Complete 100 flights",
		earned: func(st *models.CompanyState) bool { return len(st.CompletedFlights) >= 100 }},
	{ID: "first_aircraft", Name: "First Aircraft", Desc: "Purchase your first aircraft",
		earned: func(st *models.CompanyState) bool { return len(st.Fleet) >= 1 }},
	{ID: "fleet_of_five", Name: "Fleet of Five", Desc: "Own 5 aircraft",
		earned: func(st *models.CompanyState) bool { return len(st.Fleet) >= 5 }},
	{ID: "millionaire", Name: "Millionaire", Desc: "Reach $1,000,000 in cash",
		earned: func(st *models.CompanyState) bool { return st.Cash >= 1_000_000 }},
	{ID: "five_million", Name: "Five Million", Desc: "Reach $5,000,000 in cash",
		earned: func(st *models.CompanyState) bool { return st.Cash >= 5_000_000 }},
	{ID: "reputation_50", Name: "Good Reputation", Desc: "Reach 50 reputation",
		earned: func(st *models.CompanyState) bool { return st.Company.Reputation >= 50 }},
	{ID: "reputation_80", Name: "Excellent Reputation", Desc: "Reach 80 reputation",
		earned: func(st *models.CompanyState) bool { return st.Company.Reputation >= 80 }},
	{ID: "first_pilot", Name: "First Pilot", Desc: "Hire your first pilot",
		earned: func(st *models.CompanyState) bool { return len(st.Pilots) >= 1 }},
	{ID: "pilot_team", Name: "Pilot Team", Desc: "Hire 5 pilots",
		earned: func(st *models.CompanyState) bool { return len(st.Pilots) >= 5 }},
}

// awardAchievements adds every newly satisfied achievement to the earned
// set and returns them. Earned achievements are never revoked.
func awardAchievements(st *models.CompanyState) []Achievement {
	var awarded []Achievement
	for _, a := range achievements {
		if st.HasAchievement(a.ID) || !a.earned(st) {
			continue
		}
		st.Achievements = append(st.Achievements, a.ID)
		awarded = append(awarded, a)
	}
	return awarded
}

type AchievementStatus struct {
	Achievement
	Earned bool `json:"earned"`
}

// Achievements lists every achievement with its earned flag.
func (e *Engine) Achievements(ctx context.Context) ([]AchievementStatus, error) {
	var out []AchievementStatus
	err := e.view(ctx, func(st *models.CompanyState) error {
		for _, a := range achievements {
			out = append(out, AchievementStatus{Achievement: a, Earned: st.HasAchievement(a.ID)})
		}
		return nil
	})
	return out, err
}

// AwardAchievements evaluates achievements against the current state.
func (e *Engine) AwardAchievements(ctx context.Context) ([]Achievement, error) {
	var awarded []Achievement
	err := e.update(ctx, "award_achievements", func(st *models.CompanyState) error {
		awarded = awardAchievements(st)
		return nil
	})
	return awarded, err
}
