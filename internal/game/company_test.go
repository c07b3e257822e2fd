package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_sim/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateReputationClamps(t *testing.T) {
	st := newState()
	assert.Equal(t, 0.0, updateReputation(st, -10_000))
	assert.Equal(t, 100.0, updateReputation(st, 10_000))
	assert.Equal(t, 97.5, updateReputation(st, -2.5))
}

func TestReputationBonus(t *testing.T) {
	assert.Equal(t, -100, ReputationBonus(0, 1_000))
	assert.Equal(t, 10, ReputationBonus(50, 400))
	assert.Equal(t, 250, ReputationBonus(100, 1_000))
	assert.Zero(t, ReputationBonus(40, 1_000))
}

func TestReputationFromAnswers(t *testing.T) {
	smooth := FlightAnswers{TouchdownFPM: ptr(-150.0), DepartureTiming: ptr(0.0), CustomRepChange: ptr(9.0)}
	assert.Equal(t, 8.0, ReputationFromAnswers(smooth))

	rough := FlightAnswers{TouchdownFPM: ptr(900.0), DepartureTiming: ptr(-45.0)}
	assert.Equal(t, -3.0, ReputationFromAnswers(rough))

	assert.Zero(t, ReputationFromAnswers(FlightAnswers{TouchdownFPM: ptr(500.0), DepartureTiming: ptr(10.0)}))

	var none *FlightAnswers
	assert.False(t, none.answered())
	assert.False(t, (&FlightAnswers{CustomRepChange: ptr(1.0)}).answered())
}

func TestPassengerFeedback(t *testing.T) {
	fb := PassengerFeedback(fixedDraw(0), 90, 9, 10, 1.5)
	assert.Equal(t, "excellent", fb.Type)
	assert.Equal(t, "Outstanding service! Will definitely fly again.", fb.Message)
	assert.InDelta(t, 0.1, fb.ReputationImpact, 1e-9)

	assert.Equal(t, "good", PassengerFeedback(fixedDraw(0), 70, 7, 10, 1.0).Type)

	fb = PassengerFeedback(fixedDraw(0), 30, 9, 10, 1.0)
	assert.Equal(t, "poor", fb.Type)
	assert.InDelta(t, -0.5, fb.ReputationImpact, 1e-9)

	fb = PassengerFeedback(fixedDraw(0.99), 50, 5, 10, 1.0)
	assert.Equal(t, "neutral", fb.Type)
	assert.Zero(t, fb.ReputationImpact)

	assert.Equal(t, "poor", PassengerFeedback(fixedDraw(0), 90, 0, 0, 2).Type)
}

func TestAwardAchievementsOnce(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)

	got, err := e.AwardAchievements(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"millionaire", "five_million"}, achievementIDs(got))

	got, err = e.AwardAchievements(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	list, err := e.Achievements(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(achievements))
	earned := 0
	for _, a := range list {
		if a.Earned {
			earned++
		}
	}
	assert.Equal(t, 2, earned)
}

func TestHirePilot(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)

	p, err := e.HirePilot(ctx, HireRequest{Name: " Ada "})
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, 1, p.SkillLevel)
	assert.Equal(t, 7_000, p.Salary)
	assert.Equal(t, e.Today(), p.HiredDay)
	assert.Contains(t, mustState(t, e).Achievements, "first_pilot")

	p, err = e.HirePilot(ctx, HireRequest{Name: "Grace", SkillLevel: 5, Salary: ptr(1_000)})
	require.NoError(t, err)
	assert.Equal(t, 1_000, p.Salary)

	_, err = e.HirePilot(ctx, HireRequest{Name: "Bob", SkillLevel: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.HirePilot(ctx, HireRequest{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssignAndFirePilot(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")
	a, err := e.HirePilot(ctx, HireRequest{Name: "Ada"})
	require.NoError(t, err)
	b, err := e.HirePilot(ctx, HireRequest{Name: "Grace"})
	require.NoError(t, err)

	require.NoError(t, e.AssignPilot(ctx, a.PilotID, ac.ID))
	require.NoError(t, e.AssignPilot(ctx, b.PilotID, ac.ID))
	pilots, err := e.Pilots(ctx)
	require.NoError(t, err)
	assert.Empty(t, pilots[0].AssignedAircraftID)
	assert.Equal(t, ac.ID, pilots[1].AssignedAircraftID)

	require.NoError(t, e.AssignPilot(ctx, b.PilotID, ""))
	assert.Nil(t, mustState(t, e).PilotFor(ac.ID))

	assert.ErrorIs(t, e.AssignPilot(ctx, a.PilotID, "ghost"), ErrNotFound)
	assert.ErrorIs(t, e.AssignPilot(ctx, "pilot_ghost", ac.ID), ErrNotFound)

	require.NoError(t, e.FirePilot(ctx, a.PilotID))
	assert.Len(t, mustState(t, e).Pilots, 1)
	assert.ErrorIs(t, e.FirePilot(ctx, a.PilotID), ErrNotFound)
}

func TestConfigureCabin(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")
	before := mustState(t, e).Cash

	recl := func(n int) []models.CabinRow {
		rows := make([]models.CabinRow, n)
		for i := range rows {
			rows[i] = models.CabinRow{Row: i + 1, SeatType: "RECL", Seats: 2}
		}
		return rows
	}

	cost, err := e.ConfigureCabin(ctx, ac.ID, recl(3))
	require.NoError(t, err)
	assert.Equal(t, 6*1_500, cost)
	assert.Equal(t, before-cost, mustState(t, e).Cash)

	info, err := e.Cabin(ctx, ac.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, info.Seats)
	assert.Equal(t, 6, info.Capacity)
	assert.Equal(t, 1.5, info.Comfort)

	_, err = e.ConfigureCabin(ctx, ac.ID, recl(4))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	_, err = e.ConfigureCabin(ctx, ac.ID, []models.CabinRow{{Row: 1, SeatType: "RECL", Seats: 3}})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	_, err = e.ConfigureCabin(ctx, ac.ID, []models.CabinRow{{Row: 1, SeatType: "HAMMOCK", Seats: 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.ConfigureCabin(ctx, ac.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, e.SetCabinLimits(ctx, "c337", CabinLimits{MaxRows: 4}))
	lim, err := e.CabinLimits(ctx, "C337")
	require.NoError(t, err)
	assert.Equal(t, CabinLimits{MaxSeatsPerRow: 2, MaxRows: 4}, lim)
	_, err = e.ConfigureCabin(ctx, ac.ID, recl(4))
	assert.NoError(t, err)
}

func TestRouteProfitability(t *testing.T) {
	now := testNow.Unix()
	flights := []models.CompletedFlight{
		{Timestamp: now - 40*secondsPerDay, Route: "HOME-JFK", Revenue: 9_999, Cost: 1},
		{Timestamp: now - 3600, Route: "HOME-JFK", Revenue: 400, Cost: 100, Passengers: 2, Capacity: 5},
		{Timestamp: now - 1800, Route: "HOME-JFK", Revenue: 500, Cost: 100, Passengers: 4, Capacity: 5},
		{Timestamp: now - 600, Route: "JFK-BOS", Revenue: 2_000, Cost: 200, Passengers: 3, Capacity: 3},
		{Timestamp: now - 60, Cost: 50},
	}
	stats := routeProfitability(flights, now-30*secondsPerDay)
	require.Len(t, stats, 3)
	assert.Equal(t, RouteStats{Route: "JFK-BOS", Flights: 1, Revenue: 2_000, Cost: 200, Net: 1_800, Passengers: 3, Capacity: 3, AvgLoadFactor: 100}, stats[0])
	assert.Equal(t, "HOME-JFK", stats[1].Route)
	assert.Equal(t, 2, stats[1].Flights)
	assert.Equal(t, 700, stats[1].Net)
	assert.Equal(t, 60.0, stats[1].AvgLoadFactor)
	assert.Equal(t, "UNKNOWN", stats[2].Route)
	assert.Zero(t, stats[2].AvgLoadFactor)

	st := newState()
	st.CompletedFlights = flights
	e, _, _ := newTestEngine(t, st)
	got, err := e.RouteProfitability(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, stats, got)

	got, err = e.RouteProfitability(context.Background(), 60)
	require.NoError(t, err)
	assert.Equal(t, "HOME-JFK", got[0].Route)
	assert.Equal(t, 3, got[0].Flights)
}

func TestLedgerNewestFirst(t *testing.T) {
	st := newState()
	st.AddLedger(1, "a", 1, "first")
	st.AddLedger(2, "b", 2, "second")
	st.AddLedger(3, "c", 3, "third")
	e, _, _ := newTestEngine(t, st)

	got, err := e.Ledger(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].Note)
	assert.Equal(t, "second", got[1].Note)

	got, err = e.Ledger(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
