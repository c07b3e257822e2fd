package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_sim/internal/models"
)

func TestDemandScenario(t *testing.T) {
	d := EstimateDemand(DemandInput{
		Capacity:      5,
		HourlyCost:    20,
		Comfort:       1.0,
		DurationHours: 1.5,
		TicketPrice:   200,
		Seasonal:      1.0,
	})
	assert.InDelta(t, 78.75, d.Baseline, 1e-9)
	assert.Equal(t, 2, d.Passengers)
}

func TestDemandNeverIncreasesWithPrice(t *testing.T) {
	for _, capacity := range []int{0, 5, 19, 150} {
		prev := capacity + 1
		for price := 0; price <= 2000; price += 25 {
			d := EstimateDemand(DemandInput{
				Capacity: capacity, HourlyCost: 560, Comfort: 1.3,
				DurationHours: 2, TicketPrice: price, Seasonal: 1.0,
			})
			assert.GreaterOrEqual(t, d.Passengers, 0)
			assert.LessOrEqual(t, d.Passengers, capacity)
			if price > 0 {
				assert.LessOrEqual(t, d.Passengers, prev, "capacity %d price %d", capacity, price)
				prev = d.Passengers
			}
		}
	}
}

func TestSeasonalMultiplier(t *testing.T) {
	at := func(m time.Month) float64 { return SeasonalMultiplier(time.Date(2025, m, 15, 0, 0, 0, 0, time.UTC)) }
	assert.Equal(t, 1.3, at(time.December))
	assert.Equal(t, 1.3, at(time.January))
	assert.Equal(t, 0.9, at(time.February))
	assert.Equal(t, 1.2, at(time.July))
	assert.Equal(t, 1.0, at(time.March))
}

func TestServiceBoostCappedAtCapacity(t *testing.T) {
	assert.Equal(t, 11, applyServiceBoost(10, 20, true, false))
	assert.Equal(t, 5, applyServiceBoost(5, 5, true, true))
	assert.Equal(t, 10, applyServiceBoost(10, 20, false, false))
}

func TestStartFlightFreshAircraft(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")

	f, err := e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1.5})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Passengers)
	assert.Equal(t, 5, f.PaxRequested)
	assert.Equal(t, 79, f.BaselinePrice)
	assert.Equal(t, 1.0, f.CabinComfort)
	assert.Equal(t, 1.0, f.SeasonalMultiplier)
	assert.Equal(t, "HOME", f.Origin)
	assert.Equal(t, "JFK", f.Dest)
	assert.Equal(t, testNow.Unix()+5400, f.EtaTS)
	assert.Nil(t, f.WalkaroundPenalties)
	require.NotNil(t, f.WeightManifest)
	assert.Len(t, f.WeightManifest.PassengerWeights, 2)

	_, err = e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-BOS", TicketPrice: 200, DurationHours: 1})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestStartFlightValidation(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")

	cases := map[string]FlightRequest{
		"empty route":    {AircraftID: ac.ID, TicketPrice: 100, DurationHours: 1},
		"negative price": {AircraftID: ac.ID, Route: "A-B", TicketPrice: -1, DurationHours: 1},
		"zero duration":  {AircraftID: ac.ID, Route: "A-B", TicketPrice: 100},
		"too long":       {AircraftID: ac.ID, Route: "A-B", TicketPrice: 100, DurationHours: 7},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.StartFlight(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := e.StartFlight(ctx, FlightRequest{AircraftID: "ghost", Route: "A-B", TicketPrice: 1, DurationHours: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartFlightRefusedWhenGrounded(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")
	require.NoError(t, e.GroundAircraft(ctx, ac.ID, "bird strike"))

	_, err := e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Empty(t, mustState(t, e).ActiveFlights)
}

func TestStartFlightGroundingIsSaved(t *testing.T) {
	ctx := context.Background()
	e, repo, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")

	st := mustState(t, e)
	st.Fleet[0].HoursSinceCCheck = 4801
	require.NoError(t, repo.Save(ctx, st))
	saves := repo.Saves()

	_, err := e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1})
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Contains(t, err.Error(), "C Check")

	after := mustState(t, e)
	assert.True(t, after.Fleet[0].Grounded)
	assert.Equal(t, "Aircraft grounded: C Check critically overdue", after.Fleet[0].GroundedReason)
	assert.Empty(t, after.ActiveFlights)
	assert.Equal(t, st.Cash, after.Cash)
	assert.Equal(t, saves+1, repo.Saves())

	// an aircraft already grounded is refused without another save
	_, err = e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1})
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Equal(t, saves+1, repo.Saves())
}

func withSnag(severity string, mel bool) *models.CompanyState {
	st := newState()
	ac := models.NewAircraft()
	ac.ID = "ac_snag"
	ac.TypeCode = "B350"
	ac.Snags = []models.Snag{{SnagID: "snag_1", Component: "Antenna", Severity: severity, MEL: mel}}
	st.Fleet = append(st.Fleet, ac)
	return st
}

func TestStartFlightFindingsMustBeAccepted(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, withSnag(models.SeverityMajor, true))
	req := FlightRequest{AircraftID: "ac_snag", Route: "HOME-BOS", TicketPrice: 300, DurationHours: 1}

	_, err := e.StartFlight(ctx, req)
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Equal(t, DefaultStartingCash, mustState(t, e).Cash)

	req.AcceptFindings = true
	f, err := e.StartFlight(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, f.WalkaroundPenalties)
	assert.Equal(t, 25_000, f.WalkaroundPenalties.Fine)
	assert.Equal(t, "MEL: Antenna inoperative", f.PreflightIssue)

	st := mustState(t, e)
	assert.Equal(t, DefaultStartingCash-25_000, st.Cash)
	assert.Equal(t, "walkaround_penalty", lastLedger(t, st).Category)
}

func TestStartFlightCriticalSnagRefused(t *testing.T) {
	e, _, _ := newTestEngine(t, withSnag(models.SeverityCritical, false))
	_, err := e.StartFlight(context.Background(), FlightRequest{
		AircraftID: "ac_snag", Route: "HOME-BOS", TicketPrice: 300, DurationHours: 1, AcceptFindings: true,
	})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestEndFlightSettlement(t *testing.T) {
	ctx := context.Background()
	st := newState()
	st.Company.Reputation = 50
	e, _, clk := newTestEngine(t, st, WithEngineRandom(fixedDraw(0.5)))
	ac := buy(t, e, "C337")

	f, err := e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1.5})
	require.NoError(t, err)
	clk.advance(90 * time.Minute)

	res, err := e.EndFlight(ctx, f.FlightID, nil)
	require.NoError(t, err)
	assert.Equal(t, 400, res.Revenue)
	assert.Equal(t, 30, res.Cost)
	assert.Zero(t, res.Penalty)
	// 2 of 5 seats at reputation 50 is neutral feedback.
	require.NotNil(t, res.PassengerFeedback)
	assert.Equal(t, "neutral", res.PassengerFeedback.Type)
	assert.Equal(t, 10, res.ReputationBonus)
	assert.Equal(t, (400-30+10)*NetEarningsMultiplier, res.Net)
	assert.Equal(t, "JFK", res.Location)
	assert.Contains(t, res.Reasons, "No owned parking at JFK; overnight fee may apply")
	assert.Contains(t, achievementIDs(res.NewAchievements), "first_flight")

	after := mustState(t, e)
	assert.Equal(t, 4_820_000+res.Net, after.Cash)
	assert.Empty(t, after.ActiveFlights)
	require.Len(t, after.CompletedFlights, 1)
	assert.Equal(t, 5, after.CompletedFlights[0].Capacity)

	plane := after.Fleet[0]
	assert.Equal(t, "JFK", plane.Location)
	assert.Equal(t, 1.5, plane.TotalHours)
	assert.Equal(t, 1.5, plane.HoursSinceCCheck)
	require.NotNil(t, plane.Oil)
	assert.InDelta(t, 24-1.5*oilBurnPerHour, plane.Oil.Level, 1e-9)
	assert.Equal(t, 1.5, plane.Oil.HoursSinceChange)

	entry := lastLedger(t, after)
	assert.Equal(t, "flight", entry.Category)
	assert.Equal(t, res.Net, entry.Amount)

	_, err = e.EndFlight(ctx, f.FlightID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEndFlightAnswersAndPilot(t *testing.T) {
	ctx := context.Background()
	st := newState()
	st.Company.Reputation = 50
	e, _, _ := newTestEngine(t, st, WithEngineRandom(fixedDraw(0.5)))
	ac := buy(t, e, "C337")
	p, err := e.HirePilot(ctx, HireRequest{Name: "Sam", SkillLevel: 3})
	require.NoError(t, err)
	require.NoError(t, e.AssignPilot(ctx, p.PilotID, ac.ID))

	f, err := e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1.5})
	require.NoError(t, err)
	assert.Equal(t, "Sam", f.PilotAssigned)
	assert.Equal(t, 1.0, f.PilotSkillBonus)

	fpm, dep := -150.0, 0.0
	res, err := e.EndFlight(ctx, f.FlightID, &FlightAnswers{TouchdownFPM: &fpm, DepartureTiming: &dep})
	require.NoError(t, err)
	// +2 landing, +1 on time, +1 pilot
	assert.Equal(t, 4.0, res.ReputationChange)
	assert.Equal(t, 54.0, res.NewReputation)
	assert.Equal(t, 50.0, res.OldReputation)

	after := mustState(t, e)
	assert.Equal(t, 54.0, after.Company.Reputation)
	assert.Equal(t, 1, after.Pilots[0].TotalFlights)
	assert.Equal(t, 400, after.Pilots[0].TotalRevenue)
}

func TestEndFlightOverdueCheckGrounds(t *testing.T) {
	ctx := context.Background()
	st := newState()
	ac := models.NewAircraft()
	ac.ID = "ac_old"
	ac.TypeCode = "B350"
	ac.HoursSinceCCheck = 4790
	st.Fleet = append(st.Fleet, ac)
	st.ActiveFlights = append(st.ActiveFlights, models.Flight{
		FlightID: "flight_1", AircraftID: "ac_old", Route: "HOME-BOS", Origin: "HOME", Dest: "BOS",
		DurationHours: 20, Passengers: 4, PaxRequested: 8, TicketPrice: 100, EtaTS: testNow.Unix(),
	})
	e, _, _ := newTestEngine(t, st, WithEngineRandom(fixedDraw(0.5)))

	res, err := e.EndFlight(ctx, "flight_1", nil)
	require.NoError(t, err)
	assert.True(t, res.Grounded)
	assert.Positive(t, res.Penalty)
	assert.Contains(t, res.Reasons, "Aircraft grounded: C Check critically overdue")
	require.NotNil(t, res.Reliability)
	assert.Less(t, *res.Reliability, 1.0)

	pf, err := e.PreflightCheck(ctx, "ac_old", 1)
	require.NoError(t, err)
	assert.True(t, pf.Failed)
	assert.Equal(t, models.SeverityCritical, pf.Severity)
}

func TestCancelFlight(t *testing.T) {
	ctx := context.Background()
	st := newState()
	st.Company.Reputation = 10
	e, _, _ := newTestEngine(t, st)
	ac := buy(t, e, "C337")
	f, err := e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1.5})
	require.NoError(t, err)

	c, err := e.CancelFlight(ctx, f.FlightID)
	require.NoError(t, err)
	assert.Equal(t, 40, c.RefundCost)
	assert.Equal(t, -1.0, c.ReputationPenalty)
	assert.Equal(t, 9.0, c.NewReputation)

	after := mustState(t, e)
	assert.Empty(t, after.ActiveFlights)
	assert.Equal(t, "HOME", after.Fleet[0].Location)
	assert.Equal(t, 4_820_000-40, after.Cash)
	assert.Empty(t, after.CompletedFlights)
}

func TestAutoCompleteDueFlights(t *testing.T) {
	ctx := context.Background()
	e, _, clk := newTestEngine(t, nil)
	a := buy(t, e, "C337")
	b := buy(t, e, "BE58")
	_, err := e.StartFlight(ctx, FlightRequest{AircraftID: a.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1})
	require.NoError(t, err)
	_, err = e.StartFlight(ctx, FlightRequest{AircraftID: b.ID, Route: "HOME-BOS", TicketPrice: 200, DurationHours: 3})
	require.NoError(t, err)

	clk.advance(2 * time.Hour)
	done, err := e.AutoCompleteDueFlights(ctx)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "HOME-JFK", done[0].Route)

	active, err := e.ActiveFlights(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].AircraftID)
}

func TestFlightManifest(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil, WithEngineRandom(fixedDraw(0.5)))
	ac := buy(t, e, "C337")
	empty, mzfw := 3000.0, 4400.0
	require.NoError(t, e.SetWeightLimits(ctx, ac.ID, WeightLimits{EmptyWeight: &empty, MaxZeroFuelWeight: &mzfw}))

	f, err := e.StartFlight(ctx, FlightRequest{AircraftID: ac.ID, Route: "HOME-JFK", TicketPrice: 200, DurationHours: 1.5})
	require.NoError(t, err)
	m, err := e.FlightManifest(ctx, f.FlightID)
	require.NoError(t, err)
	assert.Equal(t, 2, m.PassengerCount)
	// two passengers at 200 lb, cargo 85% of the 1000 lb headroom
	assert.Equal(t, 400.0, m.TotalPassengerWeight)
	assert.Equal(t, 850.0, m.CargoWeight)
	assert.Equal(t, 4250.0, m.ZeroFuelWeight)
	assert.True(t, m.WithinLimits)

	bad := -1.0
	assert.ErrorIs(t, e.SetWeightLimits(ctx, ac.ID, WeightLimits{MaxTakeoffWeight: &bad}), ErrInvalidInput)
}

func achievementIDs(as []Achievement) []string {
	ids := make([]string, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}
