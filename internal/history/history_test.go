package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_sim/internal/log"
	"airline_sim/internal/models"
)

func sample() (*models.CompanyState, models.Evicted) {
	st := models.NewCompanyState()
	st.AddLedger(100, "purchase", -180_000, "Bought C337")
	st.AddLedger(200, "flight", 1_140, "HOME-JFK net; penalties: none")
	st.CompletedFlights = []models.CompletedFlight{
		{Timestamp: 200, FlightID: "flight_b", AircraftID: "ac_1", Route: "HOME-JFK", Revenue: 400, Cost: 30, Passengers: 2, Capacity: 5},
		{Timestamp: 300, FlightID: "flight_c", AircraftID: "ac_1", Route: "JFK-BOS", Revenue: 100, Cost: 90, Passengers: 1, Capacity: 5},
	}
	archived := models.Evicted{
		Ledger:  []models.LedgerEntry{{TS: 50, Category: "loan", Amount: 1_000_000, Note: "Loan from First National Bank"}},
		Flights: []models.CompletedFlight{{Timestamp: 150, FlightID: "flight_a", AircraftID: "ac_1", Route: "HOME-JFK", Revenue: 500, Cost: 30, Passengers: 3, Capacity: 5}},
	}
	return st, archived
}

func TestExportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "db", "history.db"), log.Discard())
	require.NoError(t, err)
	defer db.Close()

	st, archived := sample()
	c, err := db.Export(ctx, st, archived)
	require.NoError(t, err)
	assert.Equal(t, Counts{Ledger: 3, Flights: 3}, c)

	c, err = db.Export(ctx, st, archived)
	require.NoError(t, err)
	assert.Zero(t, c.Ledger)
	assert.Zero(t, c.Flights)
}

func TestRouteTotals(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"), log.Discard())
	require.NoError(t, err)
	defer db.Close()

	st, archived := sample()
	_, err = db.Export(ctx, st, archived)
	require.NoError(t, err)

	totals, err := db.RouteTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, RouteTotal{Route: "HOME-JFK", Flights: 2, Revenue: 900, Cost: 60, Passengers: 5, Capacity: 10}, totals[0])
	assert.Equal(t, 840, totals[0].Net())
	assert.Equal(t, "JFK-BOS", totals[1].Route)

	cats, err := db.CategoryTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"purchase": -180_000, "flight": 1_140, "loan": 1_000_000}, cats)
}

func TestReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := Open(ctx, path, log.Discard())
	require.NoError(t, err)
	st, archived := sample()
	_, err = db.Export(ctx, st, archived)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, path, log.Discard())
	require.NoError(t, err)
	defer db.Close()
	totals, err := db.RouteTotals(ctx)
	require.NoError(t, err)
	assert.Len(t, totals, 2)
}
