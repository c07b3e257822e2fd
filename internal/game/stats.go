package game

import (
	"cmp"
	"context"
	"slices"

	"airline_sim/internal/models"
	"airline_sim/internal/num"
)

const defaultStatsPeriodDays = 30

type RouteStats struct {
	Route      string `json:"route"`
	Flights    int    `json:"flights"`
	Revenue    int    `json:"revenue"`
	Cost       int    `json:"cost"`
	Net        int    `json:"net"`
	Passengers int    `json:"passengers"`
	Capacity   int    `json:"capacity"`
	// percent of seats filled
	AvgLoadFactor float64 `json:"avg_load_factor"`
}

// routeProfitability groups flights completed at or after cutoff by route,
// most profitable first.
func routeProfitability(flights []models.CompletedFlight, cutoff int64) []RouteStats {
	byRoute := map[string]*RouteStats{}
	var order []string
	for _, f := range flights {
		if f.Timestamp < cutoff {
			continue
		}
		route := f.Route
		if route == "" {
			route = "UNKNOWN"
		}
		s, ok := byRoute[route]
		if !ok {
			s = &RouteStats{Route: route}
			byRoute[route] = s
			order = append(order, route)
		}
		s.Flights++
		s.Revenue += f.Revenue
		s.Cost += f.Cost
		s.Passengers += f.Passengers
		s.Capacity += f.Capacity
	}

	out := make([]RouteStats, 0, len(order))
	for _, r := range order {
		s := byRoute[r]
		s.Net = s.Revenue - s.Cost
		if s.Capacity > 0 {
			s.AvgLoadFactor = num.Round1(float64(s.Passengers) / float64(s.Capacity) * 100)
		}
		out = append(out, *s)
	}
	slices.SortStableFunc(out, func(a, b RouteStats) int { return cmp.Compare(b.Net, a.Net) })
	return out
}

// RouteProfitability reports per-route results over the trailing period.
// A period of zero or less means 30 days.
func (e *Engine) RouteProfitability(ctx context.Context, periodDays int) ([]RouteStats, error) {
	if periodDays <= 0 {
		periodDays = defaultStatsPeriodDays
	}
	var out []RouteStats
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = routeProfitability(st.CompletedFlights, e.nowTS()-int64(periodDays)*secondsPerDay)
		return nil
	})
	return out, err
}

// Ledger returns the most recent entries first. A limit of zero or less
// returns everything kept.
func (e *Engine) Ledger(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	err := e.view(ctx, func(st *models.CompanyState) error {
		n := len(st.Ledger)
		if limit > 0 {
			n = min(n, limit)
		}
		out = make([]models.LedgerEntry, 0, n)
		for i := len(st.Ledger) - 1; i >= 0 && len(out) < n; i-- {
			out = append(out, st.Ledger[i])
		}
		return nil
	})
	return out, err
}
