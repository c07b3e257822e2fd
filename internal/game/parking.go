package game

import (
	"context"
	"fmt"
	"strings"

	"airline_sim/internal/models"
)

const (
	spotPrice   = 100_000
	hangarPrice = 750_000
)

type ParkingRequest struct {
	Airport string `json:"airport"`
	Spots   int    `json:"spots"`
	Hangars int    `json:"hangars"`
	// Optional names; when given their count must match.
	SpotNames   []string `json:"spot_names,omitempty"`
	HangarNames []string `json:"hangar_names,omitempty"`
}

func defaultNames(prefix string, existing, n int) []string {
	names := make([]string, n)
	for i := range n {
		names[i] = fmt.Sprintf("%s %d", prefix, existing+i+1)
	}
	return names
}

// BuyParking adds named spots and hangars at an airport.
func (e *Engine) BuyParking(ctx context.Context, req ParkingRequest) (int, error) {
	airport := normalizeAirport(req.Airport)
	switch {
	case airport == "":
		return 0, invalid("airport code required")
	case req.Spots < 0 || req.Hangars < 0:
		return 0, invalid("cannot buy negative quantities")
	case req.Spots == 0 && req.Hangars == 0:
		return 0, invalid("nothing to buy")
	case req.SpotNames != nil && len(req.SpotNames) != req.Spots:
		return 0, invalid("number of spot names must match number of spots")
	case req.HangarNames != nil && len(req.HangarNames) != req.Hangars:
		return 0, invalid("number of hangar names must match number of hangars")
	}

	cost := req.Spots*spotPrice + req.Hangars*hangarPrice
	err := e.update(ctx, "buy_parking", func(st *models.CompanyState) error {
		if err := requireCash(st.Cash, cost, "parking"); err != nil {
			return err
		}
		info := st.Parking[airport]
		spots := req.SpotNames
		if spots == nil {
			spots = defaultNames("Spot", len(info.Spots), req.Spots)
		}
		hangars := req.HangarNames
		if hangars == nil {
			hangars = defaultNames("Hangar", len(info.Hangars), req.Hangars)
		}
		for _, n := range spots {
			info.Spots = append(info.Spots, models.Spot{Name: n})
		}
		for _, n := range hangars {
			info.Hangars = append(info.Hangars, models.Hangar{Name: n})
		}
		st.Parking[airport] = info
		st.Cash -= cost

		note := fmt.Sprintf("Parking %s +%d spots +%d hangars", airport, req.Spots, req.Hangars)
		var parts []string
		if len(spots) > 0 {
			parts = append(parts, "spots: "+strings.Join(spots, ", "))
		}
		if len(hangars) > 0 {
			parts = append(parts, "hangars: "+strings.Join(hangars, ", "))
		}
		if len(parts) > 0 {
			note += " (" + strings.Join(parts, ", ") + ")"
		}
		e.ledger(st, "parking", -cost, note)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cost, nil
}

func (e *Engine) Parking(ctx context.Context) (map[string]models.Parking, error) {
	var out map[string]models.Parking
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = st.Parking
		return nil
	})
	return out, err
}

// hasHangar reports whether the company owns a hangar at airport.
func hasHangar(st *models.CompanyState, airport string) bool {
	return len(st.Parking[normalizeAirport(airport)].Hangars) > 0
}
