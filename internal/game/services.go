package game

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"lukechampine.com/blake3"

	"airline_sim/internal/catalog"
	"airline_sim/internal/models"
	"airline_sim/internal/num"
)

const (
	baseFuelPerLitre  = 0.75
	baseFuelPerGallon = 2.85
	litresPerGallon   = 3.78541

	UnitLitres  = "litres"
	UnitGallons = "gallons"
)

type Service struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BaseCost    int    `json:"base_cost"`
	CostPerHour int    `json:"cost_per_hour"`
}

var services = []Service{
	{ServiceRefueling, "Refueling", "Purchase fuel in litres or gallons. Prices vary by airport location.", 0, 0},
	{ServiceDeicing, "De-icing", "De-ice aircraft to prevent delays and safety issues in winter conditions.", 500, 50},
	{ServiceCatering, "Catering", "Food and beverage service. Increases passenger satisfaction and demand.", 800, 100},
	{ServiceGroundPower, "Ground Power Unit", "External power supply. Reduces operating costs by saving APU fuel.", 300, 30},
	{ServiceLavatory, "Lavatory Service", "Restroom servicing and maintenance for passenger comfort.", 200, 20},
	{ServiceWater, "Water Service", "Fresh water supply for aircraft systems and passenger use.", 150, 15},
	{ServiceCleaning, "Cleaning", "Aircraft interior cleaning. Improves passenger satisfaction and demand.", 400, 40},
	{ServiceLivery, "Livery Painting", "Custom paint job and livery design. Improves brand recognition and passenger appeal.", 50_000, 0},
}

func lookupService(kind string) (Service, bool) {
	for _, s := range services {
		if s.Type == kind {
			return s, true
		}
	}
	return Service{}, false
}

// Services lists the airport services on offer.
func Services() []Service {
	return append([]Service(nil), services...)
}

type FuelPrices struct {
	Airport        string  `json:"airport"`
	PricePerLitre  float64 `json:"price_per_litre"`
	PricePerGallon float64 `json:"price_per_gallon"`
}

// FuelPricesAt is deterministic per airport code: a hash of the code moves
// the base price by up to 20% either way.
func FuelPricesAt(airport string) FuelPrices {
	code := normalizeAirport(airport)
	sum := blake3.Sum256([]byte(code))
	h := binary.BigEndian.Uint32(sum[:4])
	variation := float64(h%4000)/10000 - 0.2
	return FuelPrices{
		Airport:        code,
		PricePerLitre:  num.Round2(baseFuelPerLitre * (1 + variation)),
		PricePerGallon: num.Round2(baseFuelPerGallon * (1 + variation)),
	}
}

type ServiceRequest struct {
	Service string `json:"service"`
	// Quantity and Unit apply to refueling only.
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// serviceCost prices a non-fuel service for an aircraft type.
func serviceCost(svc Service, typeCode string) int {
	if svc.CostPerHour == 0 {
		return svc.BaseCost
	}
	return int(float64(svc.BaseCost) + float64(svc.CostPerHour)*catalog.HourlyCost(typeCode)/100)
}

// PurchaseService buys an airport service for an aircraft at its current
// location and returns the cost.
func (e *Engine) PurchaseService(ctx context.Context, aircraftID string, req ServiceRequest) (int, error) {
	svc, ok := lookupService(req.Service)
	if !ok {
		return 0, invalid("unknown service type: %s", req.Service)
	}
	unit := strings.ToLower(strings.TrimSpace(req.Unit))
	if svc.Type == ServiceRefueling {
		if req.Quantity <= 0 {
			return 0, invalid("quantity must be greater than 0 for refueling")
		}
		switch unit {
		case "":
			unit = UnitLitres
		case UnitLitres, UnitGallons:
		default:
			return 0, invalid("unknown fuel unit %q", req.Unit)
		}
	}

	var cost int
	err := e.update(ctx, "airport_service", func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		loc := ac.Location
		if loc == "" {
			loc = models.HomeBase
		}
		now := e.nowTS()
		rec := models.ServiceRecord{Timestamp: now}
		note := fmt.Sprintf("%s for %s", svc.Name, ac.ID)

		switch svc.Type {
		case ServiceRefueling:
			prices := FuelPricesAt(loc)
			price, litres := prices.PricePerLitre, req.Quantity
			if unit == UnitGallons {
				price, litres = prices.PricePerGallon, req.Quantity*litresPerGallon
			}
			cost = int(req.Quantity * price)
			rec.Quantity, rec.Unit = litres, unit
			note = fmt.Sprintf("%s %s %s for %s", svc.Name, humanize.Comma(int64(req.Quantity+0.5)), unit, ac.ID)
		default:
			cost = serviceCost(svc, ac.TypeCode)
		}
		if err := requireCash(st.Cash, cost, svc.Name); err != nil {
			return err
		}

		st.Cash -= cost
		e.ledger(st, "airport_service", -cost, note+" at "+loc)
		if svc.Type == ServiceLivery {
			name := st.Company.Name
			if name == "" {
				name = "Airline"
			}
			ac.Livery = &models.Livery{
				Name:             name + " Livery",
				PaintedDate:      e.now().UTC().Format(time.DateOnly),
				PaintedTimestamp: now,
			}
		}
		if ac.LastServices == nil {
			ac.LastServices = map[string]models.ServiceRecord{}
		}
		ac.LastServices[svc.Type] = rec
		return nil
	})
	return cost, err
}

// AircraftServices returns the last purchase of each service for an
// aircraft.
func (e *Engine) AircraftServices(ctx context.Context, aircraftID string) (map[string]models.ServiceRecord, error) {
	var out map[string]models.ServiceRecord
	err := e.view(ctx, func(st *models.CompanyState) error {
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		out = ac.LastServices
		if out == nil {
			out = map[string]models.ServiceRecord{}
		}
		return nil
	})
	return out, err
}
