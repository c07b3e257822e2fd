package game

import (
	"context"
	"fmt"

	"airline_sim/internal/models"
	"airline_sim/internal/num"
	"airline_sim/internal/rand"
)

const (
	fuelWalkStep = 0.05
	fuelMultMin  = 0.7
	fuelMultMax  = 1.5

	// aircraft above this many seats may not park overnight without owned
	// parking
	smallAircraftSeats = 19
	parkingFine        = 5_000
	parkingFeeMin      = 15
	parkingFeeMax      = 30
)

// TickSummary reports what one daily tick charged.
type TickSummary struct {
	Day                 int     `json:"day"`
	Penalties           int     `json:"penalties"`
	ParkingCharged      int     `json:"parking_charged"`
	LeasePayments       int     `json:"lease_payments"`
	LeasesExpired       int     `json:"leases_expired"`
	LoanPayments        int     `json:"loan_payments"`
	LoanPenalties       int     `json:"loan_penalties"`
	LoansPaidOff        int     `json:"loans_paid_off"`
	FuelPriceMultiplier float64 `json:"fuel_price_multiplier"`
}

// CatchUp is the result of AutoProcessDailyTicks.
type CatchUp struct {
	DaysProcessed  int  `json:"days_processed"`
	TotalPenalties int  `json:"total_penalties"`
	UpToDate       bool `json:"up_to_date"`
}

// RunDailyTick applies overnight parking charges, lease and loan payments
// and the fuel price walk. Parking and the fuel walk happen at most once
// per day, so running it twice on one day changes nothing the second time.
func (e *Engine) RunDailyTick(ctx context.Context) (TickSummary, error) {
	var out TickSummary
	err := e.update(ctx, "daily_tick", func(st *models.CompanyState) error {
		out = e.dailyTick(st)
		return nil
	})
	return out, err
}

// AutoProcessDailyTicks catches up on the days since the last tick. One
// tick suffices: payments count elapsed months, not ticks.
func (e *Engine) AutoProcessDailyTicks(ctx context.Context) (CatchUp, error) {
	var out CatchUp
	err := e.update(ctx, "catch_up", func(st *models.CompanyState) error {
		missed := e.Today() - st.LastDailyTickDay
		if missed <= 0 {
			out = CatchUp{UpToDate: true}
			return nil
		}
		sum := e.dailyTick(st)
		out = CatchUp{DaysProcessed: missed, TotalPenalties: sum.Penalties, UpToDate: true}
		e.lg.Info("caught up daily ticks", "days", missed, "penalties", sum.Penalties)
		return nil
	})
	return out, err
}

func (e *Engine) dailyTick(st *models.CompanyState) TickSummary {
	today := e.Today()
	sum := TickSummary{Day: today}

	// fuel moves once per day however often the tick runs
	if st.LastDailyTickDay != today {
		st.FuelPriceMultiplier = walkFuelPrice(e.rng, st.FuelPriceMultiplier)
	}
	sum.FuelPriceMultiplier = st.FuelPriceMultiplier
	st.LastDailyTickDay = today

	for i := range st.Fleet {
		if charged, ok := e.chargeParking(st, &st.Fleet[i], today); ok {
			sum.Penalties++
			sum.ParkingCharged += charged
		}
	}
	e.processLeases(st, today, &sum)
	e.processLoans(st, today, &sum)

	e.lg.Info("daily tick", "day", today, "penalties", sum.Penalties, "fuel", sum.FuelPriceMultiplier)
	return sum
}

func walkFuelPrice(src rand.Source, cur float64) float64 {
	return num.Clamp(cur+src.Uniform(-fuelWalkStep, fuelWalkStep), fuelMultMin, fuelMultMax)
}

// chargeParking bills one night at an airport without owned parking.
func (e *Engine) chargeParking(st *models.CompanyState, ac *models.Aircraft, today int) (int, bool) {
	loc := normalizeAirport(ac.Location)
	if loc == "" {
		loc = models.HomeBase
	}
	if ac.LastPenaltyDay == today || st.OwnsParking(loc) {
		return 0, false
	}
	ac.LastPenaltyDay = today
	ac.ParkingPenalties++
	if seats := seatCapacity(ac); seats > smallAircraftSeats {
		st.Cash -= parkingFine
		e.ledger(st, "parking_fine", -parkingFine,
			fmt.Sprintf("Parking violation: Aircraft with %d seats parked at %s without owned parking/hangar", seats, loc))
		return parkingFine, true
	}
	fee := rand.IntRange(e.rng, parkingFeeMin, parkingFeeMax)
	st.Cash -= fee
	e.ledger(st, "parking_fee", -fee, "Overnight parking fee at "+loc)
	return fee, true
}

func monthsElapsed(today, start int) int {
	return max(0, today-start) / daysPerMonth
}

// processLeases takes due monthly payments and drops leases past their
// term. The aircraft of an expired lease stays in the fleet.
func (e *Engine) processLeases(st *models.CompanyState, today int, sum *TickSummary) {
	active := st.Leases[:0]
	for _, l := range st.Leases {
		months := monthsElapsed(today, l.StartDate)
		if months+1 > l.TermMonths {
			sum.LeasesExpired++
			e.lg.Info("lease expired", "lease", l.LeaseID, "aircraft", l.AircraftID)
			continue
		}
		if l.LastPaymentMonth < months && st.Cash >= l.MonthlyPayment {
			st.Cash -= l.MonthlyPayment
			l.LastPaymentMonth = months
			sum.LeasePayments++
			e.ledger(st, "lease_payment", -l.MonthlyPayment, "Lease payment for "+l.AircraftID)
		}
		active = append(active, l)
	}
	st.Leases = active
}

// processLoans takes due monthly payments. A payment the company cannot
// cover adds a late fee to the balance instead.
func (e *Engine) processLoans(st *models.CompanyState, today int, sum *TickSummary) {
	active := st.Loans[:0]
	for _, l := range st.Loans {
		bank := l.BankName
		if bank == "" {
			bank = defaultBankName
		}
		months := monthsElapsed(today, l.StartDate)
		if l.LastPaymentMonth < months && l.RemainingBalance > 0 {
			pay := min(l.MonthlyPayment, l.RemainingBalance)
			if st.Cash >= pay {
				st.Cash -= pay
				l.RemainingBalance -= pay
				l.LastPaymentMonth = months
				sum.LoanPayments++
				e.ledger(st, "loan_payment", -pay, "Automatic loan payment to "+bank)
			} else {
				fee := int(float64(pay) * lateFeeRate)
				l.RemainingBalance += fee
				sum.LoanPenalties++
				e.ledger(st, "loan_penalty", 0, fmt.Sprintf("Late payment penalty for %s loan: %s added to balance", bank, money(fee)))
			}
		}
		if l.RemainingBalance <= 0 {
			sum.LoansPaidOff++
			e.ledger(st, "loan", 0, fmt.Sprintf("Loan from %s fully paid off", bank))
			continue
		}
		active = append(active, l)
	}
	st.Loans = active
}
