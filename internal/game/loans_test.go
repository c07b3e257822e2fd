package game

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_sim/internal/rand"
)

func TestAmortizedPayment(t *testing.T) {
	assert.Equal(t, 10_000, AmortizedPayment(120_000, 0, 12))
	assert.InDelta(t, 8606, AmortizedPayment(100_000, 0.06, 12), 1)
	assert.Equal(t, 5_000, AmortizedPayment(5_000, 0.1, 0))

	// twelve payments repay the principal plus interest
	pay := AmortizedPayment(100_000, 0.06, 12)
	balance := 100_000.0
	for range 12 {
		balance = balance*(1+0.06/12) - float64(pay)
	}
	assert.InDelta(t, 0, balance, 15)
}

func TestMaxLoanAmount(t *testing.T) {
	st := newState()
	// cash*5 halved at zero reputation
	assert.Equal(t, 12_500_000, maxLoanAmount(st))

	st.Company.Reputation = 100
	assert.Equal(t, 50_000_000, maxLoanAmount(st))

	st.Cash = 0
	assert.Equal(t, minLoanCap, maxLoanAmount(st))
}

func TestLoanOverLimitLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	e, repo, _ := newTestEngine(t, nil)
	saves := repo.Saves()

	_, err := e.TakeLoan(ctx, LoanRequest{Principal: 12_500_001, InterestRateAPR: 0.05, TermMonths: 12})
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Contains(t, err.Error(), "$12,500,000")

	st := mustState(t, e)
	assert.Equal(t, DefaultStartingCash, st.Cash)
	assert.Empty(t, st.Loans)
	assert.Equal(t, saves, repo.Saves())
}

func TestTakeLoanReducesCredit(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)

	loan, err := e.TakeLoan(ctx, LoanRequest{Principal: 2_000_000, InterestRateAPR: 0.05, TermMonths: 24, BankName: " "})
	require.NoError(t, err)
	assert.Equal(t, defaultBankName, loan.BankName)
	assert.Equal(t, 2_000_000, loan.RemainingBalance)
	assert.Equal(t, e.Today(), loan.StartDate)

	st := mustState(t, e)
	assert.Equal(t, 7_000_000, st.Cash)
	assert.Equal(t, "loan", lastLedger(t, st).Category)

	avail, err := e.MaxLoanAmount(ctx)
	require.NoError(t, err)
	// debt counts against the limit and again against the headroom
	assert.Equal(t, 17_500_000-2*2_000_000, avail)
}

func TestLoanOverHeadroomWithExistingDebt(t *testing.T) {
	ctx := context.Background()
	e, repo, _ := newTestEngine(t, nil)
	_, err := e.TakeLoan(ctx, LoanRequest{Principal: 2_000_000, InterestRateAPR: 0.05, TermMonths: 24})
	require.NoError(t, err)

	st := mustState(t, e)
	headroom := maxLoanAmount(st) - st.TotalDebt()
	assert.Equal(t, 13_500_000, headroom)
	saves := repo.Saves()

	_, err = e.TakeLoan(ctx, LoanRequest{Principal: headroom + 1, InterestRateAPR: 0.05, TermMonths: 24})
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Contains(t, err.Error(), "$13,500,000")

	after := mustState(t, e)
	assert.Equal(t, st.Cash, after.Cash)
	assert.Len(t, after.Loans, 1)
	assert.Equal(t, saves, repo.Saves())

	offers, err := e.LoanOffers(ctx)
	require.NoError(t, err)
	for _, o := range offers {
		if o.BankName == "First National Bank" {
			assert.Equal(t, headroom, o.MaxAmount)
		}
	}

	_, err = e.TakeLoan(ctx, LoanRequest{Principal: headroom, InterestRateAPR: 0.05, TermMonths: 24})
	require.NoError(t, err)
}

func TestTakeLoanValidation(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)

	for _, req := range []LoanRequest{
		{Principal: 0, TermMonths: 12},
		{Principal: 1000, TermMonths: 0},
		{Principal: 1000, TermMonths: 12, InterestRateAPR: 1.5},
	} {
		_, err := e.TakeLoan(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRepayLoan(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	loan, err := e.TakeLoan(ctx, LoanRequest{Principal: 120_000, TermMonths: 12, BankName: "Test Bank"})
	require.NoError(t, err)
	assert.Equal(t, 10_000, loan.MonthlyPayment)

	after, err := e.RepayLoan(ctx, loan.LoanID, 0)
	require.NoError(t, err)
	assert.Equal(t, 110_000, after.RemainingBalance)

	after, err = e.RepayLoan(ctx, loan.LoanID, 1_000_000)
	require.NoError(t, err)
	assert.Zero(t, after.RemainingBalance)

	st := mustState(t, e)
	assert.Empty(t, st.Loans)
	assert.Equal(t, DefaultStartingCash, st.Cash)
	assert.Equal(t, "Loan from Test Bank fully paid off", lastLedger(t, st).Note)

	_, err = e.RepayLoan(ctx, loan.LoanID, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.RepayLoan(ctx, loan.LoanID, -5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoanOffers(t *testing.T) {
	offers := loanOffers(rand.New(7), 50, 1_000_000)
	assert.Equal(t, offers, loanOffers(rand.New(7), 50, 1_000_000))
	assert.True(t, sort.SliceIsSorted(offers, func(i, j int) bool {
		return offers[i].InterestRateAPR < offers[j].InterestRateAPR
	}))
	for _, o := range offers {
		assert.NotEqual(t, "Elite Business Banking", o.BankName)
		assert.Positive(t, o.MonthlyPayment)
	}

	elite := 0
	for _, o := range loanOffers(rand.New(7), eliteMinReputation, 1_000_000) {
		if o.BankName == "Elite Business Banking" {
			elite++
			assert.Equal(t, 800_000, o.MaxAmount)
		}
	}
	assert.Equal(t, 5, elite)
}

func TestLoanOffersStableWithinDay(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	a, err := e.LoanOffers(ctx)
	require.NoError(t, err)
	b, err := e.LoanOffers(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}
