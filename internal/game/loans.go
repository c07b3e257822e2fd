package game

import (
	"context"
	"math"
	"sort"
	"strings"

	"airline_sim/internal/catalog"
	"airline_sim/internal/models"
	"airline_sim/internal/num"
	"airline_sim/internal/rand"
)

const (
	minLoanCap         = 10_000
	maxLoanCap         = 50_000_000
	lateFeeRate        = 0.05
	daysPerMonth       = 30
	defaultBankName    = "Unknown Bank"
	eliteMinReputation = 60
)

// AmortizedPayment is the fixed monthly payment that repays principal
// over term months at the given APR.
func AmortizedPayment(principal int, apr float64, term int) int {
	if term <= 0 {
		return principal
	}
	r := apr / 12
	if r == 0 {
		return principal / term
	}
	f := math.Pow(1+r, float64(term))
	return int(float64(principal) * (r * f) / (f - 1))
}

func fleetValue(st *models.CompanyState) int {
	total := 0
	for _, ac := range st.Fleet {
		t, ok := catalog.Lookup(ac.TypeCode)
		if !ok {
			continue
		}
		dep := math.Min(0.5, ac.TotalHours/10000)
		total += int(float64(t.Price) * (1 - dep))
	}
	return total
}

// maxLoanAmount is the credit still available to the company.
func maxLoanAmount(st *models.CompanyState) int {
	repMult := 0.5 + st.Company.Reputation/100*1.5
	limit := int(float64(st.Cash*5+int(float64(fleetValue(st))*0.5)) * repMult)
	available := max(0, limit-st.TotalDebt())
	return num.Clamp(available, minLoanCap, maxLoanCap)
}

// loanHeadroom is the most a new loan may borrow: the credit limit less
// the debt already outstanding.
func loanHeadroom(st *models.CompanyState) int {
	return max(0, maxLoanAmount(st)-st.TotalDebt())
}

// MaxLoanAmount reports the largest principal TakeLoan would accept.
func (e *Engine) MaxLoanAmount(ctx context.Context) (int, error) {
	var out int
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = loanHeadroom(st)
		return nil
	})
	return out, err
}

type bank struct {
	name          string
	rateLo        float64
	rateHi        float64
	maxMultiplier float64
	terms         []int
	description   string
	minReputation float64
}

var banks = []bank{
	{name: "First National Bank", rateLo: 0.05, rateHi: 0.07, maxMultiplier: 1.0,
		terms: []int{12, 24, 36, 48, 60}, description: "Conservative bank, good rates for established companies"},
	{name: "Skyline Commercial Credit", rateLo: 0.06, rateHi: 0.08, maxMultiplier: 1.2,
		terms: []int{12, 24, 36, 48, 60, 72}, description: "Aviation-focused lender, higher limits"},
	{name: "Startup Capital Partners", rateLo: 0.08, rateHi: 0.12, maxMultiplier: 1.5,
		terms: []int{6, 12, 18, 24, 36}, description: "Higher rates but more flexible for new companies"},
	{name: "Elite Business Banking", rateLo: 0.04, rateHi: 0.06, maxMultiplier: 0.8,
		terms: []int{24, 36, 48, 60, 84}, description: "Premium rates for high-reputation companies (requires 60+ rep)",
		minReputation: eliteMinReputation},
}

type LoanOffer struct {
	BankName        string  `json:"bank_name"`
	MaxAmount       int     `json:"max_amount"`
	InterestRateAPR float64 `json:"interest_rate_apr"`
	TermMonths      int     `json:"term_months"`
	MonthlyPayment  int     `json:"monthly_payment"`
	Description     string  `json:"description"`
}

// loanOffers derives the day's offers from the day-seeded source r. The
// same day, reputation and credit limit always give the same offers.
func loanOffers(r rand.Source, reputation float64, maxLoan int) []LoanOffer {
	var offers []LoanOffer
	for _, b := range banks {
		if reputation < b.minReputation {
			continue
		}
		repFactor := 1 - reputation/100*0.3
		rate := b.rateLo + (b.rateHi-b.rateLo)*repFactor*r.Uniform(0.9, 1.1)
		rate = num.Clamp(rate, b.rateLo, b.rateHi)

		bankMax := num.Clamp(int(float64(maxLoan)*b.maxMultiplier), minLoanCap, maxLoanCap)
		for _, term := range b.terms {
			termRate := rate * (1 + float64(term)/60*0.05)
			offers = append(offers, LoanOffer{
				BankName:        b.name,
				MaxAmount:       bankMax,
				InterestRateAPR: termRate,
				TermMonths:      term,
				MonthlyPayment:  AmortizedPayment(bankMax, termRate, term),
				Description:     b.description,
			})
		}
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].InterestRateAPR < offers[j].InterestRateAPR
	})
	return offers
}

func (e *Engine) LoanOffers(ctx context.Context) ([]LoanOffer, error) {
	var out []LoanOffer
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = loanOffers(e.daily(e.Today()), st.Company.Reputation, loanHeadroom(st))
		return nil
	})
	return out, err
}

type LoanRequest struct {
	Principal       int     `json:"principal"`
	InterestRateAPR float64 `json:"interest_rate_apr"`
	TermMonths      int     `json:"term_months"`
	BankName        string  `json:"bank_name"`
}

func (e *Engine) TakeLoan(ctx context.Context, req LoanRequest) (*models.Loan, error) {
	if req.Principal <= 0 {
		return nil, invalid("principal must be positive")
	}
	if req.TermMonths <= 0 {
		return nil, invalid("term must be at least one month")
	}
	if req.InterestRateAPR < 0 || req.InterestRateAPR > 1 {
		return nil, invalid("interest rate %.4f out of range", req.InterestRateAPR)
	}
	bankName := strings.TrimSpace(req.BankName)
	if bankName == "" {
		bankName = defaultBankName
	}

	var loan models.Loan
	err := e.update(ctx, "take_loan", func(st *models.CompanyState) error {
		if available := loanHeadroom(st); req.Principal > available {
			return precondition("loan amount exceeds available credit, maximum available: %s", money(available))
		}
		loan = models.Loan{
			LoanID:           e.newID("loan"),
			Principal:        req.Principal,
			InterestRateAPR:  req.InterestRateAPR,
			TermMonths:       req.TermMonths,
			MonthlyPayment:   AmortizedPayment(req.Principal, req.InterestRateAPR, req.TermMonths),
			RemainingBalance: req.Principal,
			StartDate:        e.Today(),
			BankName:         bankName,
		}
		st.Loans = append(st.Loans, loan)
		st.Cash += req.Principal
		e.ledger(st, "loan", req.Principal, "Loan from "+bankName+" ("+money(req.Principal)+")")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// RepayLoan pays amount towards a loan, or one monthly payment when amount
// is zero. Payments beyond the balance are capped.
func (e *Engine) RepayLoan(ctx context.Context, loanID string, amount int) (*models.Loan, error) {
	if amount < 0 {
		return nil, invalid("repayment amount must be positive")
	}
	var out models.Loan
	err := e.update(ctx, "repay_loan", func(st *models.CompanyState) error {
		idx, loan := st.FindLoan(loanID)
		if loan == nil {
			return notFound("loan %s not found", loanID)
		}
		pay := amount
		if pay == 0 {
			pay = loan.MonthlyPayment
		}
		pay = min(pay, loan.RemainingBalance)
		if pay <= 0 {
			return invalid("repayment amount must be positive")
		}
		if err := requireCash(st.Cash, pay, "loan repayment"); err != nil {
			return err
		}
		st.Cash -= pay
		loan.RemainingBalance -= pay
		out = *loan
		e.ledger(st, "loan_payment", -pay, "Repayment to "+loan.BankName)
		if loan.RemainingBalance <= 0 {
			st.Loans = append(st.Loans[:idx], st.Loans[idx+1:]...)
			e.ledger(st, "loan", 0, "Loan from "+out.BankName+" fully paid off")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *Engine) Loans(ctx context.Context) ([]models.Loan, error) {
	var out []models.Loan
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = st.Loans
		return nil
	})
	return out, err
}
