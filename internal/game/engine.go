package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"airline_sim/internal/log"
	"airline_sim/internal/models"
	"airline_sim/internal/rand"
	"airline_sim/internal/store"
)

const (
	// DefaultStartingCash seeds a new company.
	DefaultStartingCash = 5_000_000

	secondsPerDay = 86400
	serviceWindow = 24 * 3600

	// generated day listings kept in memory
	marketCacheDays = 8
)

// Engine owns the economy rules. It keeps no game state between calls:
// each operation loads a snapshot from the repository, validates, mutates
// and saves it once.
type Engine struct {
	mu     sync.Mutex
	repo   store.Repository
	now    func() time.Time
	rng    rand.Source
	daily  func(day int) rand.Source
	lg     *log.Logger
	newID  func(prefix string) string
	market *lru.Cache[int, []models.Listing]
	leases *lru.Cache[int, []LeaseOption]
}

type Option func(*Engine)

// WithClock replaces the wall clock; the day index, seasonal demand and
// timestamps all derive from it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithEngineRandom replaces the gameplay random source.
func WithEngineRandom(src rand.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithMarketRandom replaces the day-seeded source behind listings, lease
// options and loan offers.
func WithMarketRandom(fn func(day int) rand.Source) Option {
	return func(e *Engine) { e.daily = fn }
}

func WithLogger(lg *log.Logger) Option {
	return func(e *Engine) { e.lg = lg }
}

func New(repo store.Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:  repo,
		now:   time.Now,
		rng:   rand.EngineRandom(),
		daily: marketRandom,
		newID: newID,
	}
	e.market, _ = lru.New[int, []models.Listing](marketCacheDays)
	e.leases, _ = lru.New[int, []LeaseOption](marketCacheDays)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// update runs fn against a fresh snapshot and commits it if fn succeeds.
// fn must report validation failures before mutating; a failed fn is
// never saved either way.
func (e *Engine) update(ctx context.Context, op string, fn func(st *models.CompanyState) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if err := fn(st); err != nil {
		e.lg.Debug("rejected", "op", op, "error", err)
		return err
	}
	if err := e.repo.Save(ctx, st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	e.lg.Debug("committed", "op", op, "cash", st.Cash)
	return nil
}

// view runs fn against a snapshot that is discarded afterwards.
func (e *Engine) view(ctx context.Context, fn func(st *models.CompanyState) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	return fn(st)
}

func (e *Engine) nowTS() int64 {
	return e.now().Unix()
}

// Today is the integer day index (days since the Unix epoch).
func (e *Engine) Today() int {
	return dayIndex(e.now())
}

func dayIndex(t time.Time) int {
	return int(t.Unix() / secondsPerDay)
}

func marketRandom(day int) rand.Source {
	return rand.MarketRandom(day)
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (e *Engine) ledger(st *models.CompanyState, category string, amount int, note string) {
	st.AddLedger(e.nowTS(), category, amount, note)
}

func normalizeAirport(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func findAircraft(st *models.CompanyState, id string) (*models.Aircraft, error) {
	_, ac := st.FindAircraft(id)
	if ac == nil {
		return nil, notFound("aircraft %s not found", id)
	}
	return ac, nil
}

// State returns a copy of the whole document.
func (e *Engine) State(ctx context.Context) (*models.CompanyState, error) {
	var out *models.CompanyState
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = st
		return nil
	})
	return out, err
}

type CompanyInfo struct {
	Name       string  `json:"name"`
	Reputation float64 `json:"reputation"`
	Cash       int     `json:"cash"`
	FleetSize  int     `json:"fleet_size"`
	Debt       int     `json:"debt"`
}

func (e *Engine) Company(ctx context.Context) (CompanyInfo, error) {
	var info CompanyInfo
	err := e.view(ctx, func(st *models.CompanyState) error {
		info = CompanyInfo{
			Name:       st.Company.Name,
			Reputation: st.Company.Reputation,
			Cash:       st.Cash,
			FleetSize:  len(st.Fleet),
			Debt:       st.TotalDebt(),
		}
		return nil
	})
	return info, err
}

// SetupCompany starts a new game, replacing whatever was saved.
func (e *Engine) SetupCompany(ctx context.Context, name string, startingCash int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("company name is required")
	}
	if startingCash < 0 {
		return invalid("starting cash must not be negative")
	}
	return e.update(ctx, "setup_company", func(st *models.CompanyState) error {
		*st = *models.NewCompanyState()
		st.Company.Name = name
		st.Cash = startingCash
		st.LastDailyTickDay = e.Today()
		e.lg.Info("company created", "name", name, "cash", startingCash)
		return nil
	})
}
