package store

import (
	"context"
	"sync"

	"github.com/brunoga/deep"

	"airline_sim/internal/models"
)

// Memory keeps the document in process. Load and Save copy, so callers
// never share a snapshot with the store.
type Memory struct {
	mu      sync.Mutex
	state   *models.CompanyState
	saves   int
	evicted models.Evicted
}

func NewMemory(st *models.CompanyState) *Memory {
	if st == nil {
		st = models.NewCompanyState()
	}
	return &Memory{state: deep.MustCopy(st)}
}

func (m *Memory) Load(ctx context.Context) (*models.CompanyState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return deep.Copy(m.state)
}

func (m *Memory) Save(ctx context.Context, st *models.CompanyState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp, err := deep.Copy(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evicted.Ledger = append(m.evicted.Ledger, st.Evicted.Ledger...)
	m.evicted.Flights = append(m.evicted.Flights, st.Evicted.Flights...)
	cp.Evicted = models.Evicted{}
	st.Evicted = models.Evicted{}
	m.state = cp
	m.saves++
	return nil
}

// Saves counts successful commits.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Evicted returns everything pushed out of the ring buffers so far.
func (m *Memory) Evicted() models.Evicted {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evicted
}
