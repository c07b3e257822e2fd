// Package history is a SQLite reporting database fed from the save
// document. The document only keeps the most recent ledger entries and
// flights; history keeps all of them.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"airline_sim/internal/log"
	"airline_sim/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	category TEXT NOT NULL,
	amount INTEGER NOT NULL,
	note TEXT NOT NULL,
	UNIQUE (ts, category, amount, note)
);
CREATE TABLE IF NOT EXISTS flights (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	flight_id TEXT NOT NULL,
	aircraft_id TEXT NOT NULL,
	route TEXT NOT NULL,
	revenue INTEGER NOT NULL,
	cost INTEGER NOT NULL,
	passengers INTEGER NOT NULL,
	capacity INTEGER NOT NULL,
	UNIQUE (ts, flight_id, route)
);
CREATE INDEX IF NOT EXISTS flights_route ON flights (route);
`

type DB struct {
	db *sql.DB
	lg *log.Logger
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, lg *log.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one writer; sqlite serialises anyway
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &DB{db: db, lg: lg}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Counts is the number of rows an export added.
type Counts struct {
	Ledger  int `json:"ledger"`
	Flights int `json:"flights"`
}

// Export writes the archived entries and then those still in the document.
// Rows already present are skipped, so exporting the same save twice adds
// nothing.
func (d *DB) Export(ctx context.Context, st *models.CompanyState, archived models.Evicted) (Counts, error) {
	var c Counts
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return c, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	ledger := append(append([]models.LedgerEntry(nil), archived.Ledger...), st.Ledger...)
	flights := append(append([]models.CompletedFlight(nil), archived.Flights...), st.CompletedFlights...)

	insLedger, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO ledger (ts, category, amount, note) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return c, fmt.Errorf("prepare ledger insert: %w", err)
	}
	defer insLedger.Close()
	for _, e := range ledger {
		res, err := insLedger.ExecContext(ctx, e.TS, e.Category, e.Amount, e.Note)
		if err != nil {
			return c, fmt.Errorf("insert ledger entry: %w", err)
		}
		c.Ledger += affected(res)
	}

	insFlight, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO flights (ts, flight_id, aircraft_id, route, revenue, cost, passengers, capacity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return c, fmt.Errorf("prepare flight insert: %w", err)
	}
	defer insFlight.Close()
	for _, f := range flights {
		res, err := insFlight.ExecContext(ctx, f.Timestamp, f.FlightID, f.AircraftID, f.Route,
			f.Revenue, f.Cost, f.Passengers, f.Capacity)
		if err != nil {
			return c, fmt.Errorf("insert flight: %w", err)
		}
		c.Flights += affected(res)
	}

	if err := tx.Commit(); err != nil {
		return c, fmt.Errorf("commit export: %w", err)
	}
	d.lg.Info("history exported", "ledger", c.Ledger, "flights", c.Flights)
	return c, nil
}

func affected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}

type RouteTotal struct {
	Route      string `json:"route"`
	Flights    int    `json:"flights"`
	Revenue    int    `json:"revenue"`
	Cost       int    `json:"cost"`
	Passengers int    `json:"passengers"`
	Capacity   int    `json:"capacity"`
}

func (r RouteTotal) Net() int { return r.Revenue - r.Cost }

// RouteTotals sums every recorded flight by route, most profitable first.
func (d *DB) RouteTotals(ctx context.Context) ([]RouteTotal, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT route, COUNT(*), SUM(revenue), SUM(cost), SUM(passengers), SUM(capacity)
		FROM flights
		GROUP BY route
		ORDER BY SUM(revenue) - SUM(cost) DESC, route`)
	if err != nil {
		return nil, fmt.Errorf("query route totals: %w", err)
	}
	defer rows.Close()

	var out []RouteTotal
	for rows.Next() {
		var t RouteTotal
		if err := rows.Scan(&t.Route, &t.Flights, &t.Revenue, &t.Cost, &t.Passengers, &t.Capacity); err != nil {
			return nil, fmt.Errorf("scan route total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CategoryTotals sums ledger amounts by category.
func (d *DB) CategoryTotals(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT category, SUM(amount) FROM ledger GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("query category totals: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var cat string
		var sum int
		if err := rows.Scan(&cat, &sum); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out[cat] = sum
	}
	return out, rows.Err()
}
