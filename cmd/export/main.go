// Command export copies the ledger and flight history of a save, including
// any archived entries, into a SQLite database and prints route totals.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"airline_sim/internal/history"
	"airline_sim/internal/log"
	"airline_sim/internal/models"
	"airline_sim/internal/store"
)

func main() {
	savePath := flag.String("save", "data/savegame.json", "save document path")
	archive := flag.String("archive", "", "archive directory written by the server")
	dbPath := flag.String("db", "data/history.db", "SQLite database path")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	if err := run(context.Background(), *savePath, *archive, *dbPath, log.NewWriter(os.Stderr, *logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, savePath, archiveDir, dbPath string, lg *log.Logger) error {
	st, err := store.NewFile(savePath, store.WithLogger(lg)).Load(ctx)
	if err != nil {
		return err
	}
	var archived models.Evicted
	if archiveDir != "" {
		if archived, err = store.ReadArchive(archiveDir); err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
	}

	db, err := history.Open(ctx, dbPath, lg)
	if err != nil {
		return err
	}
	defer db.Close()

	added, err := db.Export(ctx, st, archived)
	if err != nil {
		return err
	}
	fmt.Printf("added %d ledger entries and %d flights to %s\n", added.Ledger, added.Flights, dbPath)

	totals, err := db.RouteTotals(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ROUTE\tFLIGHTS\tPASSENGERS\tLOAD\tNET\t")
	for _, t := range totals {
		load := 0.0
		if t.Capacity > 0 {
			load = float64(t.Passengers) / float64(t.Capacity) * 100
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f%%\t$%s\t\n", t.Route, t.Flights, t.Passengers, load, humanize.Comma(int64(t.Net())))
	}
	return tw.Flush()
}
