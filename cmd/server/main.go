package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"airline_sim/internal/api"
	"airline_sim/internal/game"
	"airline_sim/internal/log"
	"airline_sim/internal/store"
)

func main() {
	var (
		addr     = flag.String("addr", ":"+env("PORT", "4000"), "listen address")
		savePath = flag.String("save", env("AIRLINE_SAVE", "data/savegame.json"), "save document path")
		logDir   = flag.String("log-dir", env("AIRLINE_LOG_DIR", "logs"), "log directory")
		logLevel = flag.String("log-level", env("AIRLINE_LOG_LEVEL", "info"), "debug, info, warn or error")
		archive  = flag.String("archive", env("AIRLINE_ARCHIVE", ""), "directory for evicted ledger and flight history")
		rps      = flag.Float64("rate", 10, "requests per second per client, 0 disables limiting")
		burst    = flag.Int("burst", 20, "request burst per client")
		company  = flag.String("company", "", "company name for a new save")
		cash     = flag.Int("starting-cash", game.DefaultStartingCash, "starting cash for a new save")
	)
	flag.Parse()

	lg := log.New(*logLevel, *logDir, true)

	opts := []store.Option{store.WithLogger(lg)}
	if *archive != "" {
		opts = append(opts, store.WithArchive(*archive))
	}
	repo := store.NewFile(*savePath, opts...)
	engine := game.New(repo, game.WithLogger(lg))

	ctx := context.Background()
	if err := bootstrap(ctx, engine, *company, *cash, lg); err != nil {
		lg.Error("startup failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              normalizeAddr(*addr),
		Handler:           api.New(engine, api.Config{Rate: *rps, Burst: *burst, Log: lg}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	lg.Info("server listening", "addr", srv.Addr, "save", *savePath, "log", lg.LogFile)
	if err := srv.ListenAndServe(); err != nil {
		lg.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// bootstrap creates the company on a fresh save and settles any days the
// server was down for.
func bootstrap(ctx context.Context, engine *game.Engine, name string, cash int, lg *log.Logger) error {
	info, err := engine.Company(ctx)
	if err != nil {
		return err
	}
	if info.Name == "" {
		if name == "" {
			name = "New Airline"
		}
		if err := engine.SetupCompany(ctx, name, cash); err != nil {
			return fmt.Errorf("setup company: %w", err)
		}
	}
	res, err := engine.AutoProcessDailyTicks(ctx)
	if err != nil {
		return fmt.Errorf("catch up daily ticks: %w", err)
	}
	if !res.UpToDate {
		lg.Info("caught up daily ticks", "days", res.DaysProcessed, "penalties", res.TotalPenalties)
	}
	return nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// normalizeAddr accepts a bare port number.
func normalizeAddr(addr string) string {
	if _, err := strconv.Atoi(addr); err == nil {
		return ":" + addr
	}
	return addr
}
