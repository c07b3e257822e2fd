package api

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"airline_sim/internal/game"
	"airline_sim/internal/log"
)

type Config struct {
	// Per client IP; a zero Rate disables limiting.
	Rate  float64
	Burst int
	Log   *log.Logger
}

type Server struct {
	engine  *game.Engine
	lg      *log.Logger
	limiter *ipLimiter
}

// New constructs the HTTP router wired to the game engine.
func New(engine *game.Engine, cfg Config) http.Handler {
	s := &Server{engine: engine, lg: cfg.Log}
	if cfg.Rate > 0 {
		s.limiter = newIPLimiter(rate.Limit(cfg.Rate), max(1, cfg.Burst))
	}

	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(s.logRequests)
	r.Use(s.rateLimit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/state", s.handleState)
	r.Get("/company", s.handleCompany)
	r.Post("/company", s.handleSetupCompany)
	r.Get("/achievements", s.handleAchievements)
	r.Get("/ledger", s.handleLedger)
	r.Get("/stats/routes", s.handleRouteStats)

	r.Get("/market/listings", s.handleListings)
	r.Get("/market/leases", s.handleLeaseOptions)

	r.Route("/fleet", func(r chi.Router) {
		r.Get("/", s.handleFleet)
		r.Post("/buy", s.handleBuy)
		r.Post("/lease", s.handleLease)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleAircraft)
			r.Post("/rename", s.handleRename)
			r.Get("/maintenance", s.handleMaintenanceStatus)
			r.Post("/maintenance", s.handleMaintenance)
			r.Get("/cabin", s.handleCabin)
			r.Put("/cabin", s.handleConfigureCabin)
			r.Get("/weights", s.handleWeights)
			r.Put("/weights", s.handleSetWeights)
			r.Post("/walkaround", s.handleWalkaround)
			r.Post("/preflight", s.handlePreflight)
			r.Post("/oil/refill", s.handleOilRefill)
			r.Post("/oil/change", s.handleOilChange)
			r.Delete("/snags/{snag}", s.handleClearSnag)
			r.Post("/ground", s.handleGround)
			r.Get("/services", s.handleAircraftServices)
			r.Post("/services", s.handlePurchaseService)
		})
	})

	r.Route("/types/{type}", func(r chi.Router) {
		r.Get("/cabin-limits", s.handleCabinLimits)
		r.Put("/cabin-limits", s.handleSetCabinLimits)
		r.Get("/max-duration", s.handleMaxDuration)
		r.Put("/max-duration", s.handleSetMaxDuration)
	})

	r.Route("/flights", func(r chi.Router) {
		r.Get("/", s.handleActiveFlights)
		r.Post("/", s.handleStartFlight)
		r.Post("/auto-complete", s.handleAutoComplete)
		r.Post("/{id}/end", s.handleEndFlight)
		r.Post("/{id}/cancel", s.handleCancelFlight)
		r.Get("/{id}/manifest", s.handleManifest)
	})

	r.Get("/parking", s.handleParking)
	r.Post("/parking", s.handleBuyParking)

	r.Route("/loans", func(r chi.Router) {
		r.Get("/", s.handleLoans)
		r.Post("/", s.handleTakeLoan)
		r.Get("/max", s.handleMaxLoan)
		r.Get("/offers", s.handleLoanOffers)
		r.Post("/{id}/repay", s.handleRepayLoan)
	})

	r.Route("/pilots", func(r chi.Router) {
		r.Get("/", s.handlePilots)
		r.Post("/", s.handleHirePilot)
		r.Delete("/{id}", s.handleFirePilot)
		r.Post("/{id}/assign", s.handleAssignPilot)
	})

	r.Post("/tick", s.handleTick)
	r.Post("/tick/catch-up", s.handleCatchUp)

	r.Get("/services", s.handleServices)
	r.Get("/airports/{code}/fuel", s.handleFuelPrices)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleItems)
		r.Post("/", s.handlePurchaseItem)
		r.Post("/{id}/install", s.handleInstallItem)
		r.Post("/{id}/uninstall", s.handleUninstallItem)
	})

	return r
}

// ===== helpers =====

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, kind, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg, "kind": kind})
}

var kindStatus = map[string]int{
	"not_found":           http.StatusNotFound,
	"invalid_input":       http.StatusBadRequest,
	"insufficient_funds":  http.StatusPaymentRequired,
	"capacity_exceeded":   http.StatusConflict,
	"precondition_failed": http.StatusPreconditionFailed,
}

// fail reports an engine error. Errors that are not validation failures
// are logged and hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := game.KindName(err)
	status, ok := kindStatus[kind]
	if !ok {
		s.requestLog(r).Error("request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, kind, "")
		return
	}
	var gerr *game.Error
	msg := err.Error()
	if errors.As(err, &gerr) {
		msg = gerr.Msg
	}
	writeJSONError(w, status, kind, msg)
}

// reply writes v, or the error if err is set.
func (s *Server) reply(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "bad request: "+err.Error())
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", name+" must be an integer")
		return 0, false
	}
	return n, true
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLog(r *http.Request) *log.Logger {
	return s.lg.With("method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.requestLog(r).Info("request", "status", ww.Status(), "duration", time.Since(start))
	})
}

type ipLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{limit: limit, burst: burst, limiters: map[string]*rate.Limiter{}}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !s.limiter.get(ip).Allow() {
				writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
