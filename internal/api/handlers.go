package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"airline_sim/internal/game"
	"airline_sim/internal/models"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.State(r.Context())
	s.reply(w, r, st, err)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	info, err := s.engine.Company(r.Context())
	s.reply(w, r, info, err)
}

func (s *Server) handleSetupCompany(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Name         string `json:"name"`
		StartingCash *int   `json:"starting_cash"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	cash := game.DefaultStartingCash
	if req.StartingCash != nil {
		cash = *req.StartingCash
	}
	if err := s.engine.SetupCompany(r.Context(), req.Name, cash); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCompany(w, r)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.Achievements(r.Context())
	s.reply(w, r, list, err)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	entries, err := s.engine.Ledger(r.Context(), limit)
	s.reply(w, r, entries, err)
}

func (s *Server) handleRouteStats(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(w, r, "days")
	if !ok {
		return
	}
	stats, err := s.engine.RouteProfitability(r.Context(), days)
	s.reply(w, r, stats, err)
}

// ===== fleet =====

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	l, err := s.engine.MarketplaceListings(r.Context())
	s.reply(w, r, l, err)
}

func (s *Server) handleLeaseOptions(w http.ResponseWriter, r *http.Request) {
	l, err := s.engine.LeaseOptions(r.Context())
	s.reply(w, r, l, err)
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	fleet, err := s.engine.Fleet(r.Context())
	s.reply(w, r, fleet, err)
}

func (s *Server) handleAircraft(w http.ResponseWriter, r *http.Request) {
	ac, err := s.engine.Aircraft(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, ac, err)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req game.BuyRequest
	if !decode(w, r, &req) {
		return
	}
	ac, err := s.engine.BuyAircraft(r.Context(), req)
	s.reply(w, r, ac, err)
}

func (s *Server) handleLease(w http.ResponseWriter, r *http.Request) {
	var req game.LeaseRequest
	if !decode(w, r, &req) {
		return
	}
	ac, err := s.engine.LeaseAircraft(r.Context(), req)
	s.reply(w, r, ac, err)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	req := struct {
		NewID string `json:"new_id"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	err := s.engine.ChangeAircraftID(r.Context(), chi.URLParam(r, "id"), req.NewID)
	s.reply(w, r, map[string]string{"aircraft_id": req.NewID}, err)
}

func (s *Server) handleMaintenanceStatus(w http.ResponseWriter, r *http.Request) {
	ms, err := s.engine.MaintenanceStatus(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, ms, err)
}

func (s *Server) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Check string `json:"check"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.engine.PerformMaintenance(r.Context(), id, req.Check); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleMaintenanceStatus(w, r)
}

func (s *Server) handleCabin(w http.ResponseWriter, r *http.Request) {
	info, err := s.engine.Cabin(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, info, err)
}

func (s *Server) handleConfigureCabin(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Layout []models.CabinRow `json:"layout"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	cost, err := s.engine.ConfigureCabin(r.Context(), chi.URLParam(r, "id"), req.Layout)
	s.reply(w, r, map[string]int{"cost": cost}, err)
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	lim, err := s.engine.WeightLimits(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, lim, err)
}

func (s *Server) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var req game.WeightLimits
	if !decode(w, r, &req) {
		return
	}
	if err := s.engine.SetWeightLimits(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleWeights(w, r)
}

func (s *Server) handleWalkaround(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.WalkaroundCheck(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, res, err)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	req := struct {
		FlightHours float64 `json:"flight_hours"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	pf, err := s.engine.PreflightCheck(r.Context(), chi.URLParam(r, "id"), req.FlightHours)
	s.reply(w, r, pf, err)
}

func (s *Server) handleOilRefill(w http.ResponseWriter, r *http.Request) {
	cost, err := s.engine.RefillOil(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, map[string]int{"cost": cost}, err)
}

func (s *Server) handleOilChange(w http.ResponseWriter, r *http.Request) {
	cost, err := s.engine.ChangeOil(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, map[string]int{"cost": cost}, err)
}

func (s *Server) handleClearSnag(w http.ResponseWriter, r *http.Request) {
	err := s.engine.ClearSnag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "snag"))
	s.reply(w, r, map[string]string{"cleared": chi.URLParam(r, "snag")}, err)
}

func (s *Server) handleGround(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Reason string `json:"reason"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	if err := s.engine.GroundAircraft(r.Context(), chi.URLParam(r, "id"), req.Reason); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleAircraft(w, r)
}

func (s *Server) handleAircraftServices(w http.ResponseWriter, r *http.Request) {
	svcs, err := s.engine.AircraftServices(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, svcs, err)
}

func (s *Server) handlePurchaseService(w http.ResponseWriter, r *http.Request) {
	var req game.ServiceRequest
	if !decode(w, r, &req) {
		return
	}
	cost, err := s.engine.PurchaseService(r.Context(), chi.URLParam(r, "id"), req)
	s.reply(w, r, map[string]int{"cost": cost}, err)
}

// ===== per type =====

func (s *Server) handleCabinLimits(w http.ResponseWriter, r *http.Request) {
	lim, err := s.engine.CabinLimits(r.Context(), chi.URLParam(r, "type"))
	s.reply(w, r, lim, err)
}

func (s *Server) handleSetCabinLimits(w http.ResponseWriter, r *http.Request) {
	var req game.CabinLimits
	if !decode(w, r, &req) {
		return
	}
	if err := s.engine.SetCabinLimits(r.Context(), chi.URLParam(r, "type"), req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCabinLimits(w, r)
}

func (s *Server) handleMaxDuration(w http.ResponseWriter, r *http.Request) {
	hours, err := s.engine.MaxDuration(r.Context(), chi.URLParam(r, "type"))
	s.reply(w, r, map[string]float64{"max_duration_hours": hours}, err)
}

func (s *Server) handleSetMaxDuration(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Hours float64 `json:"max_duration_hours"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	if err := s.engine.SetMaxDuration(r.Context(), chi.URLParam(r, "type"), req.Hours); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleMaxDuration(w, r)
}

// ===== flights =====

func (s *Server) handleActiveFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := s.engine.ActiveFlights(r.Context())
	s.reply(w, r, flights, err)
}

func (s *Server) handleStartFlight(w http.ResponseWriter, r *http.Request) {
	var req game.FlightRequest
	if !decode(w, r, &req) {
		return
	}
	f, err := s.engine.StartFlight(r.Context(), req)
	s.reply(w, r, f, err)
}

func (s *Server) handleEndFlight(w http.ResponseWriter, r *http.Request) {
	var answers *game.FlightAnswers
	if !decode(w, r, &answers) {
		return
	}
	res, err := s.engine.EndFlight(r.Context(), chi.URLParam(r, "id"), answers)
	s.reply(w, r, res, err)
}

func (s *Server) handleCancelFlight(w http.ResponseWriter, r *http.Request) {
	c, err := s.engine.CancelFlight(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, c, err)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := s.engine.FlightManifest(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, m, err)
}

func (s *Server) handleAutoComplete(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.AutoCompleteDueFlights(r.Context())
	s.reply(w, r, res, err)
}

// ===== parking, loans, pilots =====

func (s *Server) handleParking(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.Parking(r.Context())
	s.reply(w, r, p, err)
}

func (s *Server) handleBuyParking(w http.ResponseWriter, r *http.Request) {
	var req game.ParkingRequest
	if !decode(w, r, &req) {
		return
	}
	cost, err := s.engine.BuyParking(r.Context(), req)
	s.reply(w, r, map[string]int{"cost": cost}, err)
}

func (s *Server) handleLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := s.engine.Loans(r.Context())
	s.reply(w, r, loans, err)
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var req game.LoanRequest
	if !decode(w, r, &req) {
		return
	}
	loan, err := s.engine.TakeLoan(r.Context(), req)
	s.reply(w, r, loan, err)
}

func (s *Server) handleMaxLoan(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.MaxLoanAmount(r.Context())
	s.reply(w, r, map[string]int{"max_amount": n}, err)
}

func (s *Server) handleLoanOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.engine.LoanOffers(r.Context())
	s.reply(w, r, offers, err)
}

func (s *Server) handleRepayLoan(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Amount int `json:"amount"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	loan, err := s.engine.RepayLoan(r.Context(), chi.URLParam(r, "id"), req.Amount)
	s.reply(w, r, loan, err)
}

func (s *Server) handlePilots(w http.ResponseWriter, r *http.Request) {
	pilots, err := s.engine.Pilots(r.Context())
	s.reply(w, r, pilots, err)
}

func (s *Server) handleHirePilot(w http.ResponseWriter, r *http.Request) {
	var req game.HireRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := s.engine.HirePilot(r.Context(), req)
	s.reply(w, r, p, err)
}

func (s *Server) handleFirePilot(w http.ResponseWriter, r *http.Request) {
	err := s.engine.FirePilot(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, map[string]string{"fired": chi.URLParam(r, "id")}, err)
}

func (s *Server) handleAssignPilot(w http.ResponseWriter, r *http.Request) {
	req := struct {
		AircraftID string `json:"aircraft_id"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	err := s.engine.AssignPilot(r.Context(), chi.URLParam(r, "id"), req.AircraftID)
	s.reply(w, r, map[string]string{"pilot_id": chi.URLParam(r, "id"), "aircraft_id": req.AircraftID}, err)
}

// ===== ticks, services, items =====

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	sum, err := s.engine.RunDailyTick(r.Context())
	s.reply(w, r, sum, err)
}

func (s *Server) handleCatchUp(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.AutoProcessDailyTicks(r.Context())
	s.reply(w, r, res, err)
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, game.Services())
}

func (s *Server) handleFuelPrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, game.FuelPricesAt(chi.URLParam(r, "code")))
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("installed_on") {
		items, err := s.engine.InstalledItems(r.Context(), q.Get("installed_on"))
		s.reply(w, r, items, err)
		return
	}
	items, err := s.engine.StoredItems(r.Context(), q.Get("airport"))
	s.reply(w, r, items, err)
}

func (s *Server) handlePurchaseItem(w http.ResponseWriter, r *http.Request) {
	var req game.ItemRequest
	if !decode(w, r, &req) {
		return
	}
	it, err := s.engine.PurchaseItem(r.Context(), req)
	s.reply(w, r, it, err)
}

func (s *Server) handleInstallItem(w http.ResponseWriter, r *http.Request) {
	req := struct {
		AircraftID string `json:"aircraft_id"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	err := s.engine.InstallItem(r.Context(), chi.URLParam(r, "id"), req.AircraftID)
	s.reply(w, r, map[string]string{"item_id": chi.URLParam(r, "id"), "installed_on": req.AircraftID}, err)
}

func (s *Server) handleUninstallItem(w http.ResponseWriter, r *http.Request) {
	err := s.engine.UninstallItem(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, r, map[string]string{"item_id": chi.URLParam(r, "id")}, err)
}
