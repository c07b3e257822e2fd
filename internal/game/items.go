package game

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"airline_sim/internal/models"
)

type ItemRequest struct {
	Airport string `json:"airport"`
	Name    string `json:"name"`
	Cost    int    `json:"cost"`
}

// PurchaseItem buys a custom item into storage. Items can only be stored
// where the company owns a hangar.
func (e *Engine) PurchaseItem(ctx context.Context, req ItemRequest) (*models.CustomItem, error) {
	airport := normalizeAirport(req.Airport)
	name := strings.TrimSpace(req.Name)
	switch {
	case airport == "":
		return nil, invalid("airport code required")
	case name == "":
		return nil, invalid("item name required")
	case req.Cost <= 0:
		return nil, invalid("cost must be greater than 0")
	}

	var out models.CustomItem
	err := e.update(ctx, "purchase_item", func(st *models.CompanyState) error {
		if !hasHangar(st, airport) {
			return precondition("no hangar owned at %s; a hangar is required to store custom items", airport)
		}
		if err := requireCash(st.Cash, req.Cost, name); err != nil {
			return err
		}
		out = models.CustomItem{
			ItemID:            e.newID("item"),
			Name:              name,
			Cost:              req.Cost,
			Airport:           airport,
			PurchaseDate:      e.now().UTC().Format(time.DateOnly),
			PurchaseTimestamp: e.nowTS(),
		}
		st.CustomItems = append(st.CustomItems, out)
		st.Cash -= req.Cost
		e.ledger(st, "custom_item", -req.Cost, fmt.Sprintf("Custom item '%s' purchased and stored at %s", name, airport))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StoredItems lists items not installed on any aircraft, optionally only
// those at airport.
func (e *Engine) StoredItems(ctx context.Context, airport string) ([]models.CustomItem, error) {
	airport = normalizeAirport(airport)
	return e.items(ctx, func(it models.CustomItem) bool {
		return it.InstalledOn == "" && (airport == "" || it.Airport == airport)
	})
}

// InstalledItems lists installed items, optionally only those on one
// aircraft.
func (e *Engine) InstalledItems(ctx context.Context, aircraftID string) ([]models.CustomItem, error) {
	return e.items(ctx, func(it models.CustomItem) bool {
		return it.InstalledOn != "" && (aircraftID == "" || it.InstalledOn == aircraftID)
	})
}

func (e *Engine) items(ctx context.Context, keep func(models.CustomItem) bool) ([]models.CustomItem, error) {
	out := []models.CustomItem{}
	err := e.view(ctx, func(st *models.CompanyState) error {
		for _, it := range st.CustomItems {
			if keep(it) {
				out = append(out, it)
			}
		}
		return nil
	})
	return out, err
}

// InstallItem fits a stored item to an aircraft at the same airport.
func (e *Engine) InstallItem(ctx context.Context, itemID, aircraftID string) error {
	return e.update(ctx, "install_item", func(st *models.CompanyState) error {
		_, it := st.FindItem(itemID)
		if it == nil {
			return notFound("custom item %s not found", itemID)
		}
		if it.InstalledOn != "" {
			return precondition("item is already installed on aircraft %s", it.InstalledOn)
		}
		ac, err := findAircraft(st, aircraftID)
		if err != nil {
			return err
		}
		loc := normalizeAirport(ac.Location)
		if loc == "" {
			loc = models.HomeBase
		}
		if it.Airport != loc {
			return precondition("item is stored at %s but aircraft is at %s", it.Airport, loc)
		}
		it.InstalledOn = ac.ID
		it.InstalledDate = e.now().UTC().Format(time.DateOnly)
		it.InstalledAt = e.nowTS()
		ac.CustomItems = append(ac.CustomItems, it.ItemID)
		return nil
	})
}

// UninstallItem returns an installed item to storage at the airport it was
// bought for.
func (e *Engine) UninstallItem(ctx context.Context, itemID string) error {
	return e.update(ctx, "uninstall_item", func(st *models.CompanyState) error {
		_, it := st.FindItem(itemID)
		if it == nil {
			return notFound("custom item %s not found", itemID)
		}
		if it.InstalledOn == "" {
			return precondition("item %s is not installed on any aircraft", itemID)
		}
		if _, ac := st.FindAircraft(it.InstalledOn); ac != nil {
			ac.CustomItems = slices.DeleteFunc(ac.CustomItems, func(id string) bool { return id == itemID })
		}
		it.InstalledOn = ""
		it.InstalledDate = ""
		it.InstalledAt = 0
		return nil
	})
}
