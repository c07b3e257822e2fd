package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_sim/internal/models"
)

func TestFuelPricesAt(t *testing.T) {
	jfk := FuelPricesAt("jfk")
	assert.Equal(t, jfk, FuelPricesAt(" JFK "))
	assert.Equal(t, "JFK", jfk.Airport)

	for _, code := range []string{"JFK", "LAX", "HOME", "EGLL", "KSFO"} {
		p := FuelPricesAt(code)
		assert.GreaterOrEqual(t, p.PricePerLitre, 0.6, code)
		assert.LessOrEqual(t, p.PricePerLitre, 0.9, code)
		assert.InDelta(t, p.PricePerLitre/baseFuelPerLitre, p.PricePerGallon/baseFuelPerGallon, 0.02, code)
	}
}

func TestServiceCost(t *testing.T) {
	catering, ok := lookupService(ServiceCatering)
	require.True(t, ok)
	assert.Equal(t, 820, serviceCost(catering, "C337"))
	// unknown types fall back to the default hourly cost
	assert.Equal(t, 800+100*2000/100, serviceCost(catering, "ZZZZ"))

	livery, _ := lookupService(ServiceLivery)
	assert.Equal(t, 50_000, serviceCost(livery, "A320"))
	assert.Len(t, Services(), 8)
}

func TestPurchaseRefueling(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")
	price := FuelPricesAt(models.HomeBase)

	cost, err := e.PurchaseService(ctx, ac.ID, ServiceRequest{Service: ServiceRefueling, Quantity: 100})
	require.NoError(t, err)
	assert.Equal(t, int(100*price.PricePerLitre), cost)

	cost, err = e.PurchaseService(ctx, ac.ID, ServiceRequest{Service: ServiceRefueling, Quantity: 10, Unit: "Gallons"})
	require.NoError(t, err)
	assert.Equal(t, int(10*price.PricePerGallon), cost)

	svcs, err := e.AircraftServices(ctx, ac.ID)
	require.NoError(t, err)
	rec := svcs[ServiceRefueling]
	assert.Equal(t, UnitGallons, rec.Unit)
	assert.InDelta(t, 37.8541, rec.Quantity, 1e-9)
	assert.Equal(t, testNow.Unix(), rec.Timestamp)

	entry := lastLedger(t, mustState(t, e))
	assert.Equal(t, "airport_service", entry.Category)
	assert.Equal(t, "Refueling 10 gallons for "+ac.ID+" at HOME", entry.Note)
}

func TestPurchaseServiceValidation(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")

	_, err := e.PurchaseService(ctx, ac.ID, ServiceRequest{Service: "massage"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.PurchaseService(ctx, ac.ID, ServiceRequest{Service: ServiceRefueling})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.PurchaseService(ctx, ac.ID, ServiceRequest{Service: ServiceRefueling, Quantity: 5, Unit: "barrels"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.PurchaseService(ctx, "ghost", ServiceRequest{Service: ServiceCleaning})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurchaseLivery(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)
	ac := buy(t, e, "C337")

	cost, err := e.PurchaseService(ctx, ac.ID, ServiceRequest{Service: ServiceLivery})
	require.NoError(t, err)
	assert.Equal(t, 50_000, cost)

	st := mustState(t, e)
	livery := st.Fleet[0].Livery
	require.NotNil(t, livery)
	assert.Equal(t, "Test Air Livery", livery.Name)
	assert.Equal(t, "2025-03-10", livery.PaintedDate)
	assert.Equal(t, DefaultStartingCash-180_000-50_000, st.Cash)
}
