package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_sim/internal/log"
	"airline_sim/internal/models"
)

func TestFileLoadMissingReturnsDefaults(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "save.json"))
	st, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.Cash)
	assert.Equal(t, 1.0, st.FuelPriceMultiplier)
	assert.Empty(t, st.Fleet)
}

func TestFileSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "save.json")
	f := NewFile(path)
	ctx := context.Background()

	st := models.NewCompanyState()
	st.Cash = 1234
	st.Company.Name = "Skyline"
	ac := models.NewAircraft()
	ac.ID = "ac_1"
	ac.TypeCode = "C337"
	ac.Oil = &models.OilState{Level: 24, Capacity: 24, Minimum: 7}
	st.Fleet = append(st.Fleet, ac)
	require.NoError(t, f.Save(ctx, st))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")

	back, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234, back.Cash)
	assert.Equal(t, "Skyline", back.Company.Name)
	require.Len(t, back.Fleet, 1)
	require.NotNil(t, back.Fleet[0].Oil)
	assert.Equal(t, 24.0, back.Fleet[0].Oil.Capacity)
}

func TestFileCorruptIsQuarantined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var buf bytes.Buffer
	f := NewFile(path, WithLogger(log.NewWriter(&buf, "info")))
	st, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.Fleet)

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(bak))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, buf.String(), "corrupt save quarantined")
}

func TestMigrateInitialisesOil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	doc := `{"cash": 10, "fleet": [{"id": "a", "type_code": "C337"}, {"id": "b", "type_code": "A320"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	st, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st.Fleet[0].Oil)
	assert.Equal(t, 24.0, st.Fleet[0].Oil.Level)
	assert.Equal(t, 7.0, st.Fleet[0].Oil.Minimum)
	assert.Nil(t, st.Fleet[1].Oil)
	assert.Equal(t, models.SchemaVersion, st.Version)
}

func TestArchiveEvictedHistory(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")
	f := NewFile(filepath.Join(dir, "save.json"), WithArchive(archive))
	ctx := context.Background()

	st := models.NewCompanyState()
	for i := 0; i < models.MaxLedgerEntries+3; i++ {
		st.AddLedger(int64(i), "flight", i, "")
	}
	st.AddCompletedFlight(models.CompletedFlight{Route: "A-B"})
	st.Evicted.Flights = append(st.Evicted.Flights, models.CompletedFlight{Route: "OLD-ONE"})
	require.NoError(t, f.Save(ctx, st))
	assert.True(t, st.Evicted.Empty())

	// a second save with nothing evicted writes no new file
	require.NoError(t, f.Save(ctx, st))
	files, err := os.ReadDir(archive)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	ev, err := ReadArchive(archive)
	require.NoError(t, err)
	require.Len(t, ev.Ledger, 3)
	assert.Equal(t, int64(0), ev.Ledger[0].TS)
	require.Len(t, ev.Flights, 1)
	assert.Equal(t, "OLD-ONE", ev.Flights[0].Route)
}

func TestMemoryIsolatesSnapshots(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	st, err := m.Load(ctx)
	require.NoError(t, err)
	st.Cash = 99
	st.Fleet = append(st.Fleet, models.NewAircraft())

	again, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Cash, "unsaved mutation leaked into the store")

	require.NoError(t, m.Save(ctx, st))
	st.Cash = 5
	committed, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99, committed.Cash)
	assert.Len(t, committed.Fleet, 1)
	assert.Equal(t, 1, m.Saves())
}
