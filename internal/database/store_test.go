package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/iatacodes/internal/config"
	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(context.Background(), "sqlite::memory:")
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("go-sqlite3 requires cgo")
	}
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

// newPostgresTestStore connects to TEST_DATABASE_URL and empties both tables
// before and after the test. Skips when the variable is unset.
func newPostgresTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, config.DatabaseConfig{
		URL:             url,
		MaxConns:        4,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)

	truncate := func() {
		_, err := store.pool.Exec(ctx, `TRUNCATE airlines, airports`)
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		store.Close()
	})
	return store
}

// storeBackends returns every adapter. postgres runs only when
// TEST_DATABASE_URL points at a disposable database.
func storeBackends(t *testing.T) map[string]func(t *testing.T) core.Store {
	return map[string]func(t *testing.T) core.Store{
		"memory":   func(t *testing.T) core.Store { return NewMemoryStore() },
		"sqlite":   func(t *testing.T) core.Store { return newSQLiteTestStore(t) },
		"postgres": func(t *testing.T) core.Store { return newPostgresTestStore(t) },
	}
}

var testTime = time.Date(2024, 3, 15, 6, 30, 0, 123456000, time.UTC)

func strPtr(s string) *string { return &s }

func testAirline(numeric, iata, name string) core.Airline {
	return core.Airline{
		ID:          uuid.New(),
		NumericCode: numeric,
		IATACode:    iata,
		Name:        name,
		CountryCode: strPtr("KR"),
		Active:      true,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func testAirport(iata string, icao *string, name string) core.Airport {
	lat, lon, elev := 37.4602, 126.4407, 7
	return core.Airport{
		ID:          uuid.New(),
		IATACode:    iata,
		ICAOCode:    icao,
		Name:        name,
		City:        "Seoul",
		CountryCode: "KR",
		Latitude:    &lat,
		Longitude:   &lon,
		Elevation:   &elev,
		Timezone:    strPtr("Asia/Seoul"),
		Active:      true,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

// =============================================================================
// Contract
// =============================================================================

func TestStore_AirlineLifecycle(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			in := testAirline("180", "KE", "Korean Air")
			created, err := store.InsertAirline(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, in, created)

			got, err := store.GetAirline(ctx, in.ID)
			require.NoError(t, err)
			assert.Equal(t, in, got)

			later := testTime.Add(time.Hour)
			updated, err := store.UpdateAirline(ctx, in.ID, core.AirlinePatch{
				Name:        core.Some("Korean Air Lines"),
				CountryCode: core.Null[string](),
			}, later)
			require.NoError(t, err)
			assert.Equal(t, "Korean Air Lines", updated.Name)
			assert.Nil(t, updated.CountryCode)
			assert.Equal(t, "KE", updated.IATACode)
			assert.Equal(t, testTime, updated.CreatedAt)
			assert.Equal(t, later, updated.UpdatedAt)

			deleted, err := store.DeleteAirline(ctx, in.ID)
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = store.DeleteAirline(ctx, in.ID)
			require.NoError(t, err)
			assert.False(t, deleted)

			_, err = store.GetAirline(ctx, in.ID)
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestStore_AirlineUniqueness(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			first, err := store.InsertAirline(ctx, testAirline("180", "KE", "Korean Air"))
			require.NoError(t, err)

			_, err = store.InsertAirline(ctx, testAirline("180", "OZ", "Asiana"))
			var ce *core.ConflictError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "numeric_code", ce.Field)

			_, err = store.InsertAirline(ctx, testAirline("988", "KE", "Asiana"))
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "iata_code", ce.Field)

			second, err := store.InsertAirline(ctx, testAirline("988", "OZ", "Asiana"))
			require.NoError(t, err)

			_, err = store.UpdateAirline(ctx, second.ID, core.AirlinePatch{IATACode: core.Some("KE")}, testTime)
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "iata_code", ce.Field)

			// Updating a record to its own code is not a conflict.
			_, err = store.UpdateAirline(ctx, first.ID, core.AirlinePatch{IATACode: core.Some("KE")}, testTime)
			assert.NoError(t, err)
		})
	}
}

func TestStore_ListOrderedByName(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			empty, err := store.ListAirlines(ctx)
			require.NoError(t, err)
			assert.NotNil(t, empty)
			assert.Empty(t, empty)

			for _, a := range []core.Airline{
				testAirline("988", "OZ", "Asiana Airlines"),
				testAirline("180", "KE", "Korean Air"),
				testAirline("297", "CI", "China Airlines"),
			} {
				_, err := store.InsertAirline(ctx, a)
				require.NoError(t, err)
			}

			list, err := store.ListAirlines(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "Asiana Airlines", list[0].Name)
			assert.Equal(t, "China Airlines", list[1].Name)
			assert.Equal(t, "Korean Air", list[2].Name)
		})
	}
}

func TestStore_AirportLifecycle(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			in := testAirport("ICN", strPtr("RKSI"), "Incheon International Airport")
			created, err := store.InsertAirport(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, in, created)

			updated, err := store.UpdateAirport(ctx, in.ID, core.AirportPatch{
				Latitude:  core.Null[float64](),
				Elevation: core.Some(-2),
				Timezone:  core.Null[string](),
			}, testTime.Add(time.Minute))
			require.NoError(t, err)
			assert.Nil(t, updated.Latitude)
			require.NotNil(t, updated.Longitude)
			assert.InDelta(t, 126.4407, *updated.Longitude, 1e-9)
			require.NotNil(t, updated.Elevation)
			assert.Equal(t, -2, *updated.Elevation)
			assert.Nil(t, updated.Timezone)

			_, err = store.UpdateAirport(ctx, uuid.New(), core.AirportPatch{Name: core.Some("x")}, testTime)
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestStore_AirportICAOUniqueness(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			_, err := store.InsertAirport(ctx, testAirport("ICN", strPtr("RKSI"), "Incheon"))
			require.NoError(t, err)

			_, err = store.InsertAirport(ctx, testAirport("GMP", strPtr("RKSI"), "Gimpo"))
			var ce *core.ConflictError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "icao_code", ce.Field)

			// Several airports may lack an ICAO code.
			_, err = store.InsertAirport(ctx, testAirport("AAA", nil, "Alpha"))
			require.NoError(t, err)
			_, err = store.InsertAirport(ctx, testAirport("BBB", nil, "Bravo"))
			require.NoError(t, err)
		})
	}
}

func TestStore_UpdatedAtNeverMovesBackwards(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			airline := testAirline("180", "KE", "Korean Air")
			_, err := store.InsertAirline(ctx, airline)
			require.NoError(t, err)

			earlier := testTime.Add(-time.Second)
			first, err := store.UpdateAirline(ctx, airline.ID, core.AirlinePatch{}, earlier)
			require.NoError(t, err)
			assert.Equal(t, testTime.Add(time.Microsecond), first.UpdatedAt)

			second, err := store.UpdateAirline(ctx, airline.ID, core.AirlinePatch{}, earlier)
			require.NoError(t, err)
			assert.Equal(t, testTime.Add(2*time.Microsecond), second.UpdatedAt)

			airport := testAirport("ICN", strPtr("RKSI"), "Incheon International Airport")
			_, err = store.InsertAirport(ctx, airport)
			require.NoError(t, err)

			updated, err := store.UpdateAirport(ctx, airport.ID, core.AirportPatch{Active: core.Some(false)}, testTime)
			require.NoError(t, err)
			assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
			assert.False(t, updated.Active)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := testAirline("180", "KE", "Korean Air")
	_, err := store.InsertAirline(ctx, in)
	require.NoError(t, err)

	got, err := store.GetAirline(ctx, in.ID)
	require.NoError(t, err)
	*got.CountryCode = "US"

	again, err := store.GetAirline(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "KR", *again.CountryCode)
}

func TestMemoryStore_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().ListAirports(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), config.DatabaseConfig{URL: "memory://"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = Open(context.Background(), config.DatabaseConfig{URL: "mysql://localhost/db"})
	assert.ErrorContains(t, err, "unsupported database scheme")
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sqlite::memory:", ":memory:?_busy_timeout=5000"},
		{"sqlite:///var/lib/iata.db", "/var/lib/iata.db?_busy_timeout=5000"},
		{"sqlite:iata.db", "iata.db?_busy_timeout=5000"},
		{"file:iata.db?cache=shared", "file:iata.db?cache=shared&_busy_timeout=5000"},
		{"sqlite:iata.db?_busy_timeout=100", "iata.db?_busy_timeout=100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.in), tt.in)
	}
}
