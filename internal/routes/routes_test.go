package routes

import (
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/brands"
	"github.com/rm-hull/fuel-landed-cost/internal/engine"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

var day = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

type fakeRepo struct {
	snapshot  *engine.Snapshot
	snapshots int
	lastDate  time.Time
}

func (f *fakeRepo) InsertBases([]models.Base) (int, error)          { return 0, nil }
func (f *fakeRepo) InsertSuppliers([]models.Supplier) (int, error)  { return 0, nil }
func (f *fakeRepo) InsertPostos([]models.Posto) (int, error)        { return 0, nil }
func (f *fakeRepo) InsertPrices([]models.PriceRecord) (int, error)  { return 0, nil }
func (f *fakeRepo) InsertRoutes([]models.FreightRoute) (int, error) { return 0, nil }
func (f *fakeRepo) LatestPriceDate() (time.Time, error)             { return day, nil }
func (f *fakeRepo) Check() checks.Check                             { return checks.SqlCheck{Sql: (*sql.DB)(nil)} }
func (f *fakeRepo) Close() error                                    { return nil }

func (f *fakeRepo) Snapshot(date time.Time, settings models.Settings) (*engine.Snapshot, error) {
	f.snapshots++
	f.lastDate = date
	snap := *f.snapshot
	snap.Settings = settings
	return &snap, nil
}

func testSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		Date:  day,
		Bases: []models.Base{{Id: "udi", Name: "Uberlândia"}, {Id: "gyn", Name: "Goiânia"}},
		Suppliers: []models.Supplier{
			{Id: "x", Name: "Supplier X", Brand: "ipiranga"},
			{Id: "y", Name: "Supplier Y", Brand: models.WhiteFlag},
		},
		Postos: []models.Posto{
			{Id: "p1", Name: "Posto Catalão", CityId: "catalao", Brand: models.WhiteFlag, GroupIds: []string{"g1"}},
		},
		Prices: []models.PriceRecord{
			{Date: day, BaseId: "udi", SupplierId: "x", PricesByFuel: map[string]float64{"diesel_s10": 5.00}},
			{Date: day, BaseId: "gyn", SupplierId: "y", PricesByFuel: map[string]float64{"diesel_s10": 4.80}},
		},
		Routes: []models.FreightRoute{
			{OriginBaseId: "udi", DestinationCityId: "catalao", CostsByVehicle: map[string]float64{"carreta": 0.10}},
			{OriginBaseId: "gyn", DestinationCityId: "catalao", CostsByVehicle: map[string]float64{"carreta": 0.15, "truck": 0.05}},
		},
	}
}

type fakeFeed struct {
	lastUpdated *time.Time
}

func (f *fakeFeed) GetPrices(internal.BatchCallback[models.PriceRecord]) (int, error) { return 0, nil }
func (f *fakeFeed) LastUpdated() *time.Time                                          { return f.lastUpdated }

var pulledAt = time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) (*gin.Engine, *fakeRepo, *IndexCache) {
	gin.SetMode(gin.TestMode)
	repo := &fakeRepo{snapshot: testSnapshot()}
	settings := models.Settings{
		FuelTypes:    []models.FuelType{{Key: "diesel_s10", Label: "Diesel S10"}, {Key: "etanol", Label: "Etanol"}},
		VehicleTypes: []models.VehicleType{{Key: "truck"}, {Key: "carreta"}},
	}
	cache := NewIndexCache(repo, settings, time.Minute)

	known, err := brands.GetBrandsMap()
	require.NoError(t, err)
	feed := &fakeFeed{lastUpdated: &pulledAt}

	r := gin.New()
	r.GET("/compare", Compare(cache, known, feed))
	r.GET("/matrix", Matrix(cache, nil))
	r.GET("/settings", Settings(cache))
	return r, repo, cache
}

func get(t *testing.T, r *gin.Engine, url string) (int, map[string]any) {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestCompareRoute(t *testing.T) {
	r, repo, cache := setupRouter(t)

	t.Run("ranks bases by landed cost", func(t *testing.T) {
		code, body := get(t, r, "/compare?group=g1&fuel=diesel_s10&top=2")
		require.Equal(t, http.StatusOK, code)

		result := body["result"].(map[string]any)
		assert.Equal(t, "diesel_s10", result["fuel_key"])
		assert.Nil(t, result["vehicle_key"])

		bases := result["bases"].([]any)
		require.Len(t, bases, 2)
		best := bases[0].(map[string]any)
		assert.Equal(t, "gyn", best["base_id"])
		assert.Equal(t, "4.85", best["best_cost"])

		top := best["top_suppliers"].([]any)[0].(map[string]any)
		assert.Equal(t, "truck", top["vehicle_key"])
		assert.Equal(t, "0.05", top["freight_cost"])
		assert.Equal(t, "cheapest", top["freight_source"])

		summary := result["summary"].(map[string]any)
		assert.Equal(t, "0.25", summary["savings"])
		assert.Equal(t, "4.9", summary["savings_percent"])

		assert.Equal(t, pulledAt.Format(time.RFC3339), body["last_updated"])
	})

	t.Run("statistics are rounded and labelled", func(t *testing.T) {
		code, body := get(t, r, "/compare?group=g1&fuel=diesel_s10")
		require.Equal(t, http.StatusOK, code)

		statistics := body["result"].(map[string]any)["statistics"].(map[string]any)
		assert.Equal(t, "4.85", statistics["lowest_cost"])
		assert.Equal(t, "5.1", statistics["highest_cost"])
		assert.Equal(t, "4.975", statistics["average_cost"])
		assert.Equal(t, "0.125", statistics["standard_deviation"])
		assert.Equal(t, map[string]any{"4.85-4.90": 1.0, "5.10-5.15": 1.0}, statistics["cost_distribution"])
		assert.Equal(t, map[string]any{"Ipiranga": 1.0, "Bandeira Branca": 1.0}, statistics["brand_distribution"])
	})

	t.Run("unknown fuel", func(t *testing.T) {
		code, body := get(t, r, "/compare?group=g1&fuel=querosene")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["error"], "unknown fuel 'querosene'")
	})

	t.Run("blank fuel is an empty selection", func(t *testing.T) {
		code, body := get(t, r, "/compare?group=g1")
		assert.Equal(t, http.StatusOK, code)
		assert.Nil(t, body["result"])
	})

	t.Run("no selection is not an error", func(t *testing.T) {
		code, body := get(t, r, "/compare?group=Todos&fuel=diesel_s10")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "result")
		assert.Nil(t, body["result"])
	})

	t.Run("bad date", func(t *testing.T) {
		code, body := get(t, r, "/compare?group=g1&fuel=diesel_s10&date=18/10/2026")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["error"], "invalid date")
	})

	t.Run("snapshot is cached per date until flushed", func(t *testing.T) {
		cache.Flush()
		before := repo.snapshots
		get(t, r, "/compare?group=g1&fuel=diesel_s10")
		get(t, r, "/compare?group=g1&fuel=diesel_s10&vehicle=carreta")
		assert.Equal(t, before+1, repo.snapshots)

		get(t, r, "/compare?group=g1&fuel=diesel_s10&date=2026-10-17")
		assert.Equal(t, before+2, repo.snapshots)
		assert.True(t, repo.lastDate.Equal(day.AddDate(0, 0, -1)))

		cache.Flush()
		get(t, r, "/compare?group=g1&fuel=diesel_s10")
		assert.Equal(t, before+3, repo.snapshots)
	})
}

func TestMatrixRoute(t *testing.T) {
	r, _, _ := setupRouter(t)

	code, body := get(t, r, "/matrix?group=g1")
	require.Equal(t, http.StatusOK, code)

	result := body["result"].(map[string]any)
	assert.Len(t, result["fuels"].([]any), 2)
	rows := result["rows"].([]any)
	require.Len(t, rows, 2)

	udi := rows[0].(map[string]any)
	cells := udi["cells"].([]any)
	require.Len(t, cells, 2)
	assert.Equal(t, "5.1", cells[0].(map[string]any)["best_cost"])
	assert.Nil(t, cells[1], "no etanol prices")
	assert.Equal(t, map[string]any{"diesel_s10": "gyn"}, result["best_base"])

	assert.NotContains(t, body, "last_updated", "no price feed configured")

	code, body = get(t, r, "/matrix?group=unknown")
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["result"])
}

func TestSettingsRoute(t *testing.T) {
	r, _, _ := setupRouter(t)

	code, body := get(t, r, "/settings")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["fuel_types"].([]any), 2)
	assert.Len(t, body["vehicle_types"].([]any), 2)
}

func TestMoneyNeverPanics(t *testing.T) {
	assert.True(t, money(math.Inf(1)).IsZero())
	assert.True(t, money(math.NaN()).IsZero())
	assert.Equal(t, "5.1235", money(5.12345).String())
}
