package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/rm-hull/fuel-landed-cost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeed struct {
	records []models.PriceRecord
	err     error
}

func (s *stubFeed) GetPrices(callback BatchCallback[models.PriceRecord]) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return callback(s.records)
}

func (s *stubFeed) LastUpdated() *time.Time {
	return nil
}

func TestPullPrices(t *testing.T) {
	repo := setupTestDB(t)
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	refreshed := 0
	onRefresh := func() { refreshed++ }

	PullPrices(&stubFeed{records: []models.PriceRecord{
		{Date: day, BaseId: "udi", SupplierId: "x", PricesByFuel: map[string]float64{"diesel_s10": 5}},
	}}, repo, onRefresh)
	assert.Equal(t, 1, refreshed)

	latest, err := repo.LatestPriceDate()
	require.NoError(t, err)
	assert.True(t, latest.Equal(day))

	PullPrices(&stubFeed{}, repo, onRefresh)
	assert.Equal(t, 1, refreshed, "nothing stored, nothing to refresh")

	PullPrices(&stubFeed{err: errors.New("boom")}, repo, onRefresh)
	assert.Equal(t, 1, refreshed)
}

func TestStartCron(t *testing.T) {
	repo := setupTestDB(t)
	c, err := StartCron(&stubFeed{}, repo, nil)
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
