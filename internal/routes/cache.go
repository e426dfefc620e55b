package routes

import (
	"time"

	"github.com/kofalt/go-memoize"

	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/engine"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

// IndexCache memoizes the engine index built for each day's snapshot.
type IndexCache struct {
	repo     internal.LandedCostRepository
	settings models.Settings
	memo     *memoize.Memoizer
}

func NewIndexCache(repo internal.LandedCostRepository, settings models.Settings, ttl time.Duration) *IndexCache {
	return &IndexCache{
		repo:     repo,
		settings: settings,
		memo:     memoize.NewMemoizer(ttl, 2*ttl),
	}
}

// Get returns the index for the given day, or the latest day when date is zero.
func (c *IndexCache) Get(date time.Time) (*engine.Index, error) {
	key := "latest"
	if !date.IsZero() {
		key = date.Format(models.DateFormat)
	}
	ix, err, _ := memoize.Call(c.memo, key, func() (*engine.Index, error) {
		snap, err := c.repo.Snapshot(date, c.settings)
		if err != nil {
			return nil, err
		}
		return engine.NewIndex(snap), nil
	})
	return ix, err
}

func (c *IndexCache) Settings() models.Settings {
	return c.settings
}

// Flush drops every cached index, e.g. after new prices were imported.
func (c *IndexCache) Flush() {
	c.memo.Storage.Flush()
}
