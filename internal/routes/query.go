package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/engine"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

// parseQuery reads the selection from the query string. A blank fuel is an empty
// selection, but a fuel the settings do not define is rejected.
func parseQuery(c *gin.Context, settings models.Settings) (engine.Query, error) {
	query := engine.Query{
		GroupId:            strings.TrimSpace(c.Query("group")),
		FuelKey:            strings.TrimSpace(c.Query("fuel")),
		DestinationPostoId: strings.TrimSpace(c.Query("posto")),
		VehicleKey:         strings.TrimSpace(c.Query("vehicle")),
		TopN:               engine.ParseTopN(c.Query("top")),
	}
	if query.FuelKey != "" && !settings.HasFuel(query.FuelKey) {
		return engine.Query{}, fmt.Errorf("unknown fuel '%s'", query.FuelKey)
	}
	return query, nil
}

func parseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(models.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s': expected YYYY-MM-DD", dateStr)
	}
	return date, nil
}

func lastUpdated(feed internal.PriceFeedClient) *time.Time {
	if feed == nil {
		return nil
	}
	return feed.LastUpdated()
}

func snapshotDate(ix *engine.Index) *time.Time {
	d := ix.Snapshot().Date
	if d.IsZero() {
		return nil
	}
	return &d
}
