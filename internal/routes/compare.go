package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/brands"
)

// Compare ranks the bases supplying a group of postos. known labels the brand
// distribution; feed is optional and only reports when prices were last pulled.
func Compare(cache *IndexCache, known brands.Brands, feed internal.PriceFeedClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		date, err := parseDate(c.Query("date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query, err := parseQuery(c, cache.Settings())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ix, err := cache.Get(date)
		if err != nil {
			log.Printf("error while loading snapshot: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		timer := prometheus.NewTimer(engineDuration.WithLabelValues("compare"))
		cmp := ix.Compare(query)
		timer.ObserveDuration()

		if cmp == nil {
			engineRuns.WithLabelValues("compare", "empty").Inc()
		} else {
			engineRuns.WithLabelValues("compare", "ok").Inc()
			for reason, n := range cmp.Skipped {
				skippedOffers.WithLabelValues(string(reason)).Add(float64(n))
			}
		}

		c.JSON(http.StatusOK, ComparisonResponse{
			Date:        snapshotDate(ix),
			LastUpdated: lastUpdated(feed),
			Result:      toComparisonResult(cmp, known),
		})
	}
}

func Matrix(cache *IndexCache, feed internal.PriceFeedClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		date, err := parseDate(c.Query("date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query, err := parseQuery(c, cache.Settings())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ix, err := cache.Get(date)
		if err != nil {
			log.Printf("error while loading snapshot: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		started := time.Now()
		m := ix.Matrix(query)
		engineDuration.WithLabelValues("matrix").Observe(time.Since(started).Seconds())

		outcome := "ok"
		if m == nil || len(m.Rows) == 0 {
			outcome = "empty"
		}
		engineRuns.WithLabelValues("matrix", outcome).Inc()

		c.JSON(http.StatusOK, MatrixResponse{
			Date:        snapshotDate(ix),
			LastUpdated: lastUpdated(feed),
			Result:      toMatrixResult(m, cache.Settings()),
		})
	}
}

func Settings(cache *IndexCache) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cache.Settings())
	}
}
