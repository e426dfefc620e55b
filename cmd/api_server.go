package cmd

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/brands"
	"github.com/rm-hull/fuel-landed-cost/internal/routes"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

const SNAPSHOT_TTL = 5 * time.Minute

func ApiServer(dbPath, settingsPath string, port int, debug bool) error {

	repo, settings, err := bootstrap(dbPath, settingsPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	cache := routes.NewIndexCache(repo, settings, SNAPSHOT_TTL)

	known, err := brands.GetBrandsMap()
	if err != nil {
		return fmt.Errorf("failed to load bandeiras: %w", err)
	}

	client, err := feedClient()
	if err != nil {
		return fmt.Errorf("failed to create price feed client: %w", err)
	}
	if client != nil {
		c, err := internal.StartCron(client, repo, cache.Flush)
		if err != nil {
			return fmt.Errorf("failed to start CRON jobs: %w", err)
		}
		defer c.Stop()
	} else {
		log.Println("PRICE_FEED_URL not set, scheduled price pulls are disabled")
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		repo.Check(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %v", err)
	}

	v1 := r.Group("/v1/landed-cost")
	v1.GET("/compare", routes.Compare(cache, known, client))
	v1.GET("/matrix", routes.Matrix(cache, client))
	v1.GET("/settings", routes.Settings(cache))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %v", port, err)
	}

	return nil
}
