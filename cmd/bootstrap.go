package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
	"github.com/rm-hull/fuel-landed-cost/internal/settings"
)

// bootstrap initialises shared resources used by every command. It returns the
// repository and the fuel/vehicle settings, or an error if startup failed.
func bootstrap(dbPath, settingsPath string) (internal.LandedCostRepository, models.Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	if settingsPath == "" {
		settingsPath = os.Getenv("SETTINGS_FILE")
	}
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	db, err := internal.Connect(dbPath)
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := internal.Migrate(dbPath); err != nil {
		_ = db.Close()
		return nil, models.Settings{}, fmt.Errorf("failed to migrate SQL: %w", err)
	}

	return internal.NewLandedCostRepository(db), cfg, nil
}

// feedClient returns nil when no remote price feed is configured.
func feedClient() (internal.PriceFeedClient, error) {
	url := os.Getenv("PRICE_FEED_URL")
	if url == "" {
		return nil, nil
	}
	return internal.NewPriceFeedClient(url, os.Getenv("PRICE_FEED_TOKEN"))
}
