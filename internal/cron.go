package internal

import (
	"log"

	"github.com/robfig/cron/v3"
)

const CRON_SCHEDULE_PRICES = "10 */1 * * *" // Every hour

// StartCron pulls the remote price feed on a schedule. onRefresh runs after
// every pull that stored at least one record.
func StartCron(client PriceFeedClient, repo LandedCostRepository, onRefresh func()) (*cron.Cron, error) {

	c := cron.New()

	log.Print("Starting CRON job to pull supplier price lists")

	if _, err := c.AddFunc(CRON_SCHEDULE_PRICES, func() {
		PullPrices(client, repo, onRefresh)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func PullPrices(client PriceFeedClient, repo LandedCostRepository, onRefresh func()) {
	numPrices, err := client.GetPrices(repo.InsertPrices)
	if err != nil {
		log.Printf("Error fetching price records: %v\n", err)
		return
	}
	log.Printf("Inserted %d price records", numPrices)
	if numPrices > 0 && onRefresh != nil {
		onRefresh()
	}
}
