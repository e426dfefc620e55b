package stats

import (
	"math"

	"github.com/rm-hull/fuel-landed-cost/internal/engine"
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every derived figure is rounded to.
const Places = 4

var defaultBucketSize = decimal.RequireFromString("0.05")

type Statistics struct {
	LowestCost        decimal.Decimal `json:"lowest_cost"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	HighestCost       decimal.Decimal `json:"highest_cost"`
	StandardDeviation decimal.Decimal `json:"standard_deviation"`
	CostDistribution  map[string]int  `json:"cost_distribution"`
	BrandDistribution map[string]int  `json:"brand_distribution"`
	OfferCount        int             `json:"offer_count"`
}

// Derive summarises the landed costs of a set of offers. bucketSize is the width
// of each histogram bucket in currency units per litre; buckets are half-open,
// so a cost on an edge belongs to the bucket it starts. label maps a supplier
// brand key onto the name used in the brand distribution; nil keeps the key.
// Returns nil for no offers.
func Derive(offers []engine.LandedCostOffer, bucketSize float64, label func(string) string) *Statistics {
	if len(offers) == 0 {
		return nil
	}
	size := defaultBucketSize
	if bucketSize > 0 && !math.IsInf(bucketSize, 0) {
		size = decimal.NewFromFloat(bucketSize)
	}
	if label == nil {
		label = func(brand string) string { return brand }
	}

	costs := make([]decimal.Decimal, len(offers))
	for i, o := range offers {
		costs[i] = decimal.NewFromFloat(o.FinalCost).Round(Places)
	}

	stats := &Statistics{
		LowestCost:        decimal.Min(costs[0], costs[1:]...),
		HighestCost:       decimal.Max(costs[0], costs[1:]...),
		AverageCost:       decimal.Avg(costs[0], costs[1:]...).Round(Places),
		StandardDeviation: decimal.Zero,
		CostDistribution:  make(map[string]int),
		BrandDistribution: make(map[string]int),
		OfferCount:        len(offers),
	}

	for _, o := range offers {
		stats.BrandDistribution[label(o.SupplierBrand)]++
	}

	if len(costs) > 1 {
		mean := decimal.Avg(costs[0], costs[1:]...)
		variance := decimal.Zero
		for _, c := range costs {
			d := c.Sub(mean)
			variance = variance.Add(d.Mul(d))
		}
		variance = variance.Div(decimal.NewFromInt(int64(len(costs))))
		stdDev, _ := variance.Float64()
		stats.StandardDeviation = decimal.NewFromFloat(math.Sqrt(stdDev)).Round(Places)
	}

	for _, c := range costs {
		start := c.Div(size).Floor().Mul(size)
		bucketKey := start.StringFixed(2) + "-" + start.Add(size).StringFixed(2)
		stats.CostDistribution[bucketKey]++
	}

	return stats
}
