package engine

import (
	"sort"

	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

type BaseAggregate struct {
	BaseId           string
	BaseName         string
	BestCost         float64
	AvgCost          float64
	BestSupplierName string
	BestOffer        LandedCostOffer
	TopSuppliers     []LandedCostOffer
	PostoCount       int
	SupplierCount    int
	OfferCount       int
}

// Summary compares the cheapest and most expensive bases. SavingsPercent is
// nil when the worst base costs nothing, as the percentage is then undefined.
type Summary struct {
	Best           BaseAggregate
	Worst          BaseAggregate
	Savings        float64
	SavingsPercent *float64
}

// AggregateBase reduces the offers of one base. It returns nil for no offers.
func AggregateBase(base models.Base, offers []LandedCostOffer, topN TopN) *BaseAggregate {
	if len(offers) == 0 {
		return nil
	}

	agg := &BaseAggregate{
		BaseId:     base.Id,
		BaseName:   base.Name,
		BestOffer:  offers[0],
		OfferCount: len(offers),
	}
	postos := make(map[string]struct{})
	suppliers := make(map[string]struct{})
	sum := 0.0
	for _, o := range offers {
		sum += o.FinalCost
		if o.FinalCost < agg.BestOffer.FinalCost {
			agg.BestOffer = o
		}
		postos[o.PostoId] = struct{}{}
		suppliers[o.SupplierName] = struct{}{}
	}

	agg.BestCost = agg.BestOffer.FinalCost
	agg.BestSupplierName = agg.BestOffer.SupplierName
	agg.AvgCost = sum / float64(len(offers))
	agg.PostoCount = len(postos)
	agg.SupplierCount = len(suppliers)
	agg.TopSuppliers = TopSuppliers(offers, topN)
	return agg
}

// TopSuppliers keeps each supplier's cheapest offer, sorts them ascending by
// landed cost and truncates to n.
func TopSuppliers(offers []LandedCostOffer, n TopN) []LandedCostOffer {
	bySupplier := make(map[string]int)
	best := make([]LandedCostOffer, 0, len(offers))
	for _, o := range offers {
		i, seen := bySupplier[o.SupplierName]
		if !seen {
			bySupplier[o.SupplierName] = len(best)
			best = append(best, o)
			continue
		}
		if o.FinalCost < best[i].FinalCost {
			best[i] = o
		}
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].FinalCost < best[j].FinalCost
	})
	return best[:n.Limit(len(best))]
}

// RankBases returns a copy of the aggregates ordered by best cost, keeping the
// incoming order for ties.
func RankBases(aggs []BaseAggregate) []BaseAggregate {
	ranked := make([]BaseAggregate, len(aggs))
	copy(ranked, aggs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BestCost < ranked[j].BestCost
	})
	return ranked
}

// Summarise expects ranked aggregates and returns nil when there are none.
func Summarise(ranked []BaseAggregate) *Summary {
	if len(ranked) == 0 {
		return nil
	}

	s := &Summary{
		Best:  ranked[0],
		Worst: ranked[len(ranked)-1],
	}
	s.Savings = s.Worst.BestCost - s.Best.BestCost
	if s.Worst.BestCost != 0 {
		pct := s.Savings / s.Worst.BestCost * 100
		s.SavingsPercent = &pct
	}
	return s
}
