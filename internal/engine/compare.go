package engine

import "github.com/rm-hull/fuel-landed-cost/internal/models"

type Comparison struct {
	GroupId    string
	FuelKey    string
	VehicleKey string
	Postos     []models.Posto

	// Bases is ordered cheapest first.
	Bases   []BaseAggregate
	Summary Summary

	// Suppliers ranks every supplier by its cheapest offer over all bases.
	Suppliers []LandedCostOffer
	// PostoBest is the cheapest offer for each posto, in selection order.
	PostoBest []LandedCostOffer
	Offers    []LandedCostOffer
	Skipped   map[SkipReason]int
}

// Compare runs the whole pipeline for one fuel. It returns nil when nothing is
// selected yet or no base has a usable offer.
func Compare(snap *Snapshot, q Query) *Comparison {
	return NewIndex(snap).Compare(q)
}

func (ix *Index) Compare(q Query) *Comparison {
	sel := Resolve(ix.snapshot.Postos, q)
	if sel == nil {
		return nil
	}

	priced := ix.priceSelection(sel, q.VehicleKey)
	var aggs []BaseAggregate
	var all []LandedCostOffer
	for _, pb := range priced.bases {
		if agg := AggregateBase(pb.base, pb.offers, q.TopN); agg != nil {
			aggs = append(aggs, *agg)
			all = append(all, pb.offers...)
		}
	}

	ranked := RankBases(aggs)
	summary := Summarise(ranked)
	if summary == nil {
		return nil
	}

	return &Comparison{
		GroupId:    sel.GroupId,
		FuelKey:    sel.FuelKey,
		VehicleKey: q.VehicleKey,
		Postos:     sel.Postos,
		Bases:      ranked,
		Summary:    *summary,
		Suppliers:  TopSuppliers(all, AllSuppliers),
		PostoBest:  bestPerPosto(sel.Postos, all),
		Offers:     all,
		Skipped:    priced.skipped,
	}
}

type pricedBase struct {
	base   models.Base
	offers []LandedCostOffer
}

type pricedSelection struct {
	bases   []pricedBase
	skipped map[SkipReason]int
}

func (ix *Index) priceSelection(sel *Selection, preference string) pricedSelection {
	out := pricedSelection{skipped: make(map[SkipReason]int)}
	for _, cand := range ix.Join(sel.GroupId, sel.FuelKey) {
		pb := pricedBase{base: cand.Base}
		for _, posto := range sel.Postos {
			for _, rec := range cand.Records {
				outcome := ix.Price(rec, posto, sel.FuelKey, preference)
				if !outcome.Ok() {
					out.skipped[outcome.Skip]++
					continue
				}
				pb.offers = append(pb.offers, outcome.Offer)
			}
		}
		out.bases = append(out.bases, pb)
	}
	return out
}

func bestPerPosto(postos []models.Posto, offers []LandedCostOffer) []LandedCostOffer {
	best := make(map[string]LandedCostOffer, len(postos))
	for _, o := range offers {
		if cur, ok := best[o.PostoId]; !ok || o.FinalCost < cur.FinalCost {
			best[o.PostoId] = o
		}
	}

	out := make([]LandedCostOffer, 0, len(best))
	for _, p := range postos {
		if o, ok := best[p.Id]; ok {
			out = append(out, o)
		}
	}
	return out
}
