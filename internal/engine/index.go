package engine

import "github.com/rm-hull/fuel-landed-cost/internal/models"

type routeKey struct {
	baseId string
	cityId string
}

// Index holds the lookup tables for one snapshot. It is read-only once built
// and may be shared between queries against the same snapshot.
type Index struct {
	snapshot     *Snapshot
	pricesByBase map[string][]models.PriceRecord
	routes       map[routeKey]*models.FreightRoute
	suppliers    map[string]*models.Supplier
	baseNames    map[string]string
}

func NewIndex(snap *Snapshot) *Index {
	ix := &Index{
		snapshot:     snap,
		pricesByBase: make(map[string][]models.PriceRecord, len(snap.Bases)),
		routes:       make(map[routeKey]*models.FreightRoute, len(snap.Routes)),
		suppliers:    make(map[string]*models.Supplier, len(snap.Suppliers)),
		baseNames:    make(map[string]string, len(snap.Bases)),
	}

	for _, b := range snap.Bases {
		ix.baseNames[b.Id] = b.Name
	}
	for _, rec := range snap.Prices {
		ix.pricesByBase[rec.BaseId] = append(ix.pricesByBase[rec.BaseId], rec)
	}
	for i := range snap.Routes {
		r := &snap.Routes[i]
		key := routeKey{r.OriginBaseId, r.DestinationCityId}
		if _, exists := ix.routes[key]; !exists {
			ix.routes[key] = r
		}
	}
	for i := range snap.Suppliers {
		s := &snap.Suppliers[i]
		if _, exists := ix.suppliers[s.Id]; !exists {
			ix.suppliers[s.Id] = s
		}
	}
	return ix
}

func (ix *Index) Snapshot() *Snapshot {
	return ix.snapshot
}

// Route returns the freight route from a base to a city, or nil.
func (ix *Index) Route(baseId, cityId string) *models.FreightRoute {
	return ix.routes[routeKey{baseId, cityId}]
}

type BaseCandidates struct {
	Base    models.Base
	Records []models.PriceRecord
}

// Join lists, for every base in reference order, the price records open to the
// group that carry a price for the fuel. Duplicate records are all kept.
func (ix *Index) Join(groupId, fuelKey string) []BaseCandidates {
	out := make([]BaseCandidates, 0, len(ix.snapshot.Bases))
	for _, base := range ix.snapshot.Bases {
		var records []models.PriceRecord
		for _, rec := range ix.pricesByBase[base.Id] {
			if !rec.AppliesTo(groupId) {
				continue
			}
			if _, ok := rec.PricesByFuel[fuelKey]; !ok {
				continue
			}
			records = append(records, rec)
		}
		out = append(out, BaseCandidates{Base: base, Records: records})
	}
	return out
}
