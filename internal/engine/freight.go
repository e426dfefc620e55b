package engine

import (
	"sort"
	"time"

	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

type FreightSource string

const (
	FreightNone      FreightSource = "none"
	FreightPreferred FreightSource = "preference"
	FreightCheapest  FreightSource = "cheapest"
)

type SkipReason string

const (
	SkipIncompatibleBrand SkipReason = "incompatible_brand"
	SkipUnknownSupplier   SkipReason = "unknown_supplier"
	SkipMissingPrice      SkipReason = "missing_price"
	SkipInvalidPrice      SkipReason = "invalid_price"
)

type Freight struct {
	Cost       float64
	VehicleKey string
	Source     FreightSource
}

type LandedCostOffer struct {
	SupplierId    string
	SupplierName  string
	SupplierBrand string
	BaseId        string
	BaseName      string
	PostoId       string
	PostoName     string
	Date          time.Time
	BasePrice     float64
	FreightCost   float64
	VehicleKey    string // empty when no vehicle could be attributed
	FreightSource FreightSource
	FinalCost     float64
}

// Outcome is either a priced offer or the reason the record was skipped.
type Outcome struct {
	Offer LandedCostOffer
	Skip  SkipReason
}

func (o Outcome) Ok() bool {
	return o.Skip == ""
}

// Compatible applies the bandeira rule: a white-flag posto takes any supplier,
// a branded posto only takes suppliers of exactly its own brand.
func Compatible(supplierBrand, postoBrand string) bool {
	if postoBrand == models.WhiteFlag {
		return true
	}
	return supplierBrand == postoBrand
}

// validCost rejects negatives, NaN and anything over MaxUnitCost, so a price
// plus its freight always stays finite.
func validCost(c float64) bool {
	return c >= 0 && c <= models.MaxUnitCost
}

// ResolveFreight picks the freight cost for a route. Without a route, or when
// the route has no positive cost, freight is zero and the preferred vehicle (if
// any) is reported as-is. A preference present in the route wins; otherwise the
// cheapest valid entry is used, ties going to the lexically first vehicle key.
func ResolveFreight(route *models.FreightRoute, preference string) Freight {
	if route == nil || !hasPositiveCost(route.CostsByVehicle) {
		return Freight{VehicleKey: preference, Source: FreightNone}
	}

	if preference != "" {
		if c, ok := route.CostsByVehicle[preference]; ok && validCost(c) {
			return Freight{Cost: c, VehicleKey: preference, Source: FreightPreferred}
		}
	}

	keys := make([]string, 0, len(route.CostsByVehicle))
	for k := range route.CostsByVehicle {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := Freight{Source: FreightCheapest}
	for _, k := range keys {
		c := route.CostsByVehicle[k]
		if !validCost(c) {
			continue
		}
		if best.VehicleKey == "" || c < best.Cost {
			best.Cost = c
			best.VehicleKey = k
		}
	}
	return best
}

func hasPositiveCost(costs map[string]float64) bool {
	for _, c := range costs {
		if validCost(c) && c > 0 {
			return true
		}
	}
	return false
}

// Price turns one price record into a landed-cost offer for the posto.
func (ix *Index) Price(rec models.PriceRecord, posto models.Posto, fuelKey, preference string) Outcome {
	price, ok := rec.PricesByFuel[fuelKey]
	if !ok {
		return Outcome{Skip: SkipMissingPrice}
	}
	if !validCost(price) {
		return Outcome{Skip: SkipInvalidPrice}
	}

	supplier, ok := ix.suppliers[rec.SupplierId]
	if !ok {
		return Outcome{Skip: SkipUnknownSupplier}
	}
	if !Compatible(supplier.Brand, posto.Brand) {
		return Outcome{Skip: SkipIncompatibleBrand}
	}

	freight := ResolveFreight(ix.Route(rec.BaseId, posto.CityId), preference)
	return Outcome{Offer: LandedCostOffer{
		SupplierId:    supplier.Id,
		SupplierName:  supplier.Name,
		SupplierBrand: supplier.Brand,
		BaseId:        rec.BaseId,
		BaseName:      ix.baseNames[rec.BaseId],
		PostoId:       posto.Id,
		PostoName:     posto.Name,
		Date:          rec.Date,
		BasePrice:     price,
		FreightCost:   freight.Cost,
		VehicleKey:    freight.VehicleKey,
		FreightSource: freight.Source,
		FinalCost:     price + freight.Cost,
	}}
}
