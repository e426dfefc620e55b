package models

import "time"

// WhiteFlag is the unbranded brand tag. A white-flag posto accepts every supplier.
const WhiteFlag = "bandeira_branca"

type Base struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Supplier struct {
	Id      string   `json:"id"`
	Name    string   `json:"name"`
	Brand   string   `json:"brand"`
	CityIds []string `json:"city_ids,omitempty"`
}

type Posto struct {
	Id       string   `json:"id"`
	Name     string   `json:"name"`
	CityId   string   `json:"city_id"`
	Brand    string   `json:"brand"`
	GroupIds []string `json:"group_ids,omitempty"`
}

// InGroup reports whether the posto belongs to groupId.
func (p *Posto) InGroup(groupId string) bool {
	for _, g := range p.GroupIds {
		if g == groupId {
			return true
		}
	}
	return false
}

// PriceRecord is one row of a supplier's daily price list at a loading base.
// An empty GroupIds means the price list is open to every group.
type PriceRecord struct {
	Date         time.Time          `json:"date"`
	BaseId       string             `json:"base_id"`
	SupplierId   string             `json:"supplier_id"`
	GroupIds     []string           `json:"group_ids,omitempty"`
	PricesByFuel map[string]float64 `json:"prices"`
}

func (r *PriceRecord) AppliesTo(groupId string) bool {
	if len(r.GroupIds) == 0 {
		return true
	}
	for _, g := range r.GroupIds {
		if g == groupId {
			return true
		}
	}
	return false
}

type FreightRoute struct {
	OriginBaseId      string             `json:"origin_base_id"`
	DestinationCityId string             `json:"destination_city_id"`
	CostsByVehicle    map[string]float64 `json:"costs"`
}

type Brand struct {
	Key  string
	Name string
}
