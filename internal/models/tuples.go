package models

import (
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (b *Base) ToTuple() []any {
	return []any{b.Id, b.Name}
}

func (s *Supplier) ToTuple() ([]any, error) {
	cities, err := toJSON(s.CityIds)
	if err != nil {
		return nil, err
	}
	return []any{s.Id, s.Name, s.Brand, cities}, nil
}

func (p *Posto) ToTuple() ([]any, error) {
	groups, err := toJSON(p.GroupIds)
	if err != nil {
		return nil, err
	}
	return []any{p.Id, p.Name, p.CityId, p.Brand, groups}, nil
}

// ToTuple encodes the record canonically: group ids sorted, an empty group list
// as `[]` and an empty price map as `{}`, so the same record always produces
// the same natural key.
func (r *PriceRecord) ToTuple() ([]any, error) {
	groupIds := append([]string{}, r.GroupIds...)
	sort.Strings(groupIds)
	groups, err := toJSON(groupIds)
	if err != nil {
		return nil, err
	}
	pricesByFuel := r.PricesByFuel
	if pricesByFuel == nil {
		pricesByFuel = map[string]float64{}
	}
	prices, err := toJSON(pricesByFuel)
	if err != nil {
		return nil, err
	}
	return []any{r.Date.Format(DateFormat), r.BaseId, r.SupplierId, groups, prices}, nil
}

func (r *FreightRoute) ToTuple() ([]any, error) {
	costs, err := toJSON(r.CostsByVehicle)
	if err != nil {
		return nil, err
	}
	return []any{r.OriginBaseId, r.DestinationCityId, costs}, nil
}

// FromJSON decodes a JSON column into v. Empty columns leave v untouched.
func FromJSON(column string, v any) error {
	if column == "" {
		return nil
	}
	return json.Unmarshal([]byte(column), v)
}

func toJSON(v any) (string, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error marshaling to JSON: %w", err)
	}
	return string(jsonBytes), nil
}
