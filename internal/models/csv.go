package models

import (
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const DateFormat = "2006-01-02"

// MaxUnitCost bounds the magnitude of any per-litre price or freight cost
// accepted from an import or the price feed.
const MaxUnitCost = 1000.0

// WithinBounds reports whether v is a finite cost no larger than MaxUnitCost.
func WithinBounds(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= MaxUnitCost
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func requireColumns(record []string, n int, kind string) error {
	if len(record) < n {
		return errors.Newf("%s row has %d columns, expected at least %d", kind, len(record), n)
	}
	return nil
}

// BaseFromCSV reads `id,name`.
func BaseFromCSV(record, headers []string) (*Base, error) {
	if err := requireColumns(record, 2, "base"); err != nil {
		return nil, err
	}
	return &Base{Id: strings.TrimSpace(record[0]), Name: strings.TrimSpace(record[1])}, nil
}

// SupplierFromCSV reads `id,name,brand,city_ids` where city_ids is `;`-separated.
func SupplierFromCSV(record, headers []string) (*Supplier, error) {
	if err := requireColumns(record, 3, "supplier"); err != nil {
		return nil, err
	}
	supplier := &Supplier{
		Id:    strings.TrimSpace(record[0]),
		Name:  strings.TrimSpace(record[1]),
		Brand: normaliseBrand(record[2]),
	}
	if len(record) > 3 {
		supplier.CityIds = splitList(record[3])
	}
	return supplier, nil
}

// PostoFromCSV reads `id,name,city_id,brand,group_ids`.
func PostoFromCSV(record, headers []string) (*Posto, error) {
	if err := requireColumns(record, 4, "posto"); err != nil {
		return nil, err
	}
	posto := &Posto{
		Id:     strings.TrimSpace(record[0]),
		Name:   strings.TrimSpace(record[1]),
		CityId: strings.TrimSpace(record[2]),
		Brand:  normaliseBrand(record[3]),
	}
	if len(record) > 4 {
		posto.GroupIds = splitList(record[4])
	}
	return posto, nil
}

// PriceRecordFromCSV reads the wide price layout `date,base_id,supplier_id,group_ids,<fuel>...`,
// one column per fuel key named in the header. Blank cells mean "no price for that fuel".
func PriceRecordFromCSV(record, headers []string) (*PriceRecord, error) {
	if err := requireColumns(record, 4, "price"); err != nil {
		return nil, err
	}
	if len(headers) != len(record) {
		return nil, errors.Newf("price row has %d columns but header has %d", len(record), len(headers))
	}
	date, err := time.Parse(DateFormat, strings.TrimSpace(record[0]))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid price date %q", record[0])
	}
	prices, err := parseCostColumns(record[4:], headers[4:], "price")
	if err != nil {
		return nil, err
	}
	return &PriceRecord{
		Date:         date,
		BaseId:       strings.TrimSpace(record[1]),
		SupplierId:   strings.TrimSpace(record[2]),
		GroupIds:     splitList(record[3]),
		PricesByFuel: prices,
	}, nil
}

// FreightRouteFromCSV reads `origin_base_id,destination_city_id,<vehicle>...`.
// Cells that are not finite numbers are dropped with a warning rather than stored.
func FreightRouteFromCSV(record, headers []string) (*FreightRoute, error) {
	if err := requireColumns(record, 2, "route"); err != nil {
		return nil, err
	}
	if len(headers) != len(record) {
		return nil, errors.Newf("route row has %d columns but header has %d", len(record), len(headers))
	}
	costs, err := parseCostColumns(record[2:], headers[2:], "freight cost")
	if err != nil {
		return nil, err
	}
	return &FreightRoute{
		OriginBaseId:      strings.TrimSpace(record[0]),
		DestinationCityId: strings.TrimSpace(record[1]),
		CostsByVehicle:    costs,
	}, nil
}

// BrandFromCSV reads `key,name`.
func BrandFromCSV(record, headers []string) (*Brand, error) {
	if err := requireColumns(record, 2, "brand"); err != nil {
		return nil, err
	}
	return &Brand{Key: normaliseBrand(record[0]), Name: strings.TrimSpace(record[1])}, nil
}

func parseCostColumns(cells, keys []string, kind string) (map[string]float64, error) {
	out := make(map[string]float64, len(cells))
	for i, cell := range cells {
		key := strings.TrimSpace(keys[i])
		cell = strings.TrimSpace(cell)
		if key == "" {
			return nil, errors.Newf("blank header for %s column %d", kind, i)
		}
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			log.Printf("WARNING: ignoring non-numeric %s %q for %s", kind, cell, key)
			continue
		}
		if !WithinBounds(v) {
			log.Printf("WARNING: ignoring out of range %s %q for %s", kind, cell, key)
			continue
		}
		out[key] = v
	}
	return out, nil
}

func normaliseBrand(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WhiteFlag
	}
	return strings.ReplaceAll(s, " ", "_")
}
