package brands

import (
	_ "embed"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

//go:embed brands.csv
var brandsCSV string

func GetBrandsList() ([]*models.Brand, error) {
	arr := make([]*models.Brand, 0, 16)
	reader := strings.NewReader(brandsCSV)

	for record := range internal.ParseCSV(reader, false, models.BrandFromCSV) {
		if record.Error != nil {
			return nil, errors.Wrap(record.Error, "failed to load bandeiras")
		}
		arr = append(arr, record.Value)
	}

	return arr, nil
}

func GetBrandsMap() (Brands, error) {
	brands, err := GetBrandsList()
	if err != nil {
		return nil, err
	}

	m := make(map[string]*models.Brand, len(brands))
	for _, record := range brands {
		if _, ok := m[record.Key]; ok {
			return nil, errors.Newf("duplicate key detected: %s", record.Key)
		}
		m[record.Key] = record
	}
	if _, ok := m[models.WhiteFlag]; !ok {
		return nil, errors.Newf("brand list is missing %s", models.WhiteFlag)
	}

	return m, nil
}

type Brands map[string]*models.Brand

// Validate rejects brand tags that are not on the list, naming the owner.
func (b Brands) Validate(owner, brand string) error {
	if _, ok := b[brand]; !ok {
		return errors.Newf("%s has unknown bandeira %q", owner, brand)
	}
	return nil
}

func (b Brands) DisplayName(brand string) string {
	if rec, ok := b[brand]; ok {
		return rec.Name
	}
	return brand
}
