package settings

import (
	_ "embed"
	"os"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed settings.json
var defaultSettingsJSON []byte

// Default returns the built-in fuel and vehicle enumerations.
func Default() (models.Settings, error) {
	return Parse(defaultSettingsJSON)
}

// Load reads settings from path, or the defaults when path is empty.
func Load(path string) (models.Settings, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Settings{}, errors.Wrapf(err, "failed to read settings file %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (models.Settings, error) {
	var s models.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Settings{}, errors.Wrap(err, "failed to decode settings")
	}
	if err := Validate(s); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

func Validate(s models.Settings) error {
	if len(s.FuelTypes) == 0 {
		return errors.New("settings must list at least one fuel type")
	}

	seen := make(map[string]bool)
	for _, ft := range s.FuelTypes {
		if ft.Key == "" {
			return errors.New("fuel type with empty key")
		}
		if seen[ft.Key] {
			return errors.Newf("duplicate fuel type: %s", ft.Key)
		}
		seen[ft.Key] = true
	}

	seen = make(map[string]bool)
	for _, vt := range s.VehicleTypes {
		if vt.Key == "" {
			return errors.New("vehicle type with empty key")
		}
		if seen[vt.Key] {
			return errors.Newf("duplicate vehicle type: %s", vt.Key)
		}
		seen[vt.Key] = true
	}
	return nil
}
