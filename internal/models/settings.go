package models

type FuelType struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type VehicleType struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Capacity float64 `json:"capacity,omitempty"` // litres
}

// Settings enumerates the fuel and vehicle types known to the business, in display order.
type Settings struct {
	FuelTypes    []FuelType    `json:"fuel_types"`
	VehicleTypes []VehicleType `json:"vehicle_types"`
}

func (s *Settings) FuelKeys() []string {
	keys := make([]string, 0, len(s.FuelTypes))
	for _, ft := range s.FuelTypes {
		keys = append(keys, ft.Key)
	}
	return keys
}

func (s *Settings) HasFuel(key string) bool {
	for _, ft := range s.FuelTypes {
		if ft.Key == key {
			return true
		}
	}
	return false
}
