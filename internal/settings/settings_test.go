package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "diesel_s10", s.FuelTypes[0].Key)
	assert.True(t, s.HasFuel("etanol"))
	assert.Len(t, s.VehicleTypes, 4)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"valid", `{"fuel_types":[{"key":"diesel"}],"vehicle_types":[{"key":"truck"}]}`, ""},
		{"no fuels", `{"fuel_types":[]}`, "at least one fuel type"},
		{"duplicate fuel", `{"fuel_types":[{"key":"diesel"},{"key":"diesel"}]}`, "duplicate fuel type: diesel"},
		{"empty vehicle key", `{"fuel_types":[{"key":"diesel"}],"vehicle_types":[{"key":""}]}`, "vehicle type with empty key"},
		{"bad json", `{"fuel_types":`, "failed to decode settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fuel_types":[{"key":"arla","label":"Arla 32"}]}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"arla"}, s.FuelKeys())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
