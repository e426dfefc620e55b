package internal

import (
	"strings"
	"testing"

	"github.com/rm-hull/fuel-landed-cost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	t.Run("wide price rows use the header for fuel keys", func(t *testing.T) {
		data := "date,base_id,supplier_id,group_ids,diesel_s10,etanol\n" +
			"2026-10-18,udi,x,g1;g2,5.00,\n" +
			"2026-10-18,gyn,y,,\"4,80\",3.10\n"

		var records []*models.PriceRecord
		for res := range ParseCSV(strings.NewReader(data), true, models.PriceRecordFromCSV) {
			require.NoError(t, res.Error)
			records = append(records, res.Value)
		}

		require.Len(t, records, 2)
		assert.Equal(t, "udi", records[0].BaseId)
		assert.Equal(t, []string{"g1", "g2"}, records[0].GroupIds)
		assert.Equal(t, map[string]float64{"diesel_s10": 5.00}, records[0].PricesByFuel)
		assert.Empty(t, records[1].GroupIds)
		assert.Equal(t, map[string]float64{"diesel_s10": 4.80, "etanol": 3.10}, records[1].PricesByFuel)
	})

	t.Run("non-numeric freight cells are dropped", func(t *testing.T) {
		data := "origin_base_id,destination_city_id,truck,carreta\nudi,catalao,n/a,0.10\n"

		var routes []*models.FreightRoute
		for res := range ParseCSV(strings.NewReader(data), true, models.FreightRouteFromCSV) {
			require.NoError(t, res.Error)
			routes = append(routes, res.Value)
		}
		require.Len(t, routes, 1)
		assert.Equal(t, map[string]float64{"carreta": 0.10}, routes[0].CostsByVehicle)
	})

	t.Run("out of range costs are dropped", func(t *testing.T) {
		data := "date,base_id,supplier_id,group_ids,diesel_s10,etanol,gasolina\n" +
			"2026-10-18,udi,x,,1e308,1000,-0.5\n"

		var records []*models.PriceRecord
		for res := range ParseCSV(strings.NewReader(data), true, models.PriceRecordFromCSV) {
			require.NoError(t, res.Error)
			records = append(records, res.Value)
		}
		require.Len(t, records, 1)
		assert.Equal(t, map[string]float64{"etanol": 1000, "gasolina": -0.5}, records[0].PricesByFuel)

		data = "origin_base_id,destination_city_id,truck,carreta\nudi,catalao,1e308,-1e308\n"
		var routes []*models.FreightRoute
		for res := range ParseCSV(strings.NewReader(data), true, models.FreightRouteFromCSV) {
			require.NoError(t, res.Error)
			routes = append(routes, res.Value)
		}
		require.Len(t, routes, 1)
		assert.Empty(t, routes[0].CostsByVehicle)
	})

	t.Run("errors stop iteration", func(t *testing.T) {
		data := "date,base_id,supplier_id,group_ids,diesel\nnot-a-date,udi,x,,5\n2026-10-18,udi,x,,5\n"

		count := 0
		var lastErr error
		for res := range ParseCSV(strings.NewReader(data), true, models.PriceRecordFromCSV) {
			count++
			lastErr = res.Error
		}
		assert.Equal(t, 1, count)
		assert.ErrorContains(t, lastErr, "line 2")
	})

	t.Run("headerless reference data", func(t *testing.T) {
		data := "p1,Posto Um,catalao,Shell,g1;g2\np2,Posto Dois,goiania,,g2\n"

		var postos []*models.Posto
		for res := range ParseCSV(strings.NewReader(data), false, models.PostoFromCSV) {
			require.NoError(t, res.Error)
			postos = append(postos, res.Value)
		}
		require.Len(t, postos, 2)
		assert.Equal(t, "shell", postos[0].Brand)
		assert.Equal(t, models.WhiteFlag, postos[1].Brand)
		assert.Equal(t, []string{"g2"}, postos[1].GroupIds)
	})
}
