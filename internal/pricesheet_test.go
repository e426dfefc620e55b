package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceSheetHTML = `<html><body>
<table class="summary"><tr><td>ignore me</td></tr></table>
<table class="price-sheet">
  <thead><tr><th>Base</th><th>Distribuidora</th><th>Grupos</th><th>diesel_s10</th><th>etanol</th></tr></thead>
  <tbody>
    <tr><td>udi</td><td>x</td><td>g1;g2</td><td>5,0120</td><td>-</td></tr>
    <tr><td>gyn</td><td>y</td><td></td><td>4,8000</td><td>3,1500</td></tr>
  </tbody>
</table>
</body></html>`

func TestParsePriceSheet(t *testing.T) {
	date := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	records, err := ParsePriceSheet(strings.NewReader(priceSheetHTML), date)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "udi", records[0].BaseId)
	assert.Equal(t, "x", records[0].SupplierId)
	assert.Equal(t, []string{"g1", "g2"}, records[0].GroupIds)
	assert.Equal(t, map[string]float64{"diesel_s10": 5.012}, records[0].PricesByFuel)
	assert.True(t, records[0].Date.Equal(date))

	assert.Empty(t, records[1].GroupIds)
	assert.Equal(t, map[string]float64{"diesel_s10": 4.8, "etanol": 3.15}, records[1].PricesByFuel)
}

func TestParsePriceSheetErrors(t *testing.T) {
	_, err := ParsePriceSheet(strings.NewReader("<p>nothing here</p>"), time.Now())
	assert.ErrorContains(t, err, "no table")

	_, err = ParsePriceSheet(strings.NewReader("<table><tr><th>Base</th><th>Fornecedor</th></tr></table>"), time.Now())
	assert.ErrorContains(t, err, "expected base, supplier, groups")
}
