package routes

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/fuel-landed-cost/internal/brands"
	"github.com/rm-hull/fuel-landed-cost/internal/engine"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
	"github.com/rm-hull/fuel-landed-cost/internal/stats"
)

// DisplayPlaces is the number of decimal places costs are shown with.
const DisplayPlaces = stats.Places

// StatisticsBucketSize is the width of a cost histogram bucket, per litre.
const StatisticsBucketSize = 0.05

func money(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(DisplayPlaces)
}

type Offer struct {
	SupplierId    string          `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	SupplierBrand string          `json:"supplier_brand"`
	BaseId        string          `json:"base_id"`
	BaseName      string          `json:"base_name"`
	PostoId       string          `json:"posto_id"`
	PostoName     string          `json:"posto_name"`
	BasePrice     decimal.Decimal `json:"base_price"`
	FreightCost   decimal.Decimal `json:"freight_cost"`
	VehicleKey    *string         `json:"vehicle_key"`
	FreightSource string          `json:"freight_source"`
	FinalCost     decimal.Decimal `json:"final_cost"`
}

type BaseResult struct {
	BaseId           string          `json:"base_id"`
	BaseName         string          `json:"base_name"`
	BestCost         decimal.Decimal `json:"best_cost"`
	AvgCost          decimal.Decimal `json:"avg_cost"`
	BestSupplierName string          `json:"best_supplier_name"`
	TopSuppliers     []Offer         `json:"top_suppliers"`
	PostoCount       int             `json:"posto_count"`
	SupplierCount    int             `json:"supplier_count"`
}

type SummaryResult struct {
	BestBaseId     string           `json:"best_base_id"`
	WorstBaseId    string           `json:"worst_base_id"`
	Savings        decimal.Decimal  `json:"savings"`
	SavingsPercent *decimal.Decimal `json:"savings_percent"` // null when not applicable
}

type ComparisonResult struct {
	GroupId    string            `json:"group_id"`
	FuelKey    string            `json:"fuel_key"`
	VehicleKey *string           `json:"vehicle_key"`
	PostoCount int               `json:"posto_count"`
	Bases      []BaseResult      `json:"bases"`
	Summary    SummaryResult     `json:"summary"`
	Suppliers  []Offer           `json:"suppliers"`
	PostoBest  []Offer           `json:"posto_best"`
	Skipped    map[string]int    `json:"skipped,omitempty"`
	Statistics *stats.Statistics `json:"statistics,omitempty"`
}

type ComparisonResponse struct {
	Date        *time.Time        `json:"date,omitempty"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
	Result      *ComparisonResult `json:"result"`
}

type MatrixCell struct {
	BestCost         decimal.Decimal `json:"best_cost"`
	AvgCost          decimal.Decimal `json:"avg_cost"`
	BestSupplierName string          `json:"best_supplier_name"`
	IsBest           bool            `json:"is_best"`
}

type MatrixRow struct {
	BaseId   string        `json:"base_id"`
	BaseName string        `json:"base_name"`
	Cells    []*MatrixCell `json:"cells"`
}

type MatrixResult struct {
	GroupId  string            `json:"group_id"`
	Fuels    []models.FuelType `json:"fuels"`
	Rows     []MatrixRow       `json:"rows"`
	BestBase map[string]string `json:"best_base"`
}

type MatrixResponse struct {
	Date        *time.Time    `json:"date,omitempty"`
	LastUpdated *time.Time    `json:"last_updated,omitempty"`
	Result      *MatrixResult `json:"result"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toOffer(o engine.LandedCostOffer) Offer {
	return Offer{
		SupplierId:    o.SupplierId,
		SupplierName:  o.SupplierName,
		SupplierBrand: o.SupplierBrand,
		BaseId:        o.BaseId,
		BaseName:      o.BaseName,
		PostoId:       o.PostoId,
		PostoName:     o.PostoName,
		BasePrice:     money(o.BasePrice),
		FreightCost:   money(o.FreightCost),
		VehicleKey:    optional(o.VehicleKey),
		FreightSource: string(o.FreightSource),
		FinalCost:     money(o.FinalCost),
	}
}

func toOffers(offers []engine.LandedCostOffer) []Offer {
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOffer(o))
	}
	return out
}

func toComparisonResult(cmp *engine.Comparison, known brands.Brands) *ComparisonResult {
	if cmp == nil {
		return nil
	}

	bases := make([]BaseResult, 0, len(cmp.Bases))
	for _, b := range cmp.Bases {
		bases = append(bases, BaseResult{
			BaseId:           b.BaseId,
			BaseName:         b.BaseName,
			BestCost:         money(b.BestCost),
			AvgCost:          money(b.AvgCost),
			BestSupplierName: b.BestSupplierName,
			TopSuppliers:     toOffers(b.TopSuppliers),
			PostoCount:       b.PostoCount,
			SupplierCount:    b.SupplierCount,
		})
	}

	summary := SummaryResult{
		BestBaseId:  cmp.Summary.Best.BaseId,
		WorstBaseId: cmp.Summary.Worst.BaseId,
		Savings:     money(cmp.Summary.Savings),
	}
	if cmp.Summary.SavingsPercent != nil {
		pct := decimal.NewFromFloat(*cmp.Summary.SavingsPercent).Round(2)
		summary.SavingsPercent = &pct
	}

	var skipped map[string]int
	if len(cmp.Skipped) > 0 {
		skipped = make(map[string]int, len(cmp.Skipped))
		for reason, n := range cmp.Skipped {
			skipped[string(reason)] = n
		}
	}

	return &ComparisonResult{
		GroupId:    cmp.GroupId,
		FuelKey:    cmp.FuelKey,
		VehicleKey: optional(cmp.VehicleKey),
		PostoCount: len(cmp.Postos),
		Bases:      bases,
		Summary:    summary,
		Suppliers:  toOffers(cmp.Suppliers),
		PostoBest:  toOffers(cmp.PostoBest),
		Skipped:    skipped,
		Statistics: stats.Derive(cmp.Offers, StatisticsBucketSize, known.DisplayName),
	}
}

func toMatrixResult(m *engine.Matrix, settings models.Settings) *MatrixResult {
	if m == nil {
		return nil
	}

	rows := make([]MatrixRow, 0, len(m.Rows))
	for _, r := range m.Rows {
		cells := make([]*MatrixCell, len(r.Cells))
		for i, c := range r.Cells {
			if c == nil {
				continue
			}
			cells[i] = &MatrixCell{
				BestCost:         money(c.BestCost),
				AvgCost:          money(c.AvgCost),
				BestSupplierName: c.BestSupplierName,
				IsBest:           c.IsBest,
			}
		}
		rows = append(rows, MatrixRow{BaseId: r.BaseId, BaseName: r.BaseName, Cells: cells})
	}

	return &MatrixResult{
		GroupId:  m.GroupId,
		Fuels:    settings.FuelTypes,
		Rows:     rows,
		BestBase: m.BestBase,
	}
}
