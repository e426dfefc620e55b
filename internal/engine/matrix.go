package engine

type MatrixCell struct {
	BestCost         float64
	AvgCost          float64
	BestSupplierName string
	IsBest           bool
}

type MatrixRow struct {
	BaseId   string
	BaseName string
	// Cells line up with Matrix.FuelKeys; nil marks a fuel with no offer.
	Cells []*MatrixCell
}

type Matrix struct {
	GroupId  string
	FuelKeys []string
	Rows     []MatrixRow
	// BestBase maps each fuel key to the cheapest base for that fuel alone.
	BestBase map[string]string
}

// BuildMatrix runs the comparison for every known fuel and lays the per-base
// results out as a base by fuel grid. It returns nil when the group is unset or
// resolves to no postos; a valid selection with no prices yields no rows.
func BuildMatrix(snap *Snapshot, q Query) *Matrix {
	return NewIndex(snap).Matrix(q)
}

func (ix *Index) Matrix(q Query) *Matrix {
	fuelKeys := ix.snapshot.Settings.FuelKeys()
	if isUnsetGroup(q.GroupId) {
		return nil
	}
	// Posto resolution does not depend on the fuel.
	anyFuel := q
	anyFuel.FuelKey = "*"
	sel := Resolve(ix.snapshot.Postos, anyFuel)
	if sel == nil {
		return nil
	}

	m := &Matrix{
		GroupId:  q.GroupId,
		FuelKeys: fuelKeys,
		BestBase: make(map[string]string, len(fuelKeys)),
	}

	bases := ix.snapshot.Bases
	grid := make([][]*MatrixCell, len(bases))
	for i := range grid {
		grid[i] = make([]*MatrixCell, len(fuelKeys))
	}

	for col, fuel := range fuelKeys {
		colSel := &Selection{GroupId: sel.GroupId, FuelKey: fuel, Postos: sel.Postos}
		priced := ix.priceSelection(colSel, q.VehicleKey)

		bestRow := -1
		for row, pb := range priced.bases {
			agg := AggregateBase(pb.base, pb.offers, 1)
			if agg == nil {
				continue
			}
			grid[row][col] = &MatrixCell{
				BestCost:         agg.BestCost,
				AvgCost:          agg.AvgCost,
				BestSupplierName: agg.BestSupplierName,
			}
			if bestRow < 0 || agg.BestCost < grid[bestRow][col].BestCost {
				bestRow = row
			}
		}
		if bestRow >= 0 {
			grid[bestRow][col].IsBest = true
			m.BestBase[fuel] = bases[bestRow].Id
		}
	}

	for row, base := range bases {
		if !hasAnyCell(grid[row]) {
			continue
		}
		m.Rows = append(m.Rows, MatrixRow{BaseId: base.Id, BaseName: base.Name, Cells: grid[row]})
	}
	return m
}

func hasAnyCell(cells []*MatrixCell) bool {
	for _, c := range cells {
		if c != nil {
			return true
		}
	}
	return false
}
