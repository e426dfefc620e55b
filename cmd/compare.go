package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/fuel-landed-cost/internal/engine"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

type CompareOptions struct {
	Query  engine.Query
	Date   string
	Matrix bool
}

func Compare(dbPath, settingsPath string, opts CompareOptions) error {

	repo, settings, err := bootstrap(dbPath, settingsPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	if opts.Query.FuelKey != "" && !settings.HasFuel(opts.Query.FuelKey) {
		return fmt.Errorf("unknown --fuel %q: expected one of %v", opts.Query.FuelKey, settings.FuelKeys())
	}

	var date time.Time
	if opts.Date != "" {
		if date, err = time.Parse(models.DateFormat, opts.Date); err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", opts.Date)
		}
	}

	snap, err := repo.Snapshot(date, settings)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	if opts.Matrix {
		return printMatrix(os.Stdout, engine.BuildMatrix(snap, opts.Query), settings)
	}
	return printComparison(os.Stdout, engine.Compare(snap, opts.Query))
}

func fmtCost(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

func printComparison(out io.Writer, cmp *engine.Comparison) error {
	if cmp == nil {
		_, err := fmt.Fprintln(out, "No offers for this selection.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tBASE\tBEST\tAVERAGE\tSUPPLIER\tVEHICLE\tSUPPLIERS\tPOSTOS")
	for i, b := range cmp.Bases {
		vehicle := b.BestOffer.VehicleKey
		if vehicle == "" {
			vehicle = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			i+1, b.BaseName, fmtCost(b.BestCost), fmtCost(b.AvgCost), b.BestSupplierName, vehicle, b.SupplierCount, b.PostoCount)
		for _, o := range b.TopSuppliers {
			_, _ = fmt.Fprintf(w, "\t  %s\t%s\t\t(%s + %s)\t\t\t\n",
				o.SupplierName, fmtCost(o.FinalCost), fmtCost(o.BasePrice), fmtCost(o.FreightCost))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pct := "n/a"
	if cmp.Summary.SavingsPercent != nil {
		pct = decimal.NewFromFloat(*cmp.Summary.SavingsPercent).StringFixed(2) + "%"
	}
	_, err := fmt.Fprintf(out, "\nBest: %s  Worst: %s  Savings: %s (%s)\n",
		cmp.Summary.Best.BaseName, cmp.Summary.Worst.BaseName, fmtCost(cmp.Summary.Savings), pct)
	return err
}

func printMatrix(out io.Writer, m *engine.Matrix, settings models.Settings) error {
	if m == nil || len(m.Rows) == 0 {
		_, err := fmt.Fprintln(out, "No offers for this selection.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprint(w, "BASE")
	for _, ft := range settings.FuelTypes {
		_, _ = fmt.Fprintf(w, "\t%s", ft.Label)
	}
	_, _ = fmt.Fprintln(w)

	for _, row := range m.Rows {
		_, _ = fmt.Fprint(w, row.BaseName)
		for _, cell := range row.Cells {
			switch {
			case cell == nil:
				_, _ = fmt.Fprint(w, "\t-")
			case cell.IsBest:
				_, _ = fmt.Fprintf(w, "\t*%s", fmtCost(cell.BestCost))
			default:
				_, _ = fmt.Fprintf(w, "\t%s", fmtCost(cell.BestCost))
			}
		}
		_, _ = fmt.Fprintln(w)
	}
	return w.Flush()
}
