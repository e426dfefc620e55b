package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rm-hull/fuel-landed-cost/internal"
	"github.com/rm-hull/fuel-landed-cost/internal/brands"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

const priceSheetPrefix = "prices-"

func Import(dbPath, settingsPath, dir string, pullFeed bool) error {

	repo, _, err := bootstrap(dbPath, settingsPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	if dir != "" {
		if err := importDir(repo, dir); err != nil {
			return err
		}
	}

	if pullFeed {
		client, err := feedClient()
		if err != nil {
			return fmt.Errorf("failed to create price feed client: %w", err)
		}
		if client == nil {
			return errors.New("--feed requires PRICE_FEED_URL to be set")
		}
		numPrices, err := client.GetPrices(repo.InsertPrices)
		if err != nil {
			return fmt.Errorf("failed to fetch price feed: %w", err)
		}
		log.Printf("imported %d price records from feed", numPrices)
	}

	return nil
}

// importDir loads bases.csv, suppliers.csv, postos.csv, routes.csv, prices.csv
// and any prices-YYYY-MM-DD.html price sheets found in dir. Every CSV has a
// header row; missing files are skipped.
func importDir(repo internal.LandedCostRepository, dir string) error {
	known, err := brands.GetBrandsMap()
	if err != nil {
		return err
	}

	steps := []func() error{
		func() error {
			return importCSV(filepath.Join(dir, "bases.csv"), "bases", models.BaseFromCSV, nil, repo.InsertBases)
		},
		func() error {
			return importCSV(filepath.Join(dir, "suppliers.csv"), "suppliers", models.SupplierFromCSV,
				func(s *models.Supplier) error { return known.Validate("supplier "+s.Id, s.Brand) },
				repo.InsertSuppliers)
		},
		func() error {
			return importCSV(filepath.Join(dir, "postos.csv"), "postos", models.PostoFromCSV,
				func(p *models.Posto) error { return known.Validate("posto "+p.Id, p.Brand) },
				repo.InsertPostos)
		},
		func() error {
			return importCSV(filepath.Join(dir, "routes.csv"), "freight routes", models.FreightRouteFromCSV, nil, repo.InsertRoutes)
		},
		func() error {
			return importCSV(filepath.Join(dir, "prices.csv"), "price records", models.PriceRecordFromCSV, nil, repo.InsertPrices)
		},
		func() error {
			return importPriceSheets(repo, dir)
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func importCSV[T any](
	path, what string,
	fromCSV internal.FromCSV[*T],
	validate func(*T) error,
	insert internal.BatchCallback[T],
) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("skipping %s: %s not found", what, path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close %s: %v", path, err)
		}
	}()

	var batch []T
	for record := range internal.ParseCSV(f, true, fromCSV) {
		if record.Error != nil {
			return fmt.Errorf("failed to read %s: %w", path, record.Error)
		}
		if validate != nil {
			if err := validate(record.Value); err != nil {
				return fmt.Errorf("invalid row in %s: %w", path, err)
			}
		}
		batch = append(batch, *record.Value)
	}

	n, err := insert(batch)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", what, err)
	}
	log.Printf("imported %d %s", n, what)
	return nil
}

func importPriceSheets(repo internal.LandedCostRepository, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, priceSheetPrefix+"*.html"))
	if err != nil {
		return err
	}

	for _, path := range paths {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), priceSheetPrefix), ".html")
		date, err := time.Parse(models.DateFormat, name)
		if err != nil {
			return fmt.Errorf("price sheet %s must be named %sYYYY-MM-DD.html", path, priceSheetPrefix)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		records, err := internal.ParsePriceSheet(f, date)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		n, err := repo.InsertPrices(records)
		if err != nil {
			return fmt.Errorf("failed to store prices from %s: %w", path, err)
		}
		log.Printf("imported %d price records from %s", n, path)
	}
	return nil
}
