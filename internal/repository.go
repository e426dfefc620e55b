package internal

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/fuel-landed-cost/internal/engine"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

//go:embed sql/insert_base.sql
var insertBaseSQL string

//go:embed sql/insert_supplier.sql
var insertSupplierSQL string

//go:embed sql/insert_posto.sql
var insertPostoSQL string

//go:embed sql/insert_price.sql
var insertPriceSQL string

//go:embed sql/insert_route.sql
var insertRouteSQL string

//go:embed sql/select_prices.sql
var selectPricesSQL string

//go:embed sql/latest_price_date.sql
var latestPriceDateSQL string

type LandedCostRepository interface {
	InsertBases(batch []models.Base) (int, error)
	InsertSuppliers(batch []models.Supplier) (int, error)
	InsertPostos(batch []models.Posto) (int, error)
	InsertPrices(batch []models.PriceRecord) (int, error)
	InsertRoutes(batch []models.FreightRoute) (int, error)
	LatestPriceDate() (time.Time, error)
	Snapshot(date time.Time, settings models.Settings) (*engine.Snapshot, error)
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewLandedCostRepository(db *sql.DB) LandedCostRepository {
	return &sqliteRepository{
		db: db,
	}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) InsertBases(batch []models.Base) (int, error) {
	return insertBatch(repo.db, insertBaseSQL, batch, func(b models.Base) ([]any, error) {
		return b.ToTuple(), nil
	})
}

func (repo *sqliteRepository) InsertSuppliers(batch []models.Supplier) (int, error) {
	return insertBatch(repo.db, insertSupplierSQL, batch, func(s models.Supplier) ([]any, error) {
		return s.ToTuple()
	})
}

func (repo *sqliteRepository) InsertPostos(batch []models.Posto) (int, error) {
	return insertBatch(repo.db, insertPostoSQL, batch, func(p models.Posto) ([]any, error) {
		return p.ToTuple()
	})
}

func (repo *sqliteRepository) InsertPrices(batch []models.PriceRecord) (int, error) {
	return insertBatch(repo.db, insertPriceSQL, batch, func(r models.PriceRecord) ([]any, error) {
		return r.ToTuple()
	})
}

func (repo *sqliteRepository) InsertRoutes(batch []models.FreightRoute) (int, error) {
	return insertBatch(repo.db, insertRouteSQL, batch, func(r models.FreightRoute) ([]any, error) {
		return r.ToTuple()
	})
}

func insertBatch[T any](db *sql.DB, query string, batch []T, toTuple func(T) ([]any, error)) (count int, err error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Printf("failed to close statement: %v", err)
		}
	}()

	for _, item := range batch {
		var tuple []any
		tuple, err = toTuple(item)
		if err != nil {
			return 0, fmt.Errorf("failed to encode row: %w", err)
		}
		var res sql.Result
		if res, err = stmt.Exec(tuple...); err != nil {
			return 0, fmt.Errorf("failed to execute individual insert: %w", err)
		}
		var affected int64
		if affected, err = res.RowsAffected(); err != nil {
			return 0, fmt.Errorf("failed to count affected rows: %w", err)
		}
		count += int(affected)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return count, nil
}

func (repo *sqliteRepository) LatestPriceDate() (time.Time, error) {
	var latest sql.NullString
	if err := repo.db.QueryRow(latestPriceDateSQL).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("failed to query latest price date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	date, err := time.Parse(models.DateFormat, latest.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid price date %q in database: %w", latest.String, err)
	}
	return date, nil
}

// Snapshot loads the reference data plus one day of prices. A zero date means
// the most recent day that has prices.
func (repo *sqliteRepository) Snapshot(date time.Time, settings models.Settings) (*engine.Snapshot, error) {
	if date.IsZero() {
		latest, err := repo.LatestPriceDate()
		if err != nil {
			return nil, err
		}
		date = latest
	}

	snap := &engine.Snapshot{Date: date, Settings: settings}
	var err error
	if snap.Bases, err = repo.bases(); err != nil {
		return nil, err
	}
	if snap.Suppliers, err = repo.suppliers(); err != nil {
		return nil, err
	}
	if snap.Postos, err = repo.postos(); err != nil {
		return nil, err
	}
	if snap.Routes, err = repo.routes(); err != nil {
		return nil, err
	}
	if !date.IsZero() {
		if snap.Prices, err = repo.prices(date); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func queryAll[T any](db *sql.DB, what string, query string, scan func(*sql.Rows) (T, error), args ...any) ([]T, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var results []T
	for rows.Next() {
		value, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", what, err)
		}
		results = append(results, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over %s rows: %w", what, err)
	}
	return results, nil
}

func (repo *sqliteRepository) bases() ([]models.Base, error) {
	return queryAll(repo.db, "bases", "SELECT id, name FROM bases ORDER BY name, id",
		func(rows *sql.Rows) (models.Base, error) {
			var b models.Base
			err := rows.Scan(&b.Id, &b.Name)
			return b, err
		})
}

func (repo *sqliteRepository) suppliers() ([]models.Supplier, error) {
	return queryAll(repo.db, "suppliers", "SELECT id, name, brand, city_ids FROM suppliers ORDER BY id",
		func(rows *sql.Rows) (models.Supplier, error) {
			var s models.Supplier
			var cityIdsJSON string
			if err := rows.Scan(&s.Id, &s.Name, &s.Brand, &cityIdsJSON); err != nil {
				return s, err
			}
			if err := models.FromJSON(cityIdsJSON, &s.CityIds); err != nil {
				return s, fmt.Errorf("failed to unmarshal city ids: %w", err)
			}
			return s, nil
		})
}

func (repo *sqliteRepository) postos() ([]models.Posto, error) {
	return queryAll(repo.db, "postos", "SELECT id, name, city_id, brand, group_ids FROM postos ORDER BY name, id",
		func(rows *sql.Rows) (models.Posto, error) {
			var p models.Posto
			var groupIdsJSON string
			if err := rows.Scan(&p.Id, &p.Name, &p.CityId, &p.Brand, &groupIdsJSON); err != nil {
				return p, err
			}
			if err := models.FromJSON(groupIdsJSON, &p.GroupIds); err != nil {
				return p, fmt.Errorf("failed to unmarshal group ids: %w", err)
			}
			return p, nil
		})
}

func (repo *sqliteRepository) routes() ([]models.FreightRoute, error) {
	return queryAll(repo.db, "routes", "SELECT origin_base_id, destination_city_id, costs FROM freight_routes ORDER BY origin_base_id, destination_city_id",
		func(rows *sql.Rows) (models.FreightRoute, error) {
			var r models.FreightRoute
			var costsJSON string
			if err := rows.Scan(&r.OriginBaseId, &r.DestinationCityId, &costsJSON); err != nil {
				return r, err
			}
			if err := models.FromJSON(costsJSON, &r.CostsByVehicle); err != nil {
				return r, fmt.Errorf("failed to unmarshal freight costs: %w", err)
			}
			return r, nil
		})
}

func (repo *sqliteRepository) prices(date time.Time) ([]models.PriceRecord, error) {
	return queryAll(repo.db, "prices", selectPricesSQL,
		func(rows *sql.Rows) (models.PriceRecord, error) {
			var r models.PriceRecord
			var dateStr, groupIdsJSON, pricesJSON string
			if err := rows.Scan(&dateStr, &r.BaseId, &r.SupplierId, &groupIdsJSON, &pricesJSON); err != nil {
				return r, err
			}
			var err error
			if r.Date, err = time.Parse(models.DateFormat, dateStr); err != nil {
				return r, fmt.Errorf("invalid price date %q: %w", dateStr, err)
			}
			if err := models.FromJSON(groupIdsJSON, &r.GroupIds); err != nil {
				return r, fmt.Errorf("failed to unmarshal group ids: %w", err)
			}
			if err := models.FromJSON(pricesJSON, &r.PricesByFuel); err != nil {
				return r, fmt.Errorf("failed to unmarshal prices: %w", err)
			}
			return r, nil
		}, date.Format(models.DateFormat))
}
