package internal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

// ParsePriceSheet reads a distributor's HTML price sheet. The first table with
// a `price-sheet` class (or else the first table) must have a header row of
// base, supplier and groups columns followed by one column per fuel key.
func ParsePriceSheet(r io.Reader, date time.Time) ([]models.PriceRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price sheet: %w", err)
	}

	table := doc.Find("table.price-sheet").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("price sheet has no table")
	}

	headers := []string{"date"}
	table.Find("tr").First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	if len(headers) < 5 {
		return nil, fmt.Errorf("price sheet header has %d columns, expected base, supplier, groups and at least one fuel", len(headers)-1)
	}
	headers[1], headers[2], headers[3] = "base_id", "supplier_id", "group_ids"

	var records []models.PriceRecord
	var rowErr error
	table.Find("tr").Slice(1, goquery.ToEnd).EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := []string{date.Format(models.DateFormat)}
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 1 {
			return true
		}
		rec, err := models.PriceRecordFromCSV(cells, headers)
		if err != nil {
			rowErr = fmt.Errorf("price sheet row %d: %w", i+1, err)
			return false
		}
		records = append(records, *rec)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return records, nil
}
