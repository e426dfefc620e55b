// Package engine matches daily supplier prices against freight routes and
// brand rules to rank loading bases by landed cost for a set of postos.
//
// Every entry point is a pure function of its inputs: callers hand in an
// immutable Snapshot and a Query, and get freshly built results back.
package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

// AllGroups is the group value the UI sends before a group has been chosen.
const AllGroups = "Todos"

type Snapshot struct {
	Date      time.Time
	Prices    []models.PriceRecord
	Routes    []models.FreightRoute
	Suppliers []models.Supplier
	Postos    []models.Posto
	Bases     []models.Base
	Settings  models.Settings
}

type Query struct {
	GroupId            string
	FuelKey            string
	DestinationPostoId string // empty means every posto in the group
	VehicleKey         string // empty means cheapest available vehicle
	TopN               TopN
}

// TopN is the number of suppliers listed per base.
type TopN int

const (
	DefaultTopN  TopN = 3
	AllSuppliers TopN = 999
)

// ParseTopN reads the "top suppliers" setting ("1", "2", "3", "5" or "999").
// Anything at or above 999 means no cap, anything below 1 is clamped to 1, and
// unparseable input falls back to DefaultTopN.
func ParseTopN(s string) TopN {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTopN
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return DefaultTopN
	}
	if n < 1 {
		return 1
	}
	return TopN(n).normalise()
}

// normalise maps the zero value (an unset query field) to DefaultTopN.
func (n TopN) normalise() TopN {
	switch {
	case n == 0:
		return DefaultTopN
	case n < 1:
		return 1
	case n >= AllSuppliers:
		return AllSuppliers
	}
	return n
}

// Limit returns how many of the available entries to keep.
func (n TopN) Limit(available int) int {
	n = n.normalise()
	if n == AllSuppliers || int(n) > available {
		return available
	}
	return int(n)
}

func isUnsetGroup(groupId string) bool {
	g := strings.TrimSpace(groupId)
	return g == "" || strings.EqualFold(g, AllGroups)
}
