package engine

import (
	"strings"

	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

type Selection struct {
	GroupId string
	FuelKey string
	Postos  []models.Posto
}

// Resolve turns a query into the concrete set of postos to analyse. It returns
// nil while the group or fuel is still unset, and when no posto matches.
func Resolve(postos []models.Posto, q Query) *Selection {
	if isUnsetGroup(q.GroupId) || strings.TrimSpace(q.FuelKey) == "" {
		return nil
	}

	var selected []models.Posto
	if q.DestinationPostoId != "" {
		for _, p := range postos {
			if p.Id == q.DestinationPostoId {
				selected = []models.Posto{p}
				break
			}
		}
	} else {
		for _, p := range postos {
			if p.InGroup(q.GroupId) {
				selected = append(selected, p)
			}
		}
	}

	if len(selected) == 0 {
		return nil
	}
	return &Selection{GroupId: q.GroupId, FuelKey: q.FuelKey, Postos: selected}
}
