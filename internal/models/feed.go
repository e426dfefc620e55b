package models

import "log"

type MetaData struct {
	BatchNumber  int `json:"batch_number"`
	BatchSize    int `json:"batch_size"`
	TotalBatches int `json:"total_batches"`
}

// PriceFeedResponse is one page of the remote price-record feed.
type PriceFeedResponse struct {
	Success  bool          `json:"success"`
	Data     []PriceRecord `json:"data"`
	Message  string        `json:"message,omitempty"`
	MetaData MetaData      `json:"metadata"`
}

// DropOutOfBounds removes prices the feed sent that are not within bounds and
// returns how many were dropped.
func (r *PriceRecord) DropOutOfBounds() int {
	dropped := 0
	for fuel, v := range r.PricesByFuel {
		if !WithinBounds(v) {
			log.Printf("WARNING: ignoring out of range price %v for %s from %s/%s", v, fuel, r.BaseId, r.SupplierId)
			delete(r.PricesByFuel, fuel)
			dropped++
		}
	}
	return dropped
}
