package domain

import "time"

type Method string

const (
	MethodInstantiate Method = "instantiate"
	MethodGetItem     Method = "get_item"
	MethodRefill      Method = "refill"
)

// Movement is a journal entry for one accepted transition. Deltas are signed
// because dispensing removes stock.
type Movement struct {
	ID             string
	Method         Method
	Caller         string
	ItemType       ItemType // zero unless Method is MethodGetItem
	ChocolateDelta int64
	WaterDelta     int64
	ChipsDelta     int64
	Result         ItemsCount
	CreatedAt      time.Time
}

// Diff returns the per-item change between two records.
func Diff(before, after Inventory) (chocolate, water, chips int64) {
	return int64(after.Chocolate) - int64(before.Chocolate),
		int64(after.Water) - int64(before.Water),
		int64(after.Chips) - int64(before.Chips)
}
