package domain

import (
	"encoding/json"
	"fmt"
)

type ItemType int

const (
	ItemChocolate ItemType = iota + 1
	ItemWater
	ItemChips
)

// ItemTypes lists every item the machine stocks, in counter order.
var ItemTypes = []ItemType{ItemChocolate, ItemWater, ItemChips}

// String returns the display name used in error messages.
func (t ItemType) String() string {
	switch t {
	case ItemChocolate:
		return "Chocolate"
	case ItemWater:
		return "Water"
	case ItemChips:
		return "Chips"
	default:
		return fmt.Sprintf("ItemType(%d)", int(t))
	}
}

// Key returns the wire name of the item.
func (t ItemType) Key() string {
	switch t {
	case ItemChocolate:
		return "chocolate"
	case ItemWater:
		return "water"
	case ItemChips:
		return "chips"
	default:
		return ""
	}
}

func (t ItemType) Valid() bool {
	return t >= ItemChocolate && t <= ItemChips
}

// ParseItemType accepts either the wire name or the display name.
func ParseItemType(s string) (ItemType, error) {
	for _, t := range ItemTypes {
		if s == t.Key() || s == t.String() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItemType, s)
}

func (t ItemType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItemType, int(t))
	}
	return json.Marshal(t.Key())
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownItemType, data)
	}
	parsed, err := ParseItemType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
