package service

import (
	"fmt"

	"github.com/rl1809/vending-machine/internal/core/domain"
)

type InstantiateMsg struct {
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}

type GetItemMsg struct {
	ItemType domain.ItemType `json:"item_type"`
}

// RefillMsg carries amounts to add; zero leaves that item unchanged.
type RefillMsg struct {
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}

func (m RefillMsg) Delta() domain.ItemsCount {
	return domain.ItemsCount{Chocolate: m.Chocolate, Water: m.Water, Chips: m.Chips}
}

// ExecuteMsg is a tagged union: exactly one variant must be set.
//
//	{"get_item": {"item_type": "chocolate"}}
//	{"refill": {"chocolate": 1, "water": 0, "chips": 2}}
type ExecuteMsg struct {
	GetItem *GetItemMsg `json:"get_item,omitempty"`
	Refill  *RefillMsg  `json:"refill,omitempty"`
}

func (m ExecuteMsg) Validate() error {
	switch {
	case m.GetItem != nil && m.Refill != nil:
		return fmt.Errorf("%w: more than one execute variant set", ErrInvalidMessage)
	case m.GetItem == nil && m.Refill == nil:
		return fmt.Errorf("%w: no execute variant set", ErrInvalidMessage)
	}
	return nil
}

type ItemsCountMsg struct{}

type QueryMsg struct {
	ItemsCount *ItemsCountMsg `json:"items_count,omitempty"`
}

type ItemsResponse struct {
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response carries the attributes reported for an accepted transition.
type Response struct {
	Attributes []Attribute `json:"attributes"`
}

func newResponse(method domain.Method) Response {
	return Response{Attributes: []Attribute{{Key: "method", Value: string(method)}}}
}

func (r Response) addAttribute(key, value string) Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// Attribute returns the first attribute value stored under key.
func (r Response) Attribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}
