package rpc

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type InstantiateRequest struct {
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}

type GetItemRequest struct {
	ItemType string `json:"item_type"`
}

type RefillRequest struct {
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}

// ExecuteResponse is returned by every state-changing call.
type ExecuteResponse struct {
	Attributes []Attribute `json:"attributes"`
}

func (r *ExecuteResponse) GetAttribute(key string) string {
	if r == nil {
		return ""
	}
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

type ItemsCountRequest struct{}

type ItemsCountResponse struct {
	Chocolate uint32 `json:"chocolate"`
	Water     uint32 `json:"water"`
	Chips     uint32 `json:"chips"`
}
