package messaging

import "time"

type ChangeTopic string

const (
	ProductChanged ChangeTopic = "product_changed"
	Tracking       ChangeTopic = "tracking"
)

// CatalogChange tells every storefront node that the upstream catalog changed
// and the snapshot should be refetched.
type CatalogChange struct {
	Node    string    `json:"node"`
	Reason  string    `json:"reason"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}
