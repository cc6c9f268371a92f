package models

import "time"

// Product event types published after a change is committed.
const (
	ProductCreated      = "product.created"
	ProductBatchCreated = "product.batch_created"
	ProductUpdated      = "product.updated"
	ProductDeleted      = "product.deleted"
)

// ProductEvent describes a committed change to one or more products.
type ProductEvent struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	Products   []ProductDTO `json:"products,omitempty"`
	ProductID  uint         `json:"product_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
