package models

// ProductDTO is the shape of a product exchanged over the API.
// The ID is assigned by the server and ignored on create.
type ProductDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name" validate:"notblank,min=1,max=100"`
	Price    int    `json:"price" validate:"gt=0"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}
