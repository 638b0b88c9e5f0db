package cart

import "github.com/google/uuid"

// AddItemRequest adds a catalog book to the session cart.
type AddItemRequest struct {
	BookID   uuid.UUID `json:"book_id" validate:"required"`
	Quantity int       `json:"quantity"`
}

// UpdateQuantityRequest replaces the quantity of an existing line. Quantity
// is a pointer so zero survives validation, zero and below removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
