package cart

// Service names registered on the cart module's container.
const (
	ServiceAdd         = "add"
	ServiceRemove      = "remove"
	ServiceSetQuantity = "set-quantity"
	ServiceIncrement   = "increment"
	ServiceDecrement   = "decrement"
	ServiceClear       = "clear"
	ServiceList        = "list"
)

// ItemRequest names one cart row by product id.
type ItemRequest struct {
	ProductID string `json:"product_id"`
}

// SetQuantityRequest sets the quantity of one row.
type SetQuantityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// EmptyRequest carries no arguments.
type EmptyRequest struct{}
