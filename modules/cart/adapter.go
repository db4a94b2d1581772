package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port is the request-reply view of the cart used by other modules. Every
// call replies with the cart as it stands afterwards.
type Port interface {
	Add(ctx context.Context, productID string) (Snapshot, error)
	Remove(ctx context.Context, productID string) (Snapshot, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (Snapshot, error)
	Increment(ctx context.Context, productID string) (Snapshot, error)
	Decrement(ctx context.Context, productID string) (Snapshot, error)
	Clear(ctx context.Context) (Snapshot, error)
	List(ctx context.Context) (Snapshot, error)
}

// cartAdapter calls the cart services through a ServiceContainer.
type cartAdapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a Port over the cart module's container.
func NewAdapter(container mono.ServiceContainer) Port {
	if container == nil {
		panic("cart adapter requires non-nil ServiceContainer")
	}
	return &cartAdapter{container: container}
}

func call[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (Snapshot, error) {
	var resp Snapshot
	if err := helper.CallRequestReplyService(
		ctx, container, service, json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return Snapshot{}, fmt.Errorf("%s service call failed: %w", service, err)
	}
	return resp, nil
}

// Add puts one unit of a product in the cart.
func (a *cartAdapter) Add(ctx context.Context, productID string) (Snapshot, error) {
	return call(ctx, a.container, ServiceAdd, &ItemRequest{ProductID: productID})
}

// Remove deletes a row.
func (a *cartAdapter) Remove(ctx context.Context, productID string) (Snapshot, error) {
	return call(ctx, a.container, ServiceRemove, &ItemRequest{ProductID: productID})
}

// SetQuantity sets a row's quantity, removing it at zero or below.
func (a *cartAdapter) SetQuantity(ctx context.Context, productID string, quantity int) (Snapshot, error) {
	return call(ctx, a.container, ServiceSetQuantity, &SetQuantityRequest{ProductID: productID, Quantity: quantity})
}

// Increment raises a row's quantity by one.
func (a *cartAdapter) Increment(ctx context.Context, productID string) (Snapshot, error) {
	return call(ctx, a.container, ServiceIncrement, &ItemRequest{ProductID: productID})
}

// Decrement lowers a row's quantity by one.
func (a *cartAdapter) Decrement(ctx context.Context, productID string) (Snapshot, error) {
	return call(ctx, a.container, ServiceDecrement, &ItemRequest{ProductID: productID})
}

// Clear empties the cart.
func (a *cartAdapter) Clear(ctx context.Context) (Snapshot, error) {
	return call(ctx, a.container, ServiceClear, &EmptyRequest{})
}

// List returns the cart.
func (a *cartAdapter) List(ctx context.Context) (Snapshot, error) {
	return call(ctx, a.container, ServiceList, &EmptyRequest{})
}
