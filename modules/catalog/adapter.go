package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port is the request-reply view of the catalog used by other modules.
type Port interface {
	Refresh(ctx context.Context) (ProductsResponse, error)
	Get(ctx context.Context, id string) (ProductResponse, error)
	ToggleFavorite(ctx context.Context, id string, favorite bool) (FavoriteResponse, error)
}

// catalogAdapter calls the catalog services through a ServiceContainer.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a Port over the catalog module's container.
func NewAdapter(container mono.ServiceContainer) Port {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// Refresh triggers one explicit refresh.
func (a *catalogAdapter) Refresh(ctx context.Context) (ProductsResponse, error) {
	var resp ProductsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, ServiceRefresh, json.Marshal, json.Unmarshal, &RefreshRequest{}, &resp,
	); err != nil {
		return ProductsResponse{}, fmt.Errorf("%s service call failed: %w", ServiceRefresh, err)
	}
	return resp, nil
}

// Get fetches one cached product.
func (a *catalogAdapter) Get(ctx context.Context, id string) (ProductResponse, error) {
	var resp ProductResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, ServiceGet, json.Marshal, json.Unmarshal, &GetProductRequest{ID: id}, &resp,
	); err != nil {
		return ProductResponse{}, fmt.Errorf("%s service call failed: %w", ServiceGet, err)
	}
	return resp, nil
}

// ToggleFavorite sets a product's favorite flag.
func (a *catalogAdapter) ToggleFavorite(ctx context.Context, id string, favorite bool) (FavoriteResponse, error) {
	var resp FavoriteResponse
	req := ToggleFavoriteRequest{ID: id, Favorite: favorite}
	if err := helper.CallRequestReplyService(
		ctx, a.container, ServiceToggleFavorite, json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return FavoriteResponse{}, fmt.Errorf("%s service call failed: %w", ServiceToggleFavorite, err)
	}
	return resp, nil
}
