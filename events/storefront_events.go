// Package events declares the typed events exchanged between storefront modules.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogRefreshedEvent is emitted after a remote fetch was applied locally.
type CatalogRefreshedEvent struct {
	Count       int       `json:"count"`
	Replaced    bool      `json:"replaced"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// CatalogRefreshedV1 is the typed event definition for a successful refresh.
// Subject: events.catalog.v1.catalog-refreshed
var CatalogRefreshedV1 = helper.EventDefinition[CatalogRefreshedEvent](
	"catalog", "CatalogRefreshed", "v1",
)

// CatalogRefreshFailedEvent is emitted when a refresh ends in an error.
type CatalogRefreshFailedEvent struct {
	Message  string    `json:"message"`
	Cached   int       `json:"cached"`
	FailedAt time.Time `json:"failed_at"`
}

// CatalogRefreshFailedV1 is the typed event definition for a failed refresh.
// Subject: events.catalog.v1.catalog-refresh-failed
var CatalogRefreshFailedV1 = helper.EventDefinition[CatalogRefreshFailedEvent](
	"catalog", "CatalogRefreshFailed", "v1",
)

// FavoriteToggledEvent is emitted when a product's favorite flag changes.
type FavoriteToggledEvent struct {
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	IsFavorite bool      `json:"is_favorite"`
	ToggledAt  time.Time `json:"toggled_at"`
}

// FavoriteToggledV1 is the typed event definition for favorite changes.
// Subject: events.catalog.v1.favorite-toggled
var FavoriteToggledV1 = helper.EventDefinition[FavoriteToggledEvent](
	"catalog", "FavoriteToggled", "v1",
)

// Cart actions carried by CartChangedEvent.
const (
	CartActionAdded   = "added"
	CartActionUpdated = "updated"
	CartActionRemoved = "removed"
	CartActionCleared = "cleared"
)

// CartChangedEvent is emitted after any cart mutation.
type CartChangedEvent struct {
	Action    string    `json:"action"`
	ProductID string    `json:"product_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Quantity  int       `json:"quantity"`
	ChangedAt time.Time `json:"changed_at"`
}

// CartChangedV1 is the typed event definition for cart mutations.
// Subject: events.cart.v1.cart-changed
var CartChangedV1 = helper.EventDefinition[CartChangedEvent](
	"cart", "CartChanged", "v1",
)
