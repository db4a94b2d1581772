package catalog

import (
	"errors"
	"fmt"

	"github.com/example/storefront/modules/remote"
)

var (
	// ErrLocalStore wraps any fault raised by the local database.
	ErrLocalStore = errors.New("local store fault")

	// ErrNotFoundAfterUpdate means a favorite update matched no row.
	ErrNotFoundAfterUpdate = errors.New("product not found after update")
)

// MsgNotFoundAfterUpdate is the envelope message for ErrNotFoundAfterUpdate.
// The error value is lost on the bus; callers match on this instead.
const MsgNotFoundAfterUpdate = "Product not found after update."

// User-facing messages carried by error envelopes.
const (
	msgFavoriteUpdate      = "Failed to update favorite status in DB: "
	msgGetByID             = "Failed to get product by ID from DB: "
	msgFavoritesLoad       = "Failed to load favorites from database: "
	msgConnectivity        = "Network Connection Error: "
	msgUnexpected          = "Unexpected Error Fetching Products: "
)

func localStoreError(err error) error {
	return fmt.Errorf("%w: %w", ErrLocalStore, err)
}

// refreshMessage renders a refresh failure the way it is shown to users.
func refreshMessage(err error) string {
	var connErr *remote.ConnectivityError
	var statusErr *remote.StatusError

	switch {
	case errors.As(err, &connErr):
		return msgConnectivity + connErr.Err.Error()
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Network Error: %d %s", statusErr.Code, statusErr.Status)
	default:
		return msgUnexpected + err.Error()
	}
}
