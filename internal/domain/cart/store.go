package cart

import "context"

// Store is the full cart collaborator surface. The checkout core consumes a
// narrower view of it (get and delete only); the add operation exists for the
// serving layer that fills carts.
type Store interface {
	// Get returns the current snapshot for the user. A user without a cart
	// gets an empty snapshot, not an error.
	Get(ctx context.Context, user UserID) (Snapshot, error)
	Add(ctx context.Context, user UserID, item Item) error
	// Delete removes the cart. Returns ErrNotFound when the user has none.
	Delete(ctx context.Context, user UserID) error
}
