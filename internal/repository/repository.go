package repository

import (
	"context"

	"github.com/fjod/pos_terminal/internal/domain"
)

// CartRepository defines the interface for cart session persistence.
// Consumers define this interface, not the MongoDB implementation.
//
// Cart mutations run through load-modify-save: the domain layer owns the
// stock and discount invariants, so the repository only stores whole carts.
type CartRepository interface {
	GetCart(ctx context.Context, registerID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, registerID string) error
}
