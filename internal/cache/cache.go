package cache

import (
	"context"
	"errors"

	"github.com/fjod/pos_terminal/internal/domain"
)

type CartCache interface {
	Get(ctx context.Context, registerID string) (*domain.Cart, error)
	Set(ctx context.Context, registerID string, cart *domain.Cart) error
	Delete(ctx context.Context, registerID string) error
}

var ErrCacheMiss = errors.New("cache miss")
