package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/pos_terminal/internal/cache"
	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/fjod/pos_terminal/internal/repository"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.CartRepository, cache cache.CartCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetCart(ctx context.Context, registerID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(registerID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, registerID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, registerID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) { // missing cart means a fresh session
			return &domain.Cart{
				RegisterID: registerID,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), registerID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// mutate loads the cart from the repository, applies the domain operation and
// saves the result. Domain errors (stock ceiling, missing line) come back
// unwrapped so handlers can match them; the cart stays untouched on failure.
func (s *Service) mutate(ctx context.Context, registerID string, op func(*domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, registerID)
	if errors.Is(err, repository.ErrCartNotFound) {
		cart = &domain.Cart{RegisterID: registerID}
	} else if err != nil {
		log.Printf("repo get cart error: %v \n", err)
		return nil, err
	}

	if errOp := op(cart); errOp != nil {
		return nil, errOp
	}

	if errUpsert := s.repo.UpsertCart(ctx, cart); errUpsert != nil {
		log.Printf("repo upsert cart error: %v \n", errUpsert)
		return nil, errUpsert
	}

	s.invalidateCache(registerID)
	return cart, nil
}

func (s *Service) AddItem(ctx context.Context, registerID string, p domain.Product) (*domain.Cart, error) {
	return s.mutate(ctx, registerID, func(c *domain.Cart) error {
		return c.AddItem(p)
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, registerID string, productID int64, delta int) (*domain.Cart, error) {
	return s.mutate(ctx, registerID, func(c *domain.Cart) error {
		return c.UpdateQuantity(productID, delta)
	})
}

func (s *Service) UpdateDiscount(ctx context.Context, registerID string, productID int64, pct float64) (*domain.Cart, error) {
	return s.mutate(ctx, registerID, func(c *domain.Cart) error {
		return c.UpdateDiscount(productID, pct)
	})
}

func (s *Service) RemoveItem(ctx context.Context, registerID string, productID int64) (*domain.Cart, error) {
	return s.mutate(ctx, registerID, func(c *domain.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

func (s *Service) ClearCart(ctx context.Context, registerID string) error {
	errDelete := s.repo.DeleteCart(ctx, registerID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v \n", errDelete)
		return errDelete
	}

	s.invalidateCache(registerID)
	return nil
}

func (s *Service) invalidateCache(registerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, registerID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
