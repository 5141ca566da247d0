// Package cached wraps metadata repositories with a short in-process cache.
// Only shops and services go through it; bookings and staff availability are
// always read from the store.
package cached

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
)

type shopRepository struct {
	next  repository.ShopRepository
	cache *cache.Cache
}

// NewShopRepository caches successful shop lookups for ttl. A zero ttl
// disables caching.
func NewShopRepository(next repository.ShopRepository, ttl time.Duration) repository.ShopRepository {
	if ttl <= 0 {
		return next
	}
	return &shopRepository{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (r *shopRepository) Get(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	key := id.String()
	if v, ok := r.cache.Get(key); ok {
		shop := *v.(*model.Shop)
		return &shop, nil
	}
	shop, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *shop
	r.cache.SetDefault(key, &cp)
	return shop, nil
}

type serviceRepository struct {
	next  repository.ServiceRepository
	cache *cache.Cache
}

func NewServiceRepository(next repository.ServiceRepository, ttl time.Duration) repository.ServiceRepository {
	if ttl <= 0 {
		return next
	}
	return &serviceRepository{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (r *serviceRepository) Get(ctx context.Context, id, shopID uuid.UUID) (*model.Service, error) {
	key := shopID.String() + "/" + id.String()
	if v, ok := r.cache.Get(key); ok {
		svc := *v.(*model.Service)
		return &svc, nil
	}
	svc, err := r.next.Get(ctx, id, shopID)
	if err != nil {
		return nil, err
	}
	cp := *svc
	r.cache.SetDefault(key, &cp)
	return svc, nil
}
