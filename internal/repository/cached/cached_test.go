package cached

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository/mocks"
)

func TestShopRepository_CachesHits(t *testing.T) {
	next := new(mocks.ShopRepository)
	id := uuid.New()
	shop := &model.Shop{Base: model.Base{ID: id}, Name: "Studio", IsActive: true}
	next.On("Get", mock.Anything, id).Return(shop, nil).Once()

	repo := NewShopRepository(next, time.Minute)

	first, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	second, err := repo.Get(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Studio", second.Name)
	first.Name = "mutated"
	third, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Studio", third.Name, "callers cannot mutate the cached copy")
	next.AssertExpectations(t)
}

func TestShopRepository_ErrorsAreNotCached(t *testing.T) {
	next := new(mocks.ShopRepository)
	id := uuid.New()
	next.On("Get", mock.Anything, id).Return(nil, repository.ErrNotFound).Twice()

	repo := NewShopRepository(next, time.Minute)
	_, err := repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	next.AssertExpectations(t)
}

func TestServiceRepository_KeyedByShop(t *testing.T) {
	next := new(mocks.ServiceRepository)
	id, shopA, shopB := uuid.New(), uuid.New(), uuid.New()
	next.On("Get", mock.Anything, id, shopA).Return(&model.Service{Duration: 30}, nil).Once()
	next.On("Get", mock.Anything, id, shopB).Return(nil, repository.ErrNotFound).Once()

	repo := NewServiceRepository(next, time.Minute)
	for i := 0; i < 3; i++ {
		svc, err := repo.Get(context.Background(), id, shopA)
		require.NoError(t, err)
		assert.Equal(t, 30, svc.Duration)
	}
	_, err := repo.Get(context.Background(), id, shopB)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	next.AssertExpectations(t)
}

func TestZeroTTLDisablesCache(t *testing.T) {
	next := new(mocks.ShopRepository)
	assert.Same(t, next, NewShopRepository(next, 0))
}
