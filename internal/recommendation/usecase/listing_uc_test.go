package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

func newListingFixture(now time.Time) (*ListingUsecase, *MockUserRepository, *MockListingRepository, *MockListingCache) {
	users := new(MockUserRepository)
	listings := new(MockListingRepository)
	listingCache := new(MockListingCache)
	uc := NewListingUsecase(users, listings, listingCache, fixedClock{now: now}, logger.NoOp())
	return uc, users, listings, listingCache
}

func TestListingUsecase_CreateListing_RecordsProperty(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc, users, listings, _ := newListingFixture(now)

	creator := &domain.User{ID: "host-1", Role: domain.RoleHost}
	users.On("FindByID", mock.Anything, "host-1").Return(creator, nil).Twice()
	listings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Listing).ID = "listing-1"
	}).Return(nil).Once()
	users.On("Update", mock.Anything, creator).Return(nil).Once()

	created, err := uc.CreateListing(context.Background(), CreateListingInput{
		CreatorID: "host-1",
		Category:  "Beach",
		Title:     "Sea view flat",
		City:      "Nice",
		Province:  "PACA",
		Country:   "France",
		Price:     220,
	})

	require.NoError(t, err)
	assert.Equal(t, "listing-1", created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, []string{"listing-1"}, creator.PropertyList)

	users.AssertExpectations(t)
	listings.AssertExpectations(t)
}

func TestListingUsecase_CreateListing_Validation(t *testing.T) {
	uc, _, _, _ := newListingFixture(time.Now())

	_, err := uc.CreateListing(context.Background(), CreateListingInput{Category: "Beach", Title: "x", Price: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateListing(context.Background(), CreateListingInput{CreatorID: "host-1", Category: "Beach", Title: "x", Price: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListingUsecase_GetListingByID_CacheHit(t *testing.T) {
	uc, _, listings, listingCache := newListingFixture(time.Now())

	cached := &domain.Listing{ID: "listing-1", Category: "Beach"}
	listingCache.On("GetListing", mock.Anything, "listing-1").Return(cached, nil).Once()

	got, err := uc.GetListingByID(context.Background(), "listing-1")

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	listings.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestListingUsecase_GetListingByID_CacheMissFillsCache(t *testing.T) {
	uc, _, listings, listingCache := newListingFixture(time.Now())

	listing := &domain.Listing{ID: "listing-1", Category: "Beach"}
	listingCache.On("GetListing", mock.Anything, "listing-1").Return(nil, nil).Once()
	listings.On("FindByID", mock.Anything, "listing-1").Return(listing, nil).Once()
	listingCache.On("SetListing", mock.Anything, listing).Return(nil).Once()

	got, err := uc.GetListingByID(context.Background(), "listing-1")

	require.NoError(t, err)
	assert.Equal(t, listing, got)
	listingCache.AssertExpectations(t)
}

func TestListingUsecase_SearchListings(t *testing.T) {
	uc, _, listings, _ := newListingFixture(time.Now())

	all := []*domain.Listing{{ID: "listing-1"}, {ID: "listing-2"}}
	matched := []*domain.Listing{{ID: "listing-1"}}

	listings.On("FindByCategory", mock.Anything, "").Return(all, nil).Once()
	got, err := uc.SearchListings(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, all, got)

	listings.On("Search", mock.Anything, "beach").Return(matched, nil).Once()
	got, err = uc.SearchListings(context.Background(), "beach")
	require.NoError(t, err)
	assert.Equal(t, matched, got)

	listings.AssertExpectations(t)
}
