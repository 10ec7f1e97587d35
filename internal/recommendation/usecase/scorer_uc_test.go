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

func newScorerFixture(now time.Time) (*RecommendationUsecase, *MockUserRepository, *MockListingRepository) {
	users := new(MockUserRepository)
	listings := new(MockListingRepository)
	uc := NewRecommendationUsecase(users, listings, fixedClock{now: now}, logger.NoOp())
	return uc, users, listings
}

func TestScore_AllBonuses(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID:                  "user-1",
		PreferredCategories: []string{"Beach"},
		PreferredLocations:  []domain.Location{{City: "Paris", Province: "IDF", Country: "France"}},
		PricePreferences:    domain.PriceBand{Min: 100, Max: 300, Set: true},
		ViewHistory:         []domain.ViewRecord{{ListingID: "listing-a", ViewedAt: now.Add(-30 * time.Minute)}},
	}

	listingA := &domain.Listing{ID: "listing-a", Category: "Beach", City: "Paris", Province: "IDF", Country: "France", Price: 150}
	listingB := &domain.Listing{ID: "listing-b", Category: "Mountain", City: "Banff", Province: "AB", Country: "Canada", Price: 1000}

	assert.Equal(t, 10, score(user, listingA, now)) // 3 category + 2 location + 1 price + 4 recency
	assert.Equal(t, 0, score(user, listingB, now))
}

func TestScore_RecencyTiers(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listing := &domain.Listing{ID: "listing-a", Category: "Cabin", Price: 500}

	cases := []struct {
		name     string
		elapsed  time.Duration
		expected int
	}{
		{"under one hour", 30 * time.Minute, 4},
		{"under six hours", 5 * time.Hour, 3},
		{"under a day", 23 * time.Hour, 2},
		{"under three days", 71 * time.Hour, 1},
		{"three days or more", 72 * time.Hour, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := &domain.User{
				ViewHistory: []domain.ViewRecord{{ListingID: "listing-a", ViewedAt: now.Add(-tc.elapsed)}},
			}
			assert.Equal(t, tc.expected, score(user, listing, now))
		})
	}
}

func TestScore_NoViewEntryNoRecencyBonus(t *testing.T) {
	now := time.Now()
	user := &domain.User{}
	listing := &domain.Listing{ID: "listing-a", Category: "Cabin", Price: 500}
	assert.Equal(t, 0, score(user, listing, now))
}

func TestRank_OrdersByDescendingScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc, _, _ := newScorerFixture(now)

	user := &domain.User{
		PreferredCategories: []string{"Beach"},
		PreferredLocations:  []domain.Location{{City: "Paris", Province: "IDF", Country: "France"}},
		PricePreferences:    domain.PriceBand{Min: 100, Max: 300, Set: true},
		ViewHistory:         []domain.ViewRecord{{ListingID: "listing-a", ViewedAt: now.Add(-30 * time.Minute)}},
	}
	listingA := &domain.Listing{ID: "listing-a", Category: "Beach", City: "Paris", Province: "IDF", Country: "France", Price: 150}
	listingB := &domain.Listing{ID: "listing-b", Category: "Mountain", City: "Oslo", Province: "Oslo", Country: "Norway", Price: 1000}

	ranked := uc.Rank(user, []*domain.Listing{listingB, listingA}, now, "")

	require.Len(t, ranked, 2)
	assert.Equal(t, "listing-a", ranked[0].ID)
	assert.Equal(t, "listing-b", ranked[1].ID)
}

func TestRank_StableOnTies(t *testing.T) {
	now := time.Now()
	uc, _, _ := newScorerFixture(now)

	user := &domain.User{}
	l1 := &domain.Listing{ID: "listing-1", Category: "Cabin", Price: 100}
	l2 := &domain.Listing{ID: "listing-2", Category: "Cabin", Price: 200}
	l3 := &domain.Listing{ID: "listing-3", Category: "Cabin", Price: 300}

	ranked := uc.Rank(user, []*domain.Listing{l1, l2, l3}, now, "")

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"listing-1", "listing-2", "listing-3"},
		[]string{ranked[0].ID, ranked[1].ID, ranked[2].ID},
		"all-zero scores keep store-native order")
}

func TestRank_Deterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc, _, _ := newScorerFixture(now)

	user := &domain.User{
		PreferredCategories: []string{"Beach", "Cabin"},
		PricePreferences:    domain.PriceBand{Min: 50, Max: 500, Set: true},
	}
	candidates := []*domain.Listing{
		{ID: "listing-1", Category: "Cabin", Price: 100},
		{ID: "listing-2", Category: "Beach", Price: 900},
		{ID: "listing-3", Category: "Lake", Price: 200},
		{ID: "listing-4", Category: "Beach", Price: 300},
	}

	first := uc.Rank(user, candidates, now, "")
	for i := 0; i < 10; i++ {
		again := uc.Rank(user, candidates, now, "")
		require.Equal(t, first, again)
	}
}

func TestRank_CategoryFilter(t *testing.T) {
	now := time.Now()
	uc, _, _ := newScorerFixture(now)

	user := &domain.User{}
	candidates := []*domain.Listing{
		{ID: "listing-1", Category: "Beach"},
		{ID: "listing-2", Category: "Cabin"},
		{ID: "listing-3", Category: "Beach"},
	}

	ranked := uc.Rank(user, candidates, now, "Beach")

	require.Len(t, ranked, 2)
	assert.Equal(t, "listing-1", ranked[0].ID)
	assert.Equal(t, "listing-3", ranked[1].ID)
}

func TestGetFeed_AnonymousFallsBackToStoreOrder(t *testing.T) {
	uc, users, listings := newScorerFixture(time.Now())

	candidates := []*domain.Listing{
		{ID: "listing-1", Category: "Beach"},
		{ID: "listing-2", Category: "Beach"},
	}
	listings.On("FindByCategory", mock.Anything, "Beach").Return(candidates, nil).Once()

	feed, err := uc.GetFeed(context.Background(), "", "Beach")

	require.NoError(t, err)
	assert.Equal(t, candidates, feed)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	listings.AssertExpectations(t)
}

func TestGetFeed_HostFallsBackToStoreOrder(t *testing.T) {
	uc, users, listings := newScorerFixture(time.Now())

	candidates := []*domain.Listing{
		{ID: "listing-1", Category: "Beach"},
		{ID: "listing-2", Category: "Beach"},
	}
	listings.On("FindByCategory", mock.Anything, "").Return(candidates, nil).Once()
	users.On("FindByID", mock.Anything, "host-1").Return(&domain.User{ID: "host-1", Role: domain.RoleHost}, nil).Once()

	feed, err := uc.GetFeed(context.Background(), "host-1", "")

	require.NoError(t, err)
	assert.Equal(t, candidates, feed)
	users.AssertExpectations(t)
}

func TestGetFeed_GuestGetsRankedFeed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc, users, listings := newScorerFixture(now)

	user := &domain.User{
		ID:                  "user-1",
		Role:                domain.RoleGuest,
		PreferredCategories: []string{"Beach"},
	}
	plain := &domain.Listing{ID: "listing-1", Category: "Cabin"}
	preferred := &domain.Listing{ID: "listing-2", Category: "Beach"}

	listings.On("FindByCategory", mock.Anything, "").Return([]*domain.Listing{plain, preferred}, nil).Once()
	users.On("FindByID", mock.Anything, "user-1").Return(user, nil).Once()

	feed, err := uc.GetFeed(context.Background(), "user-1", "")

	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "listing-2", feed[0].ID)
	assert.Equal(t, "listing-1", feed[1].ID)
}

func TestGetFeed_UnknownUserIsAnError(t *testing.T) {
	uc, users, listings := newScorerFixture(time.Now())

	listings.On("FindByCategory", mock.Anything, "").Return([]*domain.Listing{}, nil).Once()
	users.On("FindByID", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound).Once()

	_, err := uc.GetFeed(context.Background(), "ghost", "")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
