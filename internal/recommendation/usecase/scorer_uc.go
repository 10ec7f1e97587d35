package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

const (
	categoryBonus  = 3
	locationBonus  = 2
	priceBandBonus = 1
)

// RecommendationUsecase ranks candidate listings against a user's preference
// aggregates. Scoring is pure and read-only; the score is a ranking key only
// and is never returned to callers.
type RecommendationUsecase struct {
	users    domain.UserRepository
	listings domain.ListingRepository
	clock    domain.Clock
	log      logger.Logger
}

func NewRecommendationUsecase(
	users domain.UserRepository,
	listings domain.ListingRepository,
	clock domain.Clock,
	log logger.Logger,
) *RecommendationUsecase {
	return &RecommendationUsecase{users: users, listings: listings, clock: clock, log: log}
}

// GetFeed returns the listing feed for userID, optionally filtered by
// category. An empty userID, or a user who is not a guest, gets the
// candidates back unranked in store-native order. A userID that does not
// resolve is an error.
func (uc *RecommendationUsecase) GetFeed(ctx context.Context, userID, category string) ([]*domain.Listing, error) {
	candidates, err := uc.listings.FindByCategory(ctx, category)
	if err != nil {
		uc.log.Errorf("GetFeed: fetching candidates: %v", err)
		return nil, err
	}

	if userID == "" {
		return candidates, nil
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		uc.log.Errorf("GetFeed: user=%s: %v", userID, err)
		return nil, err
	}
	if user.Role != domain.RoleGuest {
		uc.log.Debugf("GetFeed: user=%s role=%s, returning unranked feed", userID, user.Role)
		return candidates, nil
	}

	return uc.Rank(user, candidates, uc.clock.Now(), ""), nil
}

// Rank filters candidates by category (empty matches all), scores each
// against the user's aggregates and returns them in descending score order.
// The sort is stable so ties keep store-native order.
func (uc *RecommendationUsecase) Rank(user *domain.User, candidates []*domain.Listing, now time.Time, category string) []*domain.Listing {
	ranked := make([]*domain.Listing, 0, len(candidates))
	for _, l := range candidates {
		if category != "" && l.Category != category {
			continue
		}
		ranked = append(ranked, l)
	}

	scores := make(map[string]int, len(ranked))
	for _, l := range ranked {
		scores[l.ID] = score(user, l, now)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].ID] > scores[ranked[j].ID]
	})
	return ranked
}

// score sums independent bonuses: preferred category, preferred location,
// price inside the user's band, and a recency bonus that decays over 72h.
func score(user *domain.User, listing *domain.Listing, now time.Time) int {
	total := 0

	for _, c := range user.PreferredCategories {
		if c == listing.Category {
			total += categoryBonus
			break
		}
	}

	loc := listing.Location()
	for _, l := range user.PreferredLocations {
		if l == loc {
			total += locationBonus
			break
		}
	}

	if user.PricePreferences.Contains(listing.Price) {
		total += priceBandBonus
	}

	if viewedAt, ok := user.ViewedAt(listing.ID); ok {
		total += recencyBonus(now.Sub(viewedAt))
	}
	return total
}

func recencyBonus(elapsed time.Duration) int {
	switch {
	case elapsed < time.Hour:
		return 4
	case elapsed < 6*time.Hour:
		return 3
	case elapsed < 24*time.Hour:
		return 2
	case elapsed < 72*time.Hour:
		return 1
	}
	return 0
}
