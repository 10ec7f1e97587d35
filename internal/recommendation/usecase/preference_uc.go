package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

// maxUpdateRetries bounds the read-modify-write retry loop on optimistic
// version conflicts.
const maxUpdateRetries = 3

type WishlistOutcome string

const (
	WishlistAdded   WishlistOutcome = "added"
	WishlistRemoved WishlistOutcome = "removed"
	WishlistIgnored WishlistOutcome = "ignored" // owner toggled their own listing
)

type WishlistResult struct {
	Outcome  WishlistOutcome
	WishList []string
	User     *domain.User
}

// PreferenceUsecase maintains a user's derived preference aggregates in
// response to view, wishlist and booking events.
type PreferenceUsecase struct {
	users    domain.UserRepository
	listings domain.ListingRepository
	bookings domain.BookingRepository
	cache    domain.ListingCache
	clock    domain.Clock
	log      logger.Logger
}

func NewPreferenceUsecase(
	users domain.UserRepository,
	listings domain.ListingRepository,
	bookings domain.BookingRepository,
	cache domain.ListingCache,
	clock domain.Clock,
	log logger.Logger,
) *PreferenceUsecase {
	return &PreferenceUsecase{
		users:    users,
		listings: listings,
		bookings: bookings,
		cache:    cache,
		clock:    clock,
		log:      log,
	}
}

// RecordView registers a view of listingID by userID: the view history gains
// an entry on first view only, the MRU list moves the listing to the front,
// and the price band widens to cover the listing's price.
func (uc *PreferenceUsecase) RecordView(ctx context.Context, userID, listingID string) (*domain.User, error) {
	uc.log.Infof("RecordView: user=%s listing=%s", userID, listingID)

	listing, err := uc.getListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = retryOnConflict(maxUpdateRetries, func() error {
		var err error
		user, err = uc.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		user.TouchViewHistory(listing.ID, now)
		user.PushLastViewed(listing.ID)
		user.PricePreferences.Widen(listing.Price)
		if err := uc.refreshDerived(ctx, user); err != nil {
			return err
		}
		user.UpdatedAt = now

		return uc.users.Update(ctx, user)
	})
	if err != nil {
		uc.log.Errorf("RecordView: user=%s listing=%s: %v", userID, listingID, err)
		return nil, err
	}
	return user, nil
}

// ToggleWishlist flips listingID's membership in the user's wishlist and
// recomputes the derived preference aggregates. Toggling a listing the user
// created is reported as WishlistIgnored and mutates nothing.
func (uc *PreferenceUsecase) ToggleWishlist(ctx context.Context, userID, listingID string) (*WishlistResult, error) {
	uc.log.Infof("ToggleWishlist: user=%s listing=%s", userID, listingID)

	listing, err := uc.getListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	var result *WishlistResult
	err = retryOnConflict(maxUpdateRetries, func() error {
		user, err := uc.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		if listing.CreatorID == user.ID {
			result = &WishlistResult{Outcome: WishlistIgnored, WishList: user.WishList, User: user}
			return nil
		}

		outcome := WishlistAdded
		if user.HasWishlisted(listing.ID) {
			user.RemoveFromWishlist(listing.ID)
			outcome = WishlistRemoved
		} else {
			user.AddToWishlist(listing.ID)
		}
		if err := uc.refreshDerived(ctx, user); err != nil {
			return err
		}
		user.UpdatedAt = uc.clock.Now()

		if err := uc.users.Update(ctx, user); err != nil {
			return err
		}
		result = &WishlistResult{Outcome: outcome, WishList: user.WishList, User: user}
		return nil
	})
	if err != nil {
		uc.log.Errorf("ToggleWishlist: user=%s listing=%s: %v", userID, listingID, err)
		return nil, err
	}
	return result, nil
}

// RecordBooking appends the booking to the user's trip list and recomputes
// the derived preference aggregates.
func (uc *PreferenceUsecase) RecordBooking(ctx context.Context, userID, bookingID string) (*domain.User, error) {
	uc.log.Infof("RecordBooking: user=%s booking=%s", userID, bookingID)

	booking, err := uc.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = retryOnConflict(maxUpdateRetries, func() error {
		var err error
		user, err = uc.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		user.TripList = append(user.TripList, booking.ID)
		if err := uc.refreshDerived(ctx, user); err != nil {
			return err
		}
		user.UpdatedAt = uc.clock.Now()

		return uc.users.Update(ctx, user)
	})
	if err != nil {
		uc.log.Errorf("RecordBooking: user=%s booking=%s: %v", userID, bookingID, err)
		return nil, err
	}
	return user, nil
}

// refreshDerived rebuilds PreferredCategories and PreferredLocations from the
// user's current wishList and tripList, hydrated through the listing join.
func (uc *PreferenceUsecase) refreshDerived(ctx context.Context, user *domain.User) error {
	wishListings, err := uc.listings.FindByIDs(ctx, user.WishList)
	if err != nil {
		return fmt.Errorf("hydrate wishlist: %w", err)
	}

	tripBookings, err := uc.bookings.FindByIDs(ctx, user.TripList)
	if err != nil {
		return fmt.Errorf("hydrate trip list: %w", err)
	}
	tripListingIDs := make([]string, 0, len(tripBookings))
	for _, b := range tripBookings {
		tripListingIDs = append(tripListingIDs, b.ListingID)
	}
	tripListings, err := uc.listings.FindByIDs(ctx, tripListingIDs)
	if err != nil {
		return fmt.Errorf("hydrate trip listings: %w", err)
	}

	user.PreferredCategories, user.PreferredLocations = domain.DerivePreferences(wishListings, tripListings)
	return nil
}

// getListing is a cache-aside read of a listing by ID.
func (uc *PreferenceUsecase) getListing(ctx context.Context, id string) (*domain.Listing, error) {
	cached, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.log.Warnf("getListing: cache read for %s failed: %v", id, err)
	}
	if cached != nil {
		return cached, nil
	}

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.log.Warnf("getListing: cache write for %s failed: %v", id, err)
	}
	return listing, nil
}

func retryOnConflict(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
	}
	return err
}
