package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

const listingDeletedSubject = "listings.deleted"

type listingDeletedEvent struct {
	EventID         string    `json:"event_id"`
	ListingID       string    `json:"listing_id"`
	RemovedBookings int64     `json:"removed_bookings"`
	DeletedAt       time.Time `json:"deleted_at"`
}

// IntegrityUsecase removes a listing together with every reference to it, as
// one atomic unit of work. Readers never observe the listing gone while a
// dangling reference remains, or the reverse.
type IntegrityUsecase struct {
	users     domain.UserRepository
	listings  domain.ListingRepository
	bookings  domain.BookingRepository
	cache     domain.ListingCache
	publisher domain.EventPublisher
	tx        domain.TxRunner
	clock     domain.Clock
	log       logger.Logger
}

func NewIntegrityUsecase(
	users domain.UserRepository,
	listings domain.ListingRepository,
	bookings domain.BookingRepository,
	cache domain.ListingCache,
	publisher domain.EventPublisher,
	tx domain.TxRunner,
	clock domain.Clock,
	log logger.Logger,
) *IntegrityUsecase {
	return &IntegrityUsecase{
		users:     users,
		listings:  listings,
		bookings:  bookings,
		cache:     cache,
		publisher: publisher,
		tx:        tx,
		clock:     clock,
		log:       log,
	}
}

// DeleteListing deletes the listing and, in the same transaction, every
// booking for it and every user-held reference to it (wishList,
// lastViewedListings, viewHistory). Any step failing rolls the whole
// operation back.
func (uc *IntegrityUsecase) DeleteListing(ctx context.Context, listingID string) error {
	uc.log.Infof("DeleteListing: listing=%s", listingID)

	var removedBookings int64
	err := uc.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.listings.FindByID(txCtx, listingID); err != nil {
			return err
		}

		n, err := uc.bookings.DeleteByListingID(txCtx, listingID)
		if err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		removedBookings = n

		if err := uc.users.RemoveListingRefs(txCtx, listingID); err != nil {
			return fmt.Errorf("remove user references: %w", err)
		}

		if err := uc.listings.Delete(txCtx, listingID); err != nil {
			return fmt.Errorf("delete listing: %w", err)
		}
		return nil
	})
	if errors.Is(err, domain.ErrListingNotFound) {
		uc.log.Warnf("DeleteListing: listing=%s not found", listingID)
		return err
	}
	if err != nil {
		uc.log.Errorf("DeleteListing: listing=%s rolled back: %v", listingID, err)
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	// Post-commit cleanup is best effort: the cache entry expires on its own
	// and consumers reconcile from the store.
	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.log.Warnf("DeleteListing: cache invalidation for %s failed: %v", listingID, err)
	}
	event := listingDeletedEvent{
		EventID:         uuid.NewString(),
		ListingID:       listingID,
		RemovedBookings: removedBookings,
		DeletedAt:       uc.clock.Now(),
	}
	if err := uc.publisher.Publish(ctx, listingDeletedSubject, event); err != nil {
		uc.log.Warnf("DeleteListing: publishing %s for %s failed: %v", listingDeletedSubject, listingID, err)
	}

	uc.log.Infof("DeleteListing: listing=%s deleted, bookings_removed=%d", listingID, removedBookings)
	return nil
}
