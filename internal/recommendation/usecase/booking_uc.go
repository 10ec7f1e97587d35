package usecase

import (
	"context"
	"time"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

type CreateBookingInput struct {
	CustomerID string
	HostID     string
	ListingID  string
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice float64
}

// Trip is a booking hydrated with its listing.
type Trip struct {
	Booking *domain.Booking
	Listing *domain.Listing
}

type BookingUsecase struct {
	bookings    domain.BookingRepository
	listings    domain.ListingRepository
	preferences *PreferenceUsecase
	clock       domain.Clock
	log         logger.Logger
}

func NewBookingUsecase(
	bookings domain.BookingRepository,
	listings domain.ListingRepository,
	preferences *PreferenceUsecase,
	clock domain.Clock,
	log logger.Logger,
) *BookingUsecase {
	return &BookingUsecase{
		bookings:    bookings,
		listings:    listings,
		preferences: preferences,
		clock:       clock,
		log:         log,
	}
}

// CreateBooking persists the booking and records it on the customer's trip
// list, which recomputes the customer's preference aggregates.
func (uc *BookingUsecase) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	uc.log.Infof("CreateBooking: customer=%s listing=%s", in.CustomerID, in.ListingID)

	if in.CustomerID == "" || in.ListingID == "" || in.EndDate.Before(in.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.listings.FindByID(ctx, in.ListingID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	booking := &domain.Booking{
		CustomerID: in.CustomerID,
		HostID:     in.HostID,
		ListingID:  in.ListingID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalPrice: in.TotalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.bookings.Create(ctx, booking); err != nil {
		uc.log.Errorf("CreateBooking: customer=%s listing=%s: %v", in.CustomerID, in.ListingID, err)
		return nil, err
	}

	if _, err := uc.preferences.RecordBooking(ctx, in.CustomerID, booking.ID); err != nil {
		uc.log.Errorf("CreateBooking: recording booking %s on customer %s: %v", booking.ID, in.CustomerID, err)
		return nil, err
	}
	return booking, nil
}

// GetTripsByCustomer returns the customer's bookings hydrated with their
// listings. Bookings whose listing is gone are skipped.
func (uc *BookingUsecase) GetTripsByCustomer(ctx context.Context, customerID string) ([]*Trip, error) {
	uc.log.Infof("GetTripsByCustomer: customer=%s", customerID)

	bookings, err := uc.bookings.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	listingIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		listingIDs = append(listingIDs, b.ListingID)
	}
	listings, err := uc.listings.FindByIDs(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	trips := make([]*Trip, 0, len(bookings))
	for _, b := range bookings {
		listing, ok := byID[b.ListingID]
		if !ok {
			continue
		}
		trips = append(trips, &Trip{Booking: b, Listing: listing})
	}
	return trips, nil
}
