package usecase

import (
	"context"
	"strings"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

type CreateListingInput struct {
	CreatorID     string
	Category      string
	Type          string
	StreetAddress string
	AptSuite      string
	City          string
	Province      string
	Country       string
	GuestCount    int
	BedroomCount  int
	BedCount      int
	BathroomCount int
	Amenities     []string
	PhotoPaths    []string
	Title         string
	Description   string
	Highlight     string
	HighlightDesc string
	Price         float64
}

type ListingUsecase struct {
	users    domain.UserRepository
	listings domain.ListingRepository
	cache    domain.ListingCache
	clock    domain.Clock
	log      logger.Logger
}

func NewListingUsecase(
	users domain.UserRepository,
	listings domain.ListingRepository,
	cache domain.ListingCache,
	clock domain.Clock,
	log logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{users: users, listings: listings, cache: cache, clock: clock, log: log}
}

// CreateListing persists the listing and records it on the creator's
// property list.
func (uc *ListingUsecase) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	uc.log.Infof("CreateListing: creator=%s title=%q", in.CreatorID, in.Title)

	if in.CreatorID == "" || in.Category == "" || in.Title == "" || in.Price <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.users.FindByID(ctx, in.CreatorID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	listing := &domain.Listing{
		CreatorID:     in.CreatorID,
		Category:      in.Category,
		Type:          in.Type,
		StreetAddress: in.StreetAddress,
		AptSuite:      in.AptSuite,
		City:          in.City,
		Province:      in.Province,
		Country:       in.Country,
		GuestCount:    in.GuestCount,
		BedroomCount:  in.BedroomCount,
		BedCount:      in.BedCount,
		BathroomCount: in.BathroomCount,
		Amenities:     in.Amenities,
		PhotoPaths:    in.PhotoPaths,
		Title:         in.Title,
		Description:   in.Description,
		Highlight:     in.Highlight,
		HighlightDesc: in.HighlightDesc,
		Price:         in.Price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.listings.Create(ctx, listing); err != nil {
		uc.log.Errorf("CreateListing: creator=%s: %v", in.CreatorID, err)
		return nil, err
	}

	err := retryOnConflict(maxUpdateRetries, func() error {
		creator, err := uc.users.FindByID(ctx, in.CreatorID)
		if err != nil {
			return err
		}
		creator.PropertyList = append(creator.PropertyList, listing.ID)
		creator.UpdatedAt = uc.clock.Now()
		return uc.users.Update(ctx, creator)
	})
	if err != nil {
		uc.log.Errorf("CreateListing: recording property %s on creator %s: %v", listing.ID, in.CreatorID, err)
		return nil, err
	}
	return listing, nil
}

// GetListingByID is a cache-aside listing read.
func (uc *ListingUsecase) GetListingByID(ctx context.Context, id string) (*domain.Listing, error) {
	cached, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.log.Warnf("GetListingByID: cache read for %s failed: %v", id, err)
	}
	if cached != nil {
		return cached, nil
	}

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.log.Warnf("GetListingByID: cache write for %s failed: %v", id, err)
	}
	return listing, nil
}

// SearchListings matches query case-insensitively against category and
// title. "all" (or empty) returns every listing.
func (uc *ListingUsecase) SearchListings(ctx context.Context, query string) ([]*domain.Listing, error) {
	uc.log.Infof("SearchListings: query=%q", query)
	if query == "" || strings.EqualFold(query, "all") {
		return uc.listings.FindByCategory(ctx, "")
	}
	return uc.listings.Search(ctx, query)
}
