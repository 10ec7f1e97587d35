package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

type locationDocument struct {
	City     string `bson:"city"`
	Province string `bson:"province"`
	Country  string `bson:"country"`
}

type priceBandDocument struct {
	Min float64 `bson:"min"`
	Max float64 `bson:"max"`
	Set bool    `bson:"set"`
}

type viewRecordDocument struct {
	ListingID string    `bson:"listing_id"`
	ViewedAt  time.Time `bson:"viewed_at"`
}

type userDocument struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName           string               `bson:"first_name"`
	LastName            string               `bson:"last_name"`
	Email               string               `bson:"email"`
	ProfileImagePath    string               `bson:"profile_image_path,omitempty"`
	Role                string               `bson:"role"`
	IsBlocked           bool                 `bson:"is_blocked"`
	WishList            []string             `bson:"wish_list"`
	TripList            []string             `bson:"trip_list"`
	PropertyList        []string             `bson:"property_list"`
	LastViewedListings  []string             `bson:"last_viewed_listings"`
	ViewHistory         []viewRecordDocument `bson:"view_history"`
	PreferredCategories []string             `bson:"preferred_categories"`
	PreferredLocations  []locationDocument   `bson:"preferred_locations"`
	PricePreferences    priceBandDocument    `bson:"price_preferences"`
	Version             int64                `bson:"version"`
	CreatedAt           time.Time            `bson:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at"`
}

type listingDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CreatorID     string             `bson:"creator_id"`
	Category      string             `bson:"category"`
	Type          string             `bson:"type"`
	StreetAddress string             `bson:"street_address"`
	AptSuite      string             `bson:"apt_suite,omitempty"`
	City          string             `bson:"city"`
	Province      string             `bson:"province"`
	Country       string             `bson:"country"`
	GuestCount    int                `bson:"guest_count"`
	BedroomCount  int                `bson:"bedroom_count"`
	BedCount      int                `bson:"bed_count"`
	BathroomCount int                `bson:"bathroom_count"`
	Amenities     []string           `bson:"amenities,omitempty"`
	PhotoPaths    []string           `bson:"photo_paths,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Highlight     string             `bson:"highlight,omitempty"`
	HighlightDesc string             `bson:"highlight_desc,omitempty"`
	Price         float64            `bson:"price"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

type bookingDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID string             `bson:"customer_id"`
	HostID     string             `bson:"host_id"`
	ListingID  string             `bson:"listing_id"`
	StartDate  time.Time          `bson:"start_date"`
	EndDate    time.Time          `bson:"end_date"`
	TotalPrice float64            `bson:"total_price"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

// objectIDFromDomain converts a domain ID to an ObjectID. An empty domain ID
// maps to NilObjectID so InsertOne lets MongoDB generate one.
func objectIDFromDomain(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed ID %q", domain.ErrInvalidInput, id)
	}
	return objID, nil
}

func toUserDocument(u *domain.User) (*userDocument, error) {
	if u == nil {
		return nil, nil
	}
	docID, err := objectIDFromDomain(u.ID)
	if err != nil {
		return nil, err
	}

	views := make([]viewRecordDocument, 0, len(u.ViewHistory))
	for _, v := range u.ViewHistory {
		views = append(views, viewRecordDocument{ListingID: v.ListingID, ViewedAt: v.ViewedAt})
	}
	locations := make([]locationDocument, 0, len(u.PreferredLocations))
	for _, l := range u.PreferredLocations {
		locations = append(locations, locationDocument{City: l.City, Province: l.Province, Country: l.Country})
	}

	return &userDocument{
		ID:                  docID,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Email:               u.Email,
		ProfileImagePath:    u.ProfileImagePath,
		Role:                string(u.Role),
		IsBlocked:           u.IsBlocked,
		WishList:            u.WishList,
		TripList:            u.TripList,
		PropertyList:        u.PropertyList,
		LastViewedListings:  u.LastViewedListings,
		ViewHistory:         views,
		PreferredCategories: u.PreferredCategories,
		PreferredLocations:  locations,
		PricePreferences: priceBandDocument{
			Min: u.PricePreferences.Min,
			Max: u.PricePreferences.Max,
			Set: u.PricePreferences.Set,
		},
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	views := make([]domain.ViewRecord, 0, len(d.ViewHistory))
	for _, v := range d.ViewHistory {
		views = append(views, domain.ViewRecord{ListingID: v.ListingID, ViewedAt: v.ViewedAt})
	}
	locations := make([]domain.Location, 0, len(d.PreferredLocations))
	for _, l := range d.PreferredLocations {
		locations = append(locations, domain.Location{City: l.City, Province: l.Province, Country: l.Country})
	}
	return &domain.User{
		ID:                  d.ID.Hex(),
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		Email:               d.Email,
		ProfileImagePath:    d.ProfileImagePath,
		Role:                domain.Role(d.Role),
		IsBlocked:           d.IsBlocked,
		WishList:            d.WishList,
		TripList:            d.TripList,
		PropertyList:        d.PropertyList,
		LastViewedListings:  d.LastViewedListings,
		ViewHistory:         views,
		PreferredCategories: d.PreferredCategories,
		PreferredLocations:  locations,
		PricePreferences: domain.PriceBand{
			Min: d.PricePreferences.Min,
			Max: d.PricePreferences.Max,
			Set: d.PricePreferences.Set,
		},
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}
	docID, err := objectIDFromDomain(l.ID)
	if err != nil {
		return nil, err
	}
	return &listingDocument{
		ID:            docID,
		CreatorID:     l.CreatorID,
		Category:      l.Category,
		Type:          l.Type,
		StreetAddress: l.StreetAddress,
		AptSuite:      l.AptSuite,
		City:          l.City,
		Province:      l.Province,
		Country:       l.Country,
		GuestCount:    l.GuestCount,
		BedroomCount:  l.BedroomCount,
		BedCount:      l.BedCount,
		BathroomCount: l.BathroomCount,
		Amenities:     l.Amenities,
		PhotoPaths:    l.PhotoPaths,
		Title:         l.Title,
		Description:   l.Description,
		Highlight:     l.Highlight,
		HighlightDesc: l.HighlightDesc,
		Price:         l.Price,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:            d.ID.Hex(),
		CreatorID:     d.CreatorID,
		Category:      d.Category,
		Type:          d.Type,
		StreetAddress: d.StreetAddress,
		AptSuite:      d.AptSuite,
		City:          d.City,
		Province:      d.Province,
		Country:       d.Country,
		GuestCount:    d.GuestCount,
		BedroomCount:  d.BedroomCount,
		BedCount:      d.BedCount,
		BathroomCount: d.BathroomCount,
		Amenities:     d.Amenities,
		PhotoPaths:    d.PhotoPaths,
		Title:         d.Title,
		Description:   d.Description,
		Highlight:     d.Highlight,
		HighlightDesc: d.HighlightDesc,
		Price:         d.Price,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toBookingDocument(b *domain.Booking) (*bookingDocument, error) {
	if b == nil {
		return nil, nil
	}
	docID, err := objectIDFromDomain(b.ID)
	if err != nil {
		return nil, err
	}
	return &bookingDocument{
		ID:         docID,
		CustomerID: b.CustomerID,
		HostID:     b.HostID,
		ListingID:  b.ListingID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}, nil
}

func toDomainBooking(d *bookingDocument) *domain.Booking {
	if d == nil {
		return nil
	}
	return &domain.Booking{
		ID:         d.ID.Hex(),
		CustomerID: d.CustomerID,
		HostID:     d.HostID,
		ListingID:  d.ListingID,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		TotalPrice: d.TotalPrice,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toDomainBookings(docs []*bookingDocument) []*domain.Booking {
	bookings := make([]*domain.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, toDomainBooking(doc))
	}
	return bookings
}
