package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	// Update persists the user with an optimistic version check and returns
	// ErrVersionConflict if the stored version no longer matches.
	Update(ctx context.Context, user *User) error
	// RemoveListingRefs pulls listingID out of every user's wishList,
	// lastViewedListings and viewHistory.
	RemoveListingRefs(ctx context.Context, listingID string) error
}

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindByIDs hydrates listing references in one read; missing IDs are
	// skipped, not errors.
	FindByIDs(ctx context.Context, ids []string) ([]*Listing, error)
	// FindByCategory returns listings in store-native order; an empty
	// category returns everything.
	FindByCategory(ctx context.Context, category string) ([]*Listing, error)
	Search(ctx context.Context, query string) ([]*Listing, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Booking, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]*Booking, error)
	FindByListingID(ctx context.Context, listingID string) ([]*Booking, error)
	DeleteByListingID(ctx context.Context, listingID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ListingCache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// TxRunner executes fn inside a single unit of work: every repository call
// made with the ctx passed to fn commits or rolls back as one.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func NewClock() Clock { return realClock{} }
