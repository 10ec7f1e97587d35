package domain

import "time"

// LastViewedCapacity bounds the recently-viewed MRU list per user.
const LastViewedCapacity = 10

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// Location identifies a listing's place; equality is on all three fields.
type Location struct {
	City     string
	Province string
	Country  string
}

// PriceBand is a monotonically widening price range seeded by the first
// viewed listing. Set distinguishes a seeded band from the zero value.
type PriceBand struct {
	Min float64
	Max float64
	Set bool
}

func (b *PriceBand) Widen(price float64) {
	if !b.Set {
		b.Min = price
		b.Max = price
		b.Set = true
		return
	}
	if price < b.Min {
		b.Min = price
	}
	if price > b.Max {
		b.Max = price
	}
}

func (b PriceBand) Contains(price float64) bool {
	return b.Set && price >= b.Min && price <= b.Max
}

// ViewRecord keeps the first time a user viewed a listing. Repeat views do
// not refresh ViewedAt.
type ViewRecord struct {
	ListingID string
	ViewedAt  time.Time
}

type User struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	ProfileImagePath string
	Role             Role
	IsBlocked        bool

	WishList     []string // listing IDs, set semantics
	TripList     []string // booking IDs, append-only
	PropertyList []string // listing IDs the user hosts

	LastViewedListings  []string // MRU, head is newest
	ViewHistory         []ViewRecord
	PreferredCategories []string
	PreferredLocations  []Location
	PricePreferences    PriceBand

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PushLastViewed moves listingID to the front of the MRU list, evicting the
// tail past capacity.
func (u *User) PushLastViewed(listingID string) {
	next := make([]string, 0, len(u.LastViewedListings)+1)
	next = append(next, listingID)
	for _, id := range u.LastViewedListings {
		if id == listingID {
			continue
		}
		next = append(next, id)
	}
	if len(next) > LastViewedCapacity {
		next = next[:LastViewedCapacity]
	}
	u.LastViewedListings = next
}

// TouchViewHistory appends a view record unless the listing was seen before.
func (u *User) TouchViewHistory(listingID string, now time.Time) {
	for _, v := range u.ViewHistory {
		if v.ListingID == listingID {
			return
		}
	}
	u.ViewHistory = append(u.ViewHistory, ViewRecord{ListingID: listingID, ViewedAt: now})
}

func (u *User) ViewedAt(listingID string) (time.Time, bool) {
	for _, v := range u.ViewHistory {
		if v.ListingID == listingID {
			return v.ViewedAt, true
		}
	}
	return time.Time{}, false
}

func (u *User) HasWishlisted(listingID string) bool {
	for _, id := range u.WishList {
		if id == listingID {
			return true
		}
	}
	return false
}

func (u *User) AddToWishlist(listingID string) {
	if u.HasWishlisted(listingID) {
		return
	}
	u.WishList = append(u.WishList, listingID)
}

func (u *User) RemoveFromWishlist(listingID string) {
	next := u.WishList[:0]
	for _, id := range u.WishList {
		if id != listingID {
			next = append(next, id)
		}
	}
	u.WishList = next
}

type Listing struct {
	ID            string
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
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l *Listing) Location() Location {
	return Location{City: l.City, Province: l.Province, Country: l.Country}
}

type Booking struct {
	ID         string
	CustomerID string
	HostID     string
	ListingID  string
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
