package domain

// DerivePreferences recomputes a user's preference aggregates from the
// hydrated wishlist and trip listings. It is the only producer of
// PreferredCategories and PreferredLocations: every wishlist or booking
// mutation recomputes both from scratch, so the aggregates always equal the
// deduplicated union over the current wishList and tripList. Insertion order
// is preserved, wishlist entries first.
func DerivePreferences(wishListings, tripListings []*Listing) ([]string, []Location) {
	categories := make([]string, 0, len(wishListings)+len(tripListings))
	locations := make([]Location, 0, len(wishListings)+len(tripListings))
	seenCategory := make(map[string]struct{})
	seenLocation := make(map[Location]struct{})

	for _, l := range append(append([]*Listing{}, wishListings...), tripListings...) {
		if l == nil {
			continue
		}
		if _, ok := seenCategory[l.Category]; !ok {
			seenCategory[l.Category] = struct{}{}
			categories = append(categories, l.Category)
		}
		loc := l.Location()
		if _, ok := seenLocation[loc]; !ok {
			seenLocation[loc] = struct{}{}
			locations = append(locations, loc)
		}
	}
	return categories, locations
}
