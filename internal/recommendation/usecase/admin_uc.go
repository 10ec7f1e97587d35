package usecase

import (
	"context"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

type PlatformStats struct {
	TotalUsers    int64
	TotalListings int64
	TotalBookings int64
	CategoryStats map[string]int
}

type AdminUsecase struct {
	users    domain.UserRepository
	listings domain.ListingRepository
	bookings domain.BookingRepository
	clock    domain.Clock
	log      logger.Logger
}

func NewAdminUsecase(
	users domain.UserRepository,
	listings domain.ListingRepository,
	bookings domain.BookingRepository,
	clock domain.Clock,
	log logger.Logger,
) *AdminUsecase {
	return &AdminUsecase{users: users, listings: listings, bookings: bookings, clock: clock, log: log}
}

func (uc *AdminUsecase) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	uc.log.Infof("PlatformStats: collecting totals")

	totalUsers, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalBookings, err := uc.bookings.Count(ctx)
	if err != nil {
		return nil, err
	}
	listings, err := uc.listings.FindByCategory(ctx, "")
	if err != nil {
		return nil, err
	}

	categoryStats := make(map[string]int)
	for _, l := range listings {
		categoryStats[l.Category]++
	}
	return &PlatformStats{
		TotalUsers:    totalUsers,
		TotalListings: int64(len(listings)),
		TotalBookings: totalBookings,
		CategoryStats: categoryStats,
	}, nil
}

// ToggleUserBlock flips the user's blocked flag and returns the updated user.
func (uc *AdminUsecase) ToggleUserBlock(ctx context.Context, userID string) (*domain.User, error) {
	uc.log.Infof("ToggleUserBlock: user=%s", userID)

	var user *domain.User
	err := retryOnConflict(maxUpdateRetries, func() error {
		var err error
		user, err = uc.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		user.IsBlocked = !user.IsBlocked
		user.UpdatedAt = uc.clock.Now()
		return uc.users.Update(ctx, user)
	})
	if err != nil {
		uc.log.Errorf("ToggleUserBlock: user=%s: %v", userID, err)
		return nil, err
	}
	return user, nil
}

// ChangeUserRole sets the user's role. Admins cannot change their own role.
func (uc *AdminUsecase) ChangeUserRole(ctx context.Context, adminID, userID string, role domain.Role) (*domain.User, error) {
	uc.log.Infof("ChangeUserRole: admin=%s user=%s role=%s", adminID, userID, role)

	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if adminID == userID {
		return nil, domain.ErrForbidden
	}

	var user *domain.User
	err := retryOnConflict(maxUpdateRetries, func() error {
		var err error
		user, err = uc.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		user.Role = role
		user.UpdatedAt = uc.clock.Now()
		return uc.users.Update(ctx, user)
	})
	if err != nil {
		uc.log.Errorf("ChangeUserRole: user=%s: %v", userID, err)
		return nil, err
	}
	return user, nil
}
