package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

const userCollectionName = "users"

type UserRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

func NewUserRepository(db *mongo.Database, log logger.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection(userCollectionName),
		logger:     log,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Version = 1
	doc, err := toUserDocument(user)
	if err != nil {
		return fmt.Errorf("failed to prepare user for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Errorf("UserRepository.Create: InsertOne failed: %v", err)
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	user.ID = oid.Hex()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	objID, err := objectIDFromDomain(id)
	if err != nil {
		return nil, err
	}
	if objID.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}

	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Errorf("UserRepository.FindByID: %v", err)
		return nil, fmt.Errorf("failed to find user %s: %w", id, err)
	}
	return toDomainUser(&doc), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, toDomainUser(doc))
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Update writes the user's mutable fields with an optimistic version check.
// A stale version surfaces domain.ErrVersionConflict so callers can retry
// their read-modify-write cycle.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	objID, err := objectIDFromDomain(user.ID)
	if err != nil {
		return err
	}
	if objID.IsZero() {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, user.ID)
	}

	doc, err := toUserDocument(user)
	if err != nil {
		return fmt.Errorf("failed to prepare user for database: %w", err)
	}

	filter := bson.M{"_id": objID, "version": user.Version}
	update := bson.M{
		"$set": bson.M{
			"first_name":           doc.FirstName,
			"last_name":            doc.LastName,
			"email":                doc.Email,
			"profile_image_path":   doc.ProfileImagePath,
			"role":                 doc.Role,
			"is_blocked":           doc.IsBlocked,
			"wish_list":            doc.WishList,
			"trip_list":            doc.TripList,
			"property_list":        doc.PropertyList,
			"last_viewed_listings": doc.LastViewedListings,
			"view_history":         doc.ViewHistory,
			"preferred_categories": doc.PreferredCategories,
			"preferred_locations":  doc.PreferredLocations,
			"price_preferences":    doc.PricePreferences,
			"updated_at":           doc.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Errorf("UserRepository.Update: user=%s: %v", user.ID, err)
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		var existing userDocument
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return domain.ErrUserNotFound
		}
		if errFind == nil && existing.Version != user.Version {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("failed to update user %s", user.ID)
	}

	user.Version++
	return nil
}

// RemoveListingRefs pulls listingID out of every user's wishList,
// lastViewedListings and viewHistory in one multi-document update.
func (r *UserRepository) RemoveListingRefs(ctx context.Context, listingID string) error {
	// Bumping the version invalidates any in-flight read-modify-write on the
	// affected users, so a racing preference update cannot resurrect the
	// pulled reference.
	update := bson.M{
		"$pull": bson.M{
			"wish_list":            listingID,
			"last_viewed_listings": listingID,
			"view_history":         bson.M{"listing_id": listingID},
		},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.collection.UpdateMany(ctx, bson.M{}, update)
	if err != nil {
		r.logger.Errorf("UserRepository.RemoveListingRefs: listing=%s: %v", listingID, err)
		return fmt.Errorf("failed to remove references to listing %s: %w", listingID, err)
	}
	r.logger.Debugf("UserRepository.RemoveListingRefs: listing=%s users_modified=%d", listingID, result.ModifiedCount)
	return nil
}
