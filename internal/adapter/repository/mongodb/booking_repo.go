package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
)

const bookingCollectionName = "bookings"

type BookingRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

func NewBookingRepository(db *mongo.Database, log logger.Logger) *BookingRepository {
	return &BookingRepository{
		collection: db.Collection(bookingCollectionName),
		logger:     log,
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	doc, err := toBookingDocument(booking)
	if err != nil {
		return fmt.Errorf("failed to prepare booking for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Errorf("BookingRepository.Create: InsertOne failed: %v", err)
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	booking.ID = oid.Hex()
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	objID, err := objectIDFromDomain(id)
	if err != nil {
		return nil, err
	}
	if objID.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}

	var doc bookingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		r.logger.Errorf("BookingRepository.FindByID: %v", err)
		return nil, fmt.Errorf("failed to find booking %s: %w", id, err)
	}
	return toDomainBooking(&doc), nil
}

// FindByIDs hydrates booking references in one query, in the order of ids.
// IDs with no matching document are skipped.
func (r *BookingRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Booking, error) {
	if len(ids) == 0 {
		return []*domain.Booking{}, nil
	}

	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	byID := make(map[string]*domain.Booking, len(docs))
	for _, doc := range docs {
		b := toDomainBooking(doc)
		byID[b.ID] = b
	}
	ordered := make([]*domain.Booking, 0, len(docs))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

func (r *BookingRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"customer_id": customerID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for customer %s: %w", customerID, err)
	}
	defer cursor.Close(ctx)

	var docs []*bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return toDomainBookings(docs), nil
}

func (r *BookingRepository) FindByListingID(ctx context.Context, listingID string) ([]*domain.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for listing %s: %w", listingID, err)
	}
	defer cursor.Close(ctx)

	var docs []*bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return toDomainBookings(docs), nil
}

func (r *BookingRepository) DeleteByListingID(ctx context.Context, listingID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		r.logger.Errorf("BookingRepository.DeleteByListingID: listing=%s: %v", listingID, err)
		return 0, fmt.Errorf("failed to delete bookings for listing %s: %w", listingID, err)
	}
	return result.DeletedCount, nil
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
