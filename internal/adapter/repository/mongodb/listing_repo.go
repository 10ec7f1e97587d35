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

const listingCollectionName = "listings"

type ListingRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

func NewListingRepository(db *mongo.Database, log logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection(listingCollectionName),
		logger:     log,
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return fmt.Errorf("failed to prepare listing for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Errorf("ListingRepository.Create: InsertOne failed: %v", err)
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	listing.ID = oid.Hex()
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objID, err := objectIDFromDomain(id)
	if err != nil {
		return nil, err
	}
	if objID.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrListingNotFound, id)
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Errorf("ListingRepository.FindByID: %v", err)
		return nil, fmt.Errorf("failed to find listing %s: %w", id, err)
	}
	return toDomainListing(&doc), nil
}

// FindByIDs hydrates listing references in one query. Results come back in
// the order of ids; IDs with no matching document are skipped.
func (r *ListingRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return []*domain.Listing{}, nil
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
		return nil, fmt.Errorf("failed to find listings by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	byID := make(map[string]*domain.Listing, len(docs))
	for _, doc := range docs {
		l := toDomainListing(doc)
		byID[l.ID] = l
	}
	ordered := make([]*domain.Listing, 0, len(docs))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}

// FindByCategory returns listings in store-native order. An empty category
// returns everything.
func (r *ListingRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Listing, error) {
	query := bson.M{}
	if category != "" {
		query["category"] = category
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return toDomainListings(docs), nil
}

// Search matches query case-insensitively against category and title.
func (r *ListingRepository) Search(ctx context.Context, query string) ([]*domain.Listing, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"category": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"title": bson.M{"$regex": query, "$options": "i"}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objID, err := objectIDFromDomain(id)
	if err != nil {
		return err
	}
	if objID.IsZero() {
		return fmt.Errorf("%w: %s", domain.ErrListingNotFound, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Errorf("ListingRepository.Delete: listing=%s: %v", id, err)
		return fmt.Errorf("failed to delete listing %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
