package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	catalogerrors "autobooking/internal/catalog/errors"
	"autobooking/pkg/config"
	"autobooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const FeatureCollection = "Features"

type FeatureRepository interface {
	Create(ctx context.Context, feature *model.Feature) error
	FindByID(ctx context.Context, id string) (*model.Feature, error)
	FindByName(ctx context.Context, name string) (*model.Feature, error)
	FindAll(ctx context.Context) ([]*model.Feature, error)
	Delete(ctx context.Context, id string) error
}

type mongoFeatureRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFeatureRepository(cfg *config.Config) FeatureRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFeatureRepository{
		cfg:        cfg,
		collection: db.Collection(FeatureCollection),
	}
}

func (r *mongoFeatureRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoFeatureRepository) Create(ctx context.Context, feature *model.Feature) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, feature)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalogerrors.ErrDuplicateName
		}
		return fmt.Errorf("failed to create feature: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		feature.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFeatureRepository) FindByID(ctx context.Context, id string) (*model.Feature, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var feature model.Feature
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&feature)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find feature: %w", err)
	}

	return &feature, nil
}

func (r *mongoFeatureRepository) FindByName(ctx context.Context, name string) (*model.Feature, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"name": bson.M{
		"$regex":   "^" + regexQuoteMeta(strings.TrimSpace(name)) + "$",
		"$options": "i",
	}}

	var feature model.Feature
	err := r.collection.FindOne(ctx, filter).Decode(&feature)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find feature by name: %w", err)
	}

	return &feature, nil
}

func (r *mongoFeatureRepository) FindAll(ctx context.Context) ([]*model.Feature, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find features: %w", err)
	}
	defer cursor.Close(ctx)

	var features []*model.Feature
	if err = cursor.All(ctx, &features); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}
	return features, nil
}

func (r *mongoFeatureRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}
	if result.DeletedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}
