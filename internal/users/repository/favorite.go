package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	userserrors "autobooking/internal/users/errors"
	"autobooking/pkg/config"
	"autobooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const FavoriteCollection = "Favorites"

// ErrDuplicateFavorite signals the (user, product) pair is already marked.
var ErrDuplicateFavorite = errors.New("product is already a favorite")

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.Favorite) error
	Delete(ctx context.Context, userID, productID string) error
	FindByUser(ctx context.Context, userID string) ([]*model.Favorite, error)
	Exists(ctx context.Context, userID, productID string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type mongoFavoriteRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFavoriteRepository(cfg *config.Config) FavoriteRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFavoriteRepository{
		cfg:        cfg,
		collection: db.Collection(FavoriteCollection),
	}
}

func (r *mongoFavoriteRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoFavoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, favorite)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateFavorite
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		favorite.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFavoriteRepository) Delete(ctx context.Context, userID, productID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"user_id":    userID,
		"product_id": productID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if result.DeletedCount == 0 {
		return userserrors.ErrNotFound
	}
	return nil
}

func (r *mongoFavoriteRepository) FindByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []*model.Favorite
	if err = cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return favorites, nil
}

func (r *mongoFavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"product_id": productID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

func (r *mongoFavoriteRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete favorites for user: %w", err)
	}
	return nil
}
