package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "autobooking/internal/catalog/errors"
	"autobooking/pkg/config"
	mongotx "autobooking/pkg/db/mongo"
	"autobooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ProductCollection = "Products"

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context) ([]*model.Product, error)
	FindByCategory(ctx context.Context, categoryID string) ([]*model.Product, error)
	FindByFeature(ctx context.Context, featureID string) ([]*model.Product, error)
	Delete(ctx context.Context, id string) error
	AddFeature(ctx context.Context, productID, featureID string) error
	RemoveFeature(ctx context.Context, productID, featureID string) error
	// DetachFeatureFromAll removes the feature ID from every product that
	// references it. Used when a feature is deleted.
	DetachFeatureFromAll(ctx context.Context, featureID string) error
	// ClearCategory unsets the category reference on every product in the
	// category. Used when a category is deleted.
	ClearCategory(ctx context.Context, categoryID string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoProductRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoProductRepository(cfg *config.Config) ProductRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProductRepository{
		cfg:        cfg,
		collection: db.Collection(ProductCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoProductRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	return nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var product model.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return &product, nil
}

func (r *mongoProductRepository) FindAll(ctx context.Context) ([]*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findMany(ctx, bson.M{})
}

func (r *mongoProductRepository) FindByCategory(ctx context.Context, categoryID string) ([]*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findMany(ctx, bson.M{"category_id": categoryID})
}

func (r *mongoProductRepository) FindByFeature(ctx context.Context, featureID string) ([]*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findMany(ctx, bson.M{"feature_ids": featureID})
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}

func (r *mongoProductRepository) AddFeature(ctx context.Context, productID, featureID string) error {
	return r.updateFeatureSet(ctx, productID, bson.M{"$addToSet": bson.M{"feature_ids": featureID}})
}

func (r *mongoProductRepository) RemoveFeature(ctx context.Context, productID, featureID string) error {
	return r.updateFeatureSet(ctx, productID, bson.M{"$pull": bson.M{"feature_ids": featureID}})
}

func (r *mongoProductRepository) updateFeatureSet(ctx context.Context, productID string, update bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, productID)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product features: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}

func (r *mongoProductRepository) DetachFeatureFromAll(ctx context.Context, featureID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"feature_ids": featureID},
		bson.M{"$pull": bson.M{"feature_ids": featureID}},
	)
	if err != nil {
		return fmt.Errorf("failed to detach feature from products: %w", err)
	}
	return nil
}

func (r *mongoProductRepository) ClearCategory(ctx context.Context, categoryID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"category_id": categoryID},
		bson.M{"$unset": bson.M{"category_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear category from products: %w", err)
	}
	return nil
}

func (r *mongoProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *mongoProductRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoProductRepository) findMany(ctx context.Context, filter bson.M) ([]*model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*model.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
