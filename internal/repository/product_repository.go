package repository

import (
	"context"
	"errors"
	"time"

	"product-catalog/internal/logger"
	"product-catalog/internal/model"
	"product-catalog/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

// Sentinel errors the service layer classifies on.
var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("product name already in use")
)

// ProductRepository is the store contract the service layer depends on.
type ProductRepository interface {
	Insert(ctx context.Context, product *model.Product) error
	Find(ctx context.Context, params query.Params) ([]model.Product, error)
	Count(ctx context.Context, params query.Params) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	FindByName(ctx context.Context, name string, exclude primitive.ObjectID) (*model.Product, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*model.Product, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
}

// MongoProductRepository stores products in the products collection.
type MongoProductRepository struct {
	collection *mongo.Collection
}

var ProductRepositoryTracer = otel.Tracer("ProductRepository")

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection("products"),
	}
}

// EnsureIndexes creates the unique index on name. The index, not the
// application-level pre-flight lookup, is the source of truth for the
// uniqueness invariant.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoProductRepository) Insert(ctx context.Context, product *model.Product) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *MongoProductRepository) Find(ctx context.Context, params query.Params) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Find")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().
		SetSkip(params.Skip()).
		SetLimit(params.Limit)
	if sort := params.SortDoc(); sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := r.collection.Find(ctx, params.Filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Count runs the same filter without the pagination window. It is a second
// round trip: the total may lag the returned page under concurrent writes.
func (r *MongoProductRepository) Count(ctx context.Context, params query.Params) (int64, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Count")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.collection.CountDocuments(ctx, params.Filter())
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()
	logger.Info(ctx, "Repository")

	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName looks up a product by exact name, excluding the given id so an
// update does not collide with the record it is updating. A zero exclude
// ObjectID matches nothing and is safe for creates.
func (r *MongoProductRepository) FindByName(ctx context.Context, name string, exclude primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByName")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{
		"name": name,
		"_id":  bson.M{"$ne": exclude},
	}

	var product model.Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.UpdateByID")
	defer span.End()
	logger.Info(ctx, "Repository")

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoProductRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()
	logger.Info(ctx, "Repository")

	var deleted model.Product
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
