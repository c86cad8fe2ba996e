package repository

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/invoicedesk/invoice-manager/internal/entity"
)

// ProductRepository is the persistence contract for the products
// collection. Upload persistence goes through UpsertByBusinessKey so
// re-extracting the same document does not duplicate its product lines.
type ProductRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	UpsertByBusinessKey(ctx context.Context, prod *entity.Product) (*entity.Product, error)
	UpdateByID(ctx context.Context, id string, set bson.M) (int64, error)
}

type productRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewProductRepository(db *mongo.Database, logger *slog.Logger) ProductRepository {
	return &productRepository{
		coll:   db.Collection(ProductsCollection),
		logger: logger,
	}
}

func (r *productRepository) List(ctx context.Context) ([]*entity.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to list products", "error", err)
		return nil, err
	}
	var products []*entity.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID returns (nil, nil) when no product matches.
func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var prod entity.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&prod)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []*entity.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// UpsertByBusinessKey upserts a product on (invoice_id, product_id). The
// generated _id only sticks on insert; on a re-upload of the same invoice
// the existing document keeps its _id and the fields are refreshed. The
// persisted document is returned so the caller can link its actual _id.
func (r *productRepository) UpsertByBusinessKey(ctx context.Context, prod *entity.Product) (*entity.Product, error) {
	filter := bson.M{"invoice_id": prod.InvoiceID, "product_id": prod.ProductID}
	update := bson.M{
		"$set": bson.M{
			"product_name":   prod.ProductName,
			"quantity":       prod.Quantity,
			"unit_price":     prod.UnitPrice,
			"tax":            prod.Tax,
			"price_with_tax": prod.PriceWithTax,
		},
		"$setOnInsert": bson.M{
			"_id":        prod.ID,
			"product_id": prod.ProductID,
			"invoice_id": prod.InvoiceID,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved entity.Product
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		r.logger.Error("failed to upsert product", "product_id", prod.ProductID, "invoice_id", prod.InvoiceID, "error", err)
		return nil, err
	}
	return &saved, nil
}

func (r *productRepository) UpdateByID(ctx context.Context, id string, set bson.M) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		r.logger.Error("failed to update product", "product_id", id, "error", err)
		return 0, err
	}
	return res.MatchedCount, nil
}
