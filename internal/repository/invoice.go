package repository

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/invoicedesk/invoice-manager/internal/entity"
)

// InvoiceRepository is the persistence contract for the invoices
// collection. Writes are single-document; the multi-document sequence an
// upload performs across the three collections is not transactional.
type InvoiceRepository interface {
	Insert(ctx context.Context, inv *entity.Invoice) error
	List(ctx context.Context) ([]*entity.Invoice, error)
	FindByID(ctx context.Context, id string) (*entity.Invoice, error)
	FindByProductRef(ctx context.Context, productID string) ([]*entity.Invoice, error)
	UpdateByID(ctx context.Context, id string, set bson.M) (int64, error)
	UpdateManyByFilter(ctx context.Context, filter, set bson.M) error
	SetCustomerID(ctx context.Context, id, customerID string) error
	PushProductID(ctx context.Context, id, productID string) error
}

type invoiceRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewInvoiceRepository(db *mongo.Database, logger *slog.Logger) InvoiceRepository {
	return &invoiceRepository{
		coll:   db.Collection(InvoicesCollection),
		logger: logger,
	}
}

func (r *invoiceRepository) Insert(ctx context.Context, inv *entity.Invoice) error {
	if _, err := r.coll.InsertOne(ctx, inv); err != nil {
		r.logger.Error("failed to insert invoice", "invoice_id", inv.ID, "error", err)
		return err
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*entity.Invoice, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to list invoices", "error", err)
		return nil, err
	}
	var invoices []*entity.Invoice
	if err := cur.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByID returns (nil, nil) when no invoice matches; the listing joins
// treat a dangling reference as an absent embed, not an error.
func (r *invoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) FindByProductRef(ctx context.Context, productID string) ([]*entity.Invoice, error) {
	cur, err := r.coll.Find(ctx, bson.M{"product_ids": productID})
	if err != nil {
		return nil, err
	}
	var invoices []*entity.Invoice
	if err := cur.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) UpdateByID(ctx context.Context, id string, set bson.M) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		r.logger.Error("failed to update invoice", "invoice_id", id, "error", err)
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *invoiceRepository) UpdateManyByFilter(ctx context.Context, filter, set bson.M) error {
	_, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		r.logger.Error("failed to update invoices by filter", "error", err)
	}
	return err
}

func (r *invoiceRepository) SetCustomerID(ctx context.Context, id, customerID string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"customer_id": customerID}})
	return err
}

func (r *invoiceRepository) PushProductID(ctx context.Context, id, productID string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"product_ids": productID}})
	return err
}
