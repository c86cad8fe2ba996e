package repository

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/invoicedesk/invoice-manager/internal/entity"
)

// CustomerRepository is the persistence contract for the customers
// collection.
type CustomerRepository interface {
	Insert(ctx context.Context, cust *entity.Customer) error
	List(ctx context.Context) ([]*entity.Customer, error)
	FindByID(ctx context.Context, id string) (*entity.Customer, error)
	UpdateByID(ctx context.Context, id string, set bson.M) (int64, error)
	IncTotalPurchase(ctx context.Context, ids []string, delta float64) error
}

type customerRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewCustomerRepository(db *mongo.Database, logger *slog.Logger) CustomerRepository {
	return &customerRepository{
		coll:   db.Collection(CustomersCollection),
		logger: logger,
	}
}

func (r *customerRepository) Insert(ctx context.Context, cust *entity.Customer) error {
	if _, err := r.coll.InsertOne(ctx, cust); err != nil {
		r.logger.Error("failed to insert customer", "customer_id", cust.ID, "error", err)
		return err
	}
	return nil
}

func (r *customerRepository) List(ctx context.Context) ([]*entity.Customer, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to list customers", "error", err)
		return nil, err
	}
	var customers []*entity.Customer
	if err := cur.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByID returns (nil, nil) when no customer matches.
func (r *customerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	var cust entity.Customer
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&cust)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (r *customerRepository) UpdateByID(ctx context.Context, id string, set bson.M) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		r.logger.Error("failed to update customer", "customer_id", id, "error", err)
		return 0, err
	}
	return res.MatchedCount, nil
}

// IncTotalPurchase bumps total_purchase for every customer in ids.
func (r *customerRepository) IncTotalPurchase(ctx context.Context, ids []string, delta float64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$inc": bson.M{"total_purchase": delta}},
	)
	if err != nil {
		r.logger.Error("failed to increment total_purchase", "customers", len(ids), "error", err)
	}
	return err
}
