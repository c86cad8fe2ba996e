package server

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/invoicedesk/invoice-manager/internal/entity"
)

// In-memory repository fakes. They apply $set documents the way the real
// collections would, far enough for the handlers under test.

type fakeInvoices struct {
	byID map[string]*entity.Invoice
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{byID: map[string]*entity.Invoice{}}
}

func (r *fakeInvoices) Insert(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *fakeInvoices) List(_ context.Context) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		out = append(out, inv)
	}
	return out, nil
}

func (r *fakeInvoices) FindByID(_ context.Context, id string) (*entity.Invoice, error) {
	return r.byID[id], nil
}

func (r *fakeInvoices) FindByProductRef(_ context.Context, productID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		for _, pid := range inv.ProductIDs {
			if pid == productID {
				out = append(out, inv)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeInvoices) UpdateByID(_ context.Context, id string, set bson.M) (int64, error) {
	inv, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	applyInvoiceSet(inv, set)
	return 1, nil
}

func (r *fakeInvoices) UpdateManyByFilter(_ context.Context, filter, set bson.M) error {
	for _, inv := range r.matching(filter) {
		applyInvoiceSet(inv, set)
	}
	return nil
}

func (r *fakeInvoices) SetCustomerID(_ context.Context, id, customerID string) error {
	if inv, ok := r.byID[id]; ok {
		inv.CustomerID = &customerID
	}
	return nil
}

func (r *fakeInvoices) PushProductID(_ context.Context, id, productID string) error {
	if inv, ok := r.byID[id]; ok {
		inv.ProductIDs = append(inv.ProductIDs, productID)
	}
	return nil
}

func (r *fakeInvoices) matching(filter bson.M) []*entity.Invoice {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if id, ok := filter["_id"].(string); ok && inv.ID != id {
			continue
		}
		if cid, ok := filter["customer_id"].(string); ok {
			if inv.CustomerID == nil || *inv.CustomerID != cid {
				continue
			}
		}
		out = append(out, inv)
	}
	return out
}

func applyInvoiceSet(inv *entity.Invoice, set bson.M) {
	for k, v := range set {
		switch k {
		case "serial_number":
			if f, ok := v.(float64); ok {
				inv.SerialNumber = int(f)
			}
		case "customer_name":
			inv.CustomerName, _ = v.(string)
		case "total_amount":
			inv.TotalAmount, _ = v.(float64)
		case "tax":
			inv.Tax, _ = v.(float64)
		case "date":
			inv.Date, _ = v.(string)
		case "customer_id":
			if s, ok := v.(string); ok {
				inv.CustomerID = &s
			}
		case "product_ids":
			inv.ProductIDs = toStringSlice(v)
		case "customer":
			inv.Customer, _ = v.(*entity.Customer)
		case "products":
			inv.Products, _ = v.([]*entity.Product)
		}
	}
}

type fakeProducts struct {
	byID map[string]*entity.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: map[string]*entity.Product{}}
}

func (r *fakeProducts) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProducts) FindByID(_ context.Context, id string) (*entity.Product, error) {
	return r.byID[id], nil
}

func (r *fakeProducts) FindByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProducts) UpsertByBusinessKey(_ context.Context, prod *entity.Product) (*entity.Product, error) {
	for _, existing := range r.byID {
		if existing.InvoiceID == prod.InvoiceID && existing.ProductID == prod.ProductID {
			existing.ProductName = prod.ProductName
			existing.Quantity = prod.Quantity
			existing.UnitPrice = prod.UnitPrice
			existing.Tax = prod.Tax
			existing.PriceWithTax = prod.PriceWithTax
			return existing, nil
		}
	}
	cp := *prod
	r.byID[prod.ID] = &cp
	return &cp, nil
}

func (r *fakeProducts) UpdateByID(_ context.Context, id string, set bson.M) (int64, error) {
	p, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	for k, v := range set {
		switch k {
		case "product_name":
			p.ProductName, _ = v.(string)
		case "quantity":
			if n, ok := v.(int); ok {
				p.Quantity = n
			}
		case "unit_price":
			p.UnitPrice, _ = v.(float64)
		case "tax":
			p.Tax, _ = v.(float64)
		case "price_with_tax":
			p.PriceWithTax, _ = v.(float64)
		}
	}
	return 1, nil
}

type fakeCustomers struct {
	byID map[string]*entity.Customer
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{byID: map[string]*entity.Customer{}}
}

func (r *fakeCustomers) Insert(_ context.Context, cust *entity.Customer) error {
	cp := *cust
	r.byID[cust.ID] = &cp
	return nil
}

func (r *fakeCustomers) List(_ context.Context) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCustomers) FindByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.byID[id], nil
}

func (r *fakeCustomers) UpdateByID(_ context.Context, id string, set bson.M) (int64, error) {
	c, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	for k, v := range set {
		switch k {
		case "customer_name":
			c.CustomerName, _ = v.(string)
		case "phone_number":
			c.PhoneNumber, _ = v.(string)
		case "total_purchase":
			c.TotalPurchase, _ = v.(float64)
		}
	}
	return 1, nil
}

func (r *fakeCustomers) IncTotalPurchase(_ context.Context, ids []string, delta float64) error {
	for _, id := range ids {
		if c, ok := r.byID[id]; ok {
			c.TotalPurchase += delta
		}
	}
	return nil
}
