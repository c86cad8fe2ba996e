// Package entity defines the documents stored in the invoices, products,
// and customers collections. IDs are derived business identifiers, not
// ObjectIDs: the invoice document is keyed by its invoice number, products
// and customers by generated PROD-/CUST- identifiers.
package entity

// Invoice is one invoice document. ProductIDs and CustomerID are filled in
// as the upload pipeline links the records it created. Customer and Products
// are denormalized copies maintained by the fan-out updates; they may lag
// the source collections between updates.
type Invoice struct {
	ID            string     `bson:"_id" json:"_id"`
	InvoiceNumber string     `bson:"invoice_number" json:"invoice_number"`
	SerialNumber  int        `bson:"serial_number" json:"serial_number"`
	CustomerName  string     `bson:"customer_name" json:"customer_name"`
	TotalAmount   float64    `bson:"total_amount" json:"total_amount"`
	Tax           float64    `bson:"tax" json:"tax"`
	Date          string     `bson:"date" json:"date"`
	ProductIDs    []string   `bson:"product_ids" json:"product_ids"`
	CustomerID    *string    `bson:"customer_id" json:"customer_id"`
	Customer      *Customer  `bson:"customer,omitempty" json:"customer,omitempty"`
	Products      []*Product `bson:"products,omitempty" json:"products,omitempty"`
}

// Product is one product line extracted from an invoice. PriceWithTax is
// always recomputed from unit price, quantity, and tax; the model's own
// value is discarded.
type Product struct {
	ID           string   `bson:"_id" json:"_id"`
	ProductID    string   `bson:"product_id" json:"product_id"`
	ProductName  string   `bson:"product_name" json:"product_name"`
	Quantity     int      `bson:"quantity" json:"quantity"`
	UnitPrice    float64  `bson:"unit_price" json:"unit_price"`
	Tax          float64  `bson:"tax" json:"tax"`
	PriceWithTax float64  `bson:"price_with_tax" json:"price_with_tax"`
	InvoiceID    string   `bson:"invoice_id,omitempty" json:"invoice_id,omitempty"`
	Invoice      *Invoice `bson:"invoice,omitempty" json:"invoice,omitempty"`
}

// Customer is one customer document. A single invoice back-reference is
// kept: this design assumes one invoice and one customer per uploaded
// document.
type Customer struct {
	ID            string   `bson:"_id" json:"_id"`
	CustomerID    string   `bson:"customer_id" json:"customer_id"`
	CustomerName  string   `bson:"customer_name" json:"customer_name"`
	PhoneNumber   string   `bson:"phone_number" json:"phone_number"`
	TotalPurchase float64  `bson:"total_purchase" json:"total_purchase"`
	InvoiceID     string   `bson:"invoice_id,omitempty" json:"invoice_id,omitempty"`
	Invoice       *Invoice `bson:"invoice,omitempty" json:"invoice,omitempty"`
}
