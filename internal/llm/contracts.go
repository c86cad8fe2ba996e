package llm

import "context"

// FieldExtractor is the interface the upload pipeline depends on: it submits
// the fixed extraction instruction plus a document payload to a generative
// model and returns the model's raw text answer. The answer is expected to
// contain one JSON object, usually wrapped in a markdown fence, sometimes
// malformed; Normalize deals with that.
type FieldExtractor interface {
	ExtractRaw(ctx context.Context, payload string) (string, error)
}

// InvoiceFields is one normalized invoice entry from the model response.
type InvoiceFields struct {
	InvoiceNumber string  `json:"invoice_number"`
	SerialNumber  int     `json:"serial_number"`
	CustomerName  string  `json:"customer_name"`
	TotalAmount   float64 `json:"total_amount"`
	Tax           float64 `json:"tax"`
	Date          string  `json:"date"`
}

// ProductFields is one normalized product entry. PriceWithTax is recomputed
// locally and always overrides whatever the model proposed.
type ProductFields struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Tax          float64 `json:"tax"`
	PriceWithTax float64 `json:"price_with_tax"`
}

// CustomerFields is one normalized customer entry.
type CustomerFields struct {
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	PhoneNumber   string  `json:"phone_number"`
	TotalPurchase float64 `json:"total_purchase"`
}

// ExtractedData is the validated, typed result of one extraction.
type ExtractedData struct {
	Invoices  []InvoiceFields  `json:"invoices"`
	Products  []ProductFields  `json:"products"`
	Customers []CustomerFields `json:"customers"`
}
