package llm

import (
	"encoding/json"
	"log/slog"

	"github.com/invoicedesk/invoice-manager/internal/common"
)

// envelope is the loosely-typed shape the model answer is decoded into
// before per-field coercion. Values arrive as float64, string, or missing
// more or less at the model's whim, so coercion works on `any`.
type envelope struct {
	Invoices  []map[string]any `json:"invoices"`
	Products  []map[string]any `json:"products"`
	Customers []map[string]any `json:"customers"`
}

// Normalize turns a raw model answer into validated, typed extraction data.
//
// Steps: strip the markdown fence, parse JSON, check the three-array
// envelope shape, then coerce each entity list. A coercion failure in a
// product or customer aborts the whole extraction with invalid_entity_data;
// there are no partial results. Invoice fields all coerce leniently and
// never fail.
func Normalize(raw string, logger *slog.Logger) (*ExtractedData, error) {
	if logger == nil {
		logger = slog.Default()
	}

	text := StripJSONFence(raw)

	var env envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		logger.Error("normalize.malformed_json", "error", err, "text_bytes", len(text))
		return nil, common.NewAppError(common.CodeMalformedJSON, "AI response is not in valid JSON format", err)
	}
	if err := ValidateJSONAgainstSchema(BuildEnvelopeSchema(), []byte(text)); err != nil {
		logger.Error("normalize.envelope_mismatch", "error", err)
		return nil, common.NewAppError(common.CodeMalformedJSON, "AI response does not match the expected envelope", err)
	}

	out := &ExtractedData{}

	for _, inv := range env.Invoices {
		out.Invoices = append(out.Invoices, normalizeInvoice(inv))
	}
	for _, prod := range env.Products {
		fields, err := normalizeProduct(prod)
		if err != nil {
			logger.Error("normalize.invalid_product", "error", err, "entry", prod)
			return nil, common.NewAppError(common.CodeInvalidEntityData, "Invalid product data format", err)
		}
		out.Products = append(out.Products, fields)
	}
	for _, cust := range env.Customers {
		fields, err := normalizeCustomer(cust)
		if err != nil {
			logger.Error("normalize.invalid_customer", "error", err, "entry", cust)
			return nil, common.NewAppError(common.CodeInvalidEntityData, "Invalid customer data format", err)
		}
		out.Customers = append(out.Customers, fields)
	}

	logger.Info("normalize.ok",
		"invoices", len(out.Invoices),
		"products", len(out.Products),
		"customers", len(out.Customers),
	)
	return out, nil
}

// normalizeInvoice is fully lenient: every numeric field goes through
// CleanNumeric, so a garbage serial becomes 0 instead of rejecting the
// invoice. Invoice entries never abort an extraction.
func normalizeInvoice(m map[string]any) InvoiceFields {
	return InvoiceFields{
		InvoiceNumber: toTrimmedString(m["invoice_number"]),
		SerialNumber:  int(CleanNumeric(valueOr(m, "serial_number", 0.0))),
		CustomerName:  toTrimmedString(m["customer_name"]),
		TotalAmount:   CleanNumeric(valueOr(m, "total_amount", 0.0)),
		Tax:           CleanNumeric(valueOr(m, "tax", 0.0)),
		Date:          toTrimmedString(m["date"]),
	}
}

func normalizeProduct(m map[string]any) (ProductFields, error) {
	quantity, err := toInt(valueOr(m, "quantity", 1.0))
	if err != nil {
		return ProductFields{}, err
	}
	unitPrice := CleanNumeric(valueOr(m, "unit_price", 0.0))
	tax := CleanNumeric(valueOr(m, "tax", 5.0))

	// Trust-but-verify: the derived price always overrides the model's own
	// arithmetic, at exactly two decimals.
	priceWithTax := Round2(unitPrice * float64(quantity) * (1 + tax/100))

	return ProductFields{
		ProductID:    toTrimmedString(m["product_id"]),
		ProductName:  toTrimmedString(m["product_name"]),
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Tax:          tax,
		PriceWithTax: priceWithTax,
	}, nil
}

func normalizeCustomer(m map[string]any) (CustomerFields, error) {
	phone := "Unknown"
	if v, ok := m["phone_number"]; ok && v != nil {
		if s := toTrimmedString(v); s != "" {
			phone = s
		}
	}
	return CustomerFields{
		CustomerID:    toTrimmedString(m["customer_id"]),
		CustomerName:  toTrimmedString(m["customer_name"]),
		PhoneNumber:   phone,
		TotalPurchase: CleanNumeric(valueOr(m, "total_purchase", 0.0)),
	}, nil
}

func valueOr(m map[string]any, key string, def any) any {
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	return def
}
