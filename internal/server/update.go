package server

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Updatable fields per entity. Partial updates $set only what the client
// sent, restricted to these keys so _id and linkage fields can't be
// clobbered with arbitrary values.
var (
	invoiceUpdatableFields = []string{
		"serial_number", "customer_name", "total_amount", "tax", "date",
		"customer_id", "product_ids",
	}
	productUpdatableFields = []string{
		"product_name", "quantity", "unit_price", "tax",
	}
	customerUpdatableFields = []string{
		"customer_name", "phone_number", "total_purchase",
	}
)

// filterFields keeps only the allowed keys of a decoded JSON body.
func filterFields(body map[string]any, allowed []string) bson.M {
	set := bson.M{}
	for _, key := range allowed {
		if v, ok := body[key]; ok {
			set[key] = v
		}
	}
	return set
}

// toStringSlice converts a decoded JSON array into its string members.
func toStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
