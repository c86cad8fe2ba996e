package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/invoicedesk/invoice-manager/internal/common"
)

// listInvoices returns every invoice with its latest linked customer and
// products embedded. The join always re-reads the source collections, so
// listings see updates even when a fan-out write lagged.
func (s *Server) listInvoices(c *gin.Context) {
	ctx := c.Request.Context()

	invoices, err := s.invoices.List(ctx)
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to list invoices", err))
		return
	}

	for _, inv := range invoices {
		if inv.CustomerID != nil {
			cust, err := s.customers.FindByID(ctx, *inv.CustomerID)
			if err != nil {
				s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load customer", err))
				return
			}
			inv.Customer = cust
		}
		if len(inv.ProductIDs) > 0 {
			prods, err := s.products.FindByIDs(ctx, inv.ProductIDs)
			if err != nil {
				s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load products", err))
				return
			}
			inv.Products = prods
		}
	}

	c.JSON(http.StatusOK, invoices)
}

// updateInvoice applies a partial update to one invoice, then fans the
// change out: the embedded customer copy is refreshed (and the customer's
// total_purchase synced when the invoice total changed), and the embedded
// product copies are refreshed when the product list changed.
func (s *Server) updateInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid JSON body")
		return
	}
	set := filterFields(body, invoiceUpdatableFields)
	if len(set) == 0 {
		s.badRequest(c, "no updatable fields in request")
		return
	}

	matched, err := s.invoices.UpdateByID(ctx, id, set)
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to update invoice", err))
		return
	}
	if matched == 0 {
		s.respondError(c, common.NewAppError(common.CodeEntityNotFound, "Invoice not found", nil))
		return
	}

	if custID, ok := set["customer_id"].(string); ok {
		cust, err := s.customers.FindByID(ctx, custID)
		if err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load customer", err))
			return
		}
		if cust != nil {
			if err := s.invoices.UpdateManyByFilter(ctx, bson.M{"_id": id}, bson.M{"customer": cust}); err != nil {
				s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to refresh embedded customer", err))
				return
			}
			if total, ok := set["total_amount"].(float64); ok {
				if _, err := s.customers.UpdateByID(ctx, custID, bson.M{"total_purchase": total}); err != nil {
					s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to sync customer total", err))
					return
				}
			}
		}
	}

	if raw, ok := set["product_ids"]; ok {
		prods, err := s.products.FindByIDs(ctx, toStringSlice(raw))
		if err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load products", err))
			return
		}
		if err := s.invoices.UpdateManyByFilter(ctx, bson.M{"_id": id}, bson.M{"products": prods}); err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to refresh embedded products", err))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice updated successfully"})
}
