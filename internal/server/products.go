package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/invoicedesk/invoice-manager/internal/common"
	"github.com/invoicedesk/invoice-manager/internal/llm"
)

// listProducts returns every product with its linked invoice embedded.
func (s *Server) listProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := s.products.List(ctx)
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to list products", err))
		return
	}

	for _, prod := range products {
		if prod.InvoiceID == "" {
			continue
		}
		inv, err := s.invoices.FindByID(ctx, prod.InvoiceID)
		if err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load invoice", err))
			return
		}
		prod.Invoice = inv
	}

	c.JSON(http.StatusOK, products)
}

// updateProduct applies a partial update to one product, recomputes its
// derived price_with_tax, and fans out: invoices embedding this product get
// their product copies refreshed, and customers on those invoices get
// total_purchase bumped by the product's line value (preserved legacy
// behavior).
func (s *Server) updateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid JSON body")
		return
	}
	set := filterFields(body, productUpdatableFields)
	if len(set) == 0 {
		s.badRequest(c, "no updatable fields in request")
		return
	}
	// JSON numbers decode as float64; quantity is stored as an integer.
	if q, ok := set["quantity"].(float64); ok {
		set["quantity"] = int(q)
	}

	matched, err := s.products.UpdateByID(ctx, id, set)
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to update product", err))
		return
	}
	if matched == 0 {
		s.respondError(c, common.NewAppError(common.CodeEntityNotFound, "Product not found", nil))
		return
	}

	prod, err := s.products.FindByID(ctx, id)
	if err != nil || prod == nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to reload product", err))
		return
	}

	// The derived price always follows the stored inputs.
	recomputed := llm.Round2(prod.UnitPrice * float64(prod.Quantity) * (1 + prod.Tax/100))
	if recomputed != prod.PriceWithTax {
		if _, err := s.products.UpdateByID(ctx, id, bson.M{"price_with_tax": recomputed}); err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to update derived price", err))
			return
		}
		prod.PriceWithTax = recomputed
	}

	invoices, err := s.invoices.FindByProductRef(ctx, id)
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load referencing invoices", err))
		return
	}

	var customerIDs []string
	for _, inv := range invoices {
		prods, err := s.products.FindByIDs(ctx, inv.ProductIDs)
		if err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load invoice products", err))
			return
		}
		if err := s.invoices.UpdateManyByFilter(ctx, bson.M{"_id": inv.ID}, bson.M{"products": prods}); err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to refresh embedded products", err))
			return
		}
		if inv.CustomerID != nil {
			customerIDs = append(customerIDs, *inv.CustomerID)
		}
	}

	if err := s.customers.IncTotalPurchase(ctx, customerIDs, prod.UnitPrice*float64(prod.Quantity)); err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to update customer totals", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}
