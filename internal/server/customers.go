package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/invoicedesk/invoice-manager/internal/common"
)

// listCustomers returns every customer with their linked invoice embedded.
func (s *Server) listCustomers(c *gin.Context) {
	ctx := c.Request.Context()

	customers, err := s.customers.List(ctx)
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to list customers", err))
		return
	}

	for _, cust := range customers {
		if cust.InvoiceID == "" {
			continue
		}
		inv, err := s.invoices.FindByID(ctx, cust.InvoiceID)
		if err != nil {
			s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to load invoice", err))
			return
		}
		cust.Invoice = inv
	}

	c.JSON(http.StatusOK, customers)
}

// updateCustomer applies a partial update to one customer and fans the
// refreshed copy out into every invoice referencing them.
func (s *Server) updateCustomer(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid JSON body")
		return
	}
	set := filterFields(body, customerUpdatableFields)
	if len(set) == 0 {
		s.badRequest(c, "no updatable fields in request")
		return
	}

	matched, err := s.customers.UpdateByID(ctx, id, set)
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to update customer", err))
		return
	}
	if matched == 0 {
		s.respondError(c, common.NewAppError(common.CodeEntityNotFound, "Customer not found", nil))
		return
	}

	cust, err := s.customers.FindByID(ctx, id)
	if err != nil || cust == nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to reload customer", err))
		return
	}
	if err := s.invoices.UpdateManyByFilter(ctx, bson.M{"customer_id": id}, bson.M{"customer": cust}); err != nil {
		s.respondError(c, common.NewAppError(common.CodeDatabase, "failed to refresh embedded customer", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}
