// Package server exposes the HTTP surface: upload, status, and the
// CRUD-read/update endpoints over the three collections. Handlers return
// typed application errors from the layers below translated to HTTP
// statuses in exactly one place (errors.go).
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invoicedesk/invoice-manager/internal/common"
	"github.com/invoicedesk/invoice-manager/internal/pipeline"
	"github.com/invoicedesk/invoice-manager/internal/repository"
)

type Server struct {
	logger    *slog.Logger
	cfg       *common.Config
	processor *pipeline.Processor
	invoices  repository.InvoiceRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
}

func NewServer(
	logger *slog.Logger,
	cfg *common.Config,
	processor *pipeline.Processor,
	invoices repository.InvoiceRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:    logger,
		cfg:       cfg,
		processor: processor,
		invoices:  invoices,
		products:  products,
		customers: customers,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/upload", s.handleUpload)
		api.GET("/status", s.handleStatus)

		api.GET("/invoices", s.listInvoices)
		api.PUT("/invoices/:id", s.updateInvoice)

		api.GET("/products", s.listProducts)
		api.PUT("/products/:id", s.updateProduct)

		api.GET("/customers", s.listCustomers)
		api.PUT("/customers/:id", s.updateCustomer)
	}

	return router
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Backend is running"})
}

// corsMiddleware allows all origins; the API fronts a browser SPA and
// carries no credentials.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
