package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/invoicedesk/invoice-manager/internal/common"
	"github.com/invoicedesk/invoice-manager/internal/entity"
	"github.com/invoicedesk/invoice-manager/internal/extract"
	"github.com/invoicedesk/invoice-manager/internal/pipeline"
)

const modelAnswer = "```json\n" + `{
  "invoices": [{
    "invoice_number": "INV-123",
    "serial_number": 1,
    "customer_name": "John Doe",
    "total_amount": 10552.50,
    "tax": 5,
    "date": "2024-01-15"
  }],
  "products": [
    {"product_id": "PROD1", "product_name": "Laptop", "quantity": 2, "unit_price": 5000, "tax": 5}
  ],
  "customers": [{
    "customer_id": "CUST1",
    "customer_name": "John Doe",
    "phone_number": "123-456-7890",
    "total_purchase": 10552.50
  }]
}` + "\n```"

// stubFields stands in for the generative model client.
type stubFields struct {
	answer string
	err    error
}

func (s *stubFields) ExtractRaw(_ context.Context, _ string) (string, error) {
	return s.answer, s.err
}

type testEnv struct {
	router    *gin.Engine
	invoices  *fakeInvoices
	products  *fakeProducts
	customers *fakeCustomers
	uploadDir string
}

func newTestEnv(t *testing.T, answer string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	invoices := newFakeInvoices()
	products := newFakeProducts()
	customers := newFakeCustomers()

	cfg := &common.Config{}
	cfg.Upload.Dir = t.TempDir()

	proc := pipeline.NewProcessor(nil, extract.NewTextExtractor(nil), &stubFields{answer: answer}, invoices, products, customers)
	srv := NewServer(nil, cfg, proc, invoices, products, customers)

	return &testEnv{
		router:    srv.Router(),
		invoices:  invoices,
		products:  products,
		customers: customers,
		uploadDir: cfg.Upload.Dir,
	}
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doUpload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Invoice"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "INV-123"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "Backend is running"}`, w.Body.String())
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t, modelAnswer)

	w := env.doUpload(t, "notes.txt", []byte("plain text"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unsupported file type", errorMessage(t, w))

	// The rejection happens before anything is written to disk.
	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, env.invoices.byID)
}

func TestUploadMissingFile(t *testing.T) {
	env := newTestEnv(t, modelAnswer)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", errorMessage(t, w))
}

func TestUploadProcessesSpreadsheet(t *testing.T) {
	env := newTestEnv(t, modelAnswer)

	w := env.doUpload(t, "invoice.xlsx", workbookBytes(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Message string          `json:"message"`
		Data    pipeline.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "File processed successfully!", body.Message)
	require.Len(t, body.Data.Invoices, 1)
	assert.Equal(t, "INV-123", body.Data.Invoices[0].ID)
	assert.Len(t, body.Data.Products, 1)
	assert.Len(t, body.Data.Customers, 1)

	// The file was stored and the records persisted with links.
	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	stored := env.invoices.byID["INV-123"]
	require.NotNil(t, stored)
	assert.Len(t, stored.ProductIDs, 1)
	require.NotNil(t, stored.CustomerID)
}

func TestUploadMalformedModelAnswer(t *testing.T) {
	env := newTestEnv(t, "no JSON in this answer")

	w := env.doUpload(t, "invoice.xlsx", workbookBytes(t))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "AI response is not in valid JSON format", errorMessage(t, w))
	assert.Empty(t, env.invoices.byID)
}

func TestUpdateInvoiceNotFound(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.doJSON(t, http.MethodPut, "/api/invoices/INV-404", map[string]any{"tax": 7.0})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Invoice not found", errorMessage(t, w))
}

func TestUpdateInvoiceRejectsEmptyUpdate(t *testing.T) {
	env := newTestEnv(t, "")
	env.invoices.byID["INV-1"] = &entity.Invoice{ID: "INV-1", InvoiceNumber: "INV-1"}

	w := env.doJSON(t, http.MethodPut, "/api/invoices/INV-1", map[string]any{"bogus": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateInvoiceFansOutToCustomer(t *testing.T) {
	env := newTestEnv(t, "")
	env.invoices.byID["INV-1"] = &entity.Invoice{ID: "INV-1", InvoiceNumber: "INV-1", TotalAmount: 100}
	env.customers.byID["C1"] = &entity.Customer{ID: "C1", CustomerName: "Jane", TotalPurchase: 100}

	w := env.doJSON(t, http.MethodPut, "/api/invoices/INV-1", map[string]any{
		"total_amount": 999.0,
		"customer_id":  "C1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	inv := env.invoices.byID["INV-1"]
	assert.Equal(t, 999.0, inv.TotalAmount)
	require.NotNil(t, inv.CustomerID)
	assert.Equal(t, "C1", *inv.CustomerID)
	require.NotNil(t, inv.Customer)
	assert.Equal(t, "Jane", inv.Customer.CustomerName)
	assert.Equal(t, 999.0, env.customers.byID["C1"].TotalPurchase)
}

func TestUpdateProductRecomputesDerivedPrice(t *testing.T) {
	env := newTestEnv(t, "")
	custID := "C1"
	env.products.byID["P1"] = &entity.Product{
		ID: "P1", ProductID: "PROD1", ProductName: "Laptop",
		Quantity: 1, UnitPrice: 100, Tax: 5, PriceWithTax: 105,
		InvoiceID: "INV-1",
	}
	env.invoices.byID["INV-1"] = &entity.Invoice{
		ID: "INV-1", InvoiceNumber: "INV-1",
		ProductIDs: []string{"P1"}, CustomerID: &custID,
	}
	env.customers.byID["C1"] = &entity.Customer{ID: "C1"}

	w := env.doJSON(t, http.MethodPut, "/api/products/P1", map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	prod := env.products.byID["P1"]
	assert.Equal(t, 3, prod.Quantity)
	assert.Equal(t, 315.0, prod.PriceWithTax)

	// Referencing invoice got its embedded copy refreshed and the linked
	// customer's running total bumped by the line value.
	inv := env.invoices.byID["INV-1"]
	require.Len(t, inv.Products, 1)
	assert.Equal(t, 315.0, inv.Products[0].PriceWithTax)
	assert.Equal(t, 300.0, env.customers.byID["C1"].TotalPurchase)
}

func TestUpdateProductNotFound(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.doJSON(t, http.MethodPut, "/api/products/P-404", map[string]any{"tax": 12.0})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", errorMessage(t, w))
}

func TestUpdateCustomerFansOutToInvoices(t *testing.T) {
	env := newTestEnv(t, "")
	custID := "C1"
	env.customers.byID["C1"] = &entity.Customer{ID: "C1", CustomerName: "Jane", PhoneNumber: "Unknown"}
	env.invoices.byID["INV-1"] = &entity.Invoice{ID: "INV-1", InvoiceNumber: "INV-1", CustomerID: &custID}

	w := env.doJSON(t, http.MethodPut, "/api/customers/C1", map[string]any{"phone_number": "555-0001"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "555-0001", env.customers.byID["C1"].PhoneNumber)
	inv := env.invoices.byID["INV-1"]
	require.NotNil(t, inv.Customer)
	assert.Equal(t, "555-0001", inv.Customer.PhoneNumber)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.doJSON(t, http.MethodPut, "/api/customers/C-404", map[string]any{"customer_name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Customer not found", errorMessage(t, w))
}

func TestListInvoicesEmbedsLinks(t *testing.T) {
	env := newTestEnv(t, "")
	custID := "C1"
	env.invoices.byID["INV-1"] = &entity.Invoice{
		ID: "INV-1", InvoiceNumber: "INV-1",
		ProductIDs: []string{"P1"}, CustomerID: &custID,
	}
	env.products.byID["P1"] = &entity.Product{ID: "P1", ProductID: "PROD1", ProductName: "Laptop", InvoiceID: "INV-1"}
	env.customers.byID["C1"] = &entity.Customer{ID: "C1", CustomerName: "Jane", InvoiceID: "INV-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var invoices []*entity.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoices))
	require.Len(t, invoices, 1)
	require.NotNil(t, invoices[0].Customer)
	assert.Equal(t, "Jane", invoices[0].Customer.CustomerName)
	require.Len(t, invoices[0].Products, 1)
	assert.Equal(t, "Laptop", invoices[0].Products[0].ProductName)
}

func TestListProductsEmbedsInvoice(t *testing.T) {
	env := newTestEnv(t, "")
	env.invoices.byID["INV-1"] = &entity.Invoice{ID: "INV-1", InvoiceNumber: "INV-1"}
	env.products.byID["P1"] = &entity.Product{ID: "P1", ProductName: "Laptop", InvoiceID: "INV-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var products []*entity.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.NotNil(t, products[0].Invoice)
	assert.Equal(t, "INV-1", products[0].Invoice.ID)
}

func TestListCustomersEmbedsInvoice(t *testing.T) {
	env := newTestEnv(t, "")
	env.invoices.byID["INV-1"] = &entity.Invoice{ID: "INV-1", InvoiceNumber: "INV-1"}
	env.customers.byID["C1"] = &entity.Customer{ID: "C1", CustomerName: "Jane", InvoiceID: "INV-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var customers []*entity.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	require.NotNil(t, customers[0].Invoice)
	assert.Equal(t, "INV-1", customers[0].Invoice.ID)
}
