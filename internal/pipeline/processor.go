// Package pipeline coordinates one upload end to end: document text
// extraction, the AI call, response normalization, and persistence with
// cross-linking.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/invoicedesk/invoice-manager/internal/common"
	"github.com/invoicedesk/invoice-manager/internal/entity"
	"github.com/invoicedesk/invoice-manager/internal/extract"
	"github.com/invoicedesk/invoice-manager/internal/llm"
	"github.com/invoicedesk/invoice-manager/internal/repository"
)

// Result is the record set persisted for one upload.
type Result struct {
	Invoices  []*entity.Invoice  `json:"invoices"`
	Products  []*entity.Product  `json:"products"`
	Customers []*entity.Customer `json:"customers"`
}

// Processor runs the extraction pipeline. All collaborators are injected;
// the processor holds no connection state of its own.
type Processor struct {
	logger    *slog.Logger
	extractor extract.TextExtractor
	fields    llm.FieldExtractor
	invoices  repository.InvoiceRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
}

func NewProcessor(
	logger *slog.Logger,
	extractor extract.TextExtractor,
	fields llm.FieldExtractor,
	invoices repository.InvoiceRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		fields:    fields,
		invoices:  invoices,
		products:  products,
		customers: customers,
	}
}

// ProcessUpload extracts, normalizes, and persists one uploaded document.
//
// Persistence order is invoice → customers → products, each record linked
// to the single invoice the upload produced. The sequence is not
// transactional: a failure partway leaves the earlier writes in place.
// That risk is accepted for this system's scope.
func (p *Processor) ProcessUpload(ctx context.Context, path, ext string) (*Result, error) {
	res := p.extractor.Extract(ctx, path, ext)
	if res.Warning != "" {
		p.logger.Warn("pipeline.extract_degraded", "path", path, "warning", res.Warning)
	}

	raw, err := p.fields.ExtractRaw(ctx, res.Payload)
	if err != nil {
		p.logger.Error("pipeline.ai_failed", "path", path, "error", err)
		return nil, err
	}

	data, err := llm.Normalize(raw, p.logger)
	if err != nil {
		p.logger.Error("pipeline.normalize_failed", "path", path, "error", err)
		return nil, err
	}
	if len(data.Invoices) == 0 {
		return nil, common.NewAppError(common.CodeInvalidEntityData, "no invoice found in document", nil)
	}

	return p.persist(ctx, data)
}

func (p *Processor) persist(ctx context.Context, data *llm.ExtractedData) (*Result, error) {
	out := &Result{}

	for _, f := range data.Invoices {
		inv := &entity.Invoice{
			ID:            f.InvoiceNumber,
			InvoiceNumber: f.InvoiceNumber,
			SerialNumber:  f.SerialNumber,
			CustomerName:  f.CustomerName,
			TotalAmount:   f.TotalAmount,
			Tax:           f.Tax,
			Date:          f.Date,
			ProductIDs:    []string{},
			CustomerID:    nil,
		}
		if err := p.invoices.Insert(ctx, inv); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to store invoice", err)
		}
		out.Invoices = append(out.Invoices, inv)
	}

	// Every customer and product from this upload hangs off the first
	// invoice; the design assumes one invoice per uploaded document.
	primary := out.Invoices[0]

	for _, f := range data.Customers {
		cust := &entity.Customer{
			ID:            "CUST-" + uuid.NewString(),
			CustomerID:    f.CustomerID,
			CustomerName:  f.CustomerName,
			PhoneNumber:   f.PhoneNumber,
			TotalPurchase: f.TotalPurchase,
			InvoiceID:     primary.ID,
		}
		if err := p.customers.Insert(ctx, cust); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to store customer", err)
		}
		if err := p.invoices.SetCustomerID(ctx, primary.ID, cust.ID); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to link customer", err)
		}
		primary.CustomerID = &cust.ID
		out.Customers = append(out.Customers, cust)
	}

	for _, f := range data.Products {
		prod := &entity.Product{
			ID:           "PROD-" + uuid.NewString(),
			ProductID:    f.ProductID,
			ProductName:  f.ProductName,
			Quantity:     f.Quantity,
			UnitPrice:    f.UnitPrice,
			Tax:          f.Tax,
			PriceWithTax: f.PriceWithTax,
			InvoiceID:    primary.ID,
		}
		saved, err := p.products.UpsertByBusinessKey(ctx, prod)
		if err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to store product", err)
		}
		if err := p.invoices.PushProductID(ctx, primary.ID, saved.ID); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to link product", err)
		}
		primary.ProductIDs = append(primary.ProductIDs, saved.ID)
		out.Products = append(out.Products, saved)
	}

	p.logger.Info("pipeline.persisted",
		"invoice_id", primary.ID,
		"products", len(out.Products),
		"customers", len(out.Customers),
	)
	return out, nil
}
