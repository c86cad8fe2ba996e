package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invoicedesk/invoice-manager/internal/common"
	"github.com/invoicedesk/invoice-manager/internal/extract"
	"github.com/invoicedesk/invoice-manager/internal/llm/gemini"
	"github.com/invoicedesk/invoice-manager/internal/pipeline"
	"github.com/invoicedesk/invoice-manager/internal/repository"
	"github.com/invoicedesk/invoice-manager/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Error("failed to create upload dir", "dir", cfg.Upload.Dir, "error", err)
		os.Exit(1)
	}

	client, db, err := repository.Open(ctx, repository.Config{
		URI:         cfg.Database.URI,
		Name:        cfg.Database.Name,
		ConnTimeout: cfg.Database.ConnTimeout,
		PingTimeout: cfg.Database.PingTimeout,
		MaxPoolSize: cfg.Database.MaxPoolSize,
	}, logger)
	if err != nil {
		logger.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("document store disconnect error", "error", err)
		}
	}()

	if err := repository.HealthCheck(ctx, client, cfg.Database.PingTimeout); err != nil {
		logger.Error("document store health check failed", "error", err)
		os.Exit(1)
	}
	logger.Info("document store health OK")

	ai, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}, logger)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := ai.Close(); err != nil {
			logger.Warn("gemini client close error", "error", err)
		}
	}()

	invoices := repository.NewInvoiceRepository(db, logger)
	products := repository.NewProductRepository(db, logger)
	customers := repository.NewCustomerRepository(db, logger)

	extractor := extract.NewTextExtractor(logger)
	processor := pipeline.NewProcessor(logger, extractor, ai, invoices, products, customers)
	srv := server.NewServer(logger, cfg, processor, invoices, products, customers)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	logger.Info("stopped")
}
