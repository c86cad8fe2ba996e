package extract

import (
	"context"
	"log/slog"

	"github.com/invoicedesk/invoice-manager/constants"
)

type fileExtractor struct {
	logger *slog.Logger
}

// NewTextExtractor returns the production TextExtractor dispatching on the
// declared file extension. The caller validates the extension against the
// upload allow-list before getting here.
func NewTextExtractor(logger *slog.Logger) TextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileExtractor{logger: logger}
}

func (e *fileExtractor) Extract(ctx context.Context, path, ext string) Result {
	var (
		payload string
		kind    = constants.PayloadText
		err     error
	)

	switch {
	case constants.IsSpreadsheetExt(ext):
		payload, err = extractSpreadsheetText(path, ext)
	case constants.IsImageExt(ext):
		payload, err = encodeImageBase64(path)
		kind = constants.PayloadBase64
	default: // pdf
		payload, err = extractPDFText(path)
	}

	if err != nil {
		e.logger.Warn("extract.folded_failure", "path", path, "ext", ext, "error", err)
		return Result{Payload: err.Error(), Kind: constants.PayloadText, Warning: err.Error()}
	}

	e.logger.Info("extract.ok", "path", path, "ext", ext, "kind", kind, "payload_bytes", len(payload))
	return Result{Payload: payload, Kind: kind}
}
