package extract

import "context"

// TextExtractor is stage 1 of the upload pipeline: file -> model payload.
type TextExtractor interface {
	Extract(ctx context.Context, path, ext string) Result
}

// Result is the payload handed to the AI extraction client.
//
// Extraction never fails the request: when the underlying reader errors,
// the error message itself becomes the payload and Warning is set. The
// model then answers over garbage, which the normalizer rejects. This
// mirrors the original system's permissive behavior; harden here if that
// trade-off ever stops being acceptable.
type Result struct {
	Payload string
	Kind    string // constants.PayloadText or constants.PayloadBase64
	Warning string // non-empty when a failure was folded into Payload
}
