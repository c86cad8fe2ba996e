package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invoicedesk/invoice-manager/internal/common"
)

// CodeInvalidRequest covers malformed request bodies, which never reach the
// pipeline and so have no pipeline error kind.
const CodeInvalidRequest = "invalid_request"

// statusForCode is the single mapping from application error codes to HTTP
// statuses. Everything unknown is a 500.
func statusForCode(code string) int {
	switch code {
	case common.CodeMissingFile, common.CodeUnsupportedFileType, CodeInvalidRequest:
		return http.StatusBadRequest
	case common.CodeEntityNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := common.CodeOf(err)

	message := err.Error()
	var app *common.AppError
	if errors.As(err, &app) {
		message = app.Message
	}

	s.logger.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"code", code,
		"error", err,
	)
	c.JSON(statusForCode(code), gin.H{"error": message})
}

func (s *Server) badRequest(c *gin.Context, message string) {
	s.respondError(c, common.NewAppError(CodeInvalidRequest, message, nil))
}
