package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/invoicedesk/invoice-manager/constants"
	"github.com/invoicedesk/invoice-manager/internal/common"
)

// handleUpload accepts one multipart file, validates its extension against
// the allow-list, stores it under the upload dir, and runs the extraction
// pipeline. Nothing touches storage before the extension check passes.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, common.NewAppError(common.CodeMissingFile, "No file uploaded", err))
		return
	}

	filename := filepath.Base(file.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		s.respondError(c, common.NewAppError(common.CodeMissingFile, "No selected file", nil))
		return
	}

	ext := constants.NormalizeExt(filepath.Ext(filename))
	if !constants.IsAllowedExt(ext) {
		s.respondError(c, common.NewAppError(common.CodeUnsupportedFileType, "Unsupported file type", nil))
		return
	}

	dst := filepath.Join(s.cfg.Upload.Dir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.respondError(c, common.NewAppError(common.CodeInternal, "failed to store uploaded file", err))
		return
	}

	s.logger.Info("upload received", "filename", filename, "ext", ext, "size", file.Size)

	result, err := s.processor.ProcessUpload(c.Request.Context(), dst, ext)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File processed successfully!",
		"data":    result,
	})
}
