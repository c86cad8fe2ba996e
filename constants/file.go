package constants

import "strings"

// AllowedExtensions holds the accepted file extensions for invoice uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"xls":  {},
	"xlsx": {},
}

// Payload kinds produced by the text extractor.
const (
	PayloadText   = "TEXT"
	PayloadBase64 = "BASE64"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (already normalized) is uploadable.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[ext]
	return ok
}

// IsImageExt reports whether ext maps to the base64 image path.
func IsImageExt(ext string) bool {
	return ext == "jpg" || ext == "jpeg" || ext == "png"
}

// IsSpreadsheetExt reports whether ext maps to the spreadsheet path.
func IsSpreadsheetExt(ext string) bool {
	return ext == "xls" || ext == "xlsx"
}
