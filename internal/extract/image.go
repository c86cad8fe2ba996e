package extract

import (
	"encoding/base64"
	"fmt"
	"os"
)

// encodeImageBase64 reads the raw image bytes and returns them as a base64
// text payload for the vision-capable model.
func encodeImageBase64(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
