package generator

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// LoadImageDataURL reads an image file and returns it as a data: URL suitable
// for Prompt.ImageDataURL. Non-image files are rejected.
func LoadImageDataURL(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read reference image: %w", err)
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("reference image %s: unsupported content type %s", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
