//go:build ocr

package pdfscan

import (
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// tesseractEngine is the real OCR engine, linked in only when the module is
// built with -tags ocr (requires libtesseract-dev on the build host, same as
// the original's pytesseract dependency on a system Tesseract install).
type tesseractEngine struct{}

func newOCREngine() ocrEngine {
	return tesseractEngine{}
}

func (tesseractEngine) recognize(imageBytes []byte, tessConfig string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("ron", "eng"); err != nil {
		return "", err
	}
	// tessConfig carries flags like "--oem 1 --psm 6"; gosseract exposes
	// page-segmentation mode as a typed setter rather than a raw flag string.
	applyTessConfig(client, tessConfig)

	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return "", err
	}
	return client.Text()
}

func applyTessConfig(client *gosseract.Client, tessConfig string) {
	fields := strings.Fields(tessConfig)
	for i := 0; i < len(fields)-1; i++ {
		switch fields[i] {
		case "--psm":
			client.SetPageSegMode(gosseract.PageSegMode(atoiSafe(fields[i+1])))
		}
	}
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}
