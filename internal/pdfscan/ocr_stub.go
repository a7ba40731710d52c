//go:build !ocr

package pdfscan

import "errors"

// noopEngine is the default OCR engine when the module is built without
// -tags ocr: it reports failure for every call, which the caller treats the
// same way the original treats a missing pytesseract/Tesseract install —
// OCR becomes a no-op and text-only scanning continues.
type noopEngine struct{}

func newOCREngine() ocrEngine {
	return noopEngine{}
}

func (noopEngine) recognize(imageBytes []byte, tessConfig string) (string, error) {
	return "", errors.New("ocr support not built in (build with -tags ocr)")
}
