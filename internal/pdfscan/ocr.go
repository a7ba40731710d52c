package pdfscan

import "github.com/ledongthuc/pdf"

// ocrEngine abstracts the Tesseract binding so the rest of the package
// doesn't care whether libtesseract is actually linked in (see ocr_tesseract.go
// and ocr_stub.go, selected by the "ocr" build tag).
type ocrEngine interface {
	// recognize OCRs a single raster image (JPEG/PNG bytes) and returns the
	// extracted text, or an error if OCR could not run at all.
	recognize(imageBytes []byte, tessConfig string) (string, error)
}

var defaultOCREngine ocrEngine = newOCREngine()

// ocrPage renders nothing itself (no PDF rasterizer in the dependency set);
// it OCRs whatever raster image extractPageImage pulled off the page's
// resources. Any failure yields an empty string, matching the source's
// broad except-and-continue policy for OCR.
func ocrPage(r *pdf.Reader, pageIndex int, tessConfig string) string {
	img, err := extractPageImage(r, pageIndex)
	if err != nil || len(img) == 0 {
		return ""
	}
	text, err := defaultOCREngine.recognize(img, tessConfig)
	if err != nil {
		return ""
	}
	return text
}
