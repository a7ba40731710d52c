package pdfscan

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/AlexandruDodita/vinorg/pkg/vin"
)

// minOcrText is the alphanumeric-character threshold below which a page is
// considered "sparse" and worth trying OCR on.
const minOcrText = 50

// Result is the outcome of scanning one PDF for VINs and critical content
// categories. Err is set (and Vins/Cats left empty) on any parse failure.
type Result struct {
	Path string
	Vins []vin.Vin
	Cats map[string]struct{}
	Err  error
}

// Settings controls OCR behavior for a single scan call: whether OCR may run
// at all, and the page-count/Tesseract-flags pair (boosted during
// `_NO_VIN` rescue — see RescueSettings, which reorg.Rescan passes to
// internal/reclassify's rescue pass).
type Settings struct {
	OCR        bool
	MaxPages   int
	TessConfig string
}

// DefaultSettings are the settings used for ordinary pre-scan and
// reclassification passes (OCR off unless explicitly requested).
func DefaultSettings() Settings {
	return Settings{MaxPages: 2, TessConfig: "--oem 1 --psm 6"}
}

// RescueSettings are the boosted, higher-accuracy settings used only during
// `_NO_VIN` rescue with --ocr-rescue.
func RescueSettings() Settings {
	return Settings{OCR: true, MaxPages: 5, TessConfig: "--oem 1 --psm 3"}
}

// ExtractFullText opens the PDF at path and returns its pages joined by a
// form-feed, augmenting sparse pages with OCR when settings.OCR is set. The
// result is not uppercased — callers that need case-insensitive matching
// should fold it themselves.
func ExtractFullText(path string, settings Settings) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	total := r.NumPage()
	for i := 0; i < total; i++ {
		p := r.Page(i + 1)
		text := ""
		if !p.V.IsNull() {
			if t, err := p.GetPlainText(nil); err == nil {
				text = t
			}
		}
		if settings.OCR && i < settings.MaxPages && alnumCount(text) < minOcrText {
			if ocrText := ocrPage(r, i, settings.TessConfig); ocrText != "" {
				text = text + "\n" + ocrText
			}
		}
		sb.WriteString(text)
		sb.WriteByte('\f')
	}
	return sb.String(), nil
}

// ScanSingle extracts text from the PDF at path, collects VINs and critical
// content categories (the S2 pre-scan's four-category set), falling back to
// OCR per settings. It never panics.
func ScanSingle(path string, settings Settings) Result {
	text, err := ExtractFullText(path, settings)
	if err != nil {
		return Result{Path: path, Cats: map[string]struct{}{}, Err: err}
	}
	full := strings.ToUpper(text)
	return Result{
		Path: path,
		Vins: vin.ExtractAll(full),
		Cats: detectContentCategories(full),
	}
}

// needsOCR is a fast pre-filter: if the first settings.MaxPages pages all
// have enough extractable text, OCR would be wasted effort on this PDF.
func needsOCR(path string, settings Settings) bool {
	f, r, err := pdf.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	total := r.NumPage()
	limit := settings.MaxPages
	if limit > total {
		limit = total
	}
	for i := 0; i < limit; i++ {
		p := r.Page(i + 1)
		if p.V.IsNull() {
			return true
		}
		text, err := p.GetPlainText(nil)
		if err != nil || alnumCount(text) < minOcrText {
			return true
		}
	}
	return false
}
