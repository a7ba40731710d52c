package pdfscan

import (
	"errors"

	"github.com/ledongthuc/pdf"
)

// extractPageImage pulls the first Image XObject stream off a page's
// resource dictionary, raw (undecoded) bytes. Scanned leasing documents are
// almost always a single full-page JPEG per page, so this simple first-image
// heuristic covers the OCR fallback's actual use case; it is not a general
// PDF image extractor.
func extractPageImage(r *pdf.Reader, pageIndex int) ([]byte, error) {
	if pageIndex+1 > r.NumPage() {
		return nil, errors.New("page index out of range")
	}
	p := r.Page(pageIndex + 1)
	if p.V.IsNull() {
		return nil, errors.New("null page")
	}
	res := p.Resources()
	if res.IsNull() {
		return nil, errors.New("no resources")
	}
	xobjects := res.Key("XObject")
	if xobjects.IsNull() {
		return nil, errors.New("no xobjects")
	}
	for _, key := range xobjects.Keys() {
		obj := xobjects.Key(key)
		if obj.Key("Subtype").Name() != "Image" {
			continue
		}
		data, err := obj.Reader()
		if err != nil {
			continue
		}
		buf := make([]byte, 0, 1<<20)
		chunk := make([]byte, 32*1024)
		for {
			n, rerr := data.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:n]...)
			}
			if rerr != nil {
				break
			}
		}
		if len(buf) > 0 {
			return buf, nil
		}
	}
	return nil, errors.New("no image xobject found")
}
