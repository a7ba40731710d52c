package pdfscan

// alnumCount counts letters and digits in s, used by the OCR pre-filter to
// decide whether a page is "text-rich enough" to skip OCR.
func alnumCount(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			n++
		}
	}
	return n
}
