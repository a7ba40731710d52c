package pdfscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentCategoriesMembership(t *testing.T) {
	text := "ACEST CONTRACT CADRU SE COMPLETEAZA CU UN SUBCONTRACT SI O POLITA CASCO."
	cats := detectContentCategories(text)
	assert.Contains(t, cats, "Contract Cadru")
	assert.Contains(t, cats, "Subcontract")
	assert.Contains(t, cats, "CASCO")
	assert.NotContains(t, cats, "RCA")
}

func TestDetectContentCategoriesNoMatch(t *testing.T) {
	cats := detectContentCategories("TEXT FARA NICIO CATEGORIE RELEVANTA")
	assert.Empty(t, cats)
}

func TestDetectContentCategoriesRCAWordBoundary(t *testing.T) {
	cats := detectContentCategories("POLITA RCA NR 123")
	assert.Contains(t, cats, "RCA")

	cats = detectContentCategories("RCAIAC NU EXISTA")
	assert.NotContains(t, cats, "RCA")
}
