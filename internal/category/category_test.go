package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIgnoreFiles(t *testing.T) {
	_, ok := Classify("desktop.ini")
	assert.False(t, ok)
	_, ok = Classify("Thumbs.db")
	assert.False(t, ok)
}

func TestClassifyRecognizesOwnShortNames(t *testing.T) {
	cases := map[string]Category{
		"cc.pdf":       ContractCadru,
		"cc_1.pdf":     ContractCadru,
		"subct_12.pdf": Subcontract,
		"fact.pdf":     Facturi,
		"talon.pdf":    TalonCiv,
		"civ_3.pdf":    TalonCiv,
	}
	for fn, want := range cases {
		got, ok := Classify(fn)
		assert.True(t, ok, fn)
		assert.Equal(t, want, got, fn)
	}
}

func TestClassifyFacturaAlwaysWins(t *testing.T) {
	cat, ok := Classify("Factura Cesiune Contract.pdf")
	assert.True(t, ok)
	assert.Equal(t, Facturi, cat)
}

func TestClassifyTalonCivWinsOverCascadeOrder(t *testing.T) {
	cat, ok := Classify("seriec_1HGCM82633A004352_TALON.pdf")
	assert.True(t, ok)
	assert.Equal(t, TalonCiv, cat)
}

func TestClassifyCascadeOrder(t *testing.T) {
	cases := map[string]Category{
		"FL - Client - 1HGCM82633A004352.pdf":    FormularDeLivrare,
		"Contract Cadru Alpha.pdf":               ContractCadru,
		"Subcontract 2024.pdf":                   Subcontract,
		"POLITA_RCA_123.pdf":                     RCA,
		"CASCO Auto 2024.pdf":                    CASCO,
		"OP Plata furnizor.pdf":                  OPPlati,
		"Cesiune drepturi.pdf":                   CesiuneSupliment,
		"Niciun pattern aici.pdf":                AlteDocumente,
	}
	for fn, want := range cases {
		got, ok := Classify(fn)
		assert.True(t, ok, fn)
		assert.Equal(t, want, got, fn)
	}
}

func TestDetectTalonCiv(t *testing.T) {
	hasTalon, hasCiv := DetectTalonCiv("TALON+CIV scan.pdf")
	assert.True(t, hasTalon)
	assert.True(t, hasCiv)

	hasTalon, hasCiv = DetectTalonCiv("Archived.pdf")
	assert.False(t, hasTalon)
	assert.False(t, hasCiv)

	// word-bounded: "CIVIL" must not match bare CIV
	_, hasCiv = DetectTalonCiv("CIVIL_contract.pdf")
	assert.False(t, hasCiv)
}

func TestAllDisplayCategories(t *testing.T) {
	cats := AllDisplayCategories()
	assert.Equal(t, len(Ordered)+1, len(cats))
	assert.Equal(t, AlteDocumente, cats[len(cats)-1])
}
