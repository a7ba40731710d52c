package vin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"valid mixed", "1HGCM82633A004352", true},
		{"too short", "1HGCM82633A00435", false},
		{"too long", "1HGCM82633A0043522", false},
		{"all letters", "ABCDEFGHJKLMNPQRS", false},
		{"all digits", "12345678901234567", false},
		{"has dash", "1HGCM82633A00435-", false},
		{"lowercase alnum", "1hgcm82633a004352", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, IsValid(c.in))
		})
	}
}

func TestParse(t *testing.T) {
	v, ok := Parse("  1hgcm82633a004352  ")
	assert.True(t, ok)
	assert.Equal(t, Vin("1HGCM82633A004352"), v)

	_, ok = Parse("not a vin")
	assert.False(t, ok)
}

func TestExtractAll(t *testing.T) {
	fn := "Contract_1HGCM82633A004352_and_5YJSA1E26MF123456_copy.pdf"
	vins := ExtractAll(fn)
	assert.Equal(t, []Vin{"1HGCM82633A004352", "5YJSA1E26MF123456"}, vins)
}

func TestExtractAllDeduplicates(t *testing.T) {
	fn := "1HGCM82633A004352_1HGCM82633A004352.pdf"
	vins := ExtractAll(fn)
	assert.Equal(t, []Vin{"1HGCM82633A004352"}, vins)
}

func TestExtractAllNoMatch(t *testing.T) {
	vins := ExtractAll("no vin in here at all")
	assert.Empty(t, vins)
}

func TestMatchesFLPattern(t *testing.T) {
	v, ok := MatchesFLPattern("FL - Some Client - 1HGCM82633A004352 extra.pdf")
	assert.True(t, ok)
	assert.Equal(t, Vin("1HGCM82633A004352"), v)

	_, ok = MatchesFLPattern("Contract - 1HGCM82633A004352.pdf")
	assert.False(t, ok)
}

func TestMatchesSeriecPattern(t *testing.T) {
	v, ok := MatchesSeriecPattern("seriec_1HGCM82633A004352_scan.pdf")
	assert.True(t, ok)
	assert.Equal(t, Vin("1HGCM82633A004352"), v)

	_, ok = MatchesSeriecPattern("not_seriec_prefixed.pdf")
	assert.False(t, ok)
}

func TestExtractFromFilenamePrefixPrecedence(t *testing.T) {
	// FL pattern should win even if a prefix-style match would also apply.
	v, ok := ExtractFromFilenamePrefix("FL - Client - 1HGCM82633A004352 doc.pdf")
	assert.True(t, ok)
	assert.Equal(t, Vin("1HGCM82633A004352"), v)

	v, ok = ExtractFromFilenamePrefix("1HGCM82633A004352_Contract.pdf")
	assert.True(t, ok)
	assert.Equal(t, Vin("1HGCM82633A004352"), v)

	_, ok = ExtractFromFilenamePrefix("Alte Documente.pdf")
	assert.False(t, ok)
}

func TestMergePartitionName(t *testing.T) {
	assert.Equal(t, "SINDICALIZARE Auto", MergePartitionName("SINDICALIZARE Auto - Part 2"))
	assert.Equal(t, "SINDICALIZARE Auto", MergePartitionName("SINDICALIZARE Auto - part 12"))
	assert.Equal(t, "Flat Folder", MergePartitionName("Flat Folder"))
}

func TestIsFolderName(t *testing.T) {
	assert.True(t, IsFolderName("1HGCM82633A004352"))
	assert.False(t, IsFolderName("SINDICALIZARE Auto"))
}
