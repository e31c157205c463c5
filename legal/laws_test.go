package legal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadTables(t *testing.T) {
	tables := testTables(t)

	assert.Len(t, tables.Laws, 5)
	assert.Equal(t, []Category{ConsumerProtection, LabourLaw, PropertyLaw, CriminalLaw, FamilyLaw}, tables.LawOrder)
	assert.Empty(t, tables.Laws[CivilLaw])
	assert.Len(t, tables.FallbackLaws, 2)
	assert.Len(t, tables.GeneralAid, 2)
	assert.Equal(t, CivilLaw, tables.DefaultSteps)
	assert.Equal(t, "Appropriate Court", tables.DefaultJurisdiction)
	assert.Contains(t, tables.FIRKeywords, "harass")
}

func TestBucketTableKeepsKeyOrder(t *testing.T) {
	var b bucketTable[[]string]
	require.NoError(t, yaml.Unmarshal([]byte("family_law: [a]\nconsumer_protection: [b, c]\n"), &b))

	assert.Equal(t, []Category{FamilyLaw, ConsumerProtection}, b.Order)
	assert.Equal(t, []string{"b", "c"}, b.Entries[ConsumerProtection])

	assert.Error(t, yaml.Unmarshal([]byte("- family_law\n"), &b))
}

func TestLawLookupPerCategory(t *testing.T) {
	tables := testTables(t)
	lookup := NewLawLookup(tables)

	for c, table := range tables.Laws {
		t.Run(string(c), func(t *testing.T) {
			got := lookup.Lookup("", c.Name(), "")
			require.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), MaxLaws)
			for _, law := range got {
				assert.Contains(t, table, law)
			}
		})
	}
}

func TestLawLookupFallback(t *testing.T) {
	tables := testTables(t)
	lookup := NewLawLookup(tables)

	for _, in := range [][2]string{
		{"my neighbour plays music loudly", "misc"},
		{"", ""},
		{"someone copied my painting", "civil law"},
	} {
		got := lookup.Lookup(in[0], in[1], "Pune")
		require.Len(t, got, 2)
		assert.Equal(t, "Indian Contract Act, 1872", got[0].Act)
		assert.Equal(t, "Code of Civil Procedure, 1908", got[1].Act)
	}
}

func TestLawLookupTruncatesMultiBucketUnion(t *testing.T) {
	lookup := NewLawLookup(testTables(t))

	got := lookup.Lookup("", "consumer protection and labour law", "")
	require.Len(t, got, MaxLaws)
	assert.Equal(t, "Consumer Protection Act, 2019", got[0].Act)
	assert.Equal(t, "Consumer Protection Act, 2019", got[1].Act)
	assert.Equal(t, "Industrial Disputes Act, 1947", got[2].Act)
}

func TestLawLookupIsIdempotent(t *testing.T) {
	lookup := NewLawLookup(testTables(t))

	first := lookup.Lookup("threatened by my employer over labour dues", "criminal law", "Delhi")
	second := lookup.Lookup("threatened by my employer over labour dues", "criminal law", "Delhi")
	assert.Equal(t, first, second)

	first[0].Act = "mutated"
	assert.NotEqual(t, "mutated", lookup.Lookup("threatened by my employer over labour dues", "criminal law", "Delhi")[0].Act)
}
