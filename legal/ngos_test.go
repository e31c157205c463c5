package legal

import (
	"testing"

	"legalaid-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ngos models.NGORecords) []string {
	out := make([]string, 0, len(ngos))
	for _, n := range ngos {
		out = append(out, n.Name)
	}
	return out
}

const (
	nalsa = "National Legal Services Authority (NALSA)"
	dlsa  = "Delhi Legal Services Authority"
)

func TestNGOFinderFind(t *testing.T) {
	finder := NewNGOFinder(testTables(t))

	tests := []struct {
		category string
		want     []string
	}{
		{category: "Consumer Protection", want: []string{
			"Consumer Guidance Society of India",
			"Voluntary Organisation in Interest of Consumer Education (VOICE)",
			nalsa,
		}},
		{category: "property law", want: []string{"Housing and Land Rights Network", nalsa, dlsa}},
		{category: "something else", want: []string{nalsa, dlsa}},
		{category: "", want: []string{nalsa, dlsa}},
		{category: "consumer protection, labour law", want: []string{
			"Consumer Guidance Society of India",
			"Voluntary Organisation in Interest of Consumer Education (VOICE)",
			"Centre for Indian Trade Unions (CITU)",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := finder.Find(tt.category, "Mumbai")
			assert.LessOrEqual(t, len(got), MaxNGOs)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, got, finder.Find(tt.category, "Mumbai"))
		})
	}
}

func TestNGOFinderFindFollowsTableOrder(t *testing.T) {
	tables := testTables(t)
	finder := NewNGOFinder(tables)

	assert.Equal(t, []Category{ConsumerProtection, LabourLaw, FamilyLaw, CriminalLaw, PropertyLaw}, tables.NGOOrder)

	want := []string{
		"All India Women's Conference (AIWC)",
		"Lawyers Collective Women's Rights Initiative",
		"People's Union for Civil Liberties (PUCL)",
	}
	assert.Equal(t, want, names(finder.Find("criminal law and family law", "")))
	assert.Equal(t, want, names(finder.Find("family law and criminal law", "")))
}

func TestNGOFinderFindReturnsCopies(t *testing.T) {
	finder := NewNGOFinder(testTables(t))

	got := finder.Find("", "")
	got[0].Services[0] = "mutated"
	assert.Equal(t, "Free legal aid", finder.Find("", "")[0].Services[0])
}

func TestNGOFinderSearch(t *testing.T) {
	finder := NewNGOFinder(testTables(t))

	got := finder.Search("legal aid", "All", "")
	assert.Equal(t, []string{
		"Voluntary Organisation in Interest of Consumer Education (VOICE)",
		nalsa,
		"Self Employed Women's Association (SEWA)",
		"All India Women's Conference (AIWC)",
		"People's Union for Civil Liberties (PUCL)",
		dlsa,
	}, names(got))

	got = finder.Search("", "labour_law", "Ahmedabad")
	assert.Equal(t, []string{"Self Employed Women's Association (SEWA)"}, names(got))

	got = finder.Search("custody", "Women Rights", "Delhi")
	assert.Equal(t, []string{"Lawyers Collective Women's Rights Initiative"}, names(got))

	assert.Empty(t, finder.Search("", "Animal Rights", ""))
}

func TestNGOFinderByCategoryAndLocation(t *testing.T) {
	finder := NewNGOFinder(testTables(t))

	got := finder.ByCategory("Women Rights", "Delhi")
	assert.Equal(t, []string{
		"All India Women's Conference (AIWC)",
		"Lawyers Collective Women's Rights Initiative",
		nalsa,
	}, names(got))

	got = finder.ByCategory("Human Rights", "")
	assert.Equal(t, []string{"People's Union for Civil Liberties (PUCL)", "Common Cause", nalsa}, names(got))

	assert.Empty(t, finder.ByCategory("Unknown", ""))
	assert.Empty(t, finder.ByLocation("Mumbai", ""))

	got = finder.ByLocation("Gujarat", "All")
	assert.Equal(t, []string{"Self Employed Women's Association (SEWA)"}, names(got))

	got = finder.ByLocation("delhi", "Human Rights")
	require.Len(t, got, 3)
}

func TestNGOFinderLocationKeywords(t *testing.T) {
	finder := NewNGOFinder(testTables(t))

	assert.Equal(t, []string{"New Delhi", "Delhi"}, finder.LocationKeywords("Delhi"))
	assert.Equal(t, []string{"Ahmedabad", "Gujarat"}, finder.LocationKeywords("ahmedabad"))
	assert.Equal(t, []string{"Pune"}, finder.LocationKeywords("Pune"))
}
