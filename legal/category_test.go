package legal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchCategories(t *testing.T) {
	tests := []struct {
		name     string
		freeText string
		hint     string
		want     Matches
	}{
		{name: "hint names bucket", hint: "Consumer Protection", want: Matches{ConsumerProtection}},
		{name: "hint with underscores", hint: "family_law", want: Matches{FamilyLaw}},
		{name: "hint names two buckets", hint: "criminal law / family law", want: Matches{CriminalLaw, FamilyLaw}},
		{name: "keyword in free text", freeText: "My landlord kept the PROPERTY papers", want: Matches{PropertyLaw}},
		{name: "generic law token hits every law bucket", freeText: "I need a lawyer",
			want: Matches{LabourLaw, PropertyLaw, CriminalLaw, FamilyLaw, CivilLaw}},
		{name: "hint token alone does not match", hint: "law", want: nil},
		{name: "nothing matches", freeText: "my neighbour plays music loudly", hint: "misc", want: nil},
		{name: "empty input", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchCategories(tt.freeText, tt.hint)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, got.Empty())
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Labour Law ")
	assert.True(t, ok)
	assert.Equal(t, LabourLaw, c)

	c, ok = ParseCategory("criminal_law")
	assert.True(t, ok)
	assert.Equal(t, CriminalLaw, c)

	_, ok = ParseCategory("tax law")
	assert.False(t, ok)

	assert.Equal(t, "consumer protection", ConsumerProtection.Name())
	assert.Equal(t, []string{"consumer", "protection"}, ConsumerProtection.Keywords())
	assert.True(t, Matches{CivilLaw}.Contains(CivilLaw))
}
