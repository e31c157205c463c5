package legal

import "legalaid-backend/models"

// MaxLaws caps the references returned by a lookup
const MaxLaws = 3

// LawLookup finds statute references for a case from the static law table
type LawLookup struct {
	tables *Tables
}

func NewLawLookup(tables *Tables) *LawLookup {
	return &LawLookup{tables: tables}
}

// Lookup returns at most MaxLaws references for every bucket the query and
// category hit, in law table order. With no hit it returns the
// generic contract and civil-procedure references. Location is accepted for
// parity with the other lookups and does not narrow the result.
func (l *LawLookup) Lookup(query, category, location string) models.LawReferences {
	matches := MatchCategories(query, category)
	var out models.LawReferences
	for _, c := range l.tables.LawOrder {
		if matches.Contains(c) {
			out = append(out, l.tables.Laws[c]...)
		}
	}
	if len(out) == 0 {
		out = append(out, l.tables.FallbackLaws...)
	}
	if len(out) > MaxLaws {
		out = out[:MaxLaws]
	}
	return out
}
