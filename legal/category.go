package legal

import "strings"

// Category is a legal-domain bucket used as the key into the static tables
type Category string

const (
	ConsumerProtection Category = "consumer_protection"
	LabourLaw          Category = "labour_law"
	PropertyLaw        Category = "property_law"
	CriminalLaw        Category = "criminal_law"
	FamilyLaw          Category = "family_law"
	CivilLaw           Category = "civil_law"
)

// Categories lists every bucket in matching order
var Categories = []Category{ConsumerProtection, LabourLaw, PropertyLaw, CriminalLaw, FamilyLaw, CivilLaw}

// Name is the human-readable bucket name, e.g. "consumer protection"
func (c Category) Name() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// Keywords are the space-separated tokens of the bucket name
func (c Category) Keywords() []string {
	return strings.Fields(c.Name())
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts either form of a bucket name ("family law" or "family_law")
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ReplaceAll(normalize(s), " ", "_"))
	return c, c.Valid()
}

// Matches is the ordered set of buckets a query hit
type Matches []Category

func (m Matches) Empty() bool { return len(m) == 0 }

func (m Matches) Contains(c Category) bool {
	for _, x := range m {
		if x == c {
			return true
		}
	}
	return false
}

// MatchCategories maps free text and a category hint to every bucket they hit.
// A bucket matches when its full name is contained in the hint, or when any of
// its keyword tokens is contained in the free text. Buckets come back in
// Categories order; an empty result means no bucket matched.
func MatchCategories(freeText, categoryHint string) Matches {
	text := strings.ToLower(freeText)
	hint := normalize(categoryHint)

	var out Matches
	for _, c := range Categories {
		if hint != "" && strings.Contains(hint, c.Name()) {
			out = append(out, c)
			continue
		}
		for _, kw := range c.Keywords() {
			if strings.Contains(text, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// containedBuckets returns the buckets of order whose full name appears in
// the hint. It is the looser hint-only match used by the NGO and next-steps
// tables, each passing its own bucket order.
func containedBuckets(categoryHint string, order []Category) Matches {
	hint := normalize(categoryHint)
	if hint == "" {
		return nil
	}
	var out Matches
	for _, c := range order {
		if strings.Contains(hint, c.Name()) {
			out = append(out, c)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}
