package legal

import (
	"strings"

	"legalaid-backend/models"
)

// MaxNGOs caps the organisations returned by Find
const MaxNGOs = 3

// NGOFinder matches cases to NGOs and legal-aid organisations
type NGOFinder struct {
	tables *Tables
}

func NewNGOFinder(tables *Tables) *NGOFinder {
	return &NGOFinder{tables: tables}
}

// Find returns the NGOs of every bucket whose name appears in category,
// followed by the general legal-aid organisations, capped at MaxNGOs.
// Location does not filter Find; see Search.
func (f *NGOFinder) Find(category, location string) models.NGORecords {
	var out models.NGORecords
	for _, c := range containedBuckets(category, f.tables.NGOOrder) {
		out = appendNGOs(out, f.tables.NGOs[c])
	}
	out = appendNGOs(out, f.tables.GeneralAid)
	if len(out) > MaxNGOs {
		out = out[:MaxNGOs]
	}
	return out
}

// Search runs Find over every bucket of a directory category, drops repeated
// organisations, and keeps those whose name or services contain query and
// whose address matches location.
func (f *NGOFinder) Search(query, category, location string) models.NGORecords {
	return f.filter(f.collect(f.DirectoryBuckets(category)), query, location)
}

// ByCategory lists the NGOs of a directory category, optionally narrowed by location
func (f *NGOFinder) ByCategory(category, location string) models.NGORecords {
	return f.filter(f.collect(f.DirectoryBuckets(category)), "", location)
}

// ByLocation lists NGOs whose address matches location, optionally narrowed by a directory category
func (f *NGOFinder) ByLocation(location, category string) models.NGORecords {
	if isAll(location) {
		location = ""
	}
	return f.filter(f.collect(f.DirectoryBuckets(category)), "", location)
}

// DirectoryBuckets resolves a directory category ("Women Rights", a bucket
// name, "All" or "") to the NGO buckets it covers. Unknown names cover none.
func (f *NGOFinder) DirectoryBuckets(category string) []Category {
	if isAll(category) {
		return f.allBuckets()
	}
	for _, dc := range f.tables.DirectoryCategories {
		if strings.EqualFold(dc.Name, strings.TrimSpace(category)) {
			return dc.Buckets
		}
	}
	if c, ok := ParseCategory(category); ok {
		return []Category{c}
	}
	return nil
}

// LocationKeywords returns the address substrings accepted for a location
func (f *NGOFinder) LocationKeywords(location string) []string {
	location = strings.TrimSpace(location)
	for city, aliases := range f.tables.LocationAliases {
		if strings.EqualFold(city, location) {
			return aliases
		}
	}
	return []string{location}
}

func (f *NGOFinder) allBuckets() []Category {
	var out []Category
	for _, c := range f.tables.NGOOrder {
		if len(f.tables.NGOs[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (f *NGOFinder) collect(buckets []Category) models.NGORecords {
	seen := make(map[string]bool)
	out := make(models.NGORecords, 0)
	for _, c := range buckets {
		for _, ngo := range f.Find(c.Name(), "") {
			if seen[ngo.Name] {
				continue
			}
			seen[ngo.Name] = true
			out = append(out, ngo)
		}
	}
	return out
}

func (f *NGOFinder) filter(ngos models.NGORecords, query, location string) models.NGORecords {
	query = strings.ToLower(strings.TrimSpace(query))
	var keywords []string
	if !isAll(location) {
		for _, kw := range f.LocationKeywords(location) {
			keywords = append(keywords, strings.ToLower(kw))
		}
	}

	out := make(models.NGORecords, 0, len(ngos))
	for _, ngo := range ngos {
		if query != "" && !matchesQuery(ngo, query) {
			continue
		}
		if len(keywords) > 0 && !containsAny(strings.ToLower(ngo.Address), keywords) {
			continue
		}
		out = append(out, ngo)
	}
	return out
}

func matchesQuery(ngo models.NGORecord, query string) bool {
	if strings.Contains(strings.ToLower(ngo.Name), query) {
		return true
	}
	for _, s := range ngo.Services {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "all")
}

// appendNGOs copies records so callers cannot alias the table's service slices
func appendNGOs(dst models.NGORecords, src []models.NGORecord) models.NGORecords {
	for _, n := range src {
		n.Services = append([]string(nil), n.Services...)
		dst = append(dst, n)
	}
	return dst
}
