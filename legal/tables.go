package legal

import (
	"embed"
	"fmt"
	"strings"

	"legalaid-backend/models"

	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tableFS embed.FS

// Tables holds the read-only reference data used by the pipeline.
// It is loaded once at startup and shared by every request.
type Tables struct {
	Laws         map[Category][]models.LawReference
	LawOrder     []Category
	FallbackLaws []models.LawReference

	NGOs       map[Category][]models.NGORecord
	NGOOrder   []Category
	GeneralAid []models.NGORecord

	Steps        map[Category][]string
	StepsOrder   []Category
	DefaultSteps Category

	Jurisdictions       map[string]string
	DefaultJurisdiction string
	FIRKeywords         []string

	DirectoryCategories []DirectoryCategory
	LocationAliases     map[string][]string
}

// DirectoryCategory is a user-facing NGO directory filter
type DirectoryCategory struct {
	Name    string     `yaml:"name"`
	Buckets []Category `yaml:"buckets"`
}

// bucketTable is a YAML mapping from bucket to entries that remembers the
// order the buckets were written in
type bucketTable[T any] struct {
	Order   []Category
	Entries map[Category]T
}

func (b *bucketTable[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: buckets must be a mapping", node.Line)
	}
	b.Order = nil
	b.Entries = make(map[Category]T, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := Category(node.Content[i].Value)
		if _, dup := b.Entries[key]; dup {
			return fmt.Errorf("line %d: duplicate bucket %q", node.Content[i].Line, key)
		}
		var v T
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		b.Order = append(b.Order, key)
		b.Entries[key] = v
	}
	return nil
}

type lawsFile struct {
	Buckets  bucketTable[[]models.LawReference] `yaml:"buckets"`
	Fallback []models.LawReference              `yaml:"fallback"`
}

type ngosFile struct {
	Buckets bucketTable[[]models.NGORecord] `yaml:"buckets"`
	General []models.NGORecord              `yaml:"general"`
}

type stepsFile struct {
	Default Category              `yaml:"default"`
	Buckets bucketTable[[]string] `yaml:"buckets"`
}

type courtsFile struct {
	Default       string            `yaml:"default"`
	Jurisdictions map[string]string `yaml:"jurisdictions"`
	FIRKeywords   []string          `yaml:"fir_keywords"`
}

type directoryFile struct {
	Categories []DirectoryCategory `yaml:"categories"`
	Locations  map[string][]string `yaml:"locations"`
}

// LoadTables parses the embedded reference tables
func LoadTables() (*Tables, error) {
	var (
		laws   lawsFile
		ngos   ngosFile
		steps  stepsFile
		courts courtsFile
		dir    directoryFile
	)
	for name, dst := range map[string]interface{}{
		"laws.yaml":       &laws,
		"ngos.yaml":       &ngos,
		"next_steps.yaml": &steps,
		"courts.yaml":     &courts,
		"directory.yaml":  &dir,
	} {
		if err := decodeTable(name, dst); err != nil {
			return nil, err
		}
	}

	t := &Tables{
		Laws:                laws.Buckets.Entries,
		LawOrder:            laws.Buckets.Order,
		FallbackLaws:        laws.Fallback,
		NGOs:                ngos.Buckets.Entries,
		NGOOrder:            ngos.Buckets.Order,
		GeneralAid:          ngos.General,
		Steps:               steps.Buckets.Entries,
		StepsOrder:          steps.Buckets.Order,
		DefaultSteps:        steps.Default,
		Jurisdictions:       make(map[string]string, len(courts.Jurisdictions)),
		DefaultJurisdiction: courts.Default,
		DirectoryCategories: dir.Categories,
		LocationAliases:     dir.Locations,
	}
	for k, v := range courts.Jurisdictions {
		t.Jurisdictions[normalize(k)] = v
	}
	for _, kw := range courts.FIRKeywords {
		t.FIRKeywords = append(t.FIRKeywords, strings.ToLower(kw))
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustLoadTables is LoadTables for callers that cannot continue without the tables
func MustLoadTables() *Tables {
	t, err := LoadTables()
	if err != nil {
		panic(err)
	}
	return t
}

func decodeTable(name string, dst interface{}) error {
	raw, err := tableFS.ReadFile("tables/" + name)
	if err != nil {
		return fmt.Errorf("read table %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse table %s: %w", name, err)
	}
	return nil
}

func (t *Tables) validate() error {
	for c := range t.Laws {
		if !c.Valid() {
			return fmt.Errorf("laws table: unknown bucket %q", c)
		}
	}
	for c := range t.NGOs {
		if !c.Valid() {
			return fmt.Errorf("ngos table: unknown bucket %q", c)
		}
	}
	for c := range t.Steps {
		if !c.Valid() {
			return fmt.Errorf("next steps table: unknown bucket %q", c)
		}
	}
	if _, ok := t.Steps[t.DefaultSteps]; !ok {
		return fmt.Errorf("next steps table: default bucket %q has no steps", t.DefaultSteps)
	}
	for _, dc := range t.DirectoryCategories {
		for _, c := range dc.Buckets {
			if !c.Valid() {
				return fmt.Errorf("directory category %q: unknown bucket %q", dc.Name, c)
			}
		}
	}
	if len(t.FallbackLaws) == 0 {
		return fmt.Errorf("laws table: fallback is empty")
	}
	if t.DefaultJurisdiction == "" {
		return fmt.Errorf("courts table: default jurisdiction is empty")
	}
	return nil
}
