package interaction

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/vcscsvcscs/medsafety/pkg/model"
	"gopkg.in/yaml.v3"
)

//go:embed interactions.yaml
var defaultTable []byte

// KnowledgeBase is a static, symmetric relation over pairs of medicine names
type KnowledgeBase struct {
	pairs map[pairKey]model.InteractionRecord
}

type pairKey struct {
	a, b string
}

type yamlTable struct {
	Version      int                       `yaml:"version"`
	Interactions []model.InteractionRecord `yaml:"interactions"`
}

var (
	defaultOnce sync.Once
	defaultKB   *KnowledgeBase
)

// Default returns the embedded reference table
func Default() *KnowledgeBase {
	defaultOnce.Do(func() {
		kb, err := Load(bytes.NewReader(defaultTable))
		if err != nil {
			panic(fmt.Sprintf("embedded interaction table is invalid: %v", err))
		}
		defaultKB = kb
	})
	return defaultKB
}

// LoadFile reads an interaction table from a YAML file
func LoadFile(path string) (*KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open interaction table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a YAML interaction table
func Load(r io.Reader) (*KnowledgeBase, error) {
	var table yamlTable
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode interaction table: %w", err)
	}
	return New(table.Interactions)
}

// New builds a knowledge base from records, rejecting self-pairs, unknown
// severities and pairs listed twice
func New(records []model.InteractionRecord) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{pairs: make(map[pairKey]model.InteractionRecord, len(records))}
	for i, rec := range records {
		rec.DrugA = strings.TrimSpace(rec.DrugA)
		rec.DrugB = strings.TrimSpace(rec.DrugB)
		if rec.DrugA == "" || rec.DrugB == "" {
			return nil, fmt.Errorf("interaction %d: both drug names are required", i)
		}
		key, ok := keyFor(rec.DrugA, rec.DrugB)
		if !ok {
			return nil, fmt.Errorf("interaction %d: %s cannot interact with itself", i, rec.DrugA)
		}
		if !rec.Severity.Valid() {
			return nil, fmt.Errorf("interaction %d: invalid severity %q", i, rec.Severity)
		}
		if _, exists := kb.pairs[key]; exists {
			return nil, fmt.Errorf("interaction %d: duplicate pair %s + %s", i, rec.DrugA, rec.DrugB)
		}
		kb.pairs[key] = rec
	}
	return kb, nil
}

// Lookup returns the known interaction between two medicines. Names are
// trimmed and compared case-insensitively, argument order does not matter.
func (kb *KnowledgeBase) Lookup(nameA, nameB string) (model.InteractionRecord, bool) {
	if kb == nil {
		return model.InteractionRecord{}, false
	}
	key, ok := keyFor(nameA, nameB)
	if !ok {
		return model.InteractionRecord{}, false
	}
	rec, found := kb.pairs[key]
	return rec, found
}

// Len returns the number of known pairs
func (kb *KnowledgeBase) Len() int {
	return len(kb.pairs)
}

// Pairs returns every known interaction, sorted by severity then names
func (kb *KnowledgeBase) Pairs() []model.InteractionRecord {
	out := make([]model.InteractionRecord, 0, len(kb.pairs))
	for _, rec := range kb.pairs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() > out[j].Severity.Rank()
		}
		ki, _ := keyFor(out[i].DrugA, out[i].DrugB)
		kj, _ := keyFor(out[j].DrugA, out[j].DrugB)
		if ki.a != kj.a {
			return ki.a < kj.a
		}
		return ki.b < kj.b
	})
	return out
}

// keyFor builds the order-independent key; ok is false for empty or equal names
func keyFor(nameA, nameB string) (pairKey, bool) {
	a := normalizeName(nameA)
	b := normalizeName(nameB)
	if a == "" || b == "" || a == b {
		return pairKey{}, false
	}
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}, true
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
