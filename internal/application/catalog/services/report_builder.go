package services

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// NamedRef is an id with its raw catalog name
type NamedRef struct {
	ID   catalog.ID `json:"id"`
	Name string     `json:"name"`
}

// InputRef is one input of a producer
type InputRef struct {
	ID    catalog.ID `json:"id"`
	Name  string     `json:"name"`
	Count int        `json:"count"`
}

// Requirement is one producer (construction or recipe) of a report entry
type Requirement struct {
	ID        catalog.ID  `json:"id"`
	Name      string      `json:"name"`
	Inputs    []InputRef  `json:"inputs"`
	PlaceOver *catalog.ID `json:"placeOver,omitempty"`
}

// ReportEntry describes how one entity is produced
type ReportEntry struct {
	ID           catalog.ID    `json:"-"`
	Name         string        `json:"name"`
	Requirements []Requirement `json:"requirements"`
	Recipes      []NamedRef    `json:"recipes,omitempty"`
}

// Report is a set of entries ordered by ascending id. It encodes as a JSON
// object keyed by the decimal id.
type Report struct {
	Entries []ReportEntry
}

// Len returns the number of entries
func (r *Report) Len() int {
	return len(r.Entries)
}

// Lookup returns the entry for id
func (r *Report) Lookup(id catalog.ID) (ReportEntry, bool) {
	for _, e := range r.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return ReportEntry{}, false
}

// MarshalJSON keeps the numeric key order that encoding/json would sort lexically
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.FormatInt(int64(e.ID), 10)))
		buf.WriteByte(':')
		body, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Reports are the three catalog dependency reports
type Reports struct {
	Buildings *Report
	Combat    *Report
	Resources *Report
}

// producer is the shape shared by constructions and recipes
type producer struct {
	id        catalog.ID
	inputs    catalog.Quantities
	outputs   []catalog.ID
	placeOver catalog.ID
}

// ReportBuilder derives per-entity dependency reports from a catalog.
// Ignored ids are left out of every report.
type ReportBuilder struct {
	cat *catalog.Catalog
}

// NewReportBuilder creates a report builder
func NewReportBuilder(cat *catalog.Catalog) *ReportBuilder {
	return &ReportBuilder{cat: cat}
}

// BuildAll builds the buildings, combat and resources reports
func (b *ReportBuilder) BuildAll() Reports {
	return Reports{
		Buildings: b.Buildings(),
		Combat:    b.Combat(),
		Resources: b.Resources(),
	}
}

// Buildings reports units produced by constructions
func (b *ReportBuilder) Buildings() *Report {
	return b.build(catalog.SortedKeys(b.cat.Units()), b.constructionProducers())
}

// Combat reports units produced by recipes
func (b *ReportBuilder) Combat() *Report {
	return b.build(catalog.SortedKeys(b.cat.Units()), b.recipeProducers())
}

// Resources reports resources produced by recipes
func (b *ReportBuilder) Resources() *Report {
	return b.build(catalog.SortedKeys(b.cat.Resources()), b.recipeProducers())
}

func (b *ReportBuilder) constructionProducers() []producer {
	constructions := b.cat.Constructions()
	out := make([]producer, 0, len(constructions))
	for _, id := range catalog.SortedKeys(constructions) {
		c := constructions[id]
		var outputs []catalog.ID
		if c.Output.Valid() {
			outputs = []catalog.ID{c.Output}
		}
		out = append(out, producer{id: id, inputs: c.Inputs, outputs: outputs, placeOver: c.PlaceOver})
	}
	return out
}

func (b *ReportBuilder) recipeProducers() []producer {
	recipes := b.cat.Recipes()
	out := make([]producer, 0, len(recipes))
	for _, id := range catalog.SortedKeys(recipes) {
		r := recipes[id]
		out = append(out, producer{id: id, inputs: r.Inputs, outputs: r.Outputs, placeOver: r.PlaceOver})
	}
	return out
}

// build lists every candidate entity produced by at least one producer
func (b *ReportBuilder) build(candidates []catalog.ID, producers []producer) *Report {
	producedBy := make(map[catalog.ID][]producer)
	for _, p := range producers {
		if b.cat.IsIgnored(p.id) {
			continue
		}
		for _, out := range p.outputs {
			producedBy[out] = append(producedBy[out], p)
		}
	}

	report := &Report{Entries: []ReportEntry{}}
	for _, id := range candidates {
		if b.cat.IsIgnored(id) {
			continue
		}
		ps, ok := producedBy[id]
		if !ok {
			continue
		}
		entry := ReportEntry{
			ID:           id,
			Name:         b.name(id),
			Requirements: make([]Requirement, 0, len(ps)),
		}
		for _, p := range ps {
			req := Requirement{
				ID:     p.id,
				Name:   b.name(p.id),
				Inputs: b.inputs(p.inputs),
			}
			if p.placeOver.Valid() {
				placeOver := p.placeOver
				req.PlaceOver = &placeOver
			}
			entry.Requirements = append(entry.Requirements, req)
		}
		if unit, ok := b.cat.Units()[id]; ok && len(unit.Recipes) > 0 {
			entry.Recipes = b.recipes(unit.Recipes)
		}
		report.Entries = append(report.Entries, entry)
	}
	return report
}

func (b *ReportBuilder) inputs(q catalog.Quantities) []InputRef {
	out := make([]InputRef, 0, len(q))
	for _, id := range q.SortedIDs() {
		if b.cat.IsIgnored(id) {
			continue
		}
		out = append(out, InputRef{ID: id, Name: b.name(id), Count: q[id]})
	}
	return out
}

func (b *ReportBuilder) recipes(ids []catalog.ID) []NamedRef {
	seen := make(map[catalog.ID]struct{}, len(ids))
	out := make([]NamedRef, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, NamedRef{ID: id, Name: b.name(id)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// name is the raw catalog name, or the decimal id when unnamed
func (b *ReportBuilder) name(id catalog.ID) string {
	if e, ok := b.cat.Entry(id); ok && e.Name != "" {
		return e.Name
	}
	return id.String()
}

