// Package attribute resolves the authoritative genre and country for each
// canonical show from multiple partially-overlapping sources: platform-native
// fields, externally researched tables and earlier classification passes.
package attribute

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/elonfeng/podrank/pkg/normalize"
)

// Field is the attribute being resolved.
type Field string

const (
	FieldGenre   Field = "genre"
	FieldCountry Field = "country"
)

// Source is one provenance-tagged set of claims about shows. Lower Priority
// wins; sources with equal priority are consulted in the order they were
// added.
type Source struct {
	Name     string
	Field    Field
	Priority int
	Values   map[string]string
}

// Resolver merges an ordered list of attribute sources into one answer per
// (key, field). It never mutates its sources and performs no I/O at resolve
// time.
type Resolver struct {
	genre   []Source
	country []Source
}

// NewResolver builds a resolver from the given sources, ordered by priority.
func NewResolver(sources []Source) *Resolver {
	r := &Resolver{}
	for _, s := range sources {
		switch s.Field {
		case FieldGenre:
			r.genre = append(r.genre, s)
		case FieldCountry:
			r.country = append(r.country, s)
		}
	}
	sort.SliceStable(r.genre, func(i, j int) bool { return r.genre[i].Priority < r.genre[j].Priority })
	sort.SliceStable(r.country, func(i, j int) bool { return r.country[i].Priority < r.country[j].Priority })
	return r
}

// Genre resolves the show's genre, folded onto the standard taxonomy.
// The first source in priority order with a non-empty value wins; no value
// at all resolves to GenreOther.
func (r *Resolver) Genre(key string) string {
	for _, s := range r.genre {
		if v := strings.TrimSpace(s.Values[key]); v != "" {
			return MapGenre(v)
		}
	}
	return GenreOther
}

// Country resolves the show's country of origin, defaulting to
// CountryUnknown.
func (r *Resolver) Country(key string) string {
	for _, s := range r.country {
		if v := strings.TrimSpace(s.Values[key]); v != "" {
			return v
		}
	}
	return CountryUnknown
}

// Resolve answers a single (key, field) lookup. Unknown fields resolve to
// the field's sentinel the same way missing values do.
func (r *Resolver) Resolve(key string, field Field) string {
	switch field {
	case FieldGenre:
		return r.Genre(key)
	case FieldCountry:
		return r.Country(key)
	}
	return ""
}

// ReadTable parses a flat attribute table: CSV rows of
// (normalized_name, value, note), note optional. Keys are re-normalized with
// the shared normalizer so a table written against a different variant still
// matches platform records. Rows with a blank key or value are skipped.
func ReadTable(rd io.Reader, name string, field Field, priority int, norm *normalize.Normalizer) (Source, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	values := make(map[string]string)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Source{}, fmt.Errorf("table %s line %d: %w", name, line, err)
		}
		if len(rec) < 2 {
			continue
		}
		if line == 1 && isTableHeader(rec[0]) {
			continue
		}
		key := norm.Normalize(rec[0])
		value := strings.TrimSpace(rec[1])
		if key == "" || value == "" {
			continue
		}
		values[key] = value
	}

	return Source{Name: name, Field: field, Priority: priority, Values: values}, nil
}

func isTableHeader(first string) bool {
	switch strings.ToLower(strings.TrimSpace(first)) {
	case "normalized_name", "show_name", "name":
		return true
	}
	return false
}

// ReadTableFile is ReadTable over a file path.
func ReadTableFile(path, name string, field Field, priority int, norm *normalize.Normalizer) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()
	return ReadTable(f, name, field, priority, norm)
}
