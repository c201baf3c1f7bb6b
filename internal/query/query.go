// Package query parses list-endpoint query strings into a store-neutral description of
// search, filters, sorting, pagination and field projection.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"garden/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Reserved query keys; every other key is treated as a field filter.
const (
	keySearchTerm = "searchTerm"
	keySort       = "sort"
	keyPage       = "page"
	keyLimit      = "limit"
	keyFields     = "fields"
)

// Kind is the value type of a filterable field.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

// Field maps an API field name onto its relational column and document key.
type Field struct {
	Name       string
	Column     string
	DocKey     string
	Kind       Kind
	Searchable bool
	Filterable bool
	Sortable   bool
	Selectable bool
}

// Schema whitelists the fields a list endpoint exposes.
type Schema struct {
	Fields      []Field
	DefaultSort string
	// Always lists fields kept in every projection.
	Always []string
}

func (s Schema) lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Searchable returns the fields matched by the search term.
func (s Schema) Searchable() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Searchable {
			out = append(out, f)
		}
	}
	return out
}

// Filter is an equality constraint on a single field.
type Filter struct {
	Field Field
	Value any
}

// SortField orders results by one field.
type SortField struct {
	Field Field
	Desc  bool
}

// Params is the parsed form of a list request.
type Params struct {
	SearchTerm string
	Search     []Field
	Filters    []Filter
	Sort       []SortField
	Page       int
	Limit      int
	// Fields is empty when the full document is requested.
	Fields []Field
}

// Offset is the number of records skipped before the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes the page returned to the client.
type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

// NewMeta computes pagination metadata for total matching records.
func NewMeta(p Params, total int64) Meta {
	totalPage := 0
	if p.Limit > 0 {
		totalPage = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPage: totalPage}
}

// Parse validates raw query values against schema. Unknown or malformed keys produce a
// validation error listing every offending key.
func Parse(raw map[string]string, schema Schema) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	var sources []models.ErrorSource
	fail := func(path, format string, args ...any) {
		sources = append(sources, models.ErrorSource{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	// Map iteration order is random; sort keys so error sources come out stable.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sortExpr := schema.DefaultSort
	for _, key := range keys {
		value := strings.TrimSpace(raw[key])
		switch key {
		case keySearchTerm:
			if value != "" {
				p.SearchTerm = value
				p.Search = schema.Searchable()
			}
		case keySort:
			if value != "" {
				sortExpr = value
			}
		case keyPage:
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				fail(key, "page must be a positive integer")
				continue
			}
			p.Page = n
		case keyLimit:
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				fail(key, "limit must be a positive integer")
				continue
			}
			if n > MaxLimit {
				n = MaxLimit
			}
			p.Limit = n
		case keyFields:
			fields, bad := parseFields(value, schema)
			for _, name := range bad {
				fail(key, "%s is not a selectable field", name)
			}
			p.Fields = fields
		default:
			f, ok := schema.lookup(key)
			if !ok || !f.Filterable {
				fail(key, "%s is not a filterable field", key)
				continue
			}
			v, err := convert(f.Kind, value)
			if err != nil {
				fail(key, "%s has an invalid value", key)
				continue
			}
			p.Filters = append(p.Filters, Filter{Field: f, Value: v})
		}
	}

	sorts, bad := parseSort(sortExpr, schema)
	for _, name := range bad {
		fail(keySort, "%s is not a sortable field", name)
	}
	p.Sort = sorts

	if len(sources) > 0 {
		return Params{}, models.NewValidationError("Validation Error", sources...)
	}
	return p, nil
}

func parseSort(expr string, schema Schema) ([]SortField, []string) {
	var out []SortField
	var bad []string
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		f, ok := schema.lookup(name)
		if !ok || !f.Sortable {
			bad = append(bad, name)
			continue
		}
		out = append(out, SortField{Field: f, Desc: desc})
	}
	return out, bad
}

func parseFields(expr string, schema Schema) ([]Field, []string) {
	var out []Field
	var bad []string
	seen := map[string]bool{}
	add := func(f Field) {
		if !seen[f.Name] {
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	for _, name := range strings.Split(expr, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, ok := schema.lookup(name)
		if !ok || !f.Selectable {
			bad = append(bad, name)
			continue
		}
		add(f)
	}
	if len(out) == 0 {
		return nil, bad
	}
	for _, name := range schema.Always {
		if f, ok := schema.lookup(name); ok {
			add(f)
		}
	}
	return out, bad
}

func convert(kind Kind, value string) (any, error) {
	switch kind {
	case KindBool:
		return strconv.ParseBool(value)
	case KindInt:
		return strconv.Atoi(value)
	default:
		return value, nil
	}
}
