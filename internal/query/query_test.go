package query_test

import (
	"errors"
	"net/http"
	"testing"

	"garden/internal/models"
	"garden/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	p, err := query.Parse(map[string]string{}, query.PostSchema)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())
	assert.Empty(t, p.SearchTerm)
	assert.Empty(t, p.Filters)
	assert.Empty(t, p.Fields)
	require.Len(t, p.Sort, 1)
	assert.Equal(t, "created_at", p.Sort[0].Field.Column)
	assert.True(t, p.Sort[0].Desc)
}

func TestParse_FullQuery(t *testing.T) {
	raw := map[string]string{
		"searchTerm": "tomato",
		"category":   "Vegetables",
		"isPremium":  "true",
		"sort":       "title,-upVoteCount",
		"page":       "3",
		"limit":      "5",
		"fields":     "title,category",
	}

	p, err := query.Parse(raw, query.PostSchema)
	require.NoError(t, err)

	assert.Equal(t, "tomato", p.SearchTerm)
	var searched []string
	for _, f := range p.Search {
		searched = append(searched, f.Name)
	}
	assert.ElementsMatch(t, []string{"title", "content", "category"}, searched)

	require.Len(t, p.Filters, 2)
	values := map[string]any{}
	for _, f := range p.Filters {
		values[f.Field.Name] = f.Value
	}
	assert.Equal(t, "Vegetables", values["category"])
	assert.Equal(t, true, values["isPremium"])

	require.Len(t, p.Sort, 2)
	assert.Equal(t, "title", p.Sort[0].Field.Name)
	assert.False(t, p.Sort[0].Desc)
	assert.Equal(t, "upVoteCount", p.Sort[1].Field.Name)
	assert.True(t, p.Sort[1].Desc)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 10, p.Offset())

	var selected []string
	for _, f := range p.Fields {
		selected = append(selected, f.Name)
	}
	assert.Equal(t, []string{"title", "category", "id", "authorId"}, selected)
}

func TestParse_LimitIsCapped(t *testing.T) {
	p, err := query.Parse(map[string]string{"limit": "1000"}, query.PostSchema)
	require.NoError(t, err)
	assert.Equal(t, query.MaxLimit, p.Limit)
}

func TestParse_RejectsUnknownAndMalformedKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		path string
	}{
		{"unknown filter", map[string]string{"password": "x"}, "password"},
		{"non filterable field", map[string]string{"content": "x"}, "content"},
		{"bad bool", map[string]string{"isPremium": "maybe"}, "isPremium"},
		{"bad page", map[string]string{"page": "0"}, "page"},
		{"bad limit", map[string]string{"limit": "ten"}, "limit"},
		{"unsortable field", map[string]string{"sort": "-content"}, "sort"},
		{"unselectable field", map[string]string{"fields": "password"}, "fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := query.Parse(tt.raw, query.PostSchema)
			require.Error(t, err)

			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
			require.NotEmpty(t, appErr.Sources)
			assert.Equal(t, tt.path, appErr.Sources[0].Path)
		})
	}
}

func TestParse_UserSchemaNeverSelectsPassword(t *testing.T) {
	_, err := query.Parse(map[string]string{"fields": "name,password"}, query.UserSchema)
	assert.Error(t, err)

	p, err := query.Parse(map[string]string{"fields": "name"}, query.UserSchema)
	require.NoError(t, err)
	require.Len(t, p.Fields, 2)
	assert.Equal(t, "id", p.Fields[1].Name)
}

func TestNewMeta(t *testing.T) {
	p := query.Params{Page: 2, Limit: 10}

	meta := query.NewMeta(p, 25)
	assert.Equal(t, query.Meta{Page: 2, Limit: 10, Total: 25, TotalPage: 3}, meta)

	assert.Equal(t, 0, query.NewMeta(p, 0).TotalPage)
	assert.Equal(t, 1, query.NewMeta(p, 10).TotalPage)
}
